package usecases

import (
	"time"

	"github.com/google/uuid"

	"github.com/spockhart/spockhart/internal/app/dto"
)

// Session is the state of one user's walk through a flow.
// Only SessionController mutates it.
type Session struct {
	id        string
	entry     string
	currentID string
	path      []string
	startedAt time.Time
}

func newSession(entry string) *Session {
	s := &Session{
		id:        uuid.New().String(),
		entry:     entry,
		startedAt: time.Now(),
	}
	s.reset()
	return s
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// CurrentID returns the node currently displayed
func (s *Session) CurrentID() string { return s.currentID }

// Path returns a copy of the visited node ids
func (s *Session) Path() []string {
	return append([]string(nil), s.path...)
}

func (s *Session) advance(nodeID string) {
	s.currentID = nodeID
	s.path = append(s.path, nodeID)
}

// reset returns the session to its creation state; id and start time are kept.
func (s *Session) reset() {
	s.currentID = s.entry
	s.path = []string{s.entry}
}

func (s *Session) snapshot() dto.SessionSnapshot {
	return dto.SessionSnapshot{
		ID:        s.id,
		CurrentID: s.currentID,
		Path:      s.Path(),
		StartedAt: s.startedAt,
	}
}
