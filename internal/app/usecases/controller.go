package usecases

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spockhart/spockhart/internal/app/dto"
	"github.com/spockhart/spockhart/internal/core/flow"
	"github.com/spockhart/spockhart/internal/core/reflection"
	"github.com/spockhart/spockhart/internal/infrastructure/metrics"
)

// DefaultSnapshotName is the file name exports are downloaded under
const DefaultSnapshotName = "spockhart-snapshot.png"

// Option configures a SessionController
type Option func(*SessionController)

// WithCollaborators replaces every collaborator at once
func WithCollaborators(c Collaborators) Option {
	return func(sc *SessionController) { sc.collab = c }
}

// WithCanvas wires one whiteboard implementation as annotator, clearer,
// camera and exporter.
func WithCanvas(c Canvas) Option {
	return func(sc *SessionController) {
		sc.collab.Annotator = c
		sc.collab.Clearer = c
		sc.collab.Camera = c
		sc.collab.Exporter = c
	}
}

// WithDownloader sets where exported snapshots go
func WithDownloader(d Downloader) Option {
	return func(sc *SessionController) { sc.collab.Downloader = d }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(sc *SessionController) {
		if l != nil {
			sc.logger = l
		}
	}
}

// WithSnapshotName overrides DefaultSnapshotName
func WithSnapshotName(name string) Option {
	return func(sc *SessionController) {
		if name != "" {
			sc.snapshotName = name
		}
	}
}

// SessionController drives one Session through a flow graph and fires the
// whiteboard side effects for each transition.
//
// Session state is always updated before any collaborator runs, and
// collaborator failures are logged rather than returned: a transition never
// fails because the whiteboard did. Actions are serialized, so a second
// action waits until the previous one's collaborator calls return.
type SessionController struct {
	graph        *flow.Graph
	reflections  *reflection.Table
	collab       Collaborators
	logger       *slog.Logger
	snapshotName string

	mu      sync.Mutex
	session *Session
}

// NewSessionController creates a controller with a fresh session at the
// graph's entry node.
func NewSessionController(g *flow.Graph, r *reflection.Table, opts ...Option) *SessionController {
	sc := &SessionController{
		graph:        g,
		reflections:  r,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		snapshotName: DefaultSnapshotName,
		session:      newSession(g.Entry()),
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.logger = sc.logger.With("session_id", sc.session.ID())
	return sc
}

// Graph returns the flow the controller walks
func (sc *SessionController) Graph() *flow.Graph { return sc.graph }

// Session returns a snapshot of the current session state
func (sc *SessionController) Session() dto.SessionSnapshot {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.session.snapshot()
}

// Current returns the node currently displayed
func (sc *SessionController) Current() flow.Node {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.current()
}

// Advance applies a choice offered by the current node. Restart and export
// choices are routed to Restart and Export; an advance choice moves the
// session and annotates the whiteboard.
func (sc *SessionController) Advance(ctx context.Context, choice flow.Choice) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	node := sc.current()
	if !node.Has(choice) {
		return fmt.Errorf("%w: %q on %s", dto.ErrChoiceUnavailable, choice.Label, node.ID)
	}
	sc.apply(ctx, choice)
	return nil
}

// Select applies the current node's choice at index
func (sc *SessionController) Select(ctx context.Context, index int) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	node := sc.current()
	if index < 0 || index >= len(node.Choices) {
		return fmt.Errorf("%w: %d of %d on %s", dto.ErrChoiceOutOfRange, index, len(node.Choices), node.ID)
	}
	sc.apply(ctx, node.Choices[index])
	return nil
}

// Choose applies the current node's choice matching key by label, next node
// id, or action name.
func (sc *SessionController) Choose(ctx context.Context, key string) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	node := sc.current()
	choice, ok := node.Find(key)
	if !ok {
		return fmt.Errorf("%w: %q on %s", dto.ErrUnknownChoice, key, node.ID)
	}
	sc.apply(ctx, choice)
	return nil
}

// Restart resets the session to the entry node and clears the whiteboard.
// Calling it again from the entry state changes nothing.
func (sc *SessionController) Restart(ctx context.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.restart(ctx)
}

// Export renders the whiteboard and downloads it under the snapshot name.
// The session is not touched. Missing exporter or downloader makes it a no-op.
func (sc *SessionController) Export(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.export(ctx)
}

// Reflection returns the reflection text once the session sits on the
// reveal node.
func (sc *SessionController) Reflection() (string, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.session.CurrentID() != sc.graph.Reveal() {
		return "", false
	}
	return sc.deriveReflection(sc.session.path), true
}

// DeriveReflection maps a path to its reflection text; see reflection.Table.Derive.
func (sc *SessionController) DeriveReflection(path []string) string {
	return sc.deriveReflection(path)
}

// View renders the current step for a host
func (sc *SessionController) View() dto.StepView {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	node := sc.current()
	view := dto.StepView{
		SessionID: sc.session.ID(),
		NodeID:    node.ID,
		Prompt:    node.Prompt,
		Note:      node.Note,
		Choices:   make([]dto.ChoiceView, 0, len(node.Choices)),
		Path:      sc.session.Path(),
	}
	for i, c := range node.Choices {
		view.Choices = append(view.Choices, dto.ChoiceView{Index: i, Label: c.Label, Action: c.Action, Next: c.Next})
	}
	if node.ID == sc.graph.Reveal() {
		view.AtReveal = true
		view.Reflection = sc.deriveReflection(sc.session.path)
	}
	return view
}

func (sc *SessionController) current() flow.Node {
	node, err := sc.graph.Lookup(sc.session.CurrentID())
	if err != nil {
		// The session only ever holds ids taken from validated choices.
		panic(fmt.Sprintf("usecases: session left the flow: %v", err))
	}
	return node
}

func (sc *SessionController) deriveReflection(path []string) string {
	return sc.reflections.Derive(path, sc.graph.Reveal())
}

func (sc *SessionController) apply(ctx context.Context, choice flow.Choice) {
	switch choice.Action {
	case flow.ActionRestart:
		sc.restart(ctx)
	case flow.ActionExport:
		_ = sc.export(ctx)
	case flow.ActionAdvance:
		sc.advance(ctx, choice.Next)
	}
}

func (sc *SessionController) advance(ctx context.Context, nodeID string) {
	sc.session.advance(nodeID)
	metrics.IncAdvance(nodeID)
	sc.logger.Debug("advanced", "node_id", nodeID, "depth", len(sc.session.path)-1)

	if sc.collab.Annotator != nil {
		sc.observe("annotator", sc.collab.Annotator.Annotate(ctx, sc.session.Path(), nodeID))
	}
	sc.fitView(ctx)
}

func (sc *SessionController) restart(ctx context.Context) {
	sc.session.reset()
	metrics.IncRestarts()
	sc.logger.Debug("restarted", "node_id", sc.session.CurrentID())

	if sc.collab.Clearer != nil {
		sc.observe("clearer", sc.collab.Clearer.Clear(ctx))
	}
	sc.fitView(ctx)
}

func (sc *SessionController) fitView(ctx context.Context) {
	if sc.collab.Camera != nil {
		sc.observe("camera", sc.collab.Camera.FitView(ctx))
	}
}

func (sc *SessionController) export(ctx context.Context) error {
	if sc.collab.Exporter == nil || sc.collab.Downloader == nil {
		sc.logger.Debug("export skipped, no exporter or downloader")
		return nil
	}
	data, err := sc.collab.Exporter.ExportImage(ctx)
	if err != nil {
		sc.observe("exporter", err)
		return fmt.Errorf("export snapshot: %w", err)
	}
	if err := sc.collab.Downloader.Download(ctx, sc.snapshotName, data); err != nil {
		sc.observe("downloader", err)
		return fmt.Errorf("download snapshot: %w", err)
	}
	metrics.IncExports()
	sc.logger.Info("snapshot exported", "name", sc.snapshotName, "bytes", len(data))
	return nil
}

func (sc *SessionController) observe(collaborator string, err error) {
	if err == nil {
		return
	}
	metrics.IncCollaboratorFailure(collaborator)
	sc.logger.Warn("collaborator failed", "collaborator", collaborator, "error", err)
}
