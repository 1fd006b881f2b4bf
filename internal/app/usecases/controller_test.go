package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spockhart/spockhart/internal/app/dto"
	"github.com/spockhart/spockhart/internal/content"
	"github.com/spockhart/spockhart/internal/core/flow"
)

// fakeCanvas records every collaborator call in order.
type fakeCanvas struct {
	mu        sync.Mutex
	calls     []string
	annotated [][]string
	failWith  error
}

func (f *fakeCanvas) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakeCanvas) Annotate(ctx context.Context, path []string, nodeID string) error {
	f.mu.Lock()
	f.annotated = append(f.annotated, path)
	f.mu.Unlock()
	return f.record("annotate:" + nodeID)
}

func (f *fakeCanvas) Clear(ctx context.Context) error   { return f.record("clear") }
func (f *fakeCanvas) FitView(ctx context.Context) error { return f.record("fit") }

func (f *fakeCanvas) ExportImage(ctx context.Context) ([]byte, error) {
	if err := f.record("export"); err != nil {
		return nil, err
	}
	return []byte("png"), nil
}

func (f *fakeCanvas) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeDownloader struct {
	names []string
	data  [][]byte
	err   error
}

func (f *fakeDownloader) Download(ctx context.Context, name string, data []byte) error {
	f.names = append(f.names, name)
	f.data = append(f.data, data)
	return f.err
}

func newTestController(t *testing.T) (*SessionController, *fakeCanvas, *fakeDownloader) {
	t.Helper()
	canvas := &fakeCanvas{}
	dl := &fakeDownloader{}
	sc := NewSessionController(content.Flow(), content.Reflections(), WithCanvas(canvas), WithDownloader(dl))
	return sc, canvas, dl
}

func walk(t *testing.T, sc *SessionController, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, sc.Choose(context.Background(), k))
	}
}

func TestSessionController_InitialState(t *testing.T) {
	sc, canvas, _ := newTestController(t)

	s := sc.Session()
	assert.Equal(t, "start", s.CurrentID)
	assert.Equal(t, []string{"start"}, s.Path)
	assert.NotEmpty(t, s.ID)
	assert.Empty(t, canvas.Calls())
}

func TestSessionController_AdvanceToReveal(t *testing.T) {
	sc, canvas, _ := newTestController(t)

	walk(t, sc, "slow", "handoffs", "reveal")

	s := sc.Session()
	assert.Equal(t, []string{"start", "slow", "handoffs", "reveal"}, s.Path)
	assert.Equal(t, "reveal", s.CurrentID)

	text, ok := sc.Reflection()
	require.True(t, ok)
	assert.Contains(t, text, "handoffs")
	assert.Contains(t, text, "ownership")
	assert.Contains(t, text, "interfaces")

	assert.Equal(t, []string{
		"annotate:slow", "fit",
		"annotate:handoffs", "fit",
		"annotate:reveal", "fit",
	}, canvas.Calls())
	require.Len(t, canvas.annotated, 3)
	assert.Equal(t, []string{"start", "slow"}, canvas.annotated[0])
	assert.Equal(t, []string{"start", "slow", "handoffs", "reveal"}, canvas.annotated[2])
}

func TestSessionController_ReflectionPerCategory(t *testing.T) {
	routes := map[string][]string{
		"handoffs":     {"slow", "handoffs"},
		"approvals":    {"slow", "approvals"},
		"rework":       {"slow", "rework"},
		"manual":       {"errors", "manual"},
		"inconsistent": {"errors", "inconsistent"},
		"ramp":         {"growth", "ramp"},
		"bottleneck":   {"ownership", "bottleneck"},
	}
	require.Len(t, routes, len(content.Categories))

	for category, route := range routes {
		t.Run(category, func(t *testing.T) {
			sc, _, _ := newTestController(t)
			walk(t, sc, append(route, "reveal")...)

			want, ok := content.Reflections().Text(category)
			require.True(t, ok)
			got, ok := sc.Reflection()
			require.True(t, ok)
			assert.Equal(t, want, got)
			assert.NotEqual(t, content.Fallback, got)
		})
	}
}

func TestSessionController_ReflectionOnlyAtReveal(t *testing.T) {
	sc, _, _ := newTestController(t)
	walk(t, sc, "ownership", "bottleneck")

	_, ok := sc.Reflection()
	assert.False(t, ok)
	assert.Empty(t, sc.View().Reflection)
	assert.False(t, sc.View().AtReveal)
}

func TestSessionController_ExportDoesNotMovePath(t *testing.T) {
	sc, canvas, dl := newTestController(t)
	walk(t, sc, "ownership", "bottleneck", "reveal")

	before := len(canvas.Calls())
	require.NoError(t, sc.Choose(context.Background(), "Download this snapshot"))

	s := sc.Session()
	assert.Equal(t, []string{"start", "ownership", "bottleneck", "reveal"}, s.Path)
	assert.Equal(t, "reveal", s.CurrentID)
	assert.Equal(t, []string{"export"}, canvas.Calls()[before:])
	assert.Equal(t, []string{DefaultSnapshotName}, dl.names)
	assert.Equal(t, [][]byte{[]byte("png")}, dl.data)

	text, ok := sc.Reflection()
	require.True(t, ok)
	assert.Contains(t, text, "one person")
}

func TestSessionController_Restart(t *testing.T) {
	tests := []struct {
		name  string
		route []string
	}{
		{name: "fresh", route: nil},
		{name: "mid flow", route: []string{"errors"}},
		{name: "category", route: []string{"errors", "ramp"}},
		{name: "reveal", route: []string{"growth", "ramp", "reveal"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, canvas, _ := newTestController(t)
			id := sc.Session().ID
			walk(t, sc, tt.route...)

			sc.Restart(context.Background())

			s := sc.Session()
			assert.Equal(t, "start", s.CurrentID)
			assert.Equal(t, []string{"start"}, s.Path)
			assert.Equal(t, id, s.ID)
			calls := canvas.Calls()
			assert.Equal(t, []string{"clear", "fit"}, calls[len(calls)-2:])
		})
	}
}

func TestSessionController_RestartIsIdempotent(t *testing.T) {
	sc, _, _ := newTestController(t)
	walk(t, sc, "slow")

	sc.Restart(context.Background())
	first := sc.Session()
	sc.Restart(context.Background())
	sc.Restart(context.Background())

	assert.Equal(t, first, sc.Session())
}

func TestSessionController_RestartChoice(t *testing.T) {
	sc, _, _ := newTestController(t)
	walk(t, sc, "slow", "rework", "reveal", "restart")

	assert.Equal(t, []string{"start"}, sc.Session().Path)
}

func TestSessionController_UnavailableChoice(t *testing.T) {
	sc, canvas, _ := newTestController(t)
	ctx := context.Background()

	err := sc.Advance(ctx, flow.AdvanceTo("Show me the pattern", "reveal"))
	assert.ErrorIs(t, err, dto.ErrChoiceUnavailable)

	err = sc.Select(ctx, 9)
	assert.ErrorIs(t, err, dto.ErrChoiceOutOfRange)

	err = sc.Choose(ctx, "nope")
	assert.ErrorIs(t, err, dto.ErrUnknownChoice)

	assert.Equal(t, []string{"start"}, sc.Session().Path)
	assert.Empty(t, canvas.Calls())
}

func TestSessionController_AdvanceWithChoiceValue(t *testing.T) {
	sc, _, _ := newTestController(t)
	ctx := context.Background()

	require.NoError(t, sc.Advance(ctx, flow.AdvanceTo("Growth is breaking us", "growth")))
	require.NoError(t, sc.Select(ctx, 2))

	assert.Equal(t, []string{"start", "growth", "handoffs"}, sc.Session().Path)
}

func TestSessionController_MissingCollaborators(t *testing.T) {
	sc := NewSessionController(content.Flow(), content.Reflections())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		walk(t, sc, "slow", "approvals", "reveal", "export")
		assert.NoError(t, sc.Export(ctx))
		sc.Restart(ctx)
	})
	assert.Equal(t, []string{"start"}, sc.Session().Path)
}

func TestSessionController_CollaboratorFailuresDoNotBlock(t *testing.T) {
	canvas := &fakeCanvas{failWith: errors.New("canvas gone")}
	dl := &fakeDownloader{}
	sc := NewSessionController(content.Flow(), content.Reflections(), WithCanvas(canvas), WithDownloader(dl))

	walk(t, sc, "slow", "handoffs", "reveal")
	assert.Equal(t, "reveal", sc.Session().CurrentID)

	err := sc.Export(context.Background())
	assert.Error(t, err)
	assert.Empty(t, dl.names)

	// the export choice itself swallows the failure
	assert.NoError(t, sc.Choose(context.Background(), "export"))
}

func TestSessionController_DownloaderFailure(t *testing.T) {
	canvas := &fakeCanvas{}
	dl := &fakeDownloader{err: errors.New("disk full")}
	sc := NewSessionController(content.Flow(), content.Reflections(), WithCanvas(canvas), WithDownloader(dl), WithSnapshotName("x.png"))

	err := sc.Export(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "disk full"))
	assert.Equal(t, []string{"x.png"}, dl.names)
}

func TestSessionController_View(t *testing.T) {
	sc, _, _ := newTestController(t)

	v := sc.View()
	assert.Equal(t, "start", v.NodeID)
	assert.Equal(t, "What brings you here?", v.Prompt)
	require.Len(t, v.Choices, 4)
	assert.Equal(t, dto.ChoiceView{Index: 1, Label: "Mistakes keep happening", Action: flow.ActionAdvance, Next: "errors"}, v.Choices[1])

	walk(t, sc, "slow", "handoffs", "reveal")
	v = sc.View()
	assert.True(t, v.AtReveal)
	assert.NotEmpty(t, v.Reflection)
	assert.Equal(t, flow.ActionExport, v.Choices[0].Action)
	assert.Equal(t, flow.ActionRestart, v.Choices[1].Action)
}

func TestSessionController_DeriveReflectionFallback(t *testing.T) {
	sc, _, _ := newTestController(t)

	for _, path := range [][]string{nil, {"reveal"}, {"start", "slow", "reveal"}, {"start", "slow"}} {
		t.Run(fmt.Sprint(path), func(t *testing.T) {
			assert.Equal(t, content.Fallback, sc.DeriveReflection(path))
		})
	}
}

func TestSessionController_ConcurrentActions(t *testing.T) {
	sc, _, _ := newTestController(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = sc.Choose(ctx, "slow")
		}()
		go func() {
			defer wg.Done()
			sc.Restart(ctx)
		}()
	}
	wg.Wait()

	s := sc.Session()
	assert.Contains(t, [][]string{{"start"}, {"start", "slow"}}, s.Path)
}
