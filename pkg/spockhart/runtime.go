package spockhart

import (
    "context"
    "io"
    "log/slog"

    "github.com/spockhart/spockhart/internal/adapters/download"
    "github.com/spockhart/spockhart/internal/adapters/repository/flowdef"
    "github.com/spockhart/spockhart/internal/adapters/whiteboard"
    "github.com/spockhart/spockhart/internal/app/dto"
    "github.com/spockhart/spockhart/internal/app/usecases"
    "github.com/spockhart/spockhart/internal/core/flow"
)

// Re-export core types for convenience
type Graph = flow.Graph
type Node = flow.Node
type Choice = flow.Choice
type Flow = flowdef.Flow
type Controller = usecases.SessionController
type Board = whiteboard.Board
type StepView = dto.StepView

// Option configures a Runtime
type Option func(*Runtime)

// WithOutputDir sets the directory exported snapshots are written to.
// Without it exports are skipped.
func WithOutputDir(dir string) Option {
    return func(rt *Runtime) { rt.outputDir = dir }
}

// WithSnapshotName overrides usecases.DefaultSnapshotName
func WithSnapshotName(name string) Option {
    return func(rt *Runtime) { rt.snapshotName = name }
}

// WithScale sets the export pixel scale
func WithScale(scale int) Option {
    return func(rt *Runtime) { rt.scale = scale }
}

// WithLogger sets the logger handed to every session
func WithLogger(l *slog.Logger) Option {
    return func(rt *Runtime) {
        if l != nil {
            rt.logger = l
        }
    }
}

// Runtime builds sessions over one flow. Each session gets its own board.
type Runtime struct {
    flow         *flowdef.Flow
    outputDir    string
    snapshotName string
    scale        int
    logger       *slog.Logger
}

// NewRuntime creates a runtime for f, or for the built-in flow when f is nil.
func NewRuntime(f *flowdef.Flow, opts ...Option) *Runtime {
    if f == nil {
        f = flowdef.Starter()
    }
    rt := &Runtime{
        flow:         f,
        snapshotName: usecases.DefaultSnapshotName,
        logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
    }
    for _, opt := range opts {
        opt(rt)
    }
    return rt
}

// Open loads the flow definition at path (the built-in flow when empty) and
// creates a runtime for it.
func Open(path string, opts ...Option) (*Runtime, error) {
    f, err := flowdef.Open(path)
    if err != nil {
        return nil, err
    }
    return NewRuntime(f, opts...), nil
}

// Flow returns the flow sessions walk
func (rt *Runtime) Flow() *flowdef.Flow { return rt.flow }

// NewSession creates a controller at the flow's entry node with a fresh
// board wired as its canvas. Board boxes are labeled with each node's sketch
// label.
func (rt *Runtime) NewSession(opts ...usecases.Option) (*Controller, *Board) {
    g := rt.flow.Graph
    board := whiteboard.New(
        whiteboard.WithScale(rt.scale),
        whiteboard.WithLabels(func(id string) string {
            n, err := g.Lookup(id)
            if err != nil {
                return id
            }
            return n.Label()
        }),
    )

    base := []usecases.Option{
        usecases.WithCanvas(board),
        usecases.WithLogger(rt.logger.With("flow", rt.flow.Name)),
        usecases.WithSnapshotName(rt.snapshotName),
    }
    if rt.outputDir != "" {
        base = append(base, usecases.WithDownloader(download.NewDir(rt.outputDir, rt.logger)))
    }
    return usecases.NewSessionController(g, rt.flow.Reflections, append(base, opts...)...), board
}

// Walk starts a session and applies each key in order, as Controller.Choose
// does. It returns the view of the step the session ends on.
func (rt *Runtime) Walk(ctx context.Context, keys ...string) (StepView, error) {
    sc, _ := rt.NewSession()
    for _, key := range keys {
        if err := sc.Choose(ctx, key); err != nil {
            return sc.View(), err
        }
    }
    return sc.View(), nil
}
