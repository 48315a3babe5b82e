package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Transform is a mutation or validation applied to a Frame.
// Transforms may mutate f in place and return it, or return a new frame.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms, applied strictly in the order
// they were added.
type Pipeline struct {
	steps  []Transform
	logger *slog.Logger
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// WithLogger sets the logger handed to each step through its context. When
// unset, the logger already carried by the Run context is used.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	p.logger = l
	return p
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, t := range p.steps {
		out[i] = t.Name()
	}
	return out
}

func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	log := p.logger
	if log == nil {
		log = Logger(ctx)
	}
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sl := log.With("step", t.Name())
		start := time.Now()
		out, err := t.Apply(WithLogger(ctx, sl), cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		sl.Debug("step done", "rows", out.Rows(), "elapsed", time.Since(start))
		cur = out
	}
	return cur, nil
}
