package workflow

import (
	"context"
	"fmt"

	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
)

// State is the shared data a pipeline's stages read and write. Stages run
// sequentially, so no locking is required; each stage sees the outputs of the
// stages before it under their stage names in Values.
type State struct {
	Campaigns []core.Campaign
	Creatives []core.Creative
	Values    map[string]any
}

// NewState creates an empty State.
func NewState() *State {
	return &State{Values: make(map[string]any)}
}

// Stage is one step of a pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

type stageFunc struct {
	name string
	fn   func(ctx context.Context, state *State) error
}

func (s *stageFunc) Name() string                                { return s.name }
func (s *stageFunc) Run(ctx context.Context, state *State) error { return s.fn(ctx, state) }

// StageFunc adapts a function into a Stage.
func StageFunc(name string, fn func(ctx context.Context, state *State) error) Stage {
	return &stageFunc{name: name, fn: fn}
}

// AgentStage builds a Stage that invokes an agent with the state's campaign
// and creative snapshots and records the agent's result under the stage name.
func AgentStage(name string, a core.Agent, query string) Stage {
	return StageFunc(name, func(ctx context.Context, state *State) error {
		qc := &core.QueryContext{
			Campaigns: state.Campaigns,
			Creatives: state.Creatives,
		}
		result, err := a.ProcessQuery(ctx, query, qc)
		if err != nil {
			return err
		}
		state.Values[name] = result
		return nil
	})
}

// Pipeline executes its stages in order over one shared State. The first
// stage error stops the pipeline.
type Pipeline struct {
	name   string
	stages []Stage
	logger logging.Logger
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Logger logging.Logger
}

// NewPipeline creates a named pipeline from the given stages.
func NewPipeline(name string, stages []Stage, optFns ...func(o *PipelineOptions)) *Pipeline {
	opts := PipelineOptions{
		Logger: logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{name: name, stages: stages, logger: opts.Logger}
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string { return p.name }

// Run executes each stage in order with the shared state.
func (p *Pipeline) Run(ctx context.Context, state *State) error {
	if state == nil {
		state = NewState()
	}
	if state.Values == nil {
		state.Values = make(map[string]any)
	}
	for _, stage := range p.stages {
		p.logger.Debug("running pipeline stage", "pipeline", p.name, "stage", stage.Name())
		if err := stage.Run(ctx, state); err != nil {
			return fmt.Errorf("pipeline %s failed at stage %s: %w", p.name, stage.Name(), err)
		}
	}
	return nil
}
