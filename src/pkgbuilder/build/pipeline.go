package build

import (
	"context"

	"github.com/bitswalk/pkg-builder/src/common/logs"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the build package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// Pipeline runs stages strictly in registration order
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline from the given stages
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Add appends a stage to the pipeline
func (p *Pipeline) Add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Stages returns the stage names in execution order
func (p *Pipeline) Stages() []StageName {
	names := make([]StageName, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}

// Execute validates and runs each stage in order. The first error is
// returned unchanged and nothing produced so far is cleaned up.
func (p *Pipeline) Execute(ctx context.Context, sc *StageContext) error {
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := stage.Name()
		log.Info("Starting stage", "stage", name, "step", i+1, "of", len(p.stages))

		if err := stage.Validate(ctx, sc); err != nil {
			log.Error("Stage validation failed", "stage", name, "error", err)
			return err
		}

		progress := func(percent int, message string) {
			if message != "" {
				log.Debug(message, "stage", name, "progress", percent)
			}
		}

		if err := stage.Execute(ctx, sc, progress); err != nil {
			log.Error("Stage failed", "stage", name, "error", err)
			return err
		}
	}
	return nil
}
