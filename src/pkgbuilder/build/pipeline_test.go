package build

import (
	"context"
	"fmt"
	"testing"

	"github.com/bitswalk/pkg-builder/src/common/errors"
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/config"
	"github.com/google/go-cmp/cmp"
)

// fakeStage records its execution into a shared log
type fakeStage struct {
	name        StageName
	ran         *[]StageName
	validateErr error
	executeErr  error
}

func (s *fakeStage) Name() StageName { return s.name }

func (s *fakeStage) Validate(ctx context.Context, sc *StageContext) error {
	return s.validateErr
}

func (s *fakeStage) Execute(ctx context.Context, sc *StageContext, progress ProgressFunc) error {
	*s.ran = append(*s.ran, s.name)
	progress(100, "done")
	return s.executeErr
}

func TestPipeline_RunsInOrder(t *testing.T) {
	var ran []StageName
	p := NewPipeline()
	for i := 1; i <= 4; i++ {
		p.Add(&fakeStage{name: StageName(fmt.Sprintf("step%d", i)), ran: &ran})
	}

	if err := p.Execute(context.Background(), &StageContext{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := []StageName{"step1", "step2", "step3", "step4"}
	if diff := cmp.Diff(want, ran); diff != "" {
		t.Errorf("execution order mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_ShortCircuit(t *testing.T) {
	var ran []StageName
	stepErr := errors.ErrChecksumMismatch.WithMessage("step3 failed")

	p := NewPipeline()
	for i := 1; i <= 6; i++ {
		s := &fakeStage{name: StageName(fmt.Sprintf("step%d", i)), ran: &ran}
		if i == 3 {
			s.executeErr = stepErr
		}
		p.Add(s)
	}

	err := p.Execute(context.Background(), &StageContext{})
	if err != stepErr {
		t.Fatalf("Execute() error = %v, want the step 3 error unchanged", err)
	}
	want := []StageName{"step1", "step2", "step3"}
	if diff := cmp.Diff(want, ran); diff != "" {
		t.Errorf("stages after the failure must not run (-want +got):\n%s", diff)
	}
}

func TestPipeline_ValidationFailureStops(t *testing.T) {
	var ran []StageName
	validateErr := errors.ErrStageContext.WithMessage("nope")

	p := NewPipeline(
		&fakeStage{name: "a", ran: &ran},
		&fakeStage{name: "b", ran: &ran, validateErr: validateErr},
		&fakeStage{name: "c", ran: &ran},
	)

	if err := p.Execute(context.Background(), &StageContext{}); err != validateErr {
		t.Fatalf("Execute() error = %v", err)
	}
	if diff := cmp.Diff([]StageName{"a"}, ran); diff != "" {
		t.Errorf("unexpected executions (-want +got):\n%s", diff)
	}
}

func TestPipeline_CancelledContext(t *testing.T) {
	var ran []StageName
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPipeline(&fakeStage{name: "a", ran: &ran}).Execute(ctx, &StageContext{})
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if len(ran) != 0 {
		t.Errorf("no stage should run, got %v", ran)
	}
}

func TestPipelineFor(t *testing.T) {
	common := []StageName{StageChecksum, StageExtract, StageDebcrafter, StagePatch, StageSbuildrc}

	tests := []struct {
		name    string
		pt      config.PackageType
		acquire StageName
	}{
		{"default", config.DefaultPackage{}, StageDownload},
		{"git", config.GitPackage{}, StageGitClone},
		{"virtual", config.VirtualPackage{}, StageVirtual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := append([]StageName{StagePrepare, tt.acquire}, common...)
			if diff := cmp.Diff(want, PipelineFor(tt.pt).Stages()); diff != "" {
				t.Errorf("stage order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
