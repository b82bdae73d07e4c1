package workflow

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/zxrrcpandey/rahulops/internal/activity"
)

// stepPolicy decides what a step failure means for the rest of the pipeline.
type stepPolicy int

const (
	// stepAbort stops the pipeline and fails the job.
	stepAbort stepPolicy = iota
	// stepTolerate logs the failure and moves on to the next step.
	stepTolerate
)

// pipelineStep is one unit of a deployment pipeline. The checkpoint is the
// progress value recorded when the step starts.
type pipelineStep struct {
	name       string
	policy     stepPolicy
	checkpoint int
	run        func(ctx workflow.Context) error
}

// stepFailure carries the failing step's name up to the workflow so the
// failure notification can point at it.
type stepFailure struct {
	Step string
	Err  error
}

func (e *stepFailure) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *stepFailure) Unwrap() error {
	return e.Err
}

// failedStep extracts the failing step name from a pipeline error, or ""
// when the error did not come from a step.
func failedStep(err error) string {
	var sf *stepFailure
	if errors.As(err, &sf) {
		return sf.Step
	}
	return ""
}

// runPipeline executes the steps in order. Each step's checkpoint is written
// to the job before the step runs, so a crashed worker resumes with the job
// showing the step it was on. A tolerated failure is logged and the pipeline
// continues; an abort failure stops it. Cancellation is honored between
// steps, never in the middle of one.
func runPipeline(ctx workflow.Context, jobID string, steps []pipelineStep) error {
	logger := workflow.GetLogger(ctx)

	for _, step := range steps {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := workflow.ExecuteActivity(ctx, "UpdateJobProgress", activity.UpdateJobProgressParams{
			JobID:    jobID,
			Progress: step.checkpoint,
			Step:     step.name,
		}).Get(ctx, nil)
		if err != nil {
			return &stepFailure{Step: step.name, Err: err}
		}

		if err := step.run(ctx); err != nil {
			if step.policy == stepTolerate {
				logger.Warn("step failed, continuing", "step", step.name, "error", err)
				continue
			}
			return &stepFailure{Step: step.name, Err: err}
		}
	}
	return nil
}
