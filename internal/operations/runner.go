package operations

import (
	"context"
	"log/slog"
	"time"

	pipeerrors "github.com/JDavidPC/bi-etl/internal/errors"
	"github.com/JDavidPC/bi-etl/internal/load"
)

// Summary is the outcome of a run: per-step states, the load result when
// the load step ran, and the first fatal error.
type Summary struct {
	Steps    []*StepState
	Load     *load.Result
	Err      error
	Duration time.Duration
}

// ExitCode maps the run outcome to the process exit status: 0 full success,
// 1 total failure, 2 partial success (one sink failed).
func (s *Summary) ExitCode() int {
	if s.Err != nil {
		return 1
	}
	if s.Load != nil && s.Load.Status() == load.StatusPartial {
		return 2
	}
	return 0
}

// Runner executes steps sequentially, halting on the first fatal error.
type Runner struct {
	steps  []Step
	logger *slog.Logger
}

// NewRunner builds a Runner over the given steps, in execution order.
func NewRunner(logger *slog.Logger, steps ...Step) *Runner {
	return &Runner{steps: steps, logger: logger}
}

// Run executes all steps. Steps after a failed one are marked skipped.
func (r *Runner) Run(ctx context.Context) *Summary {
	start := time.Now()
	summary := &Summary{}

	states := make([]*StepState, len(r.steps))
	for i, step := range r.steps {
		states[i] = NewStepState(step.ID(), step.Name())
	}
	summary.Steps = states

	state := &State{}
	for i, step := range r.steps {
		st := states[i]
		if summary.Err != nil {
			st.Skip()
			r.logger.Warn("step skipped", slog.String("step", step.Name()))
			continue
		}

		r.logger.Info("step started", slog.String("step", step.Name()))
		st.Start()

		if err := step.Run(ctx, state); err != nil {
			st.Fail(err)
			summary.Err = err
			r.logger.Error("step failed",
				slog.String("step", step.Name()),
				slog.String("kind", string(pipeerrors.KindOf(err))),
				slog.String("error", err.Error()))
			continue
		}

		st.Complete()
		r.logger.Info("step completed",
			slog.String("step", step.Name()),
			slog.Duration("duration", st.Duration()))
	}

	summary.Load = state.Load
	summary.Duration = time.Since(start)

	r.logger.Info("run finished",
		slog.Duration("duration", summary.Duration),
		slog.Int("exit_code", summary.ExitCode()))
	return summary
}
