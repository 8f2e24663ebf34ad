package operations

import (
	"context"
	"errors"
	"fmt"

	"github.com/JDavidPC/bi-etl/internal/extract"
	"github.com/JDavidPC/bi-etl/internal/load"
	"github.com/JDavidPC/bi-etl/internal/transform"
)

// Step identifiers and names.
const (
	StepIDExtract   = "extract"
	StepIDTransform = "transform"
	StepIDLoad      = "load"

	StepNameExtract   = "Extraction"
	StepNameTransform = "Transformation"
	StepNameLoad      = "Load"
)

// State carries each step's output to the next step. Nothing is persisted
// between steps beyond these in-memory tables.
type State struct {
	Extract   *extract.Result
	Transform *transform.Output
	Load      *load.Result
}

// ExtractStep pulls the source collections.
type ExtractStep struct {
	Extractor *extract.Extractor
}

func (s *ExtractStep) ID() string   { return StepIDExtract }
func (s *ExtractStep) Name() string { return StepNameExtract }

func (s *ExtractStep) Run(ctx context.Context, state *State) error {
	result, err := s.Extractor.ExtractAll(ctx)
	if err != nil {
		return err
	}
	state.Extract = result
	return nil
}

// TransformStep cleans, scores and aggregates the extracts. It never fails
// the run: malformed records are skipped and counted inside.
type TransformStep struct {
	Transformer *transform.Transformer
}

func (s *TransformStep) ID() string   { return StepIDTransform }
func (s *TransformStep) Name() string { return StepNameTransform }

func (s *TransformStep) Run(ctx context.Context, state *State) error {
	if state.Extract == nil {
		return fmt.Errorf("transform step requires extraction output")
	}
	state.Transform = s.Transformer.Run(state.Extract)
	return nil
}

// LoadStep writes both sinks. It fails only when no sink could be written;
// a single failed sink leaves the run in partial-success state.
type LoadStep struct {
	Loader *load.Loader
}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return StepNameLoad }

func (s *LoadStep) Run(ctx context.Context, state *State) error {
	if state.Transform == nil {
		return fmt.Errorf("load step requires transformation output")
	}
	result := s.Loader.Run(ctx, state.Transform)
	state.Load = result
	if result.Status() == load.StatusFailed {
		return errors.Join(result.SQLite.Err, result.Excel.Err)
	}
	return nil
}
