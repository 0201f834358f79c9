package merge

import (
	"errors"
	"fmt"
)

// Stage tags where in the run a failure happened.
type Stage string

const (
	StageValidate Stage = "validate"
	StageDedup    Stage = "dedup"
	StageSanitize Stage = "sanitize"
	StageRoute    Stage = "route"
	StageMerge    Stage = "merge"
)

// Sentinel errors for the failure taxonomy. Routing failures wrap
// lane.ErrUnsupportedMix instead.
var (
	// ErrValidation: bad filename or content shape; the run never starts.
	ErrValidation = errors.New("validation failed")
	// ErrConversion: a per-file conversion failed. Recoverable by skipping
	// inside the convert-merge lane, fatal anywhere else.
	ErrConversion = errors.New("conversion failed")
	// ErrMerge: a structural input defect; fatal, no partial artifact.
	ErrMerge = errors.New("merge failed")
	// ErrNoOutput: every input to a lane was unusable.
	ErrNoOutput = errors.New("no inputs could be merged")
)

// PipelineError is the single structured failure a run returns: the stage
// that failed plus the underlying reason. No partial artifact accompanies it.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func failAt(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}
