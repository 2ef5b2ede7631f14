package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunContext carries the per-request state of one forecast run.
type RunContext struct {
	ctx       context.Context
	RequestID string
	StartTime time.Time
	Logger    Logger
}

// NewRunContext creates a run context. An empty requestID gets a fresh UUID and
// a nil logger discards output.
func NewRunContext(ctx context.Context, requestID string, logger Logger) *RunContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &RunContext{
		ctx:       ctx,
		RequestID: requestID,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// Context returns the context governing cancellation of the run.
func (rc *RunContext) Context() context.Context { return rc.ctx }

// Elapsed reports the time since the run started.
func (rc *RunContext) Elapsed() time.Duration { return time.Since(rc.StartTime) }

// checkpoint fails once the run's context is done.
func (rc *RunContext) checkpoint(stage string) error {
	if err := rc.ctx.Err(); err != nil {
		return fmt.Errorf("forecast %s cancelled before %s: %w", rc.RequestID, stage, err)
	}
	return nil
}
