package calculation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunContext(t *testing.T) {
	rc := NewRunContext(context.Background(), "", nil)
	_, err := uuid.Parse(rc.RequestID)
	require.NoError(t, err)
	assert.IsType(t, NopLogger{}, rc.Logger)
	assert.False(t, rc.StartTime.IsZero())

	other := NewRunContext(context.Background(), "", nil)
	assert.NotEqual(t, rc.RequestID, other.RequestID)

	named := NewRunContext(context.Background(), "req-42", nil)
	assert.Equal(t, "req-42", named.RequestID)
}

func TestRunContext_Checkpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rc := NewRunContext(ctx, "req-1", nil)
	require.NoError(t, rc.checkpoint("start"))

	cancel()
	err := rc.checkpoint("cohort projection")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "req-1")
}
