package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodePredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("processing acme/widgets: %w", NewNotFoundError("contributor"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))

	err = fmt.Errorf("recording achievement: %w", NewConflictError("achievement"))
	assert.True(t, IsConflict(err))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport failure", NewUpstreamError(0, "connection refused", nil), true},
		{"server error", NewUpstreamError(502, "bad gateway", nil), true},
		{"client error", NewUpstreamError(404, "not found", nil), false},
		{"forbidden", NewUpstreamError(403, "forbidden", nil), false},
		{"conflict", NewConflictError("achievement"), false},
		{"internal", NewInternalError("store down", nil), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"wrapped upstream", fmt.Errorf("listing: %w", NewUpstreamError(500, "oops", nil)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestUpstreamStatus(t *testing.T) {
	assert.Equal(t, 502, UpstreamStatus(NewUpstreamError(502, "bad gateway", nil)))
	assert.Equal(t, 404, UpstreamStatus(NewNotFoundError("contributor")))
	assert.Equal(t, 0, UpstreamStatus(fmt.Errorf("boom")))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewUpstreamError(0, "record store unreachable", cause)
	assert.Contains(t, err.Error(), "UPSTREAM_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, err.Unwrap())
}
