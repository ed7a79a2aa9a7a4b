package collector

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v55/github"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

func TestUpstreamErrMapping(t *testing.T) {
	resp := &github.Response{Response: &http.Response{StatusCode: http.StatusBadGateway}}
	err := upstreamErr(resp, fmt.Errorf("bad gateway"), "failed to list pull requests for acme/widgets")
	assert.True(t, apperrors.IsUpstream(err))
	assert.Equal(t, http.StatusBadGateway, apperrors.UpstreamStatus(err))
	assert.True(t, apperrors.Retryable(err))

	// No response at all means a transport failure, still retryable
	err = upstreamErr(nil, fmt.Errorf("connection reset"), "failed to list issues for acme/widgets")
	assert.True(t, apperrors.Retryable(err))
	assert.Equal(t, 0, apperrors.UpstreamStatus(err))
}

func TestUpstreamErrRateLimit(t *testing.T) {
	rateErr := &github.RateLimitError{Message: "API rate limit exceeded"}
	err := upstreamErr(nil, rateErr, "failed to list commits for acme/widgets")
	assert.True(t, apperrors.IsRateLimited(err))
	// Retrying into an exhausted quota is pointless
	assert.False(t, apperrors.Retryable(err))
}
