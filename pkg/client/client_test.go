package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

func TestFindContributor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/contributors/alice", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "c-1", "github_username": "alice"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	contributor, err := c.FindContributor(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "c-1", contributor.ID)
	assert.Equal(t, "alice", contributor.Username)
}

func TestFindContributorNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	_, err := c.FindContributor(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateContributorConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	_, err := c.CreateContributor(context.Background(), "alice", "")
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateContributorSendsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/contributors", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["github_username"])
		assert.Equal(t, "https://avatars.test/alice", body["avatar_url"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "c-1", "github_username": "alice"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	contributor, err := c.CreateContributor(context.Background(), "alice", "https://avatars.test/alice")
	require.NoError(t, err)
	assert.Equal(t, "c-1", contributor.ID)
}

func TestFindAchievementBySourceURL(t *testing.T) {
	sourceURL := "https://github.com/acme/widgets/pull/1"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/achievements/lookup", r.URL.Path)
		assert.Equal(t, sourceURL, r.URL.Query().Get("source_url"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "a-1", "source_contribution_url": sourceURL},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	achievement, err := c.FindAchievementBySourceURL(context.Background(), sourceURL)
	require.NoError(t, err)
	assert.Equal(t, "a-1", achievement.ID)
	assert.Equal(t, sourceURL, achievement.SourceURL)
}

func TestCreateAchievement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/contributors/alice/achievements", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PR Merged in acme/widgets", body["title"])
		assert.Equal(t, "https://github.com/acme/widgets/pull/1", body["source_contribution_url"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "a-1"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	achievement, err := c.CreateAchievement(context.Background(),
		&domain.Contributor{ID: "c-1", Username: "alice"},
		&domain.AchievementCandidate{
			Title:     "PR Merged in acme/widgets",
			SourceURL: "https://github.com/acme/widgets/pull/1",
			AwardedAt: time.Now(),
		})
	require.NoError(t, err)
	assert.Equal(t, "a-1", achievement.ID)
}

func TestServerErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	_, err := c.FindContributor(context.Background(), "alice")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestUnreachableStoreIsRetryable(t *testing.T) {
	// Closed server: the transport error should surface as a retryable upstream failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient(server.URL, time.Second)
	_, err := c.FindContributor(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, apperrors.Retryable(err))
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	assert.NoError(t, c.HealthCheck(context.Background()))
}
