// Package client is the HTTP client for the OSPO-ColabAchievements record
// API. It implements the store interface consumed by the ingestion worker.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

// Client is the API client for the record store
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FindContributor retrieves a contributor by username
func (c *Client) FindContributor(ctx context.Context, username string) (*domain.Contributor, error) {
	var response struct {
		Data *domain.Contributor `json:"data"`
	}
	path := fmt.Sprintf("/api/v1/contributors/%s", url.PathEscape(username))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// CreateContributor creates a new contributor record
func (c *Client) CreateContributor(ctx context.Context, username, avatarURL string) (*domain.Contributor, error) {
	body := map[string]string{
		"github_username": username,
		"avatar_url":      avatarURL,
	}

	var response struct {
		Data *domain.Contributor `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/contributors", nil, body, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// FindAchievementBySourceURL retrieves an achievement by its source contribution URL
func (c *Client) FindAchievementBySourceURL(ctx context.Context, sourceURL string) (*domain.Achievement, error) {
	params := url.Values{}
	params.Set("source_url", sourceURL)

	var response struct {
		Data *domain.Achievement `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/achievements/lookup", params, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// CreateAchievement records an achievement for a contributor. The server is
// idempotent on source URL and returns the existing record for a duplicate.
func (c *Client) CreateAchievement(ctx context.Context, contributor *domain.Contributor, candidate *domain.AchievementCandidate) (*domain.Achievement, error) {
	body := map[string]interface{}{
		"title":                   candidate.Title,
		"description":             candidate.Description,
		"source_contribution_url": candidate.SourceURL,
		"awarded_at":              candidate.AwardedAt.UTC().Format(time.RFC3339),
	}

	var response struct {
		Data *domain.Achievement `json:"data"`
	}
	path := fmt.Sprintf("/api/v1/contributors/%s/achievements", url.PathEscape(contributor.Username))
	if err := c.do(ctx, http.MethodPost, path, nil, body, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError(0, "record store unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return storeError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// storeError maps a non-success store response to an application error
func storeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("record")
	case http.StatusConflict:
		return apperrors.NewConflictError("record")
	default:
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeInternal,
			Message: fmt.Sprintf("store error: %s - %s", resp.Status, string(raw)),
			Status:  resp.StatusCode,
		}
	}
}
