package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/storage"
)

// Handler handles API requests
type Handler struct {
	storage storage.Storage
}

// NewHandler creates a new API handler
func NewHandler(store storage.Storage) *Handler {
	return &Handler{
		storage: store,
	}
}

// HealthCheck reports API health
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createContributorRequest struct {
	Username  string `json:"github_username" binding:"required"`
	AvatarURL string `json:"avatar_url"`
}

// CreateContributor registers a new contributor
// POST /api/v1/contributors
func (h *Handler) CreateContributor(c *gin.Context) {
	var req createContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("github_username is required"))
		return
	}

	contributor := &domain.Contributor{
		ID:        uuid.New().String(),
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.storage.CreateContributor(c.Request.Context(), contributor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": contributor,
	})
}

// GetContributor returns a contributor with their achievements
// GET /api/v1/contributors/:username
func (h *Handler) GetContributor(c *gin.Context) {
	username := c.Param("username")

	contributor, err := h.storage.GetContributorByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	achievements, err := h.storage.GetAchievementsByContributor(c.Request.Context(), contributor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if achievements == nil {
		achievements = []*domain.Achievement{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": &domain.ContributorWithAchievements{
			Contributor:  *contributor,
			Achievements: achievements,
		},
	})
}

// ListContributors returns all contributors with their achievement counts
// GET /api/v1/contributors
func (h *Handler) ListContributors(c *gin.Context) {
	contributors, err := h.storage.ListContributors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if contributors == nil {
		contributors = []*domain.ContributorSummary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": contributors,
	})
}

type createAchievementRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	SourceURL   string    `json:"source_contribution_url" binding:"required"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// CreateAchievement records an achievement for a contributor. Creation is
// idempotent on the source contribution URL: a duplicate returns the
// existing record unchanged.
// POST /api/v1/contributors/:username/achievements
func (h *Handler) CreateAchievement(c *gin.Context) {
	username := c.Param("username")

	var req createAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("title and source_contribution_url are required"))
		return
	}

	ctx := c.Request.Context()
	contributor, err := h.storage.GetContributorByUsername(ctx, username)
	if err != nil {
		respondError(c, err)
		return
	}

	if existing, err := h.storage.GetAchievementBySourceURL(ctx, req.SourceURL); err == nil {
		c.JSON(http.StatusOK, gin.H{"data": existing})
		return
	} else if !apperrors.IsNotFound(err) {
		respondError(c, err)
		return
	}

	awardedAt := req.AwardedAt
	if awardedAt.IsZero() {
		awardedAt = time.Now().UTC()
	}

	achievement := &domain.Achievement{
		ID:            uuid.New().String(),
		ContributorID: contributor.ID,
		Title:         req.Title,
		Description:   req.Description,
		SourceURL:     req.SourceURL,
		AwardedAt:     awardedAt,
		CreatedAt:     time.Now().UTC(),
	}

	if err := h.storage.CreateAchievement(ctx, achievement); err != nil {
		// Lost a creation race; the winner's record is the one that counts
		if apperrors.IsConflict(err) {
			if existing, ferr := h.storage.GetAchievementBySourceURL(ctx, req.SourceURL); ferr == nil {
				c.JSON(http.StatusOK, gin.H{"data": existing})
				return
			}
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": achievement,
	})
}

// LookupAchievement returns the achievement recorded for a source contribution URL
// GET /api/v1/achievements/lookup?source_url=...
func (h *Handler) LookupAchievement(c *gin.Context) {
	sourceURL := c.Query("source_url")
	if sourceURL == "" {
		respondError(c, apperrors.NewBadRequestError("source_url query parameter is required"))
		return
	}

	achievement, err := h.storage.GetAchievementBySourceURL(c.Request.Context(), sourceURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": achievement,
	})
}

// respondError maps application errors to HTTP responses
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := appErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrCodeInternal,
			"message": err.Error(),
		},
	})
}
