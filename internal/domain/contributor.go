package domain

import "time"

// Contributor represents a persisted identity record for a GitHub username
type Contributor struct {
	ID        string    `json:"id"`
	Username  string    `json:"github_username"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Achievement represents one recognized contribution event, keyed uniquely
// by its source contribution URL
type Achievement struct {
	ID            string    `json:"id"`
	ContributorID string    `json:"contributor_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SourceURL     string    `json:"source_contribution_url"`
	AwardedAt     time.Time `json:"awarded_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ContributorWithAchievements is a contributor together with everything
// awarded to them, as served by the record API
type ContributorWithAchievements struct {
	Contributor
	Achievements []*Achievement `json:"achievements"`
}

// ContributorSummary is a contributor plus an achievement count, used by
// the contributor listing endpoint
type ContributorSummary struct {
	Contributor
	AchievementCount int `json:"achievement_count"`
}
