package ingest

import "time"

// RepoStatus is the outcome of processing one repository
type RepoStatus string

const (
	// StatusSucceeded means every phase of the repository completed.
	StatusSucceeded RepoStatus = "succeeded"

	// StatusPartial means some phase was skipped or some events failed,
	// but the repository contributed achievements.
	StatusPartial RepoStatus = "partial"

	// StatusFailed means processing aborted before anything useful happened.
	StatusFailed RepoStatus = "failed"
)

// RepoResult summarizes the processing of one repository
type RepoResult struct {
	Repo                 string     `json:"repo"`
	Status               RepoStatus `json:"status"`
	Candidates           int        `json:"candidates"`
	AchievementsCreated  int        `json:"achievements_created"`
	AchievementsExisting int        `json:"achievements_existing"`
	EventsFailed         int        `json:"events_failed"`
	Reason               string     `json:"reason,omitempty"`
}

// Summary is the result of one full ingestion run
type Summary struct {
	ReposDiscovered int           `json:"repos_discovered"`
	Results         []*RepoResult `json:"results"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
}

// Succeeded counts fully processed repositories
func (s *Summary) Succeeded() int {
	return s.countStatus(StatusSucceeded)
}

// Partial counts partially processed repositories
func (s *Summary) Partial() int {
	return s.countStatus(StatusPartial)
}

// Failed counts failed repositories
func (s *Summary) Failed() int {
	return s.countStatus(StatusFailed)
}

// AchievementsCreated totals new achievements across the run
func (s *Summary) AchievementsCreated() int {
	total := 0
	for _, r := range s.Results {
		total += r.AchievementsCreated
	}
	return total
}

func (s *Summary) countStatus(status RepoStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}
