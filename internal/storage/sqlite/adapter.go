package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/domain"
	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/storage"
)

// sqliteStorage implements the Storage interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	s := &sqliteStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS contributors (
		id TEXT PRIMARY KEY,
		github_username TEXT NOT NULL UNIQUE,
		avatar_url TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		contributor_id TEXT NOT NULL REFERENCES contributors(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		source_contribution_url TEXT NOT NULL UNIQUE,
		awarded_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_achievements_contributor ON achievements(contributor_id);
	CREATE INDEX IF NOT EXISTS idx_achievements_awarded_at ON achievements(awarded_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// CreateContributor inserts a contributor; a duplicate username surfaces as a conflict
func (s *sqliteStorage) CreateContributor(ctx context.Context, contributor *domain.Contributor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contributors (id, github_username, avatar_url, created_at)
		VALUES (?, ?, ?, ?)
	`, contributor.ID, contributor.Username, contributor.AvatarURL, contributor.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("contributor")
		}
		return err
	}
	return nil
}

// GetContributorByUsername retrieves a contributor by username
func (s *sqliteStorage) GetContributorByUsername(ctx context.Context, username string) (*domain.Contributor, error) {
	var c domain.Contributor
	err := s.db.QueryRowContext(ctx, `
		SELECT id, github_username, avatar_url, created_at
		FROM contributors
		WHERE github_username = ?
	`, username).Scan(&c.ID, &c.Username, &c.AvatarURL, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("contributor")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListContributors retrieves all contributors with their achievement counts
func (s *sqliteStorage) ListContributors(ctx context.Context) ([]*domain.ContributorSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.github_username, c.avatar_url, c.created_at, COUNT(a.id)
		FROM contributors c
		LEFT JOIN achievements a ON a.contributor_id = c.id
		GROUP BY c.id, c.github_username, c.avatar_url, c.created_at
		ORDER BY COUNT(a.id) DESC, c.github_username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ContributorSummary
	for rows.Next() {
		var cs domain.ContributorSummary
		if err := rows.Scan(&cs.ID, &cs.Username, &cs.AvatarURL, &cs.CreatedAt, &cs.AchievementCount); err != nil {
			return nil, err
		}
		out = append(out, &cs)
	}
	return out, rows.Err()
}

// CreateAchievement inserts an achievement; a duplicate source URL surfaces as a conflict
func (s *sqliteStorage) CreateAchievement(ctx context.Context, achievement *domain.Achievement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO achievements (id, contributor_id, title, description, source_contribution_url, awarded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, achievement.ID, achievement.ContributorID, achievement.Title, achievement.Description,
		achievement.SourceURL, achievement.AwardedAt, achievement.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("achievement")
		}
		return err
	}
	return nil
}

// GetAchievementBySourceURL retrieves an achievement by its source contribution URL
func (s *sqliteStorage) GetAchievementBySourceURL(ctx context.Context, sourceURL string) (*domain.Achievement, error) {
	var a domain.Achievement
	err := s.db.QueryRowContext(ctx, `
		SELECT id, contributor_id, title, description, source_contribution_url, awarded_at, created_at
		FROM achievements
		WHERE source_contribution_url = ?
	`, sourceURL).Scan(&a.ID, &a.ContributorID, &a.Title, &a.Description, &a.SourceURL, &a.AwardedAt, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("achievement")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAchievementsByContributor retrieves all achievements for a contributor
func (s *sqliteStorage) GetAchievementsByContributor(ctx context.Context, contributorID string) ([]*domain.Achievement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contributor_id, title, description, source_contribution_url, awarded_at, created_at
		FROM achievements
		WHERE contributor_id = ?
		ORDER BY awarded_at DESC
	`, contributorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.ContributorID, &a.Title, &a.Description, &a.SourceURL, &a.AwardedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
