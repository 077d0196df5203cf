package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// SearchHistoryRepository provides data access for search_history.
// History rows are soft-deleted via the is_deleted flag; they have no
// further lifecycle.
type SearchHistoryRepository struct {
	db *sqlx.DB
}

// NewSearchHistoryRepository creates a new SearchHistoryRepository.
func NewSearchHistoryRepository(db *sqlx.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Insert records one search for a user.
func (r *SearchHistoryRepository) Insert(userID, query, country string) error {
	_, err := r.db.Exec(
		`INSERT INTO search_history (user_id, query, country) VALUES ($1, $2, $3)`,
		userID, query, country,
	)
	return err
}

// ListByUser returns the user's 20 most recent non-deleted searches.
func (r *SearchHistoryRepository) ListByUser(userID string) ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	err := r.db.Select(&items,
		`SELECT id, user_id, query, country, is_deleted, created_at
		 FROM search_history
		 WHERE user_id = $1 AND is_deleted = FALSE
		 ORDER BY created_at DESC LIMIT 20`,
		userID)
	return items, err
}

// SoftDeleteItem hides one history row of a user.
func (r *SearchHistoryRepository) SoftDeleteItem(id, userID string) error {
	res, err := r.db.Exec(
		`UPDATE search_history SET is_deleted = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// ClearByUser hides all history rows of a user. Clearing an already-empty
// history is not an error.
func (r *SearchHistoryRepository) ClearByUser(userID string) error {
	_, err := r.db.Exec(
		`UPDATE search_history SET is_deleted = TRUE WHERE user_id = $1 AND is_deleted = FALSE`,
		userID,
	)
	return err
}

// ListGlobal returns the 200 most recent searches across all users.
func (r *SearchHistoryRepository) ListGlobal() ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	err := r.db.Select(&items,
		`SELECT id, user_id, query, country, is_deleted, created_at
		 FROM search_history ORDER BY created_at DESC LIMIT 200`)
	return items, err
}

// CountAll counts non-deleted history rows.
func (r *SearchHistoryRepository) CountAll() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM search_history WHERE is_deleted = FALSE`)
	return count, err
}

// RecentActivity returns the timestamps of non-deleted searches since the
// given time, for dashboard activity charts.
func (r *SearchHistoryRepository) RecentActivity(since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.Select(&stamps,
		`SELECT created_at FROM search_history WHERE is_deleted = FALSE AND created_at > $1`,
		since)
	return stamps, err
}
