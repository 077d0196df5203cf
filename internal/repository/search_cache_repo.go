package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// SearchCacheRepository is the second, database-backed cache tier for
// comparison results. Entries are keyed by the normalized query signature.
type SearchCacheRepository struct {
	db *sqlx.DB
}

// NewSearchCacheRepository creates a new SearchCacheRepository.
func NewSearchCacheRepository(db *sqlx.DB) *SearchCacheRepository {
	return &SearchCacheRepository{db: db}
}

// GetFresh returns a cached entry younger than maxAge, or ErrNotFound.
func (r *SearchCacheRepository) GetFresh(queryKey string, maxAge time.Duration) (*models.CachedComparison, error) {
	var row models.CachedComparison
	err := r.db.Get(&row,
		`SELECT query_key, result, created_at FROM search_cache
		 WHERE query_key = $1 AND created_at > $2`,
		queryKey, time.Now().Add(-maxAge))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert stores a result under queryKey, refreshing the timestamp.
func (r *SearchCacheRepository) Upsert(queryKey string, result []byte) error {
	_, err := r.db.Exec(
		`INSERT INTO search_cache (query_key, result, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (query_key) DO UPDATE SET result = EXCLUDED.result, created_at = NOW()`,
		queryKey, result)
	return err
}

// DeleteExpired removes entries older than maxAge and returns how many
// were removed.
func (r *SearchCacheRepository) DeleteExpired(maxAge time.Duration) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM search_cache WHERE created_at <= $1`, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
