package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// AdRepository provides data access for the ads table.
//
// Every mutating call verifies the affected-row count: an update matching
// zero rows is reported as ErrNotFound, never as success.
type AdRepository struct {
	db *sqlx.DB
}

// NewAdRepository creates a new AdRepository.
func NewAdRepository(db *sqlx.DB) *AdRepository {
	return &AdRepository{db: db}
}

const adColumns = `a.id, a.merchant_id, a.merchant_name, a.title, a.description, a.image_url,
	a.target_url, a.category, a.status, a.rejection_reason, a.entry_type, a.campaign_id,
	a.impressions, a.clicks, a.ctr, a.created_at, a.updated_at`

const adSelect = `SELECT ` + adColumns + `, c.title AS campaign_name
	FROM ads a LEFT JOIN campaigns c ON c.id = a.campaign_id`

// GetByID finds an ad by ID.
func (r *AdRepository) GetByID(id string) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.Get(&ad, adSelect+` WHERE a.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListByMerchant retrieves all ads of a merchant, including deleted ones,
// so merchants can see removed entries.
func (r *AdRepository) ListByMerchant(merchantID string) ([]models.Ad, error) {
	var ads []models.Ad
	err := r.db.Select(&ads, adSelect+` WHERE a.merchant_id = $1 ORDER BY a.created_at DESC`, merchantID)
	return ads, err
}

// ListAll retrieves all non-deleted ads, newest first.
func (r *AdRepository) ListAll() ([]models.Ad, error) {
	var ads []models.Ad
	err := r.db.Select(&ads, adSelect+` WHERE a.status <> 'deleted' ORDER BY a.created_at DESC`)
	return ads, err
}

// SearchActiveByTitle finds active ads whose title contains query,
// case-insensitive, capped at limit.
func (r *AdRepository) SearchActiveByTitle(query string, limit int) ([]models.Ad, error) {
	var ads []models.Ad
	err := r.db.Select(&ads,
		adSelect+` WHERE a.status = 'active' AND a.title ILIKE '%' || $1 || '%' LIMIT $2`,
		query, limit)
	return ads, err
}

// Create inserts a new ad.
func (r *AdRepository) Create(ad *models.Ad) error {
	query := `INSERT INTO ads (merchant_id, merchant_name, title, description, image_url,
	              target_url, category, status, entry_type, campaign_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(query,
		ad.MerchantID, ad.MerchantName, ad.Title, ad.Description, ad.ImageURL,
		ad.TargetURL, ad.Category, ad.Status, ad.EntryType, ad.CampaignID,
	).Scan(&ad.ID, &ad.CreatedAt, &ad.UpdatedAt)
}

// BulkCreate inserts several ads in one transaction.
func (r *AdRepository) BulkCreate(ads []*models.Ad) error {
	if len(ads) == 0 {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO ads (merchant_id, merchant_name, title, description, image_url,
	        target_url, category, status, entry_type, campaign_id)
	    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	    RETURNING id, created_at, updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ad := range ads {
		if err := stmt.QueryRowx(
			ad.MerchantID, ad.MerchantName, ad.Title, ad.Description, ad.ImageURL,
			ad.TargetURL, ad.Category, ad.Status, ad.EntryType, ad.CampaignID,
		).Scan(&ad.ID, &ad.CreatedAt, &ad.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateContent rewrites the editable fields of an ad, puts it back to
// active, and clears any rejection reason, so a fixed ad re-enters the
// system.
func (r *AdRepository) UpdateContent(id string, ad *models.Ad) error {
	res, err := r.db.Exec(
		`UPDATE ads SET title = $1, description = $2, image_url = $3, target_url = $4,
		        category = $5, status = 'active', rejection_reason = NULL, updated_at = NOW()
		 WHERE id = $6 AND status <> 'deleted'`,
		ad.Title, ad.Description, ad.ImageURL, ad.TargetURL, ad.Category, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// SetStatus updates an ad's status and optional rejection reason.
func (r *AdRepository) SetStatus(id string, status models.AdStatus, reason string) error {
	res, err := r.db.Exec(
		`UPDATE ads SET status = $1, rejection_reason = NULLIF($2, ''), updated_at = NOW() WHERE id = $3`,
		status, reason, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// SoftDelete marks an ad deleted. Matching zero rows (already deleted or
// missing, or a permission-filtered update) is a failure.
func (r *AdRepository) SoftDelete(id, reason string) error {
	res, err := r.db.Exec(
		`UPDATE ads SET status = 'deleted', rejection_reason = NULLIF($1, ''), updated_at = NOW()
		 WHERE id = $2 AND status <> 'deleted'`,
		reason, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// IncrementImpressions adds one impression to each of the given ads.
func (r *AdRepository) IncrementImpressions(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(
		`UPDATE ads SET impressions = impressions + 1 WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	return err
}

// IncrementClicks adds one click to an ad.
func (r *AdRepository) IncrementClicks(id string) error {
	res, err := r.db.Exec(`UPDATE ads SET clicks = clicks + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// RecomputeCTR refreshes the ctr column from impressions and clicks.
// Returns the number of rows touched.
func (r *AdRepository) RecomputeCTR() (int64, error) {
	res, err := r.db.Exec(
		`UPDATE ads SET ctr = ROUND((clicks::numeric / impressions) * 100, 2)
		 WHERE impressions > 0 AND ctr <> ROUND((clicks::numeric / impressions) * 100, 2)`,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountNonDeleted counts ads not in the deleted state.
func (r *AdRepository) CountNonDeleted() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM ads WHERE status <> 'deleted'`)
	return count, err
}
