package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// CampaignRepository provides data access for the campaigns table.
type CampaignRepository struct {
	db *sqlx.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create inserts a new campaign.
func (r *CampaignRepository) Create(c *models.Campaign) error {
	query := `INSERT INTO campaigns (merchant_id, title, status, budget, start_date, end_date)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at`
	return r.db.QueryRowx(query,
		c.MerchantID, c.Title, c.Status, c.Budget, c.StartDate, c.EndDate,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByID finds a campaign by ID.
func (r *CampaignRepository) GetByID(id string) (*models.Campaign, error) {
	var c models.Campaign
	err := r.db.Get(&c, `SELECT id, merchant_id, title, status, budget, start_date, end_date, created_at
	                     FROM campaigns WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Count returns the number of campaigns.
func (r *CampaignRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM campaigns`)
	return count, err
}
