package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// MerchantRepository provides data access for merchants and merchant_requests.
type MerchantRepository struct {
	db *sqlx.DB
}

// NewMerchantRepository creates a new MerchantRepository.
func NewMerchantRepository(db *sqlx.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// Upsert creates or updates the public merchant record for a user.
func (r *MerchantRepository) Upsert(m *models.Merchant) error {
	query := `INSERT INTO merchants (id, store_name, email, phone, website_url, location_url, address_details, branches)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, '[]'::jsonb))
	          ON CONFLICT (id) DO UPDATE SET
	              store_name = EXCLUDED.store_name,
	              email = EXCLUDED.email,
	              phone = EXCLUDED.phone,
	              website_url = EXCLUDED.website_url,
	              location_url = EXCLUDED.location_url,
	              address_details = EXCLUDED.address_details,
	              branches = EXCLUDED.branches,
	              updated_at = NOW()
	          RETURNING created_at, updated_at`
	var branches interface{}
	if len(m.Branches) > 0 {
		branches = []byte(m.Branches)
	}
	return r.db.QueryRowx(query,
		m.ID, m.StoreName, m.Email, m.Phone, m.WebsiteURL, m.LocationURL, m.AddressDetails, branches,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID finds a merchant by user ID.
func (r *MerchantRepository) GetByID(id string) (*models.Merchant, error) {
	var m models.Merchant
	err := r.db.Get(&m, `SELECT id, store_name, email, phone, website_url, location_url,
	                            address_details, branches, created_at, updated_at
	                     FROM merchants WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List retrieves all merchants.
func (r *MerchantRepository) List() ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := r.db.Select(&merchants, `SELECT id, store_name, email, phone, website_url, location_url,
	                                       address_details, branches, created_at, updated_at
	                                FROM merchants ORDER BY created_at DESC`)
	return merchants, err
}

// Count returns the number of merchant records.
func (r *MerchantRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM merchants`)
	return count, err
}

// CreateRequest files a merchant onboarding request, idempotent per user.
func (r *MerchantRepository) CreateRequest(req *models.MerchantRequest) error {
	query := `INSERT INTO merchant_requests (user_id, store_name, commercial_register, tax_number, store_category, store_address, status)
	          VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
	          ON CONFLICT (user_id) DO UPDATE SET
	              store_name = EXCLUDED.store_name,
	              commercial_register = COALESCE(EXCLUDED.commercial_register, merchant_requests.commercial_register),
	              tax_number = COALESCE(EXCLUDED.tax_number, merchant_requests.tax_number),
	              store_category = COALESCE(EXCLUDED.store_category, merchant_requests.store_category),
	              store_address = COALESCE(EXCLUDED.store_address, merchant_requests.store_address)
	          RETURNING id, created_at`
	return r.db.QueryRowx(query,
		req.UserID, req.StoreName, req.CommercialRegister, req.TaxNumber,
		req.StoreCategory, req.StoreAddress, req.Status,
	).Scan(&req.ID, &req.CreatedAt)
}

// GetRequestByUserID returns a user's onboarding request, if any.
func (r *MerchantRepository) GetRequestByUserID(userID string) (*models.MerchantRequest, error) {
	var req models.MerchantRequest
	err := r.db.Get(&req, `SELECT id, user_id, store_name,
	                              COALESCE(commercial_register, '') AS commercial_register,
	                              COALESCE(tax_number, '') AS tax_number,
	                              COALESCE(store_category, '') AS store_category,
	                              COALESCE(store_address, '') AS store_address,
	                              status, created_at
	                       FROM merchant_requests WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SetRequestStatus updates the status of a merchant request by user.
func (r *MerchantRepository) SetRequestStatus(userID string, status models.AccountStatus) error {
	res, err := r.db.Exec(`UPDATE merchant_requests SET status = $1 WHERE user_id = $2`, status, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
