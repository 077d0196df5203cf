package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// UserRepository provides data access for profiles and user_roles.
// user_roles is the authoritative role store; profiles.role is a cached
// projection maintained here on every role mutation.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const profileColumns = `id, email, password_hash, full_name, phone, country, role, status, created_at, updated_at`

// CreateProfile inserts a profile row and its initial role rows in one
// transaction. The profile's Role field is set to the primary role projection.
func (r *UserRepository) CreateProfile(p *models.Profile, roles []models.Role) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p.Role = models.PrimaryRole(roles)
	query := `INSERT INTO profiles (email, password_hash, full_name, phone, country, role, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	if err := tx.QueryRowx(query,
		p.Email, p.PasswordHash, p.FullName, p.Phone, p.Country, p.Role, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}

	for _, role := range roles {
		if _, err := tx.Exec(
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id, role) DO NOTHING`,
			p.ID, role,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetProfileByEmail finds a profile by email.
func (r *UserRepository) GetProfileByEmail(email string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Get(&p, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfileByID finds a profile by ID.
func (r *UserRepository) GetProfileByID(id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Get(&p, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles retrieves all profiles, newest first.
func (r *UserRepository) ListProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Select(&profiles, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	return profiles, err
}

// GetRoles returns the authoritative role list for a user. An empty list
// defaults to individual.
func (r *UserRepository) GetRoles(userID string) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Select(&roles, `SELECT role FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = append(roles, models.RoleIndividual)
	}
	return roles, nil
}

// UserRoleRow is one (user, role) assignment.
type UserRoleRow struct {
	UserID string      `db:"user_id"`
	Role   models.Role `db:"role"`
}

// ListAllRoles returns every role assignment, for bulk user assembly.
func (r *UserRepository) ListAllRoles() ([]UserRoleRow, error) {
	var rows []UserRoleRow
	err := r.db.Select(&rows, `SELECT user_id, role FROM user_roles`)
	return rows, err
}

// ToggleRole adds or removes a role for a user and recomputes the
// profiles.role projection inside the same transaction.
func (r *UserRepository) ToggleRole(userID string, role models.Role, shouldHave bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if shouldHave {
		if _, err := tx.Exec(
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id, role) DO NOTHING`,
			userID, role,
		); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(
			`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`,
			userID, role,
		); err != nil {
			return err
		}
	}

	var roles []models.Role
	if err := tx.Select(&roles, `SELECT role FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return err
	}

	res, err := tx.Exec(`UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2`,
		models.PrimaryRole(roles), userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}

	return tx.Commit()
}

// UpdateProfileFields updates the editable profile fields.
func (r *UserRepository) UpdateProfileFields(id, fullName, phone, country string) error {
	res, err := r.db.Exec(
		`UPDATE profiles SET full_name = $1, phone = $2, country = $3, updated_at = NOW() WHERE id = $4`,
		fullName, phone, country, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// SetProfileStatus updates the account status of a profile.
func (r *UserRepository) SetProfileStatus(id string, status models.AccountStatus) error {
	res, err := r.db.Exec(
		`UPDATE profiles SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// CountProfilesByRole counts non-deleted profiles by the projected role.
func (r *UserRepository) CountProfilesByRole(role models.Role) (int, error) {
	var count int
	err := r.db.Get(&count,
		`SELECT COUNT(*) FROM profiles WHERE role = $1 AND status <> 'deleted'`, role)
	return count, err
}
