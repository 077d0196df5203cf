package models

import "time"

// Role values as stored in user_roles. "individual" is the consumer-side
// role name in the database; the public API also accepts "consumer" and
// maps it to "individual" on write.
type Role string

const (
	RoleIndividual Role = "individual"
	RoleMerchant   Role = "merchant"
	RoleAdmin      Role = "admin"
)

// AccountStatus tracks the lifecycle of a user or merchant account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountPending   AccountStatus = "pending"
	AccountApproved  AccountStatus = "approved"
	AccountSuspended AccountStatus = "suspended"
	AccountRejected  AccountStatus = "rejected"
	AccountDeleted   AccountStatus = "deleted"
)

// Profile represents a row in profiles. The role column is a cached
// projection of the user_roles rows; it is recomputed on every role
// mutation and never read for authorization.
type Profile struct {
	ID           string        `db:"id" json:"id"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	FullName     string        `db:"full_name" json:"name"`
	Phone        string        `db:"phone" json:"phone"`
	Country      string        `db:"country" json:"country"`
	Role         Role          `db:"role" json:"role"`
	Status       AccountStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// UserProfile is the assembled view of a user: profile row plus the
// authoritative role list and, for merchants, request status and store name.
type UserProfile struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Country   string        `json:"country"`
	Role      Role          `json:"role"`
	Roles     []Role        `json:"roles"`
	Status    AccountStatus `json:"status"`
	StoreName string        `json:"storeName,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// HasRole reports whether the role list contains r.
func (u *UserProfile) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// PrimaryRole collapses a role list into a single display role with
// precedence admin > merchant > individual.
func PrimaryRole(roles []Role) Role {
	primary := RoleIndividual
	for _, r := range roles {
		switch r {
		case RoleAdmin:
			return RoleAdmin
		case RoleMerchant:
			primary = RoleMerchant
		}
	}
	return primary
}

// NormalizeRole maps the public API role names onto database role values.
// Anything outside the known set becomes individual so malformed input
// never reaches a CHECK constraint.
func NormalizeRole(raw string) Role {
	switch Role(raw) {
	case RoleMerchant:
		return RoleMerchant
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleIndividual
	}
}
