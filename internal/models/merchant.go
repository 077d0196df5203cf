package models

import (
	"encoding/json"
	"time"
)

// Merchant is the public-facing store record, keyed by the owner's user ID.
type Merchant struct {
	ID             string          `db:"id" json:"id"`
	StoreName      string          `db:"store_name" json:"storeName"`
	Email          string          `db:"email" json:"email"`
	Phone          string          `db:"phone" json:"phone"`
	WebsiteURL     string          `db:"website_url" json:"websiteUrl"`
	LocationURL    string          `db:"location_url" json:"locationUrl"`
	AddressDetails string          `db:"address_details" json:"address"`
	Branches       json.RawMessage `db:"branches" json:"branches,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// MerchantRequest is the onboarding request a merchant files at signup.
// Its status drives the pending-approval gate.
type MerchantRequest struct {
	ID                 string        `db:"id" json:"id"`
	UserID             string        `db:"user_id" json:"userId"`
	StoreName          string        `db:"store_name" json:"storeName"`
	CommercialRegister string        `db:"commercial_register" json:"crNumber,omitempty"`
	TaxNumber          string        `db:"tax_number" json:"taxNumber,omitempty"`
	StoreCategory      string        `db:"store_category" json:"storeCategory,omitempty"`
	StoreAddress       string        `db:"store_address" json:"storeAddress,omitempty"`
	Status             AccountStatus `db:"status" json:"status"`
	CreatedAt          time.Time     `db:"created_at" json:"createdAt"`
}
