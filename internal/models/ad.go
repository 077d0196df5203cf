package models

import (
	"database/sql"
	"time"
)

// AdStatus is the lifecycle state of a merchant ad. Deletion is soft and
// represented only through AdDeleted; there is no separate flag column.
type AdStatus string

const (
	AdDraft         AdStatus = "draft"
	AdPendingReview AdStatus = "pending_review"
	AdActive        AdStatus = "active"
	AdPaused        AdStatus = "paused"
	AdRejected      AdStatus = "rejected"
	AdDeleted       AdStatus = "deleted"
)

// adTransitions is the allowed status transition table. Deleted is terminal.
var adTransitions = map[AdStatus][]AdStatus{
	AdDraft:         {AdPendingReview, AdDeleted},
	AdPendingReview: {AdActive, AdPaused, AdRejected, AdDeleted},
	AdActive:        {AdPaused, AdRejected, AdDeleted},
	AdPaused:        {AdActive, AdRejected, AdDeleted},
	AdRejected:      {AdActive, AdDeleted},
	AdDeleted:       {},
}

// CanTransition reports whether an ad may move from one status to another.
func CanTransition(from, to AdStatus) bool {
	for _, allowed := range adTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Entry types distinguishing single ads from campaign members.
const (
	EntrySingle   = "single"
	EntryCampaign = "campaign"
)

// Ad is a merchant-submitted listing surfaced alongside organic results.
type Ad struct {
	ID              string         `db:"id" json:"id"`
	MerchantID      string         `db:"merchant_id" json:"merchantId"`
	MerchantName    string         `db:"merchant_name" json:"merchantName"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	ImageURL        string         `db:"image_url" json:"imageUrl"`
	TargetURL       string         `db:"target_url" json:"targetUrl"`
	Category        string         `db:"category" json:"category"`
	Status          AdStatus       `db:"status" json:"status"`
	RejectionReason sql.NullString `db:"rejection_reason" json:"-"`
	EntryType       string         `db:"entry_type" json:"entryType"`
	CampaignID      sql.NullString `db:"campaign_id" json:"-"`
	CampaignName    sql.NullString `db:"campaign_name" json:"-"`
	Impressions     int64          `db:"impressions" json:"impressions"`
	Clicks          int64          `db:"clicks" json:"clicks"`
	CTR             float64        `db:"ctr" json:"ctr"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}

// AdView is the JSON shape returned to clients, with nullable columns
// flattened and the soft-delete state made explicit.
type AdView struct {
	ID              string   `json:"id"`
	MerchantID      string   `json:"merchantId"`
	MerchantName    string   `json:"merchantName"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"imageUrl"`
	TargetURL       string   `json:"targetUrl"`
	Category        string   `json:"category"`
	Status          AdStatus `json:"status"`
	RejectionReason string   `json:"rejectionReason,omitempty"`
	EntryType       string   `json:"entryType"`
	CampaignID      string   `json:"campaignId,omitempty"`
	CampaignName    string   `json:"campaignName,omitempty"`
	Impressions     int64    `json:"impressions"`
	Clicks          int64    `json:"clicks"`
	CTR             float64  `json:"ctr"`
	IsDeleted       bool     `json:"isDeleted"`
	CreatedAt       string   `json:"createdAt"`
}

// View converts an Ad row into its client representation.
func (a *Ad) View() AdView {
	v := AdView{
		ID:           a.ID,
		MerchantID:   a.MerchantID,
		MerchantName: a.MerchantName,
		Title:        a.Title,
		Description:  a.Description,
		ImageURL:     a.ImageURL,
		TargetURL:    a.TargetURL,
		Category:     a.Category,
		Status:       a.Status,
		EntryType:    a.EntryType,
		Impressions:  a.Impressions,
		Clicks:       a.Clicks,
		CTR:          a.CTR,
		IsDeleted:    a.Status == AdDeleted,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
	if a.RejectionReason.Valid {
		v.RejectionReason = a.RejectionReason.String
	}
	if a.CampaignID.Valid {
		v.CampaignID = a.CampaignID.String
	}
	if a.CampaignName.Valid {
		v.CampaignName = a.CampaignName.String
	}
	return v
}
