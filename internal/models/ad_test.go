package models

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// deleted is terminal
	for _, to := range []AdStatus{AdDraft, AdPendingReview, AdActive, AdPaused, AdRejected, AdDeleted} {
		assert.False(t, CanTransition(AdDeleted, to), "deleted -> %s must be rejected", to)
	}

	// every non-deleted status can be deleted
	for _, from := range []AdStatus{AdDraft, AdPendingReview, AdActive, AdPaused, AdRejected} {
		assert.True(t, CanTransition(from, AdDeleted), "%s -> deleted must be allowed", from)
	}

	assert.True(t, CanTransition(AdActive, AdPaused))
	assert.True(t, CanTransition(AdPaused, AdActive))
	assert.False(t, CanTransition(AdActive, AdActive))
	assert.False(t, CanTransition(AdRejected, AdPaused))
}

func TestAdView(t *testing.T) {
	ad := Ad{
		ID:              "ad-1",
		Status:          AdDeleted,
		RejectionReason: sql.NullString{String: "spam", Valid: true},
		CampaignID:      sql.NullString{String: "c-1", Valid: true},
		CampaignName:    sql.NullString{String: "Summer", Valid: true},
	}

	view := ad.View()
	assert.True(t, view.IsDeleted)
	assert.Equal(t, "spam", view.RejectionReason)
	assert.Equal(t, "c-1", view.CampaignID)
	assert.Equal(t, "Summer", view.CampaignName)

	plain := Ad{ID: "ad-2", Status: AdActive}
	assert.False(t, plain.View().IsDeleted)
	assert.Empty(t, plain.View().CampaignID)
}
