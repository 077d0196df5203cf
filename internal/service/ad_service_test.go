package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

type fakeAdStore struct {
	ads map[string]*models.Ad

	softDeleteCalls int
	softDeleteErrs  []error
	created         []*models.Ad
}

func newFakeAdStore(ads ...*models.Ad) *fakeAdStore {
	store := &fakeAdStore{ads: make(map[string]*models.Ad)}
	for _, ad := range ads {
		store.ads[ad.ID] = ad
	}
	return store
}

func (f *fakeAdStore) GetByID(id string) (*models.Ad, error) {
	ad, ok := f.ads[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	clone := *ad
	return &clone, nil
}

func (f *fakeAdStore) ListByMerchant(merchantID string) ([]models.Ad, error) {
	var out []models.Ad
	for _, ad := range f.ads {
		if ad.MerchantID == merchantID {
			out = append(out, *ad)
		}
	}
	return out, nil
}

func (f *fakeAdStore) ListAll() ([]models.Ad, error) {
	var out []models.Ad
	for _, ad := range f.ads {
		if ad.Status != models.AdDeleted {
			out = append(out, *ad)
		}
	}
	return out, nil
}

func (f *fakeAdStore) Create(ad *models.Ad) error {
	ad.ID = "ad-created"
	f.ads[ad.ID] = ad
	f.created = append(f.created, ad)
	return nil
}

func (f *fakeAdStore) BulkCreate(ads []*models.Ad) error {
	for i, ad := range ads {
		ad.ID = "bulk-" + string(rune('a'+i))
		f.ads[ad.ID] = ad
		f.created = append(f.created, ad)
	}
	return nil
}

func (f *fakeAdStore) UpdateContent(id string, ad *models.Ad) error {
	existing, ok := f.ads[id]
	if !ok || existing.Status == models.AdDeleted {
		return utils.ErrNotFound
	}
	existing.Title = ad.Title
	existing.Description = ad.Description
	existing.Status = models.AdActive
	existing.RejectionReason.Valid = false
	return nil
}

func (f *fakeAdStore) SetStatus(id string, status models.AdStatus, reason string) error {
	ad, ok := f.ads[id]
	if !ok {
		return utils.ErrNotFound
	}
	ad.Status = status
	if reason != "" {
		ad.RejectionReason.String = reason
		ad.RejectionReason.Valid = true
	}
	return nil
}

func (f *fakeAdStore) SoftDelete(id, reason string) error {
	f.softDeleteCalls++
	if len(f.softDeleteErrs) > 0 {
		err := f.softDeleteErrs[0]
		f.softDeleteErrs = f.softDeleteErrs[1:]
		if err != nil {
			return err
		}
	}
	ad, ok := f.ads[id]
	if !ok || ad.Status == models.AdDeleted {
		return utils.ErrNotFound
	}
	ad.Status = models.AdDeleted
	return nil
}

func (f *fakeAdStore) IncrementClicks(id string) error {
	ad, ok := f.ads[id]
	if !ok {
		return utils.ErrNotFound
	}
	ad.Clicks++
	return nil
}

type fakeCampaignStore struct {
	created []*models.Campaign
}

func (f *fakeCampaignStore) Create(c *models.Campaign) error {
	c.ID = "campaign-1"
	f.created = append(f.created, c)
	return nil
}

func activeAd(id, merchantID string) *models.Ad {
	return &models.Ad{
		ID:         id,
		MerchantID: merchantID,
		Title:      "Test Ad",
		TargetURL:  "https://store.example/p/1",
		Status:     models.AdActive,
		EntryType:  models.EntrySingle,
	}
}

func TestAdServiceSetStatus(t *testing.T) {
	tests := []struct {
		name string
		from models.AdStatus
		to   models.AdStatus
		err  error
	}{
		{"active to paused", models.AdActive, models.AdPaused, nil},
		{"paused to active", models.AdPaused, models.AdActive, nil},
		{"active to rejected", models.AdActive, models.AdRejected, nil},
		{"rejected to active", models.AdRejected, models.AdActive, nil},
		{"active to deleted", models.AdActive, models.AdDeleted, nil},
		{"deleted is terminal", models.AdDeleted, models.AdActive, utils.ErrInvalidTransition},
		{"rejected cannot pause", models.AdRejected, models.AdPaused, utils.ErrInvalidTransition},
		{"draft cannot activate directly", models.AdDraft, models.AdActive, utils.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := activeAd("ad-1", "m-1")
			ad.Status = tt.from
			svc := NewAdService(newFakeAdStore(ad), &fakeCampaignStore{})

			err := svc.SetStatus("m-1", "ad-1", tt.to, "")
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAdServiceOwnership(t *testing.T) {
	store := newFakeAdStore(activeAd("ad-1", "m-1"))
	svc := NewAdService(store, &fakeCampaignStore{})

	err := svc.SetStatus("m-2", "ad-1", models.AdPaused, "")
	assert.ErrorIs(t, err, utils.ErrAccessDenied)

	// empty merchant skips the ownership check (admin path)
	err = svc.SetStatus("", "ad-1", models.AdPaused, "")
	assert.NoError(t, err)
}

func TestAdServiceSoftDeleteRetry(t *testing.T) {
	t.Run("transient failures retried", func(t *testing.T) {
		store := newFakeAdStore(activeAd("ad-1", "m-1"))
		store.softDeleteErrs = []error{errors.New("connection reset"), errors.New("connection reset")}
		svc := NewAdService(store, &fakeCampaignStore{})

		err := svc.Delete("m-1", "ad-1")
		assert.NoError(t, err)
		assert.Equal(t, 3, store.softDeleteCalls)
	})

	t.Run("persistent failure surfaces after three attempts", func(t *testing.T) {
		store := newFakeAdStore(activeAd("ad-1", "m-1"))
		boom := errors.New("connection reset")
		store.softDeleteErrs = []error{boom, boom, boom}
		svc := NewAdService(store, &fakeCampaignStore{})

		err := svc.Delete("m-1", "ad-1")
		assert.Error(t, err)
		assert.Equal(t, 3, store.softDeleteCalls)
	})

	t.Run("zero rows not retried", func(t *testing.T) {
		store := newFakeAdStore(activeAd("ad-1", "m-1"))
		store.softDeleteErrs = []error{utils.ErrNotFound}
		svc := NewAdService(store, &fakeCampaignStore{})

		err := svc.Delete("m-1", "ad-1")
		assert.ErrorIs(t, err, utils.ErrNotFound)
		assert.Equal(t, 1, store.softDeleteCalls)
	})
}

func TestAdServiceSanitizesContent(t *testing.T) {
	store := newFakeAdStore()
	svc := NewAdService(store, &fakeCampaignStore{})

	ad, err := svc.Create("m-1", "My Store", AdInput{
		Title:       `Great <script>alert("x")</script>Phone`,
		Description: "<b>Bold</b> claim",
		TargetURL:   "https://store.example/p/1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Great Phone", ad.Title)
	assert.Equal(t, "Bold claim", ad.Description)
}

func TestAdServiceUpdateDeletedAd(t *testing.T) {
	ad := activeAd("ad-1", "m-1")
	ad.Status = models.AdDeleted
	svc := NewAdService(newFakeAdStore(ad), &fakeCampaignStore{})

	_, err := svc.Update("m-1", "ad-1", AdInput{Title: "New", TargetURL: "https://x.example/p/1"})
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestAdServiceCreateCampaign(t *testing.T) {
	store := newFakeAdStore()
	campaigns := &fakeCampaignStore{}
	svc := NewAdService(store, campaigns)

	budget := 500.0
	campaign, ads, err := svc.CreateCampaign("m-1", "My Store", CampaignInput{
		Name:   "Summer Sale",
		Budget: &budget,
		Ads: []AdInput{
			{Title: "Ad One", TargetURL: "https://x.example/p/1"},
			{Title: "Ad Two", TargetURL: "https://x.example/p/2"},
		},
	})
	require.NoError(t, err)
	require.Len(t, campaigns.created, 1)
	assert.Equal(t, "Summer Sale", campaign.Title)
	assert.True(t, campaign.Budget.Valid)
	require.Len(t, ads, 2)
	for _, ad := range ads {
		assert.Equal(t, models.EntryCampaign, ad.EntryType)
		assert.Equal(t, "campaign-1", ad.CampaignID)
	}
}
