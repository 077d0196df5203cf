package service

import (
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// adStore is the persistence surface AdService needs. AdRepository
// satisfies it.
type adStore interface {
	GetByID(id string) (*models.Ad, error)
	ListByMerchant(merchantID string) ([]models.Ad, error)
	ListAll() ([]models.Ad, error)
	Create(ad *models.Ad) error
	BulkCreate(ads []*models.Ad) error
	UpdateContent(id string, ad *models.Ad) error
	SetStatus(id string, status models.AdStatus, reason string) error
	SoftDelete(id, reason string) error
	IncrementClicks(id string) error
}

// campaignStore is the campaign persistence surface.
type campaignStore interface {
	Create(c *models.Campaign) error
}

// AdInput is the merchant-supplied content of one ad.
type AdInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	TargetURL   string `json:"targetUrl" binding:"required"`
	Category    string `json:"category"`
}

// CampaignInput creates a campaign together with its member ads.
type CampaignInput struct {
	Name      string    `json:"name" binding:"required"`
	Budget    *float64  `json:"budget"`
	StartDate *string   `json:"startDate"`
	EndDate   *string   `json:"endDate"`
	Ads       []AdInput `json:"ads" binding:"required,min=1"`
}

const softDeleteAttempts = 3

// AdService owns the merchant ad lifecycle. All user-supplied text is
// sanitized before it reaches storage; ad text is rendered into search
// results for other users.
type AdService struct {
	ads       adStore
	campaigns campaignStore
	sanitizer *bluemonday.Policy
}

// NewAdService creates a new AdService.
func NewAdService(ads adStore, campaigns campaignStore) *AdService {
	return &AdService{
		ads:       ads,
		campaigns: campaigns,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *AdService) clean(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

func (s *AdService) buildAd(merchantID, merchantName string, in AdInput) *models.Ad {
	return &models.Ad{
		MerchantID:   merchantID,
		MerchantName: s.clean(merchantName),
		Title:        s.clean(in.Title),
		Description:  s.clean(in.Description),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		TargetURL:    strings.TrimSpace(in.TargetURL),
		Category:     s.clean(in.Category),
		Status:       models.AdActive,
		EntryType:    models.EntrySingle,
	}
}

// ListForMerchant returns all of a merchant's ads, deleted included, so
// the dashboard can show the full history.
func (s *AdService) ListForMerchant(merchantID string) ([]models.AdView, error) {
	ads, err := s.ads.ListByMerchant(merchantID)
	if err != nil {
		return nil, err
	}
	return toViews(ads), nil
}

// ListAll returns every non-deleted ad for the back office.
func (s *AdService) ListAll() ([]models.AdView, error) {
	ads, err := s.ads.ListAll()
	if err != nil {
		return nil, err
	}
	return toViews(ads), nil
}

// Create stores one single ad.
func (s *AdService) Create(merchantID, merchantName string, in AdInput) (*models.AdView, error) {
	ad := s.buildAd(merchantID, merchantName, in)
	if ad.Title == "" || ad.TargetURL == "" {
		return nil, utils.ErrInvalidTransition
	}
	if err := s.ads.Create(ad); err != nil {
		return nil, err
	}
	view := ad.View()
	return &view, nil
}

// BulkCreate stores several single ads in one transaction.
func (s *AdService) BulkCreate(merchantID, merchantName string, inputs []AdInput) ([]models.AdView, error) {
	ads := make([]*models.Ad, 0, len(inputs))
	for _, in := range inputs {
		ad := s.buildAd(merchantID, merchantName, in)
		if ad.Title == "" || ad.TargetURL == "" {
			continue
		}
		ads = append(ads, ad)
	}
	if len(ads) == 0 {
		return nil, utils.ErrNotFound
	}
	if err := s.ads.BulkCreate(ads); err != nil {
		return nil, err
	}
	views := make([]models.AdView, 0, len(ads))
	for _, ad := range ads {
		views = append(views, ad.View())
	}
	return views, nil
}

// CreateCampaign stores a campaign row, then its member ads. A failed ad
// insert is reported but does not roll back the campaign row; the
// merchant can re-add ads to the existing campaign.
func (s *AdService) CreateCampaign(merchantID, merchantName string, in CampaignInput) (*models.Campaign, []models.AdView, error) {
	campaign := &models.Campaign{
		MerchantID: merchantID,
		Title:      s.clean(in.Name),
		Status:     "active",
	}
	if in.Budget != nil {
		campaign.Budget.Float64 = *in.Budget
		campaign.Budget.Valid = true
	}
	if in.StartDate != nil {
		if t, err := time.Parse("2006-01-02", *in.StartDate); err == nil {
			campaign.StartDate.Time = t
			campaign.StartDate.Valid = true
		}
	}
	if in.EndDate != nil {
		if t, err := time.Parse("2006-01-02", *in.EndDate); err == nil {
			campaign.EndDate.Time = t
			campaign.EndDate.Valid = true
		}
	}
	if err := s.campaigns.Create(campaign); err != nil {
		return nil, nil, err
	}

	ads := make([]*models.Ad, 0, len(in.Ads))
	for _, adIn := range in.Ads {
		ad := s.buildAd(merchantID, merchantName, adIn)
		if ad.Title == "" || ad.TargetURL == "" {
			continue
		}
		ad.EntryType = models.EntryCampaign
		ad.CampaignID.String = campaign.ID
		ad.CampaignID.Valid = true
		ads = append(ads, ad)
	}
	if err := s.ads.BulkCreate(ads); err != nil {
		log.Error().Err(err).Str("campaign_id", campaign.ID).Msg("Campaign ads failed to insert")
		return campaign, nil, err
	}
	return campaign, toViewPtrs(ads), nil
}

// Update rewrites an ad's content. Per the review flow, an edit puts the
// ad back in circulation and clears any prior rejection.
func (s *AdService) Update(merchantID, adID string, in AdInput) (*models.AdView, error) {
	existing, err := s.ads.GetByID(adID)
	if err != nil {
		return nil, err
	}
	if existing.MerchantID != merchantID {
		return nil, utils.ErrAccessDenied
	}
	if existing.Status == models.AdDeleted {
		return nil, utils.ErrInvalidTransition
	}

	updated := s.buildAd(merchantID, existing.MerchantName, in)
	if err := s.ads.UpdateContent(adID, updated); err != nil {
		return nil, err
	}
	refreshed, err := s.ads.GetByID(adID)
	if err != nil {
		return nil, err
	}
	view := refreshed.View()
	return &view, nil
}

// SetStatus moves an ad along the lifecycle, validating the transition
// against the allowed table. Merchants may only touch their own ads;
// admins pass an empty merchantID and skip the ownership check.
func (s *AdService) SetStatus(merchantID, adID string, to models.AdStatus, reason string) error {
	ad, err := s.ads.GetByID(adID)
	if err != nil {
		return err
	}
	if merchantID != "" && ad.MerchantID != merchantID {
		return utils.ErrAccessDenied
	}
	if !models.CanTransition(ad.Status, to) {
		return utils.ErrInvalidTransition
	}
	if to == models.AdDeleted {
		return s.softDelete(adID, reason)
	}
	return s.ads.SetStatus(adID, to, reason)
}

// softDelete retries transient failures with exponential backoff. A
// zero-row update means the ad is already deleted or gone and is not
// retried.
func (s *AdService) softDelete(adID, reason string) error {
	var err error
	for attempt := 0; attempt < softDeleteAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<(attempt-1)) * 500 * time.Millisecond)
		}
		err = s.ads.SoftDelete(adID, reason)
		if err == nil || errors.Is(err, utils.ErrNotFound) {
			return err
		}
		log.Warn().Err(err).Str("ad_id", adID).Int("attempt", attempt+1).Msg("Ad soft delete failed")
	}
	return err
}

// Delete soft deletes a merchant's own ad.
func (s *AdService) Delete(merchantID, adID string) error {
	return s.SetStatus(merchantID, adID, models.AdDeleted, "")
}

// TrackClick records a click on an active ad. Public, unauthenticated.
func (s *AdService) TrackClick(adID string) error {
	return s.ads.IncrementClicks(adID)
}

func toViews(ads []models.Ad) []models.AdView {
	views := make([]models.AdView, 0, len(ads))
	for i := range ads {
		views = append(views, ads[i].View())
	}
	return views
}

func toViewPtrs(ads []*models.Ad) []models.AdView {
	views := make([]models.AdView, 0, len(ads))
	for _, ad := range ads {
		views = append(views, ad.View())
	}
	return views
}
