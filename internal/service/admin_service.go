package service

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/repository"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// PlatformStats is the back-office dashboard summary.
type PlatformStats struct {
	Individuals int `json:"individuals"`
	Merchants   int `json:"merchants"`
	Admins      int `json:"admins"`
	Ads         int `json:"ads"`
	Campaigns   int `json:"campaigns"`
	Searches    int `json:"searches"`
}

// AdminUser is one row of the back-office user table.
type AdminUser struct {
	models.UserProfile
	RequestStatus models.AccountStatus `json:"requestStatus,omitempty"`
}

// AdminService implements the back-office operations.
type AdminService struct {
	users     *repository.UserRepository
	merchants *repository.MerchantRepository
	ads       *repository.AdRepository
	campaigns *repository.CampaignRepository
	history   *repository.SearchHistoryRepository
	adSvc     *AdService
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	users *repository.UserRepository,
	merchants *repository.MerchantRepository,
	ads *repository.AdRepository,
	campaigns *repository.CampaignRepository,
	history *repository.SearchHistoryRepository,
	adSvc *AdService,
) *AdminService {
	return &AdminService{
		users:     users,
		merchants: merchants,
		ads:       ads,
		campaigns: campaigns,
		history:   history,
		adSvc:     adSvc,
	}
}

// Stats gathers the dashboard counters. The counts are independent and
// fetched in parallel; a single failed count fails the whole call.
func (s *AdminService) Stats() (*PlatformStats, error) {
	var (
		stats PlatformStats
		wg    sync.WaitGroup
		mu    sync.Mutex
		errs  []error
	)

	count := func(run func() (int, error), dst *int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := run()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			*dst = n
		}()
	}

	count(func() (int, error) { return s.users.CountProfilesByRole(models.RoleIndividual) }, &stats.Individuals)
	count(func() (int, error) { return s.users.CountProfilesByRole(models.RoleMerchant) }, &stats.Merchants)
	count(func() (int, error) { return s.users.CountProfilesByRole(models.RoleAdmin) }, &stats.Admins)
	count(s.ads.CountNonDeleted, &stats.Ads)
	count(s.campaigns.Count, &stats.Campaigns)
	count(s.history.CountAll, &stats.Searches)
	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &stats, nil
}

// ListUsers assembles every account with its authoritative roles and, for
// merchants, onboarding state. Profiles, role rows and merchant rows are
// fetched in parallel and joined in memory.
func (s *AdminService) ListUsers() ([]AdminUser, error) {
	var (
		profiles  []models.Profile
		roleRows  []repository.UserRoleRow
		merchants []models.Merchant
		wg        sync.WaitGroup
		mu        sync.Mutex
		errs      []error
	)

	fetch := func(run func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	fetch(func() (err error) { profiles, err = s.users.ListProfiles(); return })
	fetch(func() (err error) { roleRows, err = s.users.ListAllRoles(); return })
	fetch(func() (err error) { merchants, err = s.merchants.List(); return })
	wg.Wait()
	if len(errs) > 0 {
		return nil, errs[0]
	}

	rolesByUser := make(map[string][]models.Role, len(profiles))
	for _, row := range roleRows {
		rolesByUser[row.UserID] = append(rolesByUser[row.UserID], row.Role)
	}
	storeByUser := make(map[string]string, len(merchants))
	for _, m := range merchants {
		storeByUser[m.ID] = m.StoreName
	}

	out := make([]AdminUser, 0, len(profiles))
	for _, p := range profiles {
		roles := rolesByUser[p.ID]
		if len(roles) == 0 {
			roles = []models.Role{models.RoleIndividual}
		}
		out = append(out, AdminUser{
			UserProfile: models.UserProfile{
				ID:        p.ID,
				Name:      p.FullName,
				Email:     p.Email,
				Phone:     p.Phone,
				Country:   p.Country,
				Role:      models.PrimaryRole(roles),
				Roles:     roles,
				Status:    p.Status,
				StoreName: storeByUser[p.ID],
				CreatedAt: p.CreatedAt,
			},
		})
	}
	return out, nil
}

// UpdateUser rewrites a user's editable profile fields.
func (s *AdminService) UpdateUser(id, fullName, phone, country string) error {
	return s.users.UpdateProfileFields(id, fullName, phone, country)
}

// ToggleRole grants or revokes a role. The last role cannot be removed;
// every account keeps at least individual.
func (s *AdminService) ToggleRole(userID string, role models.Role, grant bool) error {
	if role != models.RoleIndividual && role != models.RoleMerchant && role != models.RoleAdmin {
		return utils.ErrNotFound
	}
	if !grant {
		roles, err := s.users.GetRoles(userID)
		if err != nil {
			return err
		}
		if len(roles) == 1 && roles[0] == role {
			return utils.ErrInvalidTransition
		}
	}
	return s.users.ToggleRole(userID, role, grant)
}

// SetUserStatus moves an account to a new status (suspend, reinstate,
// soft delete).
func (s *AdminService) SetUserStatus(userID string, status models.AccountStatus) error {
	return s.users.SetProfileStatus(userID, status)
}

// ReviewMerchantRequest approves or rejects a merchant onboarding request.
// Approval activates the account and publishes the merchant record.
func (s *AdminService) ReviewMerchantRequest(userID string, approve bool) error {
	req, err := s.merchants.GetRequestByUserID(userID)
	if err != nil {
		return err
	}

	if !approve {
		if err := s.merchants.SetRequestStatus(userID, models.AccountRejected); err != nil {
			return err
		}
		return s.users.SetProfileStatus(userID, models.AccountRejected)
	}

	if err := s.merchants.SetRequestStatus(userID, models.AccountApproved); err != nil {
		return err
	}
	if err := s.users.SetProfileStatus(userID, models.AccountActive); err != nil {
		return err
	}
	profile, err := s.users.GetProfileByID(userID)
	if err != nil {
		return err
	}
	return s.merchants.Upsert(&models.Merchant{
		ID:        userID,
		StoreName: req.StoreName,
		Email:     profile.Email,
		Phone:     profile.Phone,
	})
}

// ReviewAd validates and applies an admin status decision on one ad.
func (s *AdminService) ReviewAd(adID string, to models.AdStatus, reason string) error {
	return s.adSvc.SetStatus("", adID, to, reason)
}

// BulkSuspendAds pauses a set of ads with a shared reason. Individual
// failures are logged and skipped.
func (s *AdminService) BulkSuspendAds(ids []string, reason string) int {
	return s.bulkTransition(ids, models.AdPaused, reason)
}

// BulkRemoveAds soft deletes a set of ads with a shared reason.
func (s *AdminService) BulkRemoveAds(ids []string, reason string) int {
	return s.bulkTransition(ids, models.AdDeleted, reason)
}

func (s *AdminService) bulkTransition(ids []string, to models.AdStatus, reason string) int {
	done := 0
	for _, id := range ids {
		if err := s.adSvc.SetStatus("", id, to, reason); err != nil {
			if !errors.Is(err, utils.ErrInvalidTransition) && !errors.Is(err, utils.ErrNotFound) {
				log.Warn().Err(err).Str("ad_id", id).Msg("Bulk ad transition failed")
			}
			continue
		}
		done++
	}
	return done
}

// GlobalHistory returns the latest searches across all users.
func (s *AdminService) GlobalHistory() ([]models.HistoryItem, error) {
	return s.history.ListGlobal()
}

// RecentActivity returns search timestamps since the cutoff for the
// dashboard activity chart.
func (s *AdminService) RecentActivity(since time.Time) ([]time.Time, error) {
	return s.history.RecentActivity(since)
}
