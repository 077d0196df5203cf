package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/repository"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// RegisterRequest is the signup payload. Store fields are required only
// when the requested role is merchant.
type RegisterRequest struct {
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required,min=8"`
	FullName           string `json:"name" binding:"required"`
	Phone              string `json:"phone"`
	Country            string `json:"country"`
	Role               string `json:"role"`
	StoreName          string `json:"storeName"`
	CommercialRegister string `json:"crNumber"`
	TaxNumber          string `json:"taxNumber"`
	StoreCategory      string `json:"storeCategory"`
	StoreAddress       string `json:"storeAddress"`
}

// LoginRequest is the signin payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult bundles a token with the assembled user it authenticates.
type AuthResult struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user"`
}

// AuthService implements signup, signin and session assembly.
type AuthService struct {
	users     *repository.UserRepository
	merchants *repository.MerchantRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, merchants *repository.MerchantRepository) *AuthService {
	return &AuthService{users: users, merchants: merchants}
}

// Register creates a profile with its role rows and, for merchants, files
// the onboarding request. A failed onboarding request does not fail the
// signup: the account exists and the request can be re-filed.
func (s *AuthService) Register(req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := models.NormalizeRole(req.Role)
	if role == models.RoleAdmin {
		// Admin accounts are only granted through the back office.
		role = models.RoleIndividual
	}

	if _, err := s.users.GetProfileByEmail(email); err == nil {
		return nil, utils.ErrEmailTaken
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	status := models.AccountActive
	if role == models.RoleMerchant {
		status = models.AccountPending
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Country:      strings.ToUpper(strings.TrimSpace(req.Country)),
		Status:       status,
	}
	roles := []models.Role{role}
	if err := s.users.CreateProfile(profile, roles); err != nil {
		return nil, err
	}

	if role == models.RoleMerchant {
		request := &models.MerchantRequest{
			UserID:             profile.ID,
			StoreName:          strings.TrimSpace(req.StoreName),
			CommercialRegister: strings.TrimSpace(req.CommercialRegister),
			TaxNumber:          strings.TrimSpace(req.TaxNumber),
			StoreCategory:      strings.TrimSpace(req.StoreCategory),
			StoreAddress:       strings.TrimSpace(req.StoreAddress),
			Status:             models.AccountPending,
		}
		if err := s.merchants.CreateRequest(request); err != nil {
			log.Error().Err(err).Str("user_id", profile.ID).Msg("Merchant onboarding request failed after signup")
		}
	}

	token, err := utils.GenerateJWT(profile.ID, profile.Email, roles)
	if err != nil {
		return nil, err
	}
	user, err := s.AssembleUser(profile.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token carrying the user's
// current roles.
func (s *AuthService) Login(req LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	profile, err := s.users.GetProfileByEmail(email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	switch profile.Status {
	case models.AccountSuspended, models.AccountRejected, models.AccountDeleted:
		return nil, utils.ErrAccountInactive
	}

	roles, err := s.users.GetRoles(profile.ID)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateJWT(profile.ID, profile.Email, roles)
	if err != nil {
		return nil, err
	}
	user, err := s.AssembleUser(profile.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// AssembleUser builds the full session view of a user: profile, the
// authoritative role list, and merchant onboarding state when present.
func (s *AuthService) AssembleUser(userID string) (*models.UserProfile, error) {
	profile, err := s.users.GetProfileByID(userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.users.GetRoles(userID)
	if err != nil {
		return nil, err
	}

	user := &models.UserProfile{
		ID:        profile.ID,
		Name:      profile.FullName,
		Email:     profile.Email,
		Phone:     profile.Phone,
		Country:   profile.Country,
		Role:      models.PrimaryRole(roles),
		Roles:     roles,
		Status:    profile.Status,
		CreatedAt: profile.CreatedAt,
	}

	if user.HasRole(models.RoleMerchant) {
		if req, err := s.merchants.GetRequestByUserID(userID); err == nil {
			user.StoreName = req.StoreName
			// The request status is the merchant's effective account
			// status until approval.
			if profile.Status == models.AccountPending || profile.Status == models.AccountActive {
				user.Status = req.Status
			}
		} else if !errors.Is(err, utils.ErrNotFound) {
			return nil, err
		}
		if m, err := s.merchants.GetByID(userID); err == nil && m.StoreName != "" {
			user.StoreName = m.StoreName
		}
	}
	return user, nil
}
