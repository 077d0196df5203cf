package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/repository"
	"github.com/nabih-app/nabih-api/internal/service"
	"github.com/nabih-app/nabih-api/internal/utils"
)

const maxAdImageBytes = 5 << 20

type MerchantHandler struct {
	ads       *service.AdService
	uploads   *service.UploadService
	merchants *repository.MerchantRepository
}

func NewMerchantHandler(ads *service.AdService, uploads *service.UploadService, merchants *repository.MerchantRepository) *MerchantHandler {
	return &MerchantHandler{ads: ads, uploads: uploads, merchants: merchants}
}

// merchantName resolves the display name shown on sponsored results:
// the published store record first, the onboarding request next, the
// account email as a last resort.
func (h *MerchantHandler) merchantName(c *gin.Context) string {
	userID := c.GetString("user_id")
	if m, err := h.merchants.GetByID(userID); err == nil && m.StoreName != "" {
		return m.StoreName
	}
	if req, err := h.merchants.GetRequestByUserID(userID); err == nil && req.StoreName != "" {
		return req.StoreName
	}
	return c.GetString("email")
}

func (h *MerchantHandler) ListAds(c *gin.Context) {
	ads, err := h.ads.ListForMerchant(c.GetString("user_id"))
	if err != nil {
		utils.Error(c, 500, "ADS_FAILED", "Failed to load ads")
		return
	}
	utils.Success(c, 200, "Merchant ads", ads)
}

func (h *MerchantHandler) CreateAd(c *gin.Context) {
	var req service.AdInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ad, err := h.ads.Create(c.GetString("user_id"), h.merchantName(c), req)
	if err != nil {
		utils.Error(c, 500, "AD_CREATE_FAILED", "Failed to create ad")
		return
	}
	utils.Success(c, 201, "Ad created", ad)
}

func (h *MerchantHandler) BulkCreateAds(c *gin.Context) {
	var req struct {
		Ads []service.AdInput `json:"ads" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ads, err := h.ads.BulkCreate(c.GetString("user_id"), h.merchantName(c), req.Ads)
	if err != nil {
		utils.Error(c, 500, "AD_CREATE_FAILED", "Failed to create ads")
		return
	}
	utils.Success(c, 201, "Ads created", ads)
}

func (h *MerchantHandler) CreateCampaign(c *gin.Context) {
	var req service.CampaignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	campaign, ads, err := h.ads.CreateCampaign(c.GetString("user_id"), h.merchantName(c), req)
	if err != nil {
		if campaign != nil {
			// The campaign row exists but its ads failed; report the
			// partial state instead of pretending nothing happened.
			utils.Error(c, 500, "CAMPAIGN_PARTIAL", "Campaign created but its ads failed to save")
			return
		}
		utils.Error(c, 500, "CAMPAIGN_FAILED", "Failed to create campaign")
		return
	}
	utils.Success(c, 201, "Campaign created", gin.H{
		"campaign": campaign,
		"ads":      ads,
	})
}

func (h *MerchantHandler) UpdateAd(c *gin.Context) {
	var req service.AdInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ad, err := h.ads.Update(c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.adError(c, err, "Failed to update ad")
		return
	}
	utils.Success(c, 200, "Ad updated", ad)
}

// SetAdStatus pauses or resumes one of the merchant's own ads.
func (h *MerchantHandler) SetAdStatus(c *gin.Context) {
	var req struct {
		Status models.AdStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Status != models.AdActive && req.Status != models.AdPaused {
		utils.Error(c, 400, "INVALID_STATUS", "Merchants may only pause or resume ads")
		return
	}

	if err := h.ads.SetStatus(c.GetString("user_id"), c.Param("id"), req.Status, ""); err != nil {
		h.adError(c, err, "Failed to change ad status")
		return
	}
	utils.Success(c, 200, "Ad status updated", nil)
}

func (h *MerchantHandler) DeleteAd(c *gin.Context) {
	if err := h.ads.Delete(c.GetString("user_id"), c.Param("id")); err != nil {
		h.adError(c, err, "Failed to delete ad")
		return
	}
	utils.Success(c, 200, "Ad deleted", nil)
}

func (h *MerchantHandler) UploadAdImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing image file")
		return
	}
	defer file.Close()

	if header.Size > maxAdImageBytes {
		utils.Error(c, 413, "IMAGE_TOO_LARGE", "Image exceeds the 5MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		utils.Error(c, 415, "UNSUPPORTED_TYPE", "Only JPEG and PNG images are accepted")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAdImageBytes+1))
	if err != nil || len(data) > maxAdImageBytes {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read image")
		return
	}

	url, err := h.uploads.UploadAdImage(c.Request.Context(), c.GetString("user_id"), data, contentType)
	if err != nil {
		utils.Error(c, 502, "UPLOAD_FAILED", "Failed to store image")
		return
	}
	utils.Success(c, 201, "Image uploaded", gin.H{"url": url})
}

// UpsertProfile publishes or updates the merchant's public store record.
func (h *MerchantHandler) UpsertProfile(c *gin.Context) {
	var req struct {
		StoreName      string          `json:"storeName" binding:"required"`
		Phone          string          `json:"phone"`
		WebsiteURL     string          `json:"websiteUrl"`
		LocationURL    string          `json:"locationUrl"`
		AddressDetails string          `json:"address"`
		Branches       json.RawMessage `json:"branches"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	m := &models.Merchant{
		ID:             c.GetString("user_id"),
		StoreName:      req.StoreName,
		Email:          c.GetString("email"),
		Phone:          req.Phone,
		WebsiteURL:     req.WebsiteURL,
		LocationURL:    req.LocationURL,
		AddressDetails: req.AddressDetails,
		Branches:       req.Branches,
	}
	if err := h.merchants.Upsert(m); err != nil {
		utils.Error(c, 500, "PROFILE_FAILED", "Failed to save merchant profile")
		return
	}
	utils.Success(c, 200, "Merchant profile saved", m)
}

// PublicProfile returns a merchant's store record with their active ads.
// Public, no authentication.
func (h *MerchantHandler) PublicProfile(c *gin.Context) {
	merchantID := c.Param("id")
	m, err := h.merchants.GetByID(merchantID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Merchant not found")
			return
		}
		utils.Error(c, 500, "PROFILE_FAILED", "Failed to load merchant")
		return
	}

	ads, err := h.ads.ListForMerchant(merchantID)
	if err != nil {
		utils.Error(c, 500, "PROFILE_FAILED", "Failed to load merchant ads")
		return
	}
	active := make([]models.AdView, 0, len(ads))
	for _, ad := range ads {
		if ad.Status == models.AdActive {
			active = append(active, ad)
		}
	}

	utils.Success(c, 200, "Merchant profile", gin.H{
		"merchant": m,
		"ads":      active,
	})
}

func (h *MerchantHandler) adError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "NOT_FOUND", "Ad not found")
	case errors.Is(err, utils.ErrAccessDenied):
		utils.Error(c, 403, "FORBIDDEN", "This ad belongs to another merchant")
	case errors.Is(err, utils.ErrInvalidTransition):
		utils.Error(c, http.StatusConflict, "INVALID_TRANSITION", "This status change is not allowed")
	default:
		utils.Error(c, 500, "AD_FAILED", fallback)
	}
}
