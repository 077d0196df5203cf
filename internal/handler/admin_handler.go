package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/service"
	"github.com/nabih-app/nabih-api/internal/utils"
)

type AdminHandler struct {
	admin *service.AdminService
	ads   *service.AdService
}

func NewAdminHandler(admin *service.AdminService, ads *service.AdService) *AdminHandler {
	return &AdminHandler{admin: admin, ads: ads}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats()
	if err != nil {
		utils.Error(c, 500, "STATS_FAILED", "Failed to gather platform stats")
		return
	}
	utils.Success(c, 200, "Platform stats", stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers()
	if err != nil {
		utils.Error(c, 500, "USERS_FAILED", "Failed to load users")
		return
	}
	utils.Success(c, 200, "Users", users)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone"`
		Country string `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.admin.UpdateUser(c.Param("id"), req.Name, req.Phone, req.Country); err != nil {
		h.userError(c, err, "Failed to update user")
		return
	}
	utils.Success(c, 200, "User updated", nil)
}

func (h *AdminHandler) ToggleRole(c *gin.Context) {
	var req struct {
		Role  string `json:"role" binding:"required"`
		Grant *bool  `json:"grant" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	role := models.NormalizeRole(req.Role)
	if err := h.admin.ToggleRole(c.Param("id"), role, *req.Grant); err != nil {
		if errors.Is(err, utils.ErrInvalidTransition) {
			utils.Error(c, http.StatusConflict, "LAST_ROLE", "An account must keep at least one role")
			return
		}
		h.userError(c, err, "Failed to change role")
		return
	}
	utils.Success(c, 200, "Role updated", nil)
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req struct {
		Status models.AccountStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	switch req.Status {
	case models.AccountActive, models.AccountSuspended, models.AccountDeleted:
	default:
		utils.Error(c, 400, "INVALID_STATUS", "Unsupported account status")
		return
	}

	if err := h.admin.SetUserStatus(c.Param("id"), req.Status); err != nil {
		h.userError(c, err, "Failed to change account status")
		return
	}
	utils.Success(c, 200, "Account status updated", nil)
}

func (h *AdminHandler) ReviewMerchantRequest(c *gin.Context) {
	var req struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.admin.ReviewMerchantRequest(c.Param("id"), *req.Approve); err != nil {
		h.userError(c, err, "Failed to review merchant request")
		return
	}
	utils.Success(c, 200, "Merchant request reviewed", nil)
}

func (h *AdminHandler) ListAds(c *gin.Context) {
	ads, err := h.ads.ListAll()
	if err != nil {
		utils.Error(c, 500, "ADS_FAILED", "Failed to load ads")
		return
	}
	utils.Success(c, 200, "All ads", ads)
}

func (h *AdminHandler) ReviewAd(c *gin.Context) {
	var req struct {
		Status models.AdStatus `json:"status" binding:"required"`
		Reason string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Status == models.AdRejected && req.Reason == "" {
		utils.Error(c, 400, "REASON_REQUIRED", "A rejection reason is required")
		return
	}

	if err := h.admin.ReviewAd(c.Param("id"), req.Status, req.Reason); err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			utils.Error(c, 404, "NOT_FOUND", "Ad not found")
		case errors.Is(err, utils.ErrInvalidTransition):
			utils.Error(c, http.StatusConflict, "INVALID_TRANSITION", "This status change is not allowed")
		default:
			utils.Error(c, 500, "AD_FAILED", "Failed to review ad")
		}
		return
	}
	utils.Success(c, 200, "Ad reviewed", nil)
}

func (h *AdminHandler) BulkSuspendAds(c *gin.Context) {
	h.bulkAds(c, h.admin.BulkSuspendAds, "Ads suspended")
}

func (h *AdminHandler) BulkRemoveAds(c *gin.Context) {
	h.bulkAds(c, h.admin.BulkRemoveAds, "Ads removed")
}

func (h *AdminHandler) bulkAds(c *gin.Context, run func([]string, string) int, message string) {
	var req struct {
		IDs    []string `json:"ids" binding:"required,min=1"`
		Reason string   `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	done := run(req.IDs, req.Reason)
	utils.Success(c, 200, message, gin.H{
		"requested": len(req.IDs),
		"applied":   done,
	})
}

func (h *AdminHandler) GlobalHistory(c *gin.Context) {
	items, err := h.admin.GlobalHistory()
	if err != nil {
		utils.Error(c, 500, "HISTORY_FAILED", "Failed to load search history")
		return
	}
	utils.Success(c, 200, "Global search history", items)
}

func (h *AdminHandler) RecentActivity(c *gin.Context) {
	since := time.Now().Add(-7 * 24 * time.Hour)
	if raw := c.Query("since"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			since = t
		}
	}

	stamps, err := h.admin.RecentActivity(since)
	if err != nil {
		utils.Error(c, 500, "ACTIVITY_FAILED", "Failed to load activity")
		return
	}
	utils.Success(c, 200, "Recent activity", stamps)
}

func (h *AdminHandler) userError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, utils.ErrNotFound) {
		utils.Error(c, 404, "NOT_FOUND", "User not found")
		return
	}
	utils.Error(c, 500, "USER_FAILED", fallback)
}
