package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/service"
	"github.com/nabih-app/nabih-api/internal/utils"
)

type SearchHandler struct {
	comparisons *service.ComparisonService
	ads         *service.AdService
}

func NewSearchHandler(comparisons *service.ComparisonService, ads *service.AdService) *SearchHandler {
	return &SearchHandler{comparisons: comparisons, ads: ads}
}

// Compare runs one comparison search. All provider and parse failures
// collapse into a localized user message; the typed cause only reaches
// the logs.
func (h *SearchHandler) Compare(c *gin.Context) {
	var req service.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	lang := req.Language
	if lang != models.LangArabic {
		lang = models.LangEnglish
	}

	result, err := h.comparisons.Compare(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		if errors.Is(err, utils.ErrNoResults) {
			utils.Error(c, 404, "NO_RESULTS", utils.LocalizedNoResults(lang))
			return
		}
		log.Error().Err(err).Str("query", req.Query).Msg("Comparison failed")
		utils.Error(c, 503, "SEARCH_UNAVAILABLE", utils.LocalizedHighTraffic(lang))
		return
	}

	utils.Success(c, 200, "Comparison ready", result)
}

func (h *SearchHandler) History(c *gin.Context) {
	items, err := h.comparisons.History(c.GetString("user_id"))
	if err != nil {
		utils.Error(c, 500, "HISTORY_FAILED", "Failed to load search history")
		return
	}
	utils.Success(c, 200, "Search history", items)
}

func (h *SearchHandler) DeleteHistoryItem(c *gin.Context) {
	err := h.comparisons.DeleteHistoryItem(c.GetString("user_id"), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "History item not found")
			return
		}
		utils.Error(c, 500, "HISTORY_FAILED", "Failed to delete history item")
		return
	}
	utils.Success(c, 200, "History item deleted", nil)
}

func (h *SearchHandler) ClearHistory(c *gin.Context) {
	if err := h.comparisons.ClearHistory(c.GetString("user_id")); err != nil {
		utils.Error(c, 500, "HISTORY_FAILED", "Failed to clear search history")
		return
	}
	utils.Success(c, 200, "History cleared", nil)
}

// TrackClick records a click on a sponsored result. Public; the click
// happens before any navigation, so failures are acknowledged but the
// redirect must not be blocked.
func (h *SearchHandler) TrackClick(c *gin.Context) {
	if err := h.ads.TrackClick(c.Param("id")); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Ad not found")
			return
		}
		log.Warn().Err(err).Str("ad_id", c.Param("id")).Msg("Click tracking failed")
	}
	utils.Success(c, 200, "Click recorded", nil)
}
