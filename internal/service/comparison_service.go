package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nabih-app/nabih-api/internal/cache"
	"github.com/nabih-app/nabih-api/internal/config"
	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/repository"
	"github.com/nabih-app/nabih-api/internal/utils"
	"github.com/nabih-app/nabih-api/pkg/genai"
	"github.com/nabih-app/nabih-api/pkg/imgproxy"
)

const (
	defaultScore   = 80
	llmTemperature = 0.1
)

// CompareRequest is one comparison query with its context.
type CompareRequest struct {
	Query        string                   `json:"query" binding:"required"`
	Language     models.Language          `json:"language"`
	Country      string                   `json:"country"`
	Preferences  models.SearchPreferences `json:"preferences"`
	ExcludeNames []string                 `json:"excludeNames"`
}

// ComparisonService runs the product comparison pipeline: cache lookup,
// grounded LLM search, normalization, sponsored-ad merge and writeback.
type ComparisonService struct {
	llm       *genai.Client
	tier1     *cache.SearchCache
	cacheRepo *repository.SearchCacheRepository
	histRepo  *repository.SearchHistoryRepository
	adRepo    *repository.AdRepository
	cfg       config.SearchConfig
}

// NewComparisonService creates a new ComparisonService.
func NewComparisonService(
	llm *genai.Client,
	tier1 *cache.SearchCache,
	cacheRepo *repository.SearchCacheRepository,
	histRepo *repository.SearchHistoryRepository,
	adRepo *repository.AdRepository,
	cfg config.SearchConfig,
) *ComparisonService {
	return &ComparisonService{
		llm:       llm,
		tier1:     tier1,
		cacheRepo: cacheRepo,
		histRepo:  histRepo,
		adRepo:    adRepo,
		cfg:       cfg,
	}
}

// CacheKey derives the deterministic cache key for a comparison request.
// Every input that changes the result must appear in the key.
func CacheKey(query, country string, lang models.Language, prefs models.SearchPreferences, version string) string {
	priority := prefs.Priority
	if priority == "" {
		priority = "balanced"
	}
	scope := "LOC"
	if prefs.IsGlobal {
		scope = "GLO"
	}
	return fmt.Sprintf("%s_%s_%s_%s_%s_%s",
		strings.ToLower(strings.TrimSpace(query)), country, lang, priority, scope, version)
}

// Compare resolves one comparison request. Load-more requests (non-empty
// ExcludeNames) always bypass the caches and are never written back.
func (s *ComparisonService) Compare(ctx context.Context, userID string, req CompareRequest) (*models.ComparisonResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, utils.ErrNoResults
	}
	lang := req.Language
	if lang != models.LangArabic {
		lang = models.LangEnglish
	}
	country := strings.ToUpper(strings.TrimSpace(req.Country))
	if country == "" {
		country = "JO"
	}

	loadMore := len(req.ExcludeNames) > 0
	key := CacheKey(query, country, lang, req.Preferences, s.cfg.CacheVersion)

	if !loadMore {
		if result := s.lookupCaches(ctx, key); result != nil {
			s.recordHistory(userID, query, country)
			return result, nil
		}
	}

	// The ad lookup runs concurrently with the LLM call; it is best
	// effort and must never fail the search.
	adsCh := make(chan []models.Ad, 1)
	go func() {
		ads, err := s.adRepo.SearchActiveByTitle(query, s.cfg.MaxSponsored)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("Sponsored ad lookup failed")
		}
		adsCh <- ads
	}()

	resp, err := s.llm.GenerateContent(ctx,
		buildSystemInstruction(lang),
		buildSearchPrompt(query, country, req.Preferences, req.ExcludeNames, s.cfg.ResultCount),
		llmTemperature)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Comparison provider call failed")
		return nil, utils.ErrProviderFailure
	}

	payload, err := parseModelPayload(resp.Text())
	if err != nil {
		log.Warn().Str("query", query).Msg("Unparseable model payload")
		return nil, utils.ErrNoResults
	}

	products := filterBannedStores(payload.Products, country)
	products = filterExcluded(products, req.ExcludeNames)
	if len(products) == 0 {
		return nil, utils.ErrNoResults
	}

	options := make([]models.ProductOption, 0, len(products))
	for _, p := range products {
		options = append(options, s.buildOption(p, lang))
	}
	backfillLinks(options, resp)
	computeFlags(options)

	result := &models.ComparisonResult{
		Query:                  query,
		Summary:                payload.Summary,
		Options:                options,
		Sources:                groundingSources(resp),
		DisambiguationOptions:  payload.Refinements,
		SmartFilterSuggestions: payload.SmartFilters,
		SortingOptions:         payload.SortingOptions,
	}

	s.mergeSponsored(result, <-adsCh)

	if !loadMore {
		s.recordHistory(userID, query, country)
		s.writeCaches(key, result)
	}
	return result, nil
}

// History returns the user's recent searches.
func (s *ComparisonService) History(userID string) ([]models.HistoryItem, error) {
	return s.histRepo.ListByUser(userID)
}

// DeleteHistoryItem soft deletes one history entry owned by the user.
func (s *ComparisonService) DeleteHistoryItem(userID, itemID string) error {
	return s.histRepo.SoftDeleteItem(itemID, userID)
}

// ClearHistory soft deletes the user's whole history.
func (s *ComparisonService) ClearHistory(userID string) error {
	return s.histRepo.ClearByUser(userID)
}

// lookupCaches checks the Redis tier, then the database tier. A database
// hit is promoted back to Redis.
func (s *ComparisonService) lookupCaches(ctx context.Context, key string) *models.ComparisonResult {
	result, err := s.tier1.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("Search cache read failed")
	}
	if result != nil {
		return result
	}

	row, err := s.cacheRepo.GetFresh(key, s.cfg.CacheTTL)
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			log.Warn().Err(err).Msg("Search cache table read failed")
		}
		return nil
	}

	var cached models.ComparisonResult
	if err := json.Unmarshal(row.Result, &cached); err != nil {
		log.Warn().Err(err).Str("query_key", key).Msg("Corrupt cached comparison, ignoring")
		return nil
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.tier1.Set(ctx, key, &cached); err != nil {
			log.Warn().Err(err).Msg("Cache promotion failed")
		}
	}()
	return &cached
}

func (s *ComparisonService) writeCaches(key string, result *models.ComparisonResult) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.tier1.Set(ctx, key, result); err != nil {
			log.Warn().Err(err).Msg("Search cache write failed")
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return
		}
		if err := s.cacheRepo.Upsert(key, payload); err != nil {
			log.Warn().Err(err).Msg("Search cache table write failed")
		}
	}()
}

func (s *ComparisonService) recordHistory(userID, query, country string) {
	if userID == "" {
		return
	}
	go func() {
		if err := s.histRepo.Insert(userID, query, country); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to record search history")
		}
	}()
}

// buildOption normalizes one model product into a stable option shape.
func (s *ComparisonService) buildOption(p llmProduct, lang models.Language) models.ProductOption {
	name := strings.TrimSpace(p.Name)
	store := strings.TrimSpace(p.Store)
	if store == "" {
		store = utils.LocalizedNotSpecified(lang)
	}

	price := strings.TrimSpace(string(p.Price))
	if price == "" {
		price = utils.LocalizedNotSpecified(lang)
	}

	rating := float64(p.Rating)
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}

	score := float64(p.Score)
	if score <= 0 || score > 100 {
		if val, ok := parsePriceValue(price); ok && rating > 0 {
			score = trueValueScore(val, rating)
		} else {
			score = defaultScore
		}
	}

	stock := strings.TrimSpace(p.Availability)
	if stock == "" {
		stock = utils.LocalizedInStock(lang)
	}

	link := repairLink(name, store, p.Link)
	return models.ProductOption{
		Name:         name,
		Store:        store,
		Price:        price,
		Currency:     extractCurrency(price),
		UnitPrice:    strings.TrimSpace(string(p.UnitPrice)),
		Rating:       rating,
		ReviewsCount: strings.TrimSpace(string(p.ReviewsCount)),
		Link:         link,
		ImageURL:     imgproxy.URL(p.ImageURL),
		Score:        score,
		Pros:         p.Pros,
		Cons:         p.Cons,
		Features:     p.Features,
		ShippingInfo: strings.TrimSpace(p.Shipping),
		ShippingCost: strings.TrimSpace(string(p.ShippingCost)),
		DeliveryTime: strings.TrimSpace(p.DeliveryTime),
		WarrantyInfo: strings.TrimSpace(p.Warranty),
		ReturnPolicy: strings.TrimSpace(p.Returns),
		StockStatus:  stock,
		StoreDomain:  safeStoreDomain(link),
		Verdict:      p.Verdict,
		Explanation:  p.Verdict,
	}
}

// filterBannedStores removes results from stores known not to operate in
// the buyer's country. Both the declared store name and the link are
// checked: the model sometimes reports a clean store name over a banned
// store's URL.
func filterBannedStores(products []llmProduct, country string) []llmProduct {
	banned := bannedStores[country]
	if len(banned) == 0 {
		return products
	}
	kept := products[:0]
	for _, p := range products {
		store := strings.ToLower(p.Store)
		link := strings.ToLower(p.Link)
		drop := false
		for _, b := range banned {
			if strings.Contains(store, b) || strings.Contains(link, b+".com") {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, p)
		}
	}
	return kept
}

// filterExcluded drops products the model repeated despite the exclusion
// instruction in the prompt.
func filterExcluded(products []llmProduct, excludeNames []string) []llmProduct {
	if len(excludeNames) == 0 {
		return products
	}
	seen := make(map[string]bool, len(excludeNames))
	for _, name := range excludeNames {
		seen[strings.ToLower(strings.TrimSpace(name))] = true
	}
	kept := products[:0]
	for _, p := range products {
		if !seen[strings.ToLower(strings.TrimSpace(p.Name))] {
			kept = append(kept, p)
		}
	}
	return kept
}

// computeFlags marks every option sharing the top score as best value and
// every option sharing the lowest parseable price as lowest price.
func computeFlags(options []models.ProductOption) {
	maxScore := 0.0
	minPrice := 0.0
	hasPrice := false
	for i := range options {
		if options[i].Score > maxScore {
			maxScore = options[i].Score
		}
		if val, ok := parsePriceValue(options[i].Price); ok {
			if !hasPrice || val < minPrice {
				minPrice = val
				hasPrice = true
			}
		}
	}
	for i := range options {
		options[i].IsBestValue = maxScore > 0 && options[i].Score == maxScore
		if val, ok := parsePriceValue(options[i].Price); ok && hasPrice {
			options[i].IsLowestPrice = val == minPrice
		} else {
			options[i].IsLowestPrice = false
		}
	}
}

// backfillLinks replaces search-engine fallback links with a grounding
// citation URI when one plausibly points at the product's store.
func backfillLinks(options []models.ProductOption, resp *genai.GenerateResponse) {
	uris := resp.GroundingURIs()
	if len(uris) == 0 {
		return
	}
	for i := range options {
		if !strings.Contains(options[i].Link, "google.com/search") {
			continue
		}
		storeKey := strings.ToLower(strings.ReplaceAll(options[i].Store, " ", ""))
		if len(storeKey) < 3 {
			continue
		}
		for _, uri := range uris {
			if len(uri) > 25 && strings.Contains(strings.ToLower(uri), storeKey) {
				options[i].Link = uri
				break
			}
		}
	}
}

func groundingSources(resp *genai.GenerateResponse) []models.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var sources []models.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		sources = append(sources, models.Source{Title: title, URI: chunk.Web.URI})
	}
	return sources
}

// mergeSponsored prepends matched ads as sponsored options and records
// their impressions.
func (s *ComparisonService) mergeSponsored(result *models.ComparisonResult, ads []models.Ad) {
	if len(ads) == 0 {
		return
	}
	sponsored := make([]models.ProductOption, 0, len(ads))
	ids := make([]string, 0, len(ads))
	for _, ad := range ads {
		sponsored = append(sponsored, models.ProductOption{
			Name:        ad.Title,
			Store:       ad.MerchantName,
			Price:       "",
			Rating:      5,
			Link:        ad.TargetURL,
			ImageURL:    imgproxy.URL(ad.ImageURL),
			IsSponsored: true,
			Score:       100,
			Explanation: ad.Description,
			Verdict:     ad.Description,
			StoreDomain: safeStoreDomain(ad.TargetURL),
		})
		ids = append(ids, ad.ID)
	}
	result.Options = append(sponsored, result.Options...)

	go func() {
		if err := s.adRepo.IncrementImpressions(ids); err != nil {
			log.Warn().Err(err).Msg("Failed to record ad impressions")
		}
	}()
}
