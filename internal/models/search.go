package models

import "time"

// Language selects the output language of a comparison.
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// SearchPreferences tune a single comparison request. Transient, never
// persisted.
type SearchPreferences struct {
	Priority  string   `json:"priority"` // balanced | price | quality | excellent_condition
	Condition string   `json:"condition"`
	MinPrice  *float64 `json:"minPrice,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	Limit     int      `json:"limit"`
	IsGlobal  bool     `json:"isGlobal,omitempty"`
}

// ProductOption is one normalized result row. Derived entirely from LLM
// output plus computed flags; recomputed on every search, no identity.
type ProductOption struct {
	Name          string   `json:"name"`
	Store         string   `json:"store"`
	Price         string   `json:"price"`
	Currency      string   `json:"currency"`
	UnitPrice     string   `json:"unitPrice,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewsCount  string   `json:"reviewsCount"`
	Link          string   `json:"link"`
	ImageURL      string   `json:"imageUrl"`
	IsBestValue   bool     `json:"isBestValue"`
	IsLowestPrice bool     `json:"isLowestPrice"`
	IsSponsored   bool     `json:"isSponsored,omitempty"`
	Explanation   string   `json:"explanation"`
	Score         float64  `json:"score"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
	Features      []string `json:"features"`
	ShippingInfo  string   `json:"shippingInfo,omitempty"`
	ShippingCost  string   `json:"shippingCost,omitempty"`
	DeliveryTime  string   `json:"deliveryTime,omitempty"`
	WarrantyInfo  string   `json:"warrantyInfo,omitempty"`
	ReturnPolicy  string   `json:"returnPolicy,omitempty"`
	StockStatus   string   `json:"stockStatus,omitempty"`
	StoreDomain   string   `json:"storeDomain,omitempty"`
	Verdict       string   `json:"verdict,omitempty"`
}

// Source is a grounding citation attached to a comparison.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ComparisonResult is the normalized bundle returned for one search query.
// Immutable once produced; cached by derived key.
type ComparisonResult struct {
	Query                  string          `json:"query"`
	Summary                string          `json:"summary"`
	Options                []ProductOption `json:"options"`
	Sources                []Source        `json:"sources"`
	DisambiguationOptions  []string        `json:"disambiguationOptions,omitempty"`
	SmartFilterSuggestions []string        `json:"smartFilterSuggestions,omitempty"`
	SortingOptions         []string        `json:"sortingOptions,omitempty"`
}

// HistoryItem is one saved search of a user.
type HistoryItem struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Query     string    `db:"query" json:"query"`
	Country   string    `db:"country" json:"country"`
	IsDeleted bool      `db:"is_deleted" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

// CachedComparison is a row of the search_cache table (second cache tier).
type CachedComparison struct {
	QueryKey  string    `db:"query_key"`
	Result    []byte    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
}
