package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nabih-app/nabih-api/internal/models"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		country  string
		lang     models.Language
		prefs    models.SearchPreferences
		expected string
	}{
		{
			name:     "defaults",
			query:    "iPhone 15",
			country:  "JO",
			lang:     models.LangEnglish,
			prefs:    models.SearchPreferences{},
			expected: "iphone 15_JO_en_balanced_LOC_v9",
		},
		{
			name:     "query trimmed and lowered",
			query:    "  IPHONE 15  ",
			country:  "JO",
			lang:     models.LangEnglish,
			prefs:    models.SearchPreferences{},
			expected: "iphone 15_JO_en_balanced_LOC_v9",
		},
		{
			name:     "global scope and priority",
			query:    "iphone 15",
			country:  "SA",
			lang:     models.LangArabic,
			prefs:    models.SearchPreferences{Priority: "price", IsGlobal: true},
			expected: "iphone 15_SA_ar_price_GLO_v9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CacheKey(tt.query, tt.country, tt.lang, tt.prefs, "v9"))
		})
	}
}

func TestComputeFlags(t *testing.T) {
	t.Run("single best value and lowest price", func(t *testing.T) {
		options := []models.ProductOption{
			{Name: "A", Score: 90, Price: "100 JOD"},
			{Name: "B", Score: 70, Price: "80 JOD"},
			{Name: "C", Score: 50, Price: "120 JOD"},
		}
		computeFlags(options)

		assert.True(t, options[0].IsBestValue)
		assert.False(t, options[1].IsBestValue)
		assert.True(t, options[1].IsLowestPrice)
		assert.False(t, options[0].IsLowestPrice)
	})

	t.Run("score ties all flagged", func(t *testing.T) {
		options := []models.ProductOption{
			{Name: "A", Score: 90, Price: "100 JOD"},
			{Name: "B", Score: 90, Price: "80 JOD"},
		}
		computeFlags(options)

		assert.True(t, options[0].IsBestValue)
		assert.True(t, options[1].IsBestValue)
	})

	t.Run("price ties all flagged", func(t *testing.T) {
		options := []models.ProductOption{
			{Name: "A", Score: 90, Price: "80 JOD"},
			{Name: "B", Score: 70, Price: "80 JOD"},
		}
		computeFlags(options)

		assert.True(t, options[0].IsLowestPrice)
		assert.True(t, options[1].IsLowestPrice)
	})

	t.Run("unparseable price never lowest", func(t *testing.T) {
		options := []models.ProductOption{
			{Name: "A", Score: 90, Price: "Contact seller"},
			{Name: "B", Score: 70, Price: "80 JOD"},
		}
		computeFlags(options)

		assert.False(t, options[0].IsLowestPrice)
		assert.True(t, options[1].IsLowestPrice)
	})

	t.Run("all zero scores flag nothing", func(t *testing.T) {
		options := []models.ProductOption{
			{Name: "A", Score: 0},
			{Name: "B", Score: 0},
		}
		computeFlags(options)

		assert.False(t, options[0].IsBestValue)
		assert.False(t, options[1].IsBestValue)
	})
}

func TestFilterBannedStores(t *testing.T) {
	products := []llmProduct{
		{Name: "A", Store: "Noon"},
		{Name: "B", Store: "Amazon"},
		{Name: "C", Store: "noon.com"},
	}

	t.Run("jordan drops noon", func(t *testing.T) {
		kept := filterBannedStores(append([]llmProduct(nil), products...), "JO")
		assert.Len(t, kept, 1)
		assert.Equal(t, "B", kept[0].Name)
	})

	t.Run("other markets untouched", func(t *testing.T) {
		kept := filterBannedStores(append([]llmProduct(nil), products...), "SA")
		assert.Len(t, kept, 3)
	})

	t.Run("banned link with clean store name", func(t *testing.T) {
		slipped := []llmProduct{
			{Name: "D", Store: "Best Electronics", Link: "https://www.noon.com/jordan-en/phone/p/N123"},
			{Name: "E", Store: "Leaders", Link: "https://leaders.jo/phone"},
		}
		kept := filterBannedStores(slipped, "JO")
		assert.Len(t, kept, 1)
		assert.Equal(t, "E", kept[0].Name)
	})
}

func TestBuildOptionCarriesDetailFields(t *testing.T) {
	var s ComparisonService
	opt := s.buildOption(llmProduct{
		Name:         "Galaxy S24",
		Price:        "2,999 SAR",
		UnitPrice:    "2,999 SAR/unit",
		Store:        "Jarir",
		Link:         "https://www.jarir.com/galaxy-s24.html",
		Rating:       4.5,
		ReviewsCount: "250+",
		Score:        90,
		Shipping:     "Free shipping",
		ShippingCost: "0 SAR",
		DeliveryTime: "2-4 days",
		Warranty:     "2 year warranty",
		Returns:      "15 day returns",
		Features:     []string{"120Hz display"},
	}, models.LangEnglish)

	assert.Equal(t, "2,999 SAR/unit", opt.UnitPrice)
	assert.Equal(t, "250+", opt.ReviewsCount)
	assert.Equal(t, "Free shipping", opt.ShippingInfo)
	assert.Equal(t, "0 SAR", opt.ShippingCost)
	assert.Equal(t, "2-4 days", opt.DeliveryTime)
	assert.Equal(t, "2 year warranty", opt.WarrantyInfo)
	assert.Equal(t, "15 day returns", opt.ReturnPolicy)
	assert.Equal(t, []string{"120Hz display"}, opt.Features)
}

func TestFilterExcluded(t *testing.T) {
	products := []llmProduct{
		{Name: "iPhone 15 Pro"},
		{Name: "iPhone 15"},
	}

	kept := filterExcluded(append([]llmProduct(nil), products...), []string{" iphone 15 pro "})
	assert.Len(t, kept, 1)
	assert.Equal(t, "iPhone 15", kept[0].Name)
}
