package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nabih-app/nabih-api/internal/models"
)

func TestBuildSystemInstruction(t *testing.T) {
	assert.Contains(t, buildSystemInstruction(models.LangArabic), "Arabic")
	assert.Contains(t, buildSystemInstruction(models.LangEnglish), "English")
}

func TestBuildSearchPrompt(t *testing.T) {
	t.Run("local scope", func(t *testing.T) {
		prompt := buildSearchPrompt("iphone 15", "JO", models.SearchPreferences{}, nil, 12)
		assert.Contains(t, prompt, `"iphone 15"`)
		assert.Contains(t, prompt, "stores operating in Jordan only")
		assert.Contains(t, prompt, "up to 12 products")
	})

	t.Run("global scope", func(t *testing.T) {
		prompt := buildSearchPrompt("iphone 15", "SA", models.SearchPreferences{IsGlobal: true}, nil, 12)
		assert.Contains(t, prompt, "global stores that ship to Saudi Arabia")
	})

	t.Run("exclusions listed", func(t *testing.T) {
		prompt := buildSearchPrompt("iphone 15", "JO", models.SearchPreferences{}, []string{"iPhone 15 Pro", "iPhone 15 Plus"}, 12)
		assert.Contains(t, prompt, "iPhone 15 Pro; iPhone 15 Plus")
		assert.Contains(t, prompt, "do NOT repeat")
	})

	t.Run("preference limit caps result count", func(t *testing.T) {
		prompt := buildSearchPrompt("iphone 15", "JO", models.SearchPreferences{Limit: 5}, nil, 12)
		assert.Contains(t, prompt, "up to 5 products")
	})

	t.Run("price range included", func(t *testing.T) {
		min, max := 100.0, 500.0
		prompt := buildSearchPrompt("iphone 15", "JO", models.SearchPreferences{MinPrice: &min, MaxPrice: &max}, nil, 12)
		assert.Contains(t, prompt, "from 100")
		assert.Contains(t, prompt, "up to 500")
	})
}
