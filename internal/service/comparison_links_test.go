package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairLink(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		store    string
		link     string
		expected string
	}{
		{
			name:     "empty link becomes search query",
			product:  "iPhone 15",
			store:    "Amazon",
			link:     "",
			expected: "https://www.google.com/search?q=iPhone+15+Amazon",
		},
		{
			name:     "google search link becomes search query",
			product:  "iPhone 15",
			store:    "Amazon",
			link:     "https://www.google.com/search?q=iphone",
			expected: "https://www.google.com/search?q=iPhone+15+Amazon",
		},
		{
			name:     "google redirect becomes search query",
			product:  "iPhone 15",
			store:    "Amazon",
			link:     "https://www.google.com/url?q=https%3A%2F%2Famazon.sa",
			expected: "https://www.google.com/search?q=iPhone+15+Amazon",
		},
		{
			name:     "amazon deep link kept",
			product:  "iPhone 15",
			store:    "Amazon",
			link:     "https://www.amazon.sa/dp/B0CHX1W1XY",
			expected: "https://www.amazon.sa/dp/B0CHX1W1XY",
		},
		{
			name:     "tracking params stripped from deep link",
			product:  "iPhone 15",
			store:    "Amazon",
			link:     "https://www.amazon.sa/dp/B0CHX1W1XY?utm_source=x&utm_medium=y&fbclid=z",
			expected: "https://www.amazon.sa/dp/B0CHX1W1XY",
		},
		{
			name:     "id param counts as product page",
			product:  "Galaxy S24",
			store:    "Extra",
			link:     "https://www.extra.com/product-detail?id=12345&gclid=abc",
			expected: "https://www.extra.com/product-detail?id=12345",
		},
		{
			name:     "html suffix counts as product page",
			product:  "Galaxy S24",
			store:    "Jarir",
			link:     "https://www.jarir.com/galaxy-s24-256gb.html",
			expected: "https://www.jarir.com/galaxy-s24-256gb.html",
		},
		{
			name:     "store home page becomes site-scoped search",
			product:  "Galaxy S24",
			store:    "Jarir",
			link:     "https://www.jarir.com/phones",
			expected: "https://www.google.com/search?q=Galaxy+S24+site%3Ajarir.com",
		},
		{
			name:     "missing scheme gets https",
			product:  "iPhone 15",
			store:    "Amazon",
			link:     "www.amazon.sa/dp/B0CHX1W1XY",
			expected: "https://www.amazon.sa/dp/B0CHX1W1XY",
		},
		{
			name:     "html entity ampersand decoded",
			product:  "iPhone 15",
			store:    "Noon",
			link:     "https://www.noon.com/p/?id=123&amp;pid=456",
			expected: "https://www.noon.com/p/?id=123&pid=456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repairLink(tt.product, tt.store, tt.link))
		})
	}
}

func TestParsePriceValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"plain number", "199", 199, true},
		{"currency suffix", "1,299 SAR", 1299, true},
		{"currency prefix", "JOD 45.50", 45.50, true},
		{"thousands and decimals", "12,345.67 AED", 12345.67, true},
		{"arabic label", "٤٥ دينار 45", 45, true},
		{"no digits", "Contact seller", 0, false},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, ok := parsePriceValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, val)
			}
		})
	}
}

func TestExtractCurrency(t *testing.T) {
	assert.Equal(t, "SAR", extractCurrency("1,299 SAR"))
	assert.Equal(t, "JOD", extractCurrency("JOD 45.50"))
	assert.Equal(t, "", extractCurrency("123.45"))
}

func TestSafeStoreDomain(t *testing.T) {
	assert.Equal(t, "www.amazon.sa", safeStoreDomain("https://www.amazon.sa/dp/B0CHX1W1XY"))
	assert.Equal(t, "", safeStoreDomain("https://www.google.com/search?q=iphone"))
}
