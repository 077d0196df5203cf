package service

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// LLM-declared links are unreliable: home pages, search-engine redirects,
// and malformed URLs all appear. Links matching a known product-path shape
// are kept (minus tracking params); everything else is rewritten into a
// search-engine query built from the product and store names.

var productPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/`),
	regexp.MustCompile(`/gp/product/`),
	regexp.MustCompile(`/p/`),
	regexp.MustCompile(`/ad/`),
	regexp.MustCompile(`/itm/`),
	regexp.MustCompile(`/products?/`),
	regexp.MustCompile(`/item/`),
	regexp.MustCompile(`/buy/`),
	regexp.MustCompile(`/catalog/`),
	regexp.MustCompile(`\.html$`),
}

var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "fbclid", "gclid",
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// searchLink builds a search-engine query URL for a product.
func searchLink(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

// repairLink validates and cleans a product link declared by the LLM.
func repairLink(productName, storeName, originalURL string) string {
	if originalURL == "" {
		return searchLink(productName + " " + storeName)
	}

	raw := strings.TrimSpace(originalURL)
	raw = strings.ReplaceAll(raw, "&amp;", "&")
	if !schemeRe.MatchString(raw) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return searchLink(productName + " " + storeName)
	}

	path := u.Path
	domain := strings.ToLower(u.Hostname())

	// Search-engine result and redirect links never point at a product.
	if strings.Contains(domain, "google.") &&
		(strings.Contains(path, "/search") || path == "/" || path == "" || strings.Contains(path, "/url")) {
		return searchLink(productName + " " + storeName)
	}

	isDeepLink := false
	for _, pattern := range productPathPatterns {
		if pattern.MatchString(path) {
			isDeepLink = true
			break
		}
	}
	query := u.Query()
	hasIDParam := query.Has("id") || query.Has("pid") || query.Has("itemId")

	if isDeepLink || hasIDParam {
		for _, p := range trackingParams {
			query.Del(p)
		}
		u.RawQuery = query.Encode()
		return u.String()
	}

	// A reachable store page that isn't a product page: scope the search
	// to the store's domain instead.
	cleanDomain := strings.TrimPrefix(domain, "www.")
	return searchLink(productName + " site:" + cleanDomain)
}

// safeStoreDomain extracts the hostname of a repaired link for display,
// hiding search-engine hosts.
func safeStoreDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, "google.") {
		return ""
	}
	return u.Hostname()
}

var priceValueRe = regexp.MustCompile(`[\d,]+(\.\d+)?`)

// parsePriceValue extracts a numeric price from a free-form price string
// such as "1,234.50 SAR". Returns false for non-numeric prices, which are
// excluded from lowest-price comparison.
func parsePriceValue(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false
	}
	match := priceValueRe.FindString(text)
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

var currencyStripRe = regexp.MustCompile(`[0-9.,]`)

// extractCurrency strips digits and separators from a price string,
// leaving the currency designation.
func extractCurrency(price string) string {
	return strings.TrimSpace(currencyStripRe.ReplaceAllString(price, ""))
}
