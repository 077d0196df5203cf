package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/nabih-app/nabih-api/internal/models"
)

var countryNames = map[string]string{
	"JO": "Jordan",
	"SA": "Saudi Arabia",
	"AE": "United Arab Emirates",
	"EG": "Egypt",
	"KW": "Kuwait",
	"QA": "Qatar",
	"BH": "Bahrain",
	"OM": "Oman",
	"IQ": "Iraq",
	"LB": "Lebanon",
	"MA": "Morocco",
	"US": "United States",
	"GB": "United Kingdom",
	"DE": "Germany",
	"FR": "France",
	"TR": "Turkey",
	"IN": "India",
}

// bannedStores lists stores that do not operate in a country but that the
// model persistently hallucinates results for. Matching products are
// removed after parsing.
var bannedStores = map[string][]string{
	"JO": {"noon"},
}

func countryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

func languageName(lang models.Language) string {
	if lang == models.LangArabic {
		return "Arabic"
	}
	return "English"
}

func buildSystemInstruction(lang models.Language) string {
	return fmt.Sprintf(`You are Nabih, an expert shopping assistant. Today's date is %s.
You search the web for real, currently purchasable products and return structured comparisons.
Market knowledge:
- Carrefour in Jordan has been rebranded to Hypermax. Use the current name.
- Noon does NOT operate in Jordan. Never return Noon results for Jordan.
- For Jordan prefer local stores such as Leaders, DNA, Smartbuy, Hypermax, City Center, Talabatey and OpenSooq.
- For classifieds sites (OpenSooq, Haraj, Dubizzle, Facebook Marketplace) only accept listings posted within the last 60 days.
Rules:
- Only list products you found via web search, with their real store, price and product page link.
- Never invent stores, prices or links.
- Respond with JSON only, no prose outside the JSON object.
- All free-text fields (summary, verdict, pros, cons, features, shipping, warranty, returns, availability, refinements) MUST be written in %s.`,
		time.Now().UTC().Format("2006-01-02"), languageName(lang))
}

func buildSearchPrompt(query, country string, prefs models.SearchPreferences, excludeNames []string, resultCount int) string {
	var b strings.Builder

	scope := "stores operating in " + countryName(country) + " only"
	if prefs.IsGlobal {
		scope = "global stores that ship to " + countryName(country)
	}

	if prefs.Limit > 0 && prefs.Limit < resultCount {
		resultCount = prefs.Limit
	}

	fmt.Fprintf(&b, "Find and compare up to %d products for this shopping query: %q\n", resultCount, query)
	fmt.Fprintf(&b, "Buyer location: %s. Search scope: %s.\n", countryName(country), scope)
	fmt.Fprintf(&b, "Prices must be in the currency the store charges for %s.\n", countryName(country))

	switch prefs.Priority {
	case "price":
		b.WriteString("The buyer cares most about the lowest price.\n")
	case "quality":
		b.WriteString("The buyer cares most about quality and ratings, price is secondary.\n")
	case "excellent_condition":
		b.WriteString("Prefer new or excellent-condition items only.\n")
	}
	if prefs.Condition != "" && prefs.Condition != "any" {
		fmt.Fprintf(&b, "Item condition: %s.\n", prefs.Condition)
	}
	if prefs.MinPrice != nil || prefs.MaxPrice != nil {
		b.WriteString("Price range: ")
		if prefs.MinPrice != nil {
			fmt.Fprintf(&b, "from %.0f ", *prefs.MinPrice)
		}
		if prefs.MaxPrice != nil {
			fmt.Fprintf(&b, "up to %.0f", *prefs.MaxPrice)
		}
		b.WriteString(".\n")
	}

	if len(excludeNames) > 0 {
		fmt.Fprintf(&b, "The buyer has already seen these products, do NOT repeat them: %s.\n",
			strings.Join(excludeNames, "; "))
		b.WriteString("Find different products or different stores.\n")
	}

	b.WriteString(`Return a single JSON object with this exact shape:
{
  "summary": "2-3 sentence market overview for this query",
  "products": [
    {
      "name": "full product name",
      "price": "price with currency, e.g. 1,299 SAR",
      "unit_price": "e.g. 2 SAR/bottle, or null",
      "store": "store name",
      "link": "direct product page URL",
      "imageUrl": "product image URL",
      "rating": 4.5,
      "reviewsCount": "e.g. 100+",
      "score": 87,
      "shipping": "shipping info",
      "shipping_cost": "shipping cost",
      "delivery_time": "estimated delivery time",
      "warranty": "warranty terms",
      "returns": "return policy",
      "availability": "in stock / out of stock",
      "verdict": "one sentence on who this product suits",
      "pros": ["..."],
      "cons": ["..."],
      "features": ["key feature"]
    }
  ],
  "refinements": ["follow-up query suggestions"],
  "smart_filters": ["filter chips relevant to this query"],
  "sorting_options": ["sensible sort orders"]
}
"score" is a 0-100 value-for-money rating. Omit it if you cannot judge.`)

	return b.String()
}
