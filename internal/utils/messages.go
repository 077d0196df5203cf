package utils

import "github.com/nabih-app/nabih-api/internal/models"

// User-facing search messages. The product intentionally collapses all
// provider/parse failures into a single localized message per language;
// the typed cause is logged server-side instead.
const (
	msgNoResultsEN   = "No accurate results found."
	msgNoResultsAR   = "لم يتم العثور على نتائج دقيقة."
	msgHighTrafficEN = "High traffic, please try again."
	msgHighTrafficAR = "نواجه ضغطاً عالياً، يرجى المحاولة مرة أخرى."
	msgNotSpecEN     = "N/A"
	msgNotSpecAR     = "غير محدد"
	msgInStockEN     = "In Stock"
	msgInStockAR     = "متوفر"
)

// LocalizedNoResults returns the no-results message for lang.
func LocalizedNoResults(lang models.Language) string {
	if lang == models.LangArabic {
		return msgNoResultsAR
	}
	return msgNoResultsEN
}

// LocalizedHighTraffic returns the generic search-failure message for lang.
func LocalizedHighTraffic(lang models.Language) string {
	if lang == models.LangArabic {
		return msgHighTrafficAR
	}
	return msgHighTrafficEN
}

// LocalizedNotSpecified returns the "not specified" placeholder for lang.
func LocalizedNotSpecified(lang models.Language) string {
	if lang == models.LangArabic {
		return msgNotSpecAR
	}
	return msgNotSpecEN
}

// LocalizedInStock returns the default stock status for lang.
func LocalizedInStock(lang models.Language) string {
	if lang == models.LangArabic {
		return msgInStockAR
	}
	return msgInStockEN
}
