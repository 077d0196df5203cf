package service

import "math"

// trueValueScore rates a product by weighing user rating against price.
// Rating contributes 60% of the score, price (on a log scale, so that
// cheap items aren't crushed by expensive outliers) the other 40%.
func trueValueScore(price, rating float64) float64 {
	if price < 0.01 {
		price = 0.01
	}
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	ratingScore := (rating / 5) * 100
	priceScore := math.Max(0, 100-20*math.Log10(price+1))
	return math.Round((ratingScore*0.6+priceScore*0.4)*100) / 100
}
