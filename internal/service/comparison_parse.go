package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/nabih-app/nabih-api/internal/utils"
)

// flexString tolerates the model emitting a bare number where a string is
// expected (prices and ratings are the usual offenders).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat tolerates numbers quoted as strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var n json.Number = json.Number(strings.TrimSpace(s))
	v, err := n.Float64()
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type llmProduct struct {
	Name         string     `json:"name"`
	Price        flexString `json:"price"`
	UnitPrice    flexString `json:"unit_price"`
	Store        string     `json:"store"`
	Link         string     `json:"link"`
	ImageURL     string     `json:"imageUrl"`
	Rating       flexFloat  `json:"rating"`
	ReviewsCount flexString `json:"reviewsCount"`
	Score        flexFloat  `json:"score"`
	Shipping     string     `json:"shipping"`
	ShippingCost flexString `json:"shipping_cost"`
	DeliveryTime string     `json:"delivery_time"`
	Warranty     string     `json:"warranty"`
	Returns      string     `json:"returns"`
	Availability string     `json:"availability"`
	Verdict      string     `json:"verdict"`
	Pros         []string   `json:"pros"`
	Cons         []string   `json:"cons"`
	Features     []string   `json:"features"`
}

type llmPayload struct {
	Summary        string       `json:"summary"`
	Products       []llmProduct `json:"products"`
	Refinements    []string     `json:"refinements"`
	SmartFilters   []string     `json:"smart_filters"`
	SortingOptions []string     `json:"sorting_options"`
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseModelPayload decodes the model's response text into a payload.
// Model output routinely arrives wrapped in markdown fences or with
// prose around the JSON, so parsing degrades gracefully: fence
// extraction first, then a strict parse, then outermost-bracket
// extraction as a last resort.
func parseModelPayload(text string) (*llmPayload, error) {
	cleaned := strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "```", ""))

	var payload llmPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
		return &payload, nil
	}

	start := strings.IndexAny(cleaned, "{[")
	end := strings.LastIndexAny(cleaned, "}]")
	if start == -1 || end <= start {
		return nil, utils.ErrNoResults
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
		return nil, utils.ErrNoResults
	}
	return &payload, nil
}
