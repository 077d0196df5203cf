package genai

// GenerateRequest is the request body for the generateContent endpoint.
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is a sequence of parts attributed to one role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one text fragment of a content block.
type Part struct {
	Text string `json:"text"`
}

// Tool enables provider-side tooling. Only web-search grounding is used.
type Tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

// GenerationConfig tunes sampling.
type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
}
