package genai

// GenerateResponse is the response envelope of the generateContent endpoint.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
	Error      *APIError   `json:"error,omitempty"`
}

// Candidate is one generated answer with optional grounding metadata.
type Candidate struct {
	Content           Content            `json:"content"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

// GroundingMetadata carries the web-search citations backing a candidate.
type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks"`
}

// GroundingChunk is a single citation.
type GroundingChunk struct {
	Web *WebSource `json:"web,omitempty"`
}

// WebSource is the web location of a citation.
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// APIError is the provider's error payload.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Text concatenates the text parts of the first candidate.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// GroundingURIs returns the citation URIs of the first candidate.
func (r *GenerateResponse) GroundingURIs() []string {
	if len(r.Candidates) == 0 || r.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var uris []string
	for _, chunk := range r.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web != nil && chunk.Web.URI != "" {
			uris = append(uris, chunk.Web.URI)
		}
	}
	return uris
}
