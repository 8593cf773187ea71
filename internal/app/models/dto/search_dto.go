package dto

// SearchHit is one categorised search result with its navigation target
type SearchHit struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// SearchResponse groups hits by entity
type SearchResponse struct {
	Query            string      `json:"query"`
	Suppliers        []SearchHit `json:"suppliers"`
	Visitors         []SearchHit `json:"visitors"`
	ResearchProducts []SearchHit `json:"researchProducts"`
	Products         []SearchHit `json:"products"`
	Education        []SearchHit `json:"education"`
	Total            int         `json:"total"`
}

// NewSearchResponse returns an empty result for query with non-nil slices
func NewSearchResponse(query string) *SearchResponse {
	return &SearchResponse{
		Query:            query,
		Suppliers:        []SearchHit{},
		Visitors:         []SearchHit{},
		ResearchProducts: []SearchHit{},
		Products:         []SearchHit{},
		Education:        []SearchHit{},
	}
}

// LiveSearchRequest is one keystroke frame of the live search socket
type LiveSearchRequest struct {
	Query string `json:"query"`
}
