package search

type SaveRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type RecentResponse struct {
	Searches []string `json:"searches"`
}
