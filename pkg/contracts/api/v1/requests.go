// Package v1 defines the request and response contracts for the HTTP API.
package v1

// CompanySearchRequest carries the query parameters of a company search.
// Either Years or an explicit StartDate/EndDate pair is supplied; when both
// are present the explicit range wins.
type CompanySearchRequest struct {
	Ticker    string `json:"ticker" validate:"required,ticker"`
	Years     int    `json:"years,omitempty" validate:"omitempty,min=1,max=10"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// EntitySearchRequest carries the query parameters of a lawyer or law-firm
// search. Years of zero means "let the server pick an adaptive range".
type EntitySearchRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Years     int    `json:"years,omitempty" validate:"omitempty,min=1,max=10"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SearchResponse is the standard envelope for search results.
type SearchResponse struct {
	Status string      `json:"status"`
	Count  int         `json:"count"`
	Data   interface{} `json:"data"`
}
