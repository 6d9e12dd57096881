// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// APIError is the error shape embedded in every Twelve Data response.
// Code 404 marks an unknown symbol; Status is "error" for any failure.
type APIError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// QuoteResponse represents the JSON response from the /quote endpoint.
type QuoteResponse struct {
	APIError

	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Close         string `json:"close"`
	PreviousClose string `json:"previous_close"`
}

// ProfileResponse represents the JSON response from the /profile endpoint.
type ProfileResponse struct {
	APIError

	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Sector   string `json:"sector"`
}

// TimeSeriesResponse represents the JSON response from the /time_series endpoint.
type TimeSeriesResponse struct {
	APIError

	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Values   []struct {
		Datetime string `json:"datetime"`
		Close    string `json:"close"`
	} `json:"values"`
}
