package models

// Requests for indicator HTTP endpoints. Defined in domain for consistency and reuse.

type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"7" validate:"gte=1,lte=365"`
}
