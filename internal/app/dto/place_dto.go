package dto

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const (
	DefaultPlaceLimit = 10
	MaxPlaceLimit     = 50
	MinPlaceQueryLen  = 2
)

var ErrPlaceQueryTooShort = exception.ApplicationError{
	StatusCode: http.StatusBadRequest,
	Code:       "query_too_short",
	Message:    "query must be at least 2 characters",
}

type PlaceQuery struct {
	Query string   `json:"query"`
	Limit int      `json:"limit"`
	Types []string `json:"types"`
}

// ParsePlaceQuery reads q (or query), limit and the comma separated types from the URL.
func ParsePlaceQuery(r *http.Request) PlaceQuery {
	values := r.URL.Query()

	query := values.Get("q")
	if query == "" {
		query = values.Get("query")
	}

	limit, err := strconv.Atoi(values.Get("limit"))
	if err != nil {
		limit = 0
	}

	var types []string
	for _, t := range strings.Split(values.Get("types"), ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			types = append(types, t)
		}
	}

	return PlaceQuery{Query: strings.TrimSpace(query), Limit: limit, Types: types}
}

// Validate clamps the limit and rejects queries shorter than two characters.
func (p *PlaceQuery) Validate() error {
	if len([]rune(p.Query)) < MinPlaceQueryLen {
		return ErrPlaceQueryTooShort
	}

	if p.Limit <= 0 {
		p.Limit = DefaultPlaceLimit
	}

	if p.Limit > MaxPlaceLimit {
		p.Limit = MaxPlaceLimit
	}

	for _, t := range p.Types {
		if t != "airport" && t != "city" {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Code:       ValidationErrorCode,
				Message:    "types must be a comma separated list of airport, city",
				Violations: []exception.Violation{{Field: "types", Message: "unsupported place type " + t}},
			}
		}
	}

	return nil
}
