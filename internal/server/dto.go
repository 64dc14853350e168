package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ranking"
	"github.com/Muhammadkaif97/cpn-calculator/internal/scoring"
)

// FlexString accepts a JSON string or number and keeps the raw text, so the calculator
// sees exactly what the user typed.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected a string or a number: %w", err)
		}
		*f = FlexString(n.String())
	}
	return nil
}

// MarkRequest is either a bare percentage or {"percentage"} / {"obtained","total"}.
type MarkRequest struct {
	Percentage FlexString `json:"percentage,omitempty" example:"85"`
	Obtained   FlexString `json:"obtained,omitempty" example:"935"`
	Total      FlexString `json:"total,omitempty" example:"1100"`
}

func (m *MarkRequest) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type plain MarkRequest
		var p plain
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return err
		}
		*m = MarkRequest(p)
		return nil
	}
	*m = MarkRequest{}
	return m.Percentage.UnmarshalJSON(trimmed)
}

func (m MarkRequest) toMark() scoring.Mark {
	return scoring.Mark{
		Percentage: string(m.Percentage),
		Obtained:   string(m.Obtained),
		Total:      string(m.Total),
	}
}

func (m MarkRequest) usesMarks() bool {
	return m.Percentage == "" && (m.Obtained != "" || m.Total != "")
}

// CalculateRequest is the body of POST /api/calculate.
type CalculateRequest struct {
	Matric    MarkRequest `json:"matric"`
	Inter     MarkRequest `json:"inter"`
	TestScore FlexString  `json:"test_score" swaggertype:"string" example:"64"`
}

func (r CalculateRequest) toInput() scoring.Input {
	return scoring.Input{
		Matric:    r.Matric.toMark(),
		Inter:     r.Inter.toMark(),
		TestScore: string(r.TestScore),
	}
}

// SuggestionsRequest is the body of POST /api/suggestions. Aggregate is the displayed
// CPN text, sent back as shown.
type SuggestionsRequest struct {
	Aggregate FlexString `json:"aggregate" swaggertype:"string" example:"76.50"`
	Field     string     `json:"field" example:"pre-engineering"`
	View      string     `json:"view" binding:"omitempty,oneof=condensed full" example:"condensed"`
}

// SuggestionResponse is one ranked department.
type SuggestionResponse struct {
	Name       string           `json:"name"`
	Category   catalog.Category `json:"category"`
	Likelihood int              `json:"likelihood"`
	Label      string           `json:"label"`
	Class      string           `json:"class"`
	Boost      int              `json:"boost"`
	MinCPN     *float64         `json:"min_cpn,omitempty"`
}

func toSuggestions(entries []ranking.Entry) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, SuggestionResponse{
			Name:       e.Department.Name,
			Category:   e.Department.Category,
			Likelihood: int(e.Likelihood),
			Label:      e.Likelihood.String(),
			Class:      e.Likelihood.ClassTag(),
			Boost:      e.Boost,
			MinCPN:     e.Department.MinimumThreshold,
		})
	}
	return out
}

// DepartmentsResponse is the body of GET /api/departments.
type DepartmentsResponse struct {
	Field       catalog.Field        `json:"field"`
	Count       int                  `json:"count"`
	Departments []catalog.Department `json:"departments"`
}

// ContactResponse is the body of a successful POST /api/contact.
type ContactResponse struct {
	Message string `json:"message" example:"Thanks for your submission!"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
