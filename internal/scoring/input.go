package scoring

import (
	"math"
	"strconv"
	"strings"
)

// Mark is one academic result, given either as a percentage or as obtained/total marks.
// Percentage wins when both are set.
type Mark struct {
	Percentage string
	Obtained   string
	Total      string
}

// Percent returns the mark as a percentage.
func (m Mark) Percent(field string) (float64, error) {
	if strings.TrimSpace(m.Percentage) != "" || (strings.TrimSpace(m.Obtained) == "" && strings.TrimSpace(m.Total) == "") {
		return ParseNumber(field, m.Percentage)
	}

	obtained, err := ParseNumber(field, m.Obtained)
	if err != nil {
		return 0, err
	}
	total, err := ParseNumber(field, m.Total)
	if err != nil {
		return 0, err
	}
	return PercentageFromMarks(field, obtained, total)
}

// Input is one calculator submission as read from the form.
type Input struct {
	Matric    Mark
	Inter     Mark
	TestScore string
}

// Result is a computed aggregate together with the percentages it was built from.
type Result struct {
	Aggregate        float64 `json:"aggregate"`
	Display          string  `json:"display"`
	MatricPercentage float64 `json:"matric_percentage"`
	InterPercentage  float64 `json:"inter_percentage"`
	TestScore        float64 `json:"test_score"`
}

// Evaluate resolves marks to percentages and computes the aggregate. Non-numeric input
// anywhere is reported before any range problem, matching the order the form shows
// messages in.
func (in Input) Evaluate() (Result, error) {
	matric, matricErr := in.Matric.Percent("matric")
	inter, interErr := in.Inter.Percent("inter")
	test, testErr := ParseNumber("test_score", in.TestScore)

	for _, err := range []error{matricErr, interErr, testErr} {
		if ve, ok := err.(*ValidationError); ok && ve.Message == msgNotNumeric {
			return Result{}, ve
		}
	}
	for _, err := range []error{matricErr, interErr, testErr} {
		if err != nil {
			return Result{}, err
		}
	}

	agg, err := ComputeAggregate(test, inter, matric)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Aggregate:        agg,
		Display:          FormatAggregate(agg),
		MatricPercentage: matric,
		InterPercentage:  inter,
		TestScore:        test,
	}, nil
}

// FormatAggregate renders an aggregate for display.
func FormatAggregate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseAggregate reads back a displayed aggregate. Text that does not hold a number means
// no calculation has happened yet.
func ParseAggregate(text string) (float64, error) {
	s := strings.TrimSpace(text)
	v, ok := parseDecimal(s)
	if !ok {
		return 0, &MissingScoreError{Raw: s}
	}
	if math.IsInf(v, 0) || v < 0 {
		return 0, invalid("aggregate", "Aggregate must be a non-negative number.")
	}
	return v, nil
}
