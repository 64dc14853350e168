// Package scoring computes the CPN aggregate from exam results.
package scoring

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Weights of the CPN formula.
const (
	TestWeight   = 0.6
	InterWeight  = 0.3
	MatricWeight = 0.1
)

const (
	msgNotNumeric       = "Please fill in all fields with numbers."
	msgPercentageRange  = "Percentages must be between 0 and 100."
	msgTestRange        = "Test score must be between 0 and 100."
	msgMarksExceedTotal = "Obtained marks cannot exceed total marks."
	msgMarksTotal       = "Total marks must be greater than zero."
	msgMarksNegative    = "Marks cannot be negative."
)

// ComputeAggregate returns 0.6*test + 0.3*inter + 0.1*matric. Every input must be a
// number in [0,100].
func ComputeAggregate(test, inter, matric float64) (float64, error) {
	switch {
	case math.IsNaN(test):
		return 0, invalid("test_score", msgNotNumeric)
	case math.IsNaN(inter):
		return 0, invalid("inter", msgNotNumeric)
	case math.IsNaN(matric):
		return 0, invalid("matric", msgNotNumeric)
	}

	if !inRange(matric) {
		return 0, invalid("matric", msgPercentageRange)
	}
	if !inRange(inter) {
		return 0, invalid("inter", msgPercentageRange)
	}
	if !inRange(test) {
		return 0, invalid("test_score", msgTestRange)
	}

	return TestWeight*test + InterWeight*inter + MatricWeight*matric, nil
}

// PercentageFromMarks converts obtained/total marks to a percentage.
func PercentageFromMarks(field string, obtained, total float64) (float64, error) {
	if math.IsNaN(obtained) || math.IsNaN(total) || math.IsInf(obtained, 0) || math.IsInf(total, 0) {
		return 0, invalid(field, msgNotNumeric)
	}
	if obtained < 0 || total < 0 {
		return 0, invalid(field, msgMarksNegative)
	}
	if total == 0 {
		return 0, invalid(field, msgMarksTotal)
	}
	if obtained > total {
		return 0, invalid(field, msgMarksExceedTotal)
	}
	return 100 * obtained / total, nil
}

// ParseNumber parses a raw form value. Empty, non-numeric, NaN and infinite values are
// all reported as non-numeric.
func ParseNumber(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalid(field, msgNotNumeric)
	}
	v, ok := parseDecimal(s)
	if !ok || math.IsInf(v, 0) {
		return 0, invalid(field, msgNotNumeric)
	}
	return v, nil
}

// decimalPattern is plain decimal notation with an optional exponent. strconv alone would
// also take hex floats, digit underscores and the NaN/Inf words.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func parseDecimal(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

func inRange(v float64) bool {
	return v >= 0 && v <= 100
}
