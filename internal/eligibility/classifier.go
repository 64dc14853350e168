// Package eligibility classifies how likely admission to a department is at a given
// aggregate.
package eligibility

import (
	"strings"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
)

// Likelihood is an ordered admission chance. Higher is better.
type Likelihood int

const (
	Low Likelihood = iota + 1
	Possible
	Good
	High
)

func (l Likelihood) String() string {
	switch l {
	case High:
		return "High"
	case Good:
		return "Good"
	case Possible:
		return "Possible"
	case Low:
		return "Low"
	default:
		return "Unknown"
	}
}

// ClassTag is the badge class the page uses for the label.
func (l Likelihood) ClassTag() string {
	return "badge-" + strings.ToLower(l.String())
}

// Rule is one group of cutoffs. An aggregate at or above High is High, and so on down.
type Rule struct {
	Name     string  `json:"name"`
	High     float64 `json:"high"`
	Good     float64 `json:"good"`
	Possible float64 `json:"possible"`
}

// Apply maps an aggregate onto the rule's cutoffs.
func (r Rule) Apply(aggregate float64) Likelihood {
	switch {
	case aggregate >= r.High:
		return High
	case aggregate >= r.Good:
		return Good
	case aggregate >= r.Possible:
		return Possible
	default:
		return Low
	}
}

var (
	RuleHighDemand  = Rule{Name: "high-demand", High: 75, Good: 68, Possible: 60}
	RuleArts        = Rule{Name: "arts", High: 55, Good: 50, Possible: 45}
	RuleITCommerce  = Rule{Name: "it-commerce", High: 70, Good: 62, Possible: 55}
	RuleEngineering = Rule{Name: "engineering", High: 70, Good: 63, Possible: 58}
	RuleMedical     = Rule{Name: "medical", High: 68, Good: 60, Possible: 55}
	RuleGeneric     = Rule{Name: "generic", High: 70, Good: 60, Possible: 55}
)

type group struct {
	rule  Rule
	match func(catalog.Department) bool
}

// groups are checked in order; the first match wins.
var groups = []group{
	{RuleHighDemand, func(d catalog.Department) bool { return d.HighDemand }},
	{RuleArts, func(d catalog.Department) bool { return d.Category == catalog.CategoryArts }},
	{RuleITCommerce, func(d catalog.Department) bool {
		return d.Category == catalog.CategoryIT || d.Category == catalog.CategoryCommerce
	}},
	{RuleEngineering, IsEngineering},
	{RuleMedical, func(d catalog.Department) bool { return d.Category == catalog.CategoryMedical }},
}

// IsEngineering reports whether d is an engineering programme, by tag or by name.
func IsEngineering(d catalog.Department) bool {
	return d.Category == catalog.CategoryEngineering || strings.Contains(strings.ToLower(d.Name), "engineering")
}

// RuleFor returns the rule group that governs d.
func RuleFor(d catalog.Department) Rule {
	for _, g := range groups {
		if g.match(d) {
			return g.rule
		}
	}
	return RuleGeneric
}

// Classify returns the likelihood of admission to d at aggregate. Total: NaN lands in Low.
func Classify(d catalog.Department, aggregate float64) Likelihood {
	return RuleFor(d).Apply(aggregate)
}
