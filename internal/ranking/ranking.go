// Package ranking orders departments by admission likelihood for a given aggregate.
package ranking

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/eligibility"
)

// CondensedLimit is the length of the condensed suggestion view.
const CondensedLimit = 10

// Entry is one ranked suggestion.
type Entry struct {
	Department catalog.Department
	Likelihood eligibility.Likelihood
	Boost      int
}

// Boost returns the tie-break weight for d. IT, Commerce and Engineering programmes are
// listed ahead of others with the same likelihood.
func Boost(d catalog.Department) int {
	if d.Category == catalog.CategoryIT || d.Category == catalog.CategoryCommerce || eligibility.IsEngineering(d) {
		return 1
	}
	return 0
}

// Rank classifies every department and sorts the result: likelihood descending, then
// boost descending, then name ascending.
func Rank(depts []catalog.Department, aggregate float64) []Entry {
	entries := make([]Entry, len(depts))
	for i, d := range depts {
		entries[i] = Entry{
			Department: d,
			Likelihood: eligibility.Classify(d, aggregate),
			Boost:      Boost(d),
		}
	}

	// Collators keep internal buffers and are not safe to share.
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Likelihood != b.Likelihood {
			return a.Likelihood > b.Likelihood
		}
		if a.Boost != b.Boost {
			return a.Boost > b.Boost
		}
		if c := col.CompareString(a.Department.Name, b.Department.Name); c != 0 {
			return c < 0
		}
		return a.Department.Name < b.Department.Name
	})
	return entries
}

// Top returns the first n entries, or all of them when there are fewer.
func Top(entries []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// Suggest ranks the working set for field. The condensed view keeps the first
// CondensedLimit entries.
func Suggest(cat *catalog.Catalog, field catalog.Field, aggregate float64, condensed bool) []Entry {
	entries := Rank(cat.Subset(field), aggregate)
	if condensed {
		return Top(entries, CondensedLimit)
	}
	return entries
}
