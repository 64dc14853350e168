// Package catalog holds the static department catalog and the per-field working sets
// that the ranking engine draws from.
package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Category tags a department with the discipline that decides its classification rules.
type Category string

const (
	CategoryIT             Category = "it"
	CategoryEngineering    Category = "engineering"
	CategoryMedical        Category = "medical"
	CategoryCommerce       Category = "commerce"
	CategoryNaturalScience Category = "natural_science"
	CategoryArts           Category = "arts"
	CategoryGeneral        Category = "general"
)

// ValidCategories maps category strings to their typed values.
var ValidCategories = map[string]Category{
	"it":              CategoryIT,
	"engineering":     CategoryEngineering,
	"medical":         CategoryMedical,
	"commerce":        CategoryCommerce,
	"natural_science": CategoryNaturalScience,
	"arts":            CategoryArts,
	"general":         CategoryGeneral,
}

// Field is the applicant's declared stream.
type Field string

const (
	FieldPreEngineering Field = "pre-engineering"
	FieldPreMedical     Field = "pre-medical"
	FieldGeneral        Field = "general"
)

// ParseField maps a selector value to a Field. Anything unrecognised is general.
func ParseField(s string) Field {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldPreEngineering:
		return FieldPreEngineering
	case FieldPreMedical:
		return FieldPreMedical
	default:
		return FieldGeneral
	}
}

// Department is one admission option.
type Department struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	// HighDemand marks the very-high-competition programmes (Pharm-D, Law).
	HighDemand bool `json:"high_demand"`
	// MinimumThreshold is the last published closing CPN, if known. Informational only.
	MinimumThreshold *float64 `json:"min_cpn,omitempty"`
}

// Catalog is immutable once built.
type Catalog struct {
	byKey  map[string]Department
	lists  map[Field][]string
	itList []string
}

// Builder assembles a Catalog. Not safe for concurrent use.
type Builder struct {
	byKey  map[string]Department
	order  []string
	lists  map[Field][]string
	itList []string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		byKey: make(map[string]Department),
		lists: make(map[Field][]string),
	}
}

// Add registers a department and lists it under the given fields. IT departments are
// also added to the IT list, which every field subset includes.
func (b *Builder) Add(d Department, fields ...Field) *Builder {
	key := Key(d.Name)
	if _, exists := b.byKey[key]; !exists {
		b.order = append(b.order, key)
	}
	b.byKey[key] = d
	for _, f := range fields {
		b.lists[f] = append(b.lists[f], key)
	}
	if d.Category == CategoryIT {
		b.itList = append(b.itList, key)
	}
	return b
}

// Build validates the registered departments and freezes them into a Catalog.
func (b *Builder) Build() (*Catalog, error) {
	for _, key := range b.order {
		d := b.byKey[key]
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("department with empty name")
		}
		if _, ok := ValidCategories[string(d.Category)]; !ok {
			return nil, fmt.Errorf("department %q has unknown category %q", d.Name, d.Category)
		}
	}

	c := &Catalog{
		byKey:  make(map[string]Department, len(b.byKey)),
		lists:  make(map[Field][]string, len(b.lists)),
		itList: append([]string(nil), b.itList...),
	}
	for k, d := range b.byKey {
		c.byKey[k] = d
	}
	for f, keys := range b.lists {
		c.lists[f] = append([]string(nil), keys...)
	}
	return c, nil
}

// Key normalises a department name for identity comparisons.
func Key(name string) string {
	return cases.Fold().String(norm.NFKC.String(strings.Join(strings.Fields(name), " ")))
}

// Lookup finds a department by name.
func (c *Catalog) Lookup(name string) (Department, bool) {
	d, ok := c.byKey[Key(name)]
	return d, ok
}

// Subset returns the field's working set: its own list followed by the IT list, with
// duplicates removed in order of first appearance.
func (c *Catalog) Subset(field Field) []Department {
	base := c.lists[ParseField(string(field))]
	seen := make(map[string]bool, len(base)+len(c.itList))
	out := make([]Department, 0, len(base)+len(c.itList))

	for _, keys := range [][]string{base, c.itList} {
		for _, k := range keys {
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, c.byKey[k])
		}
	}
	return out
}

// Len reports the number of distinct departments.
func (c *Catalog) Len() int {
	return len(c.byKey)
}
