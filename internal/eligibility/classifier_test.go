package eligibility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
)

func dept(t *testing.T, name string) catalog.Department {
	t.Helper()
	d, ok := catalog.Default().Lookup(name)
	require.True(t, ok, "missing department %q", name)
	return d
}

func TestClassifyKnownDepartments(t *testing.T) {
	tests := []struct {
		name      string
		dept      string
		aggregate float64
		expected  Likelihood
	}{
		{"computer science high", "Computer Science", 76, High},
		{"computer science low at 50", "Computer Science", 50, Low},
		{"sindhi high at 56", "Sindhi", 56, High},
		{"sindhi good at 50", "Sindhi", 50, Good},
		{"software engineering uses IT cutoffs", "Software Engineering", 62, Good},
		{"pharm-d possible at 60", "Pharm-D", 60, Possible},
		{"pharm-d good at 70", "Pharm-D", 70, Good},
		{"law is high-demand", "Law", 74.99, Good},
		{"electrical engineering possible at 58", "Electrical Engineering", 58, Possible},
		{"zoology high at 68", "Zoology", 68, High},
		{"physics generic good at 60", "Physics", 60, Good},
		{"economics commerce possible", "Economics", 55, Possible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(dept(t, tt.dept), tt.aggregate))
		})
	}
}

func TestRuleFor(t *testing.T) {
	tests := []struct {
		name     string
		dept     catalog.Department
		expected Rule
	}{
		{"high-demand beats category", catalog.Department{Name: "Pharm-D", Category: catalog.CategoryMedical, HighDemand: true}, RuleHighDemand},
		{"arts", catalog.Department{Name: "Urdu", Category: catalog.CategoryArts}, RuleArts},
		{"it", catalog.Department{Name: "Data Science", Category: catalog.CategoryIT}, RuleITCommerce},
		{"commerce", catalog.Department{Name: "Commerce", Category: catalog.CategoryCommerce}, RuleITCommerce},
		{"engineering name match", catalog.Department{Name: "Mechanical ENGINEERING", Category: catalog.CategoryGeneral}, RuleEngineering},
		{"engineering category", catalog.Department{Name: "Electronics", Category: catalog.CategoryEngineering}, RuleEngineering},
		{"medical", catalog.Department{Name: "Botany", Category: catalog.CategoryMedical}, RuleMedical},
		{"natural science falls back", catalog.Department{Name: "Chemistry", Category: catalog.CategoryNaturalScience}, RuleGeneric},
		{"general falls back", catalog.Department{Name: "Education", Category: catalog.CategoryGeneral}, RuleGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RuleFor(tt.dept))
		})
	}
}

func TestRuleApplyBoundaries(t *testing.T) {
	r := RuleEngineering
	assert.Equal(t, High, r.Apply(70))
	assert.Equal(t, Good, r.Apply(69.999))
	assert.Equal(t, Good, r.Apply(63))
	assert.Equal(t, Possible, r.Apply(58))
	assert.Equal(t, Low, r.Apply(57.99))
	assert.Equal(t, High, r.Apply(140), "no upper cap")
	assert.Equal(t, Low, r.Apply(math.NaN()))
}

func TestClassifyIsTotalAndMonotonic(t *testing.T) {
	for _, d := range catalog.Default().Subset(catalog.FieldGeneral) {
		prev := Low
		for agg := 0.0; agg <= 100; agg += 0.5 {
			got := Classify(d, agg)
			assert.GreaterOrEqual(t, int(got), int(Low))
			assert.LessOrEqual(t, int(got), int(High))
			assert.GreaterOrEqual(t, int(got), int(prev), "%s at %.1f", d.Name, agg)
			prev = got
		}
	}
}

func TestLikelihoodLabels(t *testing.T) {
	assert.Equal(t, "High", High.String())
	assert.Equal(t, "Possible", Possible.String())
	assert.Equal(t, "badge-good", Good.ClassTag())
	assert.Equal(t, "badge-low", Low.ClassTag())
	assert.Equal(t, "Unknown", Likelihood(0).String())
	assert.True(t, High > Good && Good > Possible && Possible > Low)
}
