package ranking

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/eligibility"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Department.Name
	}
	return out
}

func TestRankOrdering(t *testing.T) {
	depts := []catalog.Department{
		{Name: "Urdu", Category: catalog.CategoryArts},
		{Name: "Zoology", Category: catalog.CategoryMedical},
		{Name: "Computer Science", Category: catalog.CategoryIT},
		{Name: "Education", Category: catalog.CategoryGeneral},
		{Name: "Commerce", Category: catalog.CategoryCommerce},
		{Name: "Botany", Category: catalog.CategoryMedical},
	}

	// At 60: arts High, medical and generic Good, IT and commerce Possible.
	got := Rank(depts, 60)
	require.Len(t, got, len(depts))

	assert.Equal(t, []string{"Urdu", "Botany", "Education", "Zoology", "Commerce", "Computer Science"}, names(got))
	assert.Equal(t, eligibility.High, got[0].Likelihood)
	assert.Equal(t, eligibility.Good, got[1].Likelihood)
	assert.Equal(t, eligibility.Possible, got[4].Likelihood)
}

func TestRankBoostBreaksTies(t *testing.T) {
	depts := []catalog.Department{
		{Name: "Anthropology", Category: catalog.CategoryGeneral},
		{Name: "Zebra Engineering", Category: catalog.CategoryEngineering},
		{Name: "Yield Commerce", Category: catalog.CategoryCommerce},
	}

	// All High at 90 regardless of group.
	got := Rank(depts, 90)
	assert.Equal(t, []string{"Yield Commerce", "Zebra Engineering", "Anthropology"}, names(got))
	assert.Equal(t, 1, got[0].Boost)
	assert.Equal(t, 0, got[2].Boost)
}

func TestBoostMatchesEngineeringRule(t *testing.T) {
	tests := []struct {
		name string
		dept catalog.Department
		want int
	}{
		{"tagged engineering", catalog.Department{Name: "Avionics", Category: catalog.CategoryEngineering}, 1},
		{"engineering by name", catalog.Department{Name: "Mechanical Engineering", Category: catalog.CategoryGeneral}, 1},
		{"it", catalog.Department{Name: "Computer Science", Category: catalog.CategoryIT}, 1},
		{"commerce", catalog.Department{Name: "BBA", Category: catalog.CategoryCommerce}, 1},
		{"general", catalog.Department{Name: "Anthropology", Category: catalog.CategoryGeneral}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Boost(tt.dept))
		})
	}
}

func TestRankAlphabeticalIgnoresCase(t *testing.T) {
	depts := []catalog.Department{
		{Name: "botany", Category: catalog.CategoryGeneral},
		{Name: "Anatomy", Category: catalog.CategoryGeneral},
		{Name: "Chemistry", Category: catalog.CategoryGeneral},
	}
	assert.Equal(t, []string{"Anatomy", "botany", "Chemistry"}, names(Rank(depts, 10)))
}

func TestRankIndependentOfInputOrder(t *testing.T) {
	depts := catalog.Default().Subset(catalog.FieldGeneral)
	want := names(Rank(depts, 63.5))

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]catalog.Department(nil), depts...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, names(Rank(shuffled, 63.5)))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	depts := catalog.Default().Subset(catalog.FieldPreMedical)
	before := append([]catalog.Department(nil), depts...)
	_ = Rank(depts, 70)
	assert.Equal(t, before, depts)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, 50))
}

func TestTop(t *testing.T) {
	entries := Rank(catalog.Default().Subset(catalog.FieldGeneral), 65)
	require.Greater(t, len(entries), CondensedLimit)

	top := Top(entries, CondensedLimit)
	assert.Len(t, top, CondensedLimit)
	assert.Equal(t, entries[:CondensedLimit], top)

	short := entries[:3]
	assert.Equal(t, short, Top(short, CondensedLimit))
	assert.Empty(t, Top(entries, -1))
}

func TestSuggest(t *testing.T) {
	cat := catalog.Default()

	full := Suggest(cat, catalog.FieldPreEngineering, 72, false)
	condensed := Suggest(cat, catalog.FieldPreEngineering, 72, true)
	assert.Len(t, full, len(cat.Subset(catalog.FieldPreEngineering)))
	assert.Len(t, condensed, CondensedLimit)
	assert.Equal(t, names(full[:CondensedLimit]), names(condensed))

	seen := map[string]bool{}
	for _, e := range full {
		assert.False(t, seen[e.Department.Name], "duplicate %s", e.Department.Name)
		seen[e.Department.Name] = true
	}
	assert.True(t, seen["Computer Science"], "IT programmes always included")
}

func TestSuggestUnknownFieldUsesGeneral(t *testing.T) {
	cat := catalog.Default()
	assert.Equal(t,
		names(Suggest(cat, catalog.FieldGeneral, 58, false)),
		names(Suggest(cat, catalog.Field("arts-stream"), 58, false)))
}
