package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		input    string
		expected Field
	}{
		{"pre-engineering", FieldPreEngineering},
		{"  Pre-Medical ", FieldPreMedical},
		{"general", FieldGeneral},
		{"", FieldGeneral},
		{"ics", FieldGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseField(tt.input))
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("Computer Science"), Key("  computer   SCIENCE "))
	assert.Equal(t, Key("Ｓｉｎｄｈｉ"), Key("sindhi"), "full-width forms fold to ASCII")
	assert.NotEqual(t, Key("Physics"), Key("Physiology"))
}

func TestSubsetIncludesITAndDeduplicates(t *testing.T) {
	c, err := NewBuilder().
		Add(Department{Name: "Computer Science", Category: CategoryIT}).
		Add(Department{Name: "Electronics", Category: CategoryEngineering}, FieldPreEngineering).
		// Listed under a field and IT at once.
		Add(Department{Name: "Data Science", Category: CategoryIT}, FieldPreEngineering).
		Add(Department{Name: "Sindhi", Category: CategoryArts}, FieldGeneral).
		Build()
	require.NoError(t, err)

	names := func(ds []Department) []string {
		out := make([]string, len(ds))
		for i, d := range ds {
			out[i] = d.Name
		}
		return out
	}

	assert.Equal(t, []string{"Electronics", "Data Science", "Computer Science"}, names(c.Subset(FieldPreEngineering)))
	assert.Equal(t, []string{"Computer Science", "Data Science"}, names(c.Subset(FieldPreMedical)))
	assert.Equal(t, []string{"Sindhi", "Computer Science", "Data Science"}, names(c.Subset(Field("unknown"))))
}

func TestBuildRejectsBadDepartments(t *testing.T) {
	_, err := NewBuilder().Add(Department{Name: " ", Category: CategoryArts}).Build()
	assert.Error(t, err)

	_, err = NewBuilder().Add(Department{Name: "Astrology", Category: Category("mystic")}).Build()
	assert.Error(t, err)
}

func TestCatalogIsIsolatedFromBuilder(t *testing.T) {
	b := NewBuilder().Add(Department{Name: "Sindhi", Category: CategoryArts}, FieldGeneral)
	c, err := b.Build()
	require.NoError(t, err)

	b.Add(Department{Name: "Urdu", Category: CategoryArts}, FieldGeneral)
	assert.Len(t, c.Subset(FieldGeneral), 1)
	assert.Equal(t, 1, c.Len())
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	for _, field := range []Field{FieldPreEngineering, FieldPreMedical, FieldGeneral} {
		t.Run(string(field), func(t *testing.T) {
			subset := c.Subset(field)
			seen := map[string]bool{}
			itCount := 0
			for _, d := range subset {
				assert.False(t, seen[Key(d.Name)], "duplicate %s", d.Name)
				seen[Key(d.Name)] = true
				if d.Category == CategoryIT {
					itCount++
				}
			}
			assert.Equal(t, 6, itCount, "every field includes the IT list")
		})
	}

	pharm, ok := c.Lookup("pharm-d")
	require.True(t, ok)
	assert.True(t, pharm.HighDemand)
	require.NotNil(t, pharm.MinimumThreshold)
	assert.Equal(t, 80.0, *pharm.MinimumThreshold)

	sindhi, ok := c.Lookup("Sindhi")
	require.True(t, ok)
	assert.Equal(t, CategoryArts, sindhi.Category)
}
