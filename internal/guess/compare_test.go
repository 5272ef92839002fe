package guess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile(name string) PlayerProfile {
	return PlayerProfile{
		Name:       name,
		Team:       "Boston Celtics",
		Position:   "Forward",
		Age:        28,
		Country:    "USA",
		College:    "Duke",
		Conference: "East",
		Division:   "Atlantic",
		Jersey:     0,
	}
}

func TestCompareOrdinal(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		target    float64
		want      Outcome
	}{
		{"younger", 25, 28, GuessTooLow},
		{"within tolerance", 28.005, 28, Match},
		{"older", 31, 28, GuessTooHigh},
		{"exact", 7, 7, Match},
		{"just outside tolerance", 28.02, 28, GuessTooHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareOrdinal(tt.candidate, tt.target))
		})
	}
}

func TestCompareCategorical(t *testing.T) {
	assert.Equal(t, Match, CompareCategorical("Guard", "Guard"))
	assert.Equal(t, NoRelation, CompareCategorical("guard", "Guard"))
	assert.Equal(t, NoRelation, CompareCategorical("", "Guard"))
}

func TestCompare_FieldOrderAndOutcomes(t *testing.T) {
	target := profile("Jayson Tatum")
	candidate := profile("Jaylen Brown")
	candidate.Age = 25
	candidate.Jersey = 7
	candidate.College = "California"

	results := Compare(candidate, target)
	require.Len(t, results, 9)

	var fields []Field
	byField := map[Field]FieldResult{}
	for _, r := range results {
		fields = append(fields, r.Field)
		byField[r.Field] = r
	}
	assert.Equal(t, []Field{
		FieldName, FieldTeam, FieldPosition, FieldAge, FieldCountry,
		FieldConference, FieldDivision, FieldJersey, FieldCollege,
	}, fields)

	assert.Equal(t, NoRelation, byField[FieldName].Outcome)
	assert.Equal(t, Match, byField[FieldTeam].Outcome)
	assert.Equal(t, GuessTooLow, byField[FieldAge].Outcome)
	assert.Equal(t, GuessTooHigh, byField[FieldJersey].Outcome)
	assert.Equal(t, NoRelation, byField[FieldCollege].Outcome)
	assert.Equal(t, 25.0, byField[FieldAge].Candidate)
}

func TestCompare_SamePlayerMatchesEverything(t *testing.T) {
	p := profile("Jayson Tatum")
	for _, r := range Compare(p, p) {
		assert.Equal(t, Match, r.Outcome, r.Field)
	}
}
