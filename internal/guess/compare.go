package guess

import "math"

// Outcome classifies one compared field of a guess.
type Outcome string

const (
	Match        Outcome = "MATCH"
	GuessTooLow  Outcome = "GUESS_TOO_LOW"
	GuessTooHigh Outcome = "GUESS_TOO_HIGH"
	NoRelation   Outcome = "NO_RELATION"
)

// Field names a compared attribute of a player profile.
type Field string

const (
	FieldName       Field = "NAME"
	FieldTeam       Field = "TEAM"
	FieldPosition   Field = "POSITION"
	FieldAge        Field = "AGE"
	FieldCountry    Field = "COUNTRY"
	FieldConference Field = "CONFERENCE"
	FieldDivision   Field = "DIVISION"
	FieldJersey     Field = "JERSEY"
	FieldCollege    Field = "COLLEGE"
)

// OrdinalTolerance is the largest difference still treated as equal for numeric fields.
const OrdinalTolerance = 0.01

// PlayerProfile is the attribute set compared between a guess and the solution.
type PlayerProfile struct {
	PlayerID   int64   `json:"player_id"`
	Name       string  `json:"name"`
	Team       string  `json:"team"`
	Position   string  `json:"position"`
	Age        float64 `json:"age"`
	Country    string  `json:"country"`
	College    string  `json:"college,omitempty"`
	Conference string  `json:"conference"`
	Division   string  `json:"division"`
	Jersey     float64 `json:"jersey"`
	ImageURL   string  `json:"image_url"`
}

// FieldResult is the outcome for one field.
type FieldResult struct {
	Field     Field   `json:"field"`
	Outcome   Outcome `json:"outcome"`
	Candidate any     `json:"value"`
}

// Compare scores every field of candidate against target, in display order.
func Compare(candidate, target PlayerProfile) []FieldResult {
	return []FieldResult{
		categorical(FieldName, candidate.Name, target.Name),
		categorical(FieldTeam, candidate.Team, target.Team),
		categorical(FieldPosition, candidate.Position, target.Position),
		ordinal(FieldAge, candidate.Age, target.Age),
		categorical(FieldCountry, candidate.Country, target.Country),
		categorical(FieldConference, candidate.Conference, target.Conference),
		categorical(FieldDivision, candidate.Division, target.Division),
		ordinal(FieldJersey, candidate.Jersey, target.Jersey),
		categorical(FieldCollege, candidate.College, target.College),
	}
}

// CompareCategorical is exact, case-sensitive string equality.
func CompareCategorical(candidate, target string) Outcome {
	if candidate == target {
		return Match
	}
	return NoRelation
}

// CompareOrdinal reports whether candidate is within tolerance of target, or which side it falls on.
func CompareOrdinal(candidate, target float64) Outcome {
	switch {
	case math.Abs(candidate-target) < OrdinalTolerance:
		return Match
	case candidate < target:
		return GuessTooLow
	default:
		return GuessTooHigh
	}
}

func categorical(f Field, candidate, target string) FieldResult {
	return FieldResult{Field: f, Outcome: CompareCategorical(candidate, target), Candidate: candidate}
}

func ordinal(f Field, candidate, target float64) FieldResult {
	return FieldResult{Field: f, Outcome: CompareOrdinal(candidate, target), Candidate: candidate}
}
