package store

// Team is a franchise's static metadata.
type Team struct {
	TeamID       int64  `json:"team_id" db:"team_id"`
	Abbreviation string `json:"abbreviation" db:"abbreviation"`
	City         string `json:"city" db:"city"`
	Name         string `json:"name" db:"name"`
	Conference   string `json:"conference" db:"conference"`
	Division     string `json:"division" db:"division"`
}

// FullName is "City Name", the key the provider's player biographies use.
func (t Team) FullName() string {
	return t.City + " " + t.Name
}
