package types

// Venue is stored as JSON inside ready_plans, never as its own table.
type Venue struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Rating   float64 `json:"rating"`
	Distance string  `json:"distance"`
}
