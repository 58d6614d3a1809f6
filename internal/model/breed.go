package model

// Breed describes one category returned by the catalog.
// Everything past ID and Name is optional; not every breed carries it.
type Breed struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Origin      string   `json:"origin,omitempty"`
	Temperament string   `json:"temperament,omitempty"`
	BredFor     string   `json:"bred_for,omitempty"`
	BreedGroup  string   `json:"breed_group,omitempty"`
	LifeSpan    string   `json:"life_span,omitempty"`
	Description string   `json:"description,omitempty"`
	Height      *Measure `json:"height,omitempty"`
	Weight      *Measure `json:"weight,omitempty"`
}

// Measure holds the same quantity in both unit systems, e.g. "7 - 10".
type Measure struct {
	Imperial string `json:"imperial"`
	Metric   string `json:"metric"`
}

// Complete reports whether both unit systems are present.
func (m *Measure) Complete() bool {
	return m != nil && m.Imperial != "" && m.Metric != ""
}
