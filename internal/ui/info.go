package ui

import (
	"fmt"

	"github.com/Makepad-fr/breeds/internal/model"
)

// UnknownBreed is the heading used when images arrive for a breed that is
// not in the loaded catalog.
const UnknownBreed = "Unknown Breed"

// Row is one labelled line of the information panel.
type Row struct {
	Label string
	Value string
}

// Info is the information panel for one breed.
type Info struct {
	Heading string
	Rows    []Row
}

// BreedInfo lists the fields b actually has. Missing fields get no row at
// all; height and weight need both unit systems.
func BreedInfo(b model.Breed) Info {
	info := Info{Heading: b.Name}
	add := func(label, value string) {
		if value != "" {
			info.Rows = append(info.Rows, Row{Label: label, Value: value})
		}
	}
	add("Origin", b.Origin)
	add("Temperament", b.Temperament)
	add("Bred For", b.BredFor)
	add("Breed Group", b.BreedGroup)
	add("Life Span", b.LifeSpan)
	if b.Height.Complete() {
		add("Height", fmt.Sprintf("%s inches (%s cm)", b.Height.Imperial, b.Height.Metric))
	}
	if b.Weight.Complete() {
		add("Weight", fmt.Sprintf("%s lbs (%s kg)", b.Weight.Imperial, b.Weight.Metric))
	}
	add("Description", b.Description)
	return info
}

// Lines renders info for Panel.
func (i Info) Lines() []string {
	t := Current()
	lines := []string{C(t.Title, i.Heading)}
	if len(i.Rows) > 0 {
		lines = append(lines, "")
	}
	for _, r := range i.Rows {
		lines = append(lines, C(t.Accent, r.Label+":")+" "+r.Value)
	}
	return lines
}
