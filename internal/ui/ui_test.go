package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/breeds/internal/model"
)

func TestBreedInfo_OmitsMissingFields(t *testing.T) {
	b := model.Breed{
		ID:          "beng",
		Name:        "Bengal",
		Origin:      "United States",
		Temperament: "Alert, Agile",
		LifeSpan:    "12 - 15",
		Weight:      &model.Measure{Imperial: "6 - 12", Metric: "3 - 7"},
		Height:      &model.Measure{Imperial: "10"},
	}
	info := BreedInfo(b)
	assert.Equal(t, "Bengal", info.Heading)
	assert.Equal(t, []Row{
		{"Origin", "United States"},
		{"Temperament", "Alert, Agile"},
		{"Life Span", "12 - 15"},
		{"Weight", "6 - 12 lbs (3 - 7 kg)"},
	}, info.Rows)

	for _, r := range info.Rows {
		assert.NotEqual(t, "Bred For", r.Label)
		assert.NotEqual(t, "Height", r.Label)
	}
}

func TestBreedInfo_DogShape(t *testing.T) {
	b := model.Breed{
		ID:         "22",
		Name:       "Basset Hound",
		BredFor:    "Hunting by scent",
		BreedGroup: "Hound",
		Height:     &model.Measure{Imperial: "14", Metric: "36"},
	}
	info := BreedInfo(b)
	require.Len(t, info.Rows, 3)
	assert.Equal(t, Row{"Height", "14 inches (36 cm)"}, info.Rows[2])
}

func TestInfoLines_NameOnly(t *testing.T) {
	SetColorForcing(false, true)
	defer SetColorForcing(false, false)
	assert.Equal(t, []string{"Malayan"}, BreedInfo(model.Breed{Name: "Malayan"}).Lines())
}

func TestPanel_FramesLines(t *testing.T) {
	SetTheme("classic")
	var buf bytes.Buffer
	Panel(&buf, []string{"Bengal", "Origin: US"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "┌────────────┐", lines[0])
	assert.Equal(t, "│ Bengal     │", lines[1])
	assert.Equal(t, "│ Origin: US │", lines[2])
	assert.Equal(t, "└────────────┘", lines[3])
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 100, 5))
	assert.Equal(t, "██░░░  40%", ProgressBar(40, 100, 5))
	assert.Equal(t, "█████ 100%", ProgressBar(140, 100, 5))
}

func TestSetTheme_Mono(t *testing.T) {
	defer func() {
		SetTheme("classic")
		SetColorForcing(false, false)
	}()
	SetTheme("mono")
	assert.Equal(t, "+", Current().CornerTL)
	assert.Equal(t, "plain", C(fgRed, "plain"))
}

func TestNewTable(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTable(&buf)
	tw.AppendHeader(table.Row{"ID", "Name"})
	tw.AppendRow(table.Row{"beng", "Bengal"})
	tw.Render()
	assert.Contains(t, buf.String(), "Bengal")
	assert.Contains(t, buf.String(), "╭")
}

func TestOKAndFail_Plain(t *testing.T) {
	SetTheme("classic")
	SetColorForcing(false, true)
	defer SetColorForcing(false, false)

	var buf bytes.Buffer
	OK(&buf, "saved")
	Fail(&buf, "boom")
	assert.Equal(t, "✔ saved\n✖ boom\n", buf.String())
}
