package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/breeds/internal/model"
)

// breedItem adapts model.Breed to list.Item.
type breedItem struct {
	id   model.ID
	name string
}

func (i breedItem) Title() string       { return i.name }
func (i breedItem) Description() string { return "" }
func (i breedItem) FilterValue() string { return i.name }

func breedItems(breeds []model.Breed) []list.Item {
	out := make([]list.Item, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, breedItem{id: b.ID, name: b.Name})
	}
	return out
}

// breedDelegate renders one breed per line.
type breedDelegate struct{}

func (d breedDelegate) Height() int                               { return 1 }
func (d breedDelegate) Spacing() int                              { return 0 }
func (d breedDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d breedDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(breedItem)
	prefix := "  "
	name := it.name
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		name = titleStyle.Render(name)
	}
	fmt.Fprint(w, prefix+name)
}
