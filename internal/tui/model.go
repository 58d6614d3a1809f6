// Package tui is the interactive breed browser: a filterable breed selector
// on the left, an image carousel with the breed's information on the right.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/breeds/internal/activity"
	"github.com/Makepad-fr/breeds/internal/browse"
	"github.com/Makepad-fr/breeds/internal/catapi"
	"github.com/Makepad-fr/breeds/internal/model"
	"github.com/Makepad-fr/breeds/internal/ui"
)

const (
	selectorWidth    = 30
	favouriteCaption = "One of my favourites"
	favouritesTitle  = "My favourites"
)

type (
	breedsLoadedMsg struct{ breeds []model.Breed }
	selectionMsg    struct{ sel *browse.Selection }
	favouritesMsg   struct{ view *browse.FavouritesView }
	marksMsg        struct {
		marks map[model.ID]model.ID
		epoch int
	}
	toggledMsg      struct {
		imageID model.ID
		res     catapi.ToggleResult
	}
	failureMsg  struct{ err error }
	activityMsg activity.State
	rotateMsg   struct{ gen int }
)

type keyMap struct {
	Select, Prev, Next, Favourite, Favourites, Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Prev:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev")),
		Next:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Favourite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favourite")),
		Favourites: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "my favourites")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Select, k.Prev, k.Next, k.Favourite, k.Favourites, k.Quit}
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx         context.Context
	sess        *browse.Session
	rotateEvery time.Duration

	keys     keyMap
	list     list.Model
	carousel Carousel
	heading  string
	info     *ui.Info
	marks    map[model.ID]model.ID // image id -> favourite id
	// bumped when a toggle starts and when it lands; marks listed across a
	// change are stale
	favEpoch int

	spinner spinner.Model
	bar     progress.Model
	act     activity.State
	status  string
	err     string

	width, height int
	rotation      int
}

// New builds the browser. rotateEvery <= 0 turns auto-rotation off.
func New(ctx context.Context, sess *browse.Session, rotateEvery time.Duration) Model {
	l := list.New(nil, breedDelegate{}, selectorWidth, 20)
	l.Title = "Breeds"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("breed", "breeds")
	// arrows rotate the carousel
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup", "h"), key.WithHelp("pgup/h", "prev page"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown", "l"), key.WithHelp("pgdn/l", "next page"))

	return Model{
		ctx:         ctx,
		sess:        sess,
		rotateEvery: rotateEvery,
		keys:        newKeyMap(),
		list:        l,
		marks:       map[model.ID]model.ID{},
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle)),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
		width:       100,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadBreeds)
}

// commands

func (m Model) loadBreeds() tea.Msg {
	breeds, err := m.sess.LoadBreeds(m.ctx)
	if err != nil {
		return failureMsg{err}
	}
	return breedsLoadedMsg{breeds}
}

func (m Model) selectBreed(id model.ID) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		sel, err := sess.Select(ctx, id)
		switch {
		case errors.Is(err, browse.ErrStale):
			return nil
		case err != nil:
			return failureMsg{err}
		}
		return selectionMsg{sel}
	}
}

func (m Model) showFavourites() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		view, err := sess.Favourites(ctx)
		switch {
		case errors.Is(err, browse.ErrStale):
			return nil
		case err != nil:
			return failureMsg{err}
		}
		return favouritesMsg{view}
	}
}

func (m Model) loadMarks() tea.Cmd {
	ctx, sess, epoch := m.ctx, m.sess, m.favEpoch
	return func() tea.Msg {
		marks, err := sess.FavouriteMarks(ctx)
		if err != nil {
			return failureMsg{err}
		}
		return marksMsg{marks: marks, epoch: epoch}
	}
}

func (m Model) toggle(imageID model.ID) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		res, err := sess.ToggleFavourite(ctx, imageID)
		if err != nil {
			return failureMsg{err}
		}
		return toggledMsg{imageID: imageID, res: res}
	}
}

func (m Model) tick() tea.Cmd {
	gen := m.rotation
	return tea.Tick(m.rotateEvery, func(time.Time) tea.Msg { return rotateMsg{gen: gen} })
}

// restartRotation invalidates pending ticks and schedules a fresh one.
func (m *Model) restartRotation() tea.Cmd {
	m.rotation++
	if m.rotateEvery <= 0 || m.carousel.Len() < 2 {
		return nil
	}
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(selectorWidth, max(msg.Height-6, 5))
		m.bar.Width = max(min(msg.Width-selectorWidth-40, 40), 10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case activityMsg:
		if st := activity.State(msg); st.Supersedes(m.act) {
			m.act = st
		}
		return m, nil

	case breedsLoadedMsg:
		m.err = ""
		cmd := m.list.SetItems(breedItems(msg.breeds))
		if len(msg.breeds) == 0 {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.selectBreed(msg.breeds[0].ID), m.loadMarks())

	case selectionMsg:
		if !m.sess.IsLatest(msg.sel.Seq) {
			return m, nil
		}
		m.showSelection(msg.sel)
		return m, m.restartRotation()

	case favouritesMsg:
		if !m.sess.IsLatest(msg.view.Seq) {
			return m, nil
		}
		m.showFavouritesView(msg.view)
		return m, m.restartRotation()

	case marksMsg:
		if msg.epoch != m.favEpoch {
			return m, nil
		}
		m.marks = msg.marks
		for _, s := range m.carousel.Slides() {
			_, fav := m.marks[s.ImageID]
			m.carousel.Mark(s.ImageID, fav)
		}
		return m, nil

	case toggledMsg:
		m.favEpoch++
		m.err = ""
		switch msg.res.Action {
		case catapi.Added:
			m.marks[msg.imageID] = msg.res.FavouriteID
			m.carousel.Mark(msg.imageID, true)
			m.status = "added to favourites"
		case catapi.Removed:
			delete(m.marks, msg.imageID)
			m.carousel.Mark(msg.imageID, false)
			m.status = "removed from favourites"
		}
		return m, nil

	case failureMsg:
		m.status = ""
		m.err = failureText(msg.err)
		return m, nil

	case rotateMsg:
		if msg.gen != m.rotation || m.carousel.Len() < 2 {
			return m, nil
		}
		m.carousel.Next()
		return m, m.tick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			it, ok := m.list.SelectedItem().(breedItem)
			if !ok {
				return m, nil
			}
			m.err, m.status = "", ""
			return m, m.selectBreed(it.id)
		case key.Matches(msg, m.keys.Prev):
			m.carousel.Prev()
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.carousel.Next()
			return m, nil
		case key.Matches(msg, m.keys.Favourite):
			s, ok := m.carousel.Current()
			if !ok {
				return m, nil
			}
			m.favEpoch++
			return m, m.toggle(s.ImageID)
		case key.Matches(msg, m.keys.Favourites):
			m.err, m.status = "", ""
			return m, m.showFavourites()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) showSelection(sel *browse.Selection) {
	caption := ui.UnknownBreed
	m.info = nil
	if sel.Breed != nil {
		caption = sel.Breed.Name
		info := ui.BreedInfo(*sel.Breed)
		m.info = &info
	}
	m.heading = caption

	m.carousel.Clear()
	for _, img := range sel.Images {
		_, fav := m.marks[img.ID]
		m.carousel.Append(Slide{ImageID: img.ID, URL: img.URL, Caption: caption, Favourite: fav})
	}
}

func (m *Model) showFavouritesView(v *browse.FavouritesView) {
	m.heading = favouritesTitle
	m.info = nil

	m.carousel.Clear()
	for _, f := range v.Favourites {
		s := Slide{ImageID: f.ImageID, Caption: favouriteCaption, Favourite: true}
		if f.Image != nil {
			s.URL = f.Image.URL
		}
		m.carousel.Append(s)
		m.marks[f.ImageID] = f.ID
	}
}

func failureText(err error) string {
	var f *browse.Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	return err.Error()
}

func (m Model) View() string {
	rightWidth := max(m.width-selectorWidth-8, 30)

	left := panelStyle(selectorWidth).Render(m.list.View())
	right := panelStyle(rightWidth).Render(m.viewCarousel())
	if m.info != nil {
		right = lipgloss.JoinVertical(lipgloss.Left, right, panelStyle(rightWidth).Render(viewInfo(*m.info)))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus(), m.viewHelp())
}

func (m Model) viewCarousel() string {
	if m.heading == "" {
		return mutedStyle.Render("loading breeds…")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.heading))

	s, ok := m.carousel.Current()
	if !ok {
		b.WriteString("\n\n" + mutedStyle.Render("no images"))
		return b.String()
	}
	heart := mutedStyle.Render(heartEmpty)
	if s.Favourite {
		heart = heartStyle.Render(heartFull)
	}
	fmt.Fprintf(&b, "\n\n%s %s\n%s\n\n%s", heart, s.Caption,
		accentStyle.Render(s.URL),
		mutedStyle.Render(fmt.Sprintf("%d/%d · %s", m.carousel.Pos()+1, m.carousel.Len(), s.ImageID)))
	return b.String()
}

func viewInfo(info ui.Info) string {
	lines := []string{titleStyle.Render(info.Heading)}
	for _, r := range info.Rows {
		lines = append(lines, accentStyle.Render(r.Label+":")+" "+r.Value)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStatus() string {
	parts := make([]string, 0, 3)
	if m.act.Busy {
		parts = append(parts, m.spinner.View())
	} else {
		parts = append(parts, successStyle.Render("✔"))
	}
	parts = append(parts, m.bar.ViewAs(float64(m.act.Percent)/100))
	switch {
	case m.err != "":
		parts = append(parts, errorStyle.Render("✖ "+m.err))
	case m.status != "":
		parts = append(parts, successStyle.Render(m.status))
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) viewHelp() string {
	var parts []string
	for _, b := range m.keys.bindings() {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	parts = append(parts, "/ filter")
	return helpStyle.Render(" " + strings.Join(parts, " • "))
}
