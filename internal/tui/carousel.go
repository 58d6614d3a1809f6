package tui

import "github.com/Makepad-fr/breeds/internal/model"

// Slide is one image in the carousel.
type Slide struct {
	ImageID   model.ID
	URL       string
	Caption   string
	Favourite bool
}

// Carousel shows one slide at a time and wraps around at both ends.
type Carousel struct {
	slides []Slide
	pos    int
}

// Clear drops every slide. Callers clear before appending a new set so no
// slide from a previous view survives.
func (c *Carousel) Clear() {
	c.slides = nil
	c.pos = 0
}

func (c *Carousel) Append(s Slide) { c.slides = append(c.slides, s) }

func (c *Carousel) Len() int { return len(c.slides) }

// Pos is the zero-based index of the current slide.
func (c *Carousel) Pos() int { return c.pos }

func (c *Carousel) Next() {
	if len(c.slides) > 0 {
		c.pos = (c.pos + 1) % len(c.slides)
	}
}

func (c *Carousel) Prev() {
	if len(c.slides) > 0 {
		c.pos = (c.pos - 1 + len(c.slides)) % len(c.slides)
	}
}

// Current returns the slide on display.
func (c *Carousel) Current() (Slide, bool) {
	if len(c.slides) == 0 {
		return Slide{}, false
	}
	return c.slides[c.pos], true
}

// Slides returns a copy of every slide in order.
func (c *Carousel) Slides() []Slide { return append([]Slide(nil), c.slides...) }

// Mark sets the favourite flag on every slide showing imageID.
func (c *Carousel) Mark(imageID model.ID, fav bool) {
	for i := range c.slides {
		if c.slides[i].ImageID == imageID {
			c.slides[i].Favourite = fav
		}
	}
}
