package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/breeds/internal/model"
)

func TestCarousel_WrapsBothWays(t *testing.T) {
	var c Carousel
	_, ok := c.Current()
	assert.False(t, ok)
	c.Next()
	c.Prev()

	for _, id := range []string{"a", "b", "c"} {
		c.Append(Slide{ImageID: model.ID(id)})
	}
	c.Prev()
	s, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, model.ID("c"), s.ImageID)

	c.Next()
	c.Next()
	s, _ = c.Current()
	assert.Equal(t, model.ID("b"), s.ImageID)
}

func TestCarousel_ClearResetsPosition(t *testing.T) {
	var c Carousel
	c.Append(Slide{ImageID: "a"})
	c.Append(Slide{ImageID: "b"})
	c.Next()
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Pos())
}

func TestCarousel_Mark(t *testing.T) {
	var c Carousel
	c.Append(Slide{ImageID: "a"})
	c.Append(Slide{ImageID: "b"})
	c.Mark("b", true)
	got := c.Slides()
	assert.False(t, got[0].Favourite)
	assert.True(t, got[1].Favourite)
}
