package catapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/breeds/internal/catapi/catapitest"
	"github.com/Makepad-fr/breeds/internal/model"
)

const sub = "my-user-1234"

func TestToggleFavourite_CreatesWhenAbsent(t *testing.T) {
	srv := catapitest.New(t)
	srv.SeedFavourite("other-image", sub)
	c := newTestClient(t, srv)

	res, err := c.ToggleFavourite(context.Background(), "img1", sub)
	require.NoError(t, err)
	assert.Equal(t, Added, res.Action)
	assert.NotEmpty(t, res.FavouriteID)

	assert.Equal(t, 1, srv.Calls("GET /favourites"))
	assert.Equal(t, 1, srv.Calls("POST /favourites"))
	assert.Equal(t, 0, srv.Calls("DELETE /favourites/{id}"))
	assert.Len(t, srv.Favourites(sub), 2)
}

func TestToggleFavourite_DeletesByFavouriteID(t *testing.T) {
	srv := catapitest.New(t)
	favID := srv.SeedFavourite("img1", sub)
	c := newTestClient(t, srv)

	res, err := c.ToggleFavourite(context.Background(), "img1", sub)
	require.NoError(t, err)
	assert.Equal(t, Removed, res.Action)
	assert.Equal(t, favID, res.FavouriteID)

	assert.Equal(t, 0, srv.Calls("POST /favourites"))
	assert.Equal(t, 1, srv.Calls("DELETE /favourites/{id}"))
	assert.Empty(t, srv.Favourites(sub))
}

func TestToggleFavourite_TwiceRestoresState(t *testing.T) {
	for _, seeded := range []bool{false, true} {
		srv := catapitest.New(t)
		if seeded {
			srv.SeedFavourite("img1", sub)
		}
		c := newTestClient(t, srv)

		_, err := c.ToggleFavourite(context.Background(), "img1", sub)
		require.NoError(t, err)
		_, err = c.ToggleFavourite(context.Background(), "img1", sub)
		require.NoError(t, err)

		favs := srv.Favourites(sub)
		if seeded {
			require.Len(t, favs, 1)
			assert.Equal(t, model.ID("img1"), favs[0].ImageID)
		} else {
			assert.Empty(t, favs)
		}
	}
}

func TestToggleFavourite_OnlyMatchesOwnSubscription(t *testing.T) {
	srv := catapitest.New(t)
	srv.SeedFavourite("img1", "someone-else")
	c := newTestClient(t, srv)

	res, err := c.ToggleFavourite(context.Background(), "img1", sub)
	require.NoError(t, err)
	assert.Equal(t, Added, res.Action)
	assert.Len(t, srv.Favourites("someone-else"), 1)
}

func TestToggleFavourite_AbortsOnListFailure(t *testing.T) {
	srv := catapitest.New(t)
	srv.FailWith("GET /favourites", http.StatusInternalServerError)
	c := newTestClient(t, srv)

	_, err := c.ToggleFavourite(context.Background(), "img1", sub)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, 0, srv.Calls("POST /favourites"))
	assert.Equal(t, 0, srv.Calls("DELETE /favourites/{id}"))
}

func TestToggleFavourite_CreateFailureLeavesNoCompensation(t *testing.T) {
	srv := catapitest.New(t)
	srv.FailWith("POST /favourites", http.StatusBadRequest)
	c := newTestClient(t, srv)

	_, err := c.ToggleFavourite(context.Background(), "img1", sub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toggle favourite")
	assert.Equal(t, 1, srv.Calls("GET /favourites"))
	assert.Equal(t, 0, srv.Calls("DELETE /favourites/{id}"))
}

func TestDeleteFavourite_SecondDeleteFails(t *testing.T) {
	srv := catapitest.New(t)
	favID := srv.SeedFavourite("img1", sub)
	c := newTestClient(t, srv)

	require.NoError(t, c.DeleteFavourite(context.Background(), favID))
	err := c.DeleteFavourite(context.Background(), favID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestListFavourites_NewestFirst(t *testing.T) {
	srv := catapitest.New(t)
	srv.SeedFavourite("first", sub)
	srv.SeedFavourite("second", sub)
	c := newTestClient(t, srv)

	favs, err := c.ListFavourites(context.Background(), sub)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, model.ID("second"), favs[0].ImageID)
	assert.Equal(t, "order=DESC&sub_id="+sub, srv.LastQuery())
}

func TestToggleAction_String(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "ToggleAction(9)", ToggleAction(9).String())
}

func TestDeleteFavourite_LogsResolvedURL(t *testing.T) {
	srv := catapitest.New(t)
	favID := srv.SeedFavourite("img1", "sub")

	var buf bytes.Buffer
	c := newTestClient(t, srv, WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, c.DeleteFavourite(context.Background(), favID))

	byMsg := map[string]map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if msg, ok := entry["message"].(string); ok {
			byMsg[msg] = entry
		}
	}

	sent := byMsg["request sent"]
	require.NotNil(t, sent)
	assert.Equal(t, "/favourites/{favouriteId}", sent["route"])

	got := byMsg["response received"]
	require.NotNil(t, got)
	assert.Equal(t, "/favourites/{favouriteId}", got["route"])
	assert.Equal(t, srv.URL+"/favourites/"+favID.String(), got["url"])
}
