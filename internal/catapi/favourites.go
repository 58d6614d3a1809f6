package catapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/Makepad-fr/breeds/internal/model"
)

// ListFavourites returns the favourites of one user subscription, newest first.
func (c *Client) ListFavourites(ctx context.Context, subID string, opts ...RequestOption) ([]model.Favourite, error) {
	if subID == "" {
		return nil, errors.New("list favourites: sub id is required")
	}
	var out []model.Favourite
	err := c.do(ctx, http.MethodGet, "/favourites", func(r *resty.Request) {
		r.SetQueryParam("sub_id", subID)
		r.SetQueryParam("order", "DESC")
	}, &out, opts)
	if err != nil {
		return nil, c.fail("list favourites", err)
	}
	return out, nil
}

// AddFavourite creates a favourite record.
func (c *Client) AddFavourite(ctx context.Context, fav model.NewFavourite, opts ...RequestOption) (model.FavouriteCreated, error) {
	if fav.ImageID == "" {
		return model.FavouriteCreated{}, errors.New("add favourite: image id is required")
	}
	var out model.FavouriteCreated
	err := c.do(ctx, http.MethodPost, "/favourites", func(r *resty.Request) {
		r.SetBody(fav)
	}, &out, opts)
	if err != nil {
		return model.FavouriteCreated{}, c.fail("add favourite", err)
	}
	return out, nil
}

// DeleteFavourite removes a favourite by its own identifier.
func (c *Client) DeleteFavourite(ctx context.Context, favouriteID model.ID, opts ...RequestOption) error {
	if favouriteID == "" {
		return errors.New("delete favourite: favourite id is required")
	}
	err := c.do(ctx, http.MethodDelete, "/favourites/{favouriteId}", func(r *resty.Request) {
		r.SetPathParam("favouriteId", favouriteID.String())
	}, nil, opts)
	if err != nil {
		return c.fail("delete favourite", err)
	}
	return nil
}

type ToggleAction int

const (
	Added ToggleAction = iota + 1
	Removed
)

func (a ToggleAction) String() string {
	switch a {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("ToggleAction(%d)", int(a))
	}
}

// ToggleResult says what ToggleFavourite did and to which favourite record.
type ToggleResult struct {
	Action      ToggleAction
	FavouriteID model.ID
}

// ToggleFavourite flips the favourite state of imageID for subID: it lists
// the user's favourites, deletes the matching record if there is one and
// creates one otherwise.
//
// There is no version check. Two clients toggling the same pair at once can
// create a duplicate or delete twice. A failed step aborts the sequence and
// leaves whatever the earlier steps did in place.
func (c *Client) ToggleFavourite(ctx context.Context, imageID model.ID, subID string) (ToggleResult, error) {
	if imageID == "" {
		return ToggleResult{}, errors.New("toggle favourite: image id is required")
	}
	favs, err := c.ListFavourites(ctx, subID)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle favourite: %w", err)
	}

	for _, f := range favs {
		if f.ImageID != imageID {
			continue
		}
		if err := c.DeleteFavourite(ctx, f.ID); err != nil {
			return ToggleResult{}, fmt.Errorf("toggle favourite: %w", err)
		}
		return ToggleResult{Action: Removed, FavouriteID: f.ID}, nil
	}

	created, err := c.AddFavourite(ctx, model.NewFavourite{ImageID: imageID, SubID: subID})
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle favourite: %w", err)
	}
	return ToggleResult{Action: Added, FavouriteID: created.ID}, nil
}
