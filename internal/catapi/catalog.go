package catapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/Makepad-fr/breeds/internal/model"
)

// ListBreeds fetches the whole breed catalog.
func (c *Client) ListBreeds(ctx context.Context, opts ...RequestOption) ([]model.Breed, error) {
	var out []model.Breed
	if err := c.do(ctx, http.MethodGet, "/breeds/", nil, &out, opts); err != nil {
		return nil, c.fail("list breeds", err)
	}
	return out, nil
}

// SearchImages fetches up to limit sample images for one breed. Ordering is
// whatever the service returns.
func (c *Client) SearchImages(ctx context.Context, breedID model.ID, limit int, opts ...RequestOption) ([]model.Image, error) {
	if breedID == "" {
		return nil, errors.New("search images: breed id is required")
	}
	if limit <= 0 {
		limit = DefaultImageLimit
	}
	var out []model.Image
	err := c.do(ctx, http.MethodGet, "/images/search", func(r *resty.Request) {
		r.SetQueryParam("breed_ids", breedID.String())
		r.SetQueryParam("limit", strconv.Itoa(limit))
	}, &out, opts)
	if err != nil {
		return nil, c.fail("search images", err)
	}
	for i := range out {
		out[i].BreedID = breedID
	}
	return out, nil
}
