// Package browse holds the state shared by the user's actions: the breed
// catalog, the user subscription and the ordering of in-flight selections.
package browse

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Makepad-fr/breeds/internal/catapi"
	"github.com/Makepad-fr/breeds/internal/model"
)

// Catalog is the subset of the API client a session needs.
type Catalog interface {
	ListBreeds(ctx context.Context, opts ...catapi.RequestOption) ([]model.Breed, error)
	SearchImages(ctx context.Context, breedID model.ID, limit int, opts ...catapi.RequestOption) ([]model.Image, error)
	ListFavourites(ctx context.Context, subID string, opts ...catapi.RequestOption) ([]model.Favourite, error)
	ToggleFavourite(ctx context.Context, imageID model.ID, subID string) (catapi.ToggleResult, error)
}

// Selection is what a renderer needs to show one breed. Breed is nil when the
// id is not in the loaded catalog.
type Selection struct {
	Seq     uint64
	BreedID model.ID
	Breed   *model.Breed
	Images  []model.Image
}

// FavouritesView is the user's favourites in service order.
type FavouritesView struct {
	Seq        uint64
	Favourites []model.Favourite
}

type Options struct {
	SubID      string
	ImageLimit int
	// Progress receives download progress of the catalog load.
	Progress catapi.ProgressFunc
}

// Session is safe for concurrent use. Only the most recently issued view
// request (Select or Favourites) may reach the display; older ones return
// ErrStale when they complete.
type Session struct {
	api   Catalog
	subID string
	limit int
	prog  catapi.ProgressFunc

	mu     sync.RWMutex
	breeds []model.Breed

	seq atomic.Uint64
}

func NewSession(api Catalog, opt Options) *Session {
	if opt.ImageLimit <= 0 {
		opt.ImageLimit = catapi.DefaultImageLimit
	}
	return &Session{api: api, subID: opt.SubID, limit: opt.ImageLimit, prog: opt.Progress}
}

func (s *Session) SubID() string { return s.subID }

// LoadBreeds fetches the catalog and keeps it for later lookups.
func (s *Session) LoadBreeds(ctx context.Context) ([]model.Breed, error) {
	var opts []catapi.RequestOption
	if s.prog != nil {
		opts = append(opts, catapi.WithDownloadProgress(s.prog))
	}
	breeds, err := s.api.ListBreeds(ctx, opts...)
	if err != nil {
		return nil, fail("load breeds", err)
	}
	if len(breeds) == 0 {
		return nil, fail("load breeds", ErrEmptyCatalog)
	}

	s.mu.Lock()
	s.breeds = breeds
	s.mu.Unlock()
	return append([]model.Breed(nil), breeds...), nil
}

// Breeds returns the loaded catalog.
func (s *Session) Breeds() []model.Breed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Breed(nil), s.breeds...)
}

// Breed looks up a loaded breed by id.
func (s *Session) Breed(id model.ID) (model.Breed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.breeds {
		if b.ID == id {
			return b, true
		}
	}
	return model.Breed{}, false
}

// Select fetches images for breedID. Nothing is cached; selecting the same
// breed again repeats the round trip.
func (s *Session) Select(ctx context.Context, breedID model.ID) (*Selection, error) {
	seq := s.seq.Add(1)

	imgs, err := s.api.SearchImages(ctx, breedID, s.limit)
	if !s.IsLatest(seq) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, fail("select breed", err)
	}

	sel := &Selection{Seq: seq, BreedID: breedID, Images: imgs}
	if b, ok := s.Breed(breedID); ok {
		sel.Breed = &b
	}
	return sel, nil
}

// Favourites lists the session user's favourites, sequenced with Select.
func (s *Session) Favourites(ctx context.Context) (*FavouritesView, error) {
	seq := s.seq.Add(1)

	favs, err := s.api.ListFavourites(ctx, s.subID)
	if !s.IsLatest(seq) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, fail("load favourites", err)
	}
	return &FavouritesView{Seq: seq, Favourites: favs}, nil
}

// ToggleFavourite flips the favourite state of imageID for the session user.
func (s *Session) ToggleFavourite(ctx context.Context, imageID model.ID) (catapi.ToggleResult, error) {
	res, err := s.api.ToggleFavourite(ctx, imageID, s.subID)
	if err != nil {
		return catapi.ToggleResult{}, fail("toggle favourite", err)
	}
	return res, nil
}

// IsLatest reports whether seq is the most recently issued view request.
func (s *Session) IsLatest(seq uint64) bool {
	return s.seq.Load() == seq
}

// FavouriteMarks maps each image the session user has favourited to its
// favourite id. Unlike Favourites it does not take part in view ordering.
func (s *Session) FavouriteMarks(ctx context.Context) (map[model.ID]model.ID, error) {
	favs, err := s.api.ListFavourites(ctx, s.subID)
	if err != nil {
		return nil, fail("load favourites", err)
	}
	marks := make(map[model.ID]model.ID, len(favs))
	for _, f := range favs {
		marks[f.ImageID] = f.ID
	}
	return marks, nil
}
