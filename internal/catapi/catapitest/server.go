// Package catapitest provides an in-memory catalog service for tests.
package catapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Makepad-fr/breeds/internal/model"
)

// Server answers the catalog endpoints from memory and counts every call.
type Server struct {
	*httptest.Server

	// APIKey, when set, is required in the x-api-key header.
	APIKey string

	mu       sync.Mutex
	breeds   []model.Breed
	images   map[model.ID][]model.Image
	favs     []model.Favourite
	nextID   int
	calls    map[string]int
	failures map[string]int
	headers  http.Header
	queries  []string
	delay    map[model.ID]chan struct{}
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	s := &Server{
		images:   map[model.ID][]model.Image{},
		calls:    map[string]int{},
		failures: map[string]int{},
		delay:    map[model.ID]chan struct{}{},
		nextID:   1000,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /breeds/", s.listBreeds)
	mux.HandleFunc("GET /images/search", s.searchImages)
	mux.HandleFunc("GET /favourites", s.listFavourites)
	mux.HandleFunc("POST /favourites", s.addFavourite)
	mux.HandleFunc("DELETE /favourites/{id}", s.deleteFavourite)
	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) SetBreeds(b ...model.Breed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breeds = b
}

func (s *Server) SetImages(breedID model.ID, imgs ...model.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[breedID] = imgs
}

// SeedFavourite stores a favourite as if it had been created earlier.
func (s *Server) SeedFavourite(imageID model.ID, subID string) model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(imageID, subID)
}

// FailWith makes every call to "METHOD pattern" answer status. The key is
// the same form Calls uses, e.g. "POST /favourites".
func (s *Server) FailWith(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = status
}

// Hold blocks image searches for breedID until the returned func is called.
func (s *Server) Hold(breedID model.ID) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.delay[breedID] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls returns how many requests hit "METHOD pattern", e.g. "DELETE /favourites/{id}".
func (s *Server) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

// LastHeader returns the headers of the most recent request.
func (s *Server) LastHeader() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers.Clone()
}

// LastQuery returns the raw query string of the most recent request.
func (s *Server) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queries) == 0 {
		return ""
	}
	return s.queries[len(s.queries)-1]
}

// Favourites returns the stored favourites for subID.
func (s *Server) Favourites(subID string) []model.Favourite {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Favourite
	for _, f := range s.favs {
		if f.SubID == subID {
			out = append(out, f)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pattern := next.(*http.ServeMux).Handler(r)

		s.mu.Lock()
		s.calls[pattern]++
		s.headers = r.Header.Clone()
		s.queries = append(s.queries, r.URL.RawQuery)
		status, failing := s.failures[pattern]
		s.mu.Unlock()

		if s.APIKey != "" && r.Header.Get("x-api-key") != s.APIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "AUTHENTICATION_ERROR"})
			return
		}
		if failing {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listBreeds(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]model.Breed{}, s.breeds...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) searchImages(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.URL.Query().Get("breed_ids"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	s.mu.Lock()
	hold := s.delay[id]
	imgs := append([]model.Image{}, s.images[id]...)
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}
	if limit > 0 && len(imgs) > limit {
		imgs = imgs[:limit]
	}
	writeJSON(w, http.StatusOK, imgs)
}

func (s *Server) listFavourites(w http.ResponseWriter, r *http.Request) {
	sub := r.URL.Query().Get("sub_id")
	favs := s.Favourites(sub)
	// newest first
	for i, j := 0, len(favs)-1; i < j; i, j = i+1, j-1 {
		favs[i], favs[j] = favs[j], favs[i]
	}
	if favs == nil {
		favs = []model.Favourite{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (s *Server) addFavourite(w http.ResponseWriter, r *http.Request) {
	var in model.NewFavourite
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ImageID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "\"image_id\" is required"})
		return
	}
	s.mu.Lock()
	id := s.insertLocked(in.ImageID, in.SubID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, model.FavouriteCreated{ID: id, Message: "SUCCESS"})
}

func (s *Server) deleteFavourite(w http.ResponseWriter, r *http.Request) {
	id := model.ID(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.favs {
		if f.ID == id {
			s.favs = append(s.favs[:i], s.favs[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "SUCCESS"})
			return
		}
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": "INVALID_ACCOUNT"})
}

func (s *Server) insertLocked(imageID model.ID, subID string) model.ID {
	s.nextID++
	id := model.ID(strconv.Itoa(s.nextID))
	s.favs = append(s.favs, model.Favourite{
		ID:        id,
		ImageID:   imageID,
		SubID:     subID,
		CreatedAt: time.Now().UTC(),
		Image:     &model.Image{ID: imageID, URL: "https://cdn.example.test/" + imageID.String() + ".jpg"},
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
