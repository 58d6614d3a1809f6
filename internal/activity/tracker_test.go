package activity

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/breeds/internal/catapi"
	"github.com/Makepad-fr/breeds/internal/catapi/catapitest"
	"github.com/Makepad-fr/breeds/internal/model"
)

var _ catapi.Indicator = (*Tracker)(nil)

func TestTracker_BusyWhileAnyRequestOutstanding(t *testing.T) {
	tr := New()
	assert.False(t, tr.State().Busy)

	tr.Start()
	tr.Start()
	s := tr.State()
	assert.True(t, s.Busy)
	assert.Equal(t, 2, s.Inflight)
	assert.Zero(t, s.Percent)

	tr.Stop(true)
	assert.True(t, tr.State().Busy, "one request still outstanding")
	assert.Equal(t, 100, tr.State().Percent)

	tr.Stop(false)
	s = tr.State()
	assert.False(t, s.Busy)
	assert.Zero(t, s.Inflight)
	assert.Zero(t, s.Percent)
}

func TestTracker_StopNeverGoesNegative(t *testing.T) {
	tr := New()
	tr.Stop(true)
	tr.Start()
	assert.Equal(t, 1, tr.State().Inflight)
}

func TestTracker_UpdateClamps(t *testing.T) {
	tr := New()
	tr.Update(140)
	assert.Equal(t, 100, tr.State().Percent)
	tr.Update(-3)
	assert.Equal(t, 0, tr.State().Percent)
}

func TestTracker_NotifiesSubscribers(t *testing.T) {
	tr := New()
	var got []State
	tr.Subscribe(func(s State) { got = append(got, s) })

	tr.Start()
	tr.Update(40)
	tr.Stop(true)

	assert.Equal(t, []State{
		{Busy: true, Inflight: 1, Percent: 0, Version: 1},
		{Busy: true, Inflight: 1, Percent: 40, Version: 2},
		{Busy: false, Inflight: 0, Percent: 100, Version: 3},
	}, got)
}

func TestTracker_IdleAfterConcurrentCalls(t *testing.T) {
	srv := catapitest.New(t)
	srv.SetImages("beng", model.Image{ID: "a", URL: "https://cdn/a.jpg"})
	srv.FailWith("GET /breeds/", http.StatusBadGateway)

	tr := New()
	c, err := catapi.New(srv.URL, "k", catapi.WithIndicator(tr), catapi.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = c.SearchImages(context.Background(), "beng", 10)
		}()
		go func() {
			defer wg.Done()
			_, _ = c.ListBreeds(context.Background())
		}()
	}
	wg.Wait()

	s := tr.State()
	assert.False(t, s.Busy)
	assert.Zero(t, s.Inflight)
}

func TestTracker_SlowSubscriberEndsIdle(t *testing.T) {
	tr := New()
	var (
		mu   sync.Mutex
		last State
	)
	tr.Subscribe(func(s State) {
		if s.Busy {
			// a busy snapshot delivered late must not win
			time.Sleep(20 * time.Millisecond)
		}
		mu.Lock()
		defer mu.Unlock()
		if s.Supersedes(last) {
			last = s
		}
	})

	tr.Start()
	tr.Start()
	var wg sync.WaitGroup
	for _, ok := range []bool{true, false} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Stop(ok)
		}()
	}
	wg.Wait()

	assert.False(t, tr.State().Busy)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, last.Busy, "renderer holds %+v", last)
	assert.Equal(t, tr.State().Version, last.Version)
}
