package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/breeds/internal/catapi/catapitest"
	"github.com/Makepad-fr/breeds/internal/model"
)

var (
	bengal     = model.Breed{ID: "beng", Name: "Bengal", Origin: "United States", LifeSpan: "12 - 15"}
	abyssinian = model.Breed{ID: "abys", Name: "Abyssinian", Origin: "Egypt"}
)

// isolate points config, .env and the credentials file at a scratch
// directory and the client at srv.
func isolate(t *testing.T, srv *catapitest.Server) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("API_KEY", "test-key")
	t.Setenv("SUB_ID", "")
	t.Setenv("THEME", "")
	if srv != nil {
		t.Setenv("BASE_URL", srv.URL)
	}
}

type result struct {
	out, err string
	code     int
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	cmd := NewRootCmd()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	code := exitCode(cmd, cmd.ExecuteContext(context.Background()))
	return result{out: out.String(), err: errb.String(), code: code}
}

func newServer(t *testing.T) *catapitest.Server {
	srv := catapitest.New(t)
	srv.SetBreeds(bengal, abyssinian)
	srv.SetImages("beng",
		model.Image{ID: "b1", URL: "https://cdn.example.test/b1.jpg", Width: 800, Height: 600},
		model.Image{ID: "b2", URL: "https://cdn.example.test/b2.jpg"},
		model.Image{ID: "b3", URL: "https://cdn.example.test/b3.jpg"},
	)
	isolate(t, srv)
	return srv
}

func TestList(t *testing.T) {
	srv := newServer(t)
	r := execute(t, "", "list")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Bengal")
	assert.Contains(t, r.out, "Abyssinian")
	assert.Equal(t, "test-key", srv.LastHeader().Get("x-api-key"))
}

func TestShow_FuzzyName(t *testing.T) {
	newServer(t)
	r := execute(t, "", "show", "bengl")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Bengal")
	assert.Contains(t, r.out, "Origin: United States")
	assert.Contains(t, r.out, "Life Span: 12 - 15")
	assert.NotContains(t, r.out, "Bred For")
}

func TestShow_UnknownBreed(t *testing.T) {
	newServer(t)
	r := execute(t, "", "show", "zzzzzz")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "unknown breed")
}

func TestImages_Limit(t *testing.T) {
	srv := newServer(t)
	r := execute(t, "", "images", "beng", "--limit", "2")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, srv.LastQuery(), "limit=2")
	assert.Contains(t, r.out, "b1")
	assert.Contains(t, r.out, "800x600")
	assert.NotContains(t, r.out, "b3")
}

func TestImages_DefaultPageSize(t *testing.T) {
	srv := newServer(t)
	r := execute(t, "", "images", "Bengal")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, srv.LastQuery(), "limit=10")
	assert.Contains(t, srv.LastQuery(), "breed_ids=beng")
}

func TestImages_RejectsNonPositiveLimit(t *testing.T) {
	srv := newServer(t)
	r := execute(t, "", "images", "beng", "--limit", "0")
	assert.Equal(t, 2, r.code)
	assert.Zero(t, srv.Calls("GET /images/search"))
}

func TestFav_TogglesForDefaultUser(t *testing.T) {
	srv := newServer(t)

	r := execute(t, "", "fav", "b1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "b1 added to favourites")
	assert.Equal(t, 1, srv.Calls("POST /favourites"))
	assert.Equal(t, 0, srv.Calls("DELETE /favourites/{id}"))
	require.Len(t, srv.Favourites(DefaultSubID), 1)

	r = execute(t, "", "fav", "b1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "b1 removed from favourites")
	assert.Empty(t, srv.Favourites(DefaultSubID))
}

func TestFav_SubIDFromEnvironment(t *testing.T) {
	srv := newServer(t)
	t.Setenv("SUB_ID", "sub-9")
	r := execute(t, "", "fav", "b2")
	require.Equal(t, 0, r.code, r.err)
	assert.Len(t, srv.Favourites("sub-9"), 1)
	assert.Empty(t, srv.Favourites(DefaultSubID))
}

func TestFavourites(t *testing.T) {
	srv := newServer(t)
	r := execute(t, "", "favourites")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "no favourites yet")

	srv.SeedFavourite("b2", DefaultSubID)
	r = execute(t, "", "favourites")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "b2")
	assert.Contains(t, r.out, "https://cdn.example.test/b2.jpg")
	assert.Contains(t, srv.LastQuery(), "order=DESC")
}

func TestStatusFailure_ExitsOne(t *testing.T) {
	srv := newServer(t)
	srv.FailWith("GET /breeds/", http.StatusInternalServerError)
	r := execute(t, "", "list")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "the catalog answered 500")
}

func TestUsageErrors_ExitTwo(t *testing.T) {
	newServer(t)
	for _, args := range [][]string{
		{"bogus"},
		{"fav"},
		{"fav", "a", "b"},
		{"show"},
		{"list", "--nope"},
		{"auth"},
	} {
		r := execute(t, "", args...)
		assert.Equal(t, 2, r.code, "%v: %s", args, r.err)
	}
}

func TestAuth_LoginStatusLogout(t *testing.T) {
	srv := newServer(t)
	t.Setenv("API_KEY", "")
	srv.APIKey = "abcd12345678"

	r := execute(t, "", "auth", "status")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "not logged in")

	r = execute(t, "abcd12345678\n", "auth", "login")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "logged in as breeds-")

	r = execute(t, "", "auth", "status")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "********5678")
	assert.NotContains(t, r.out, "abcd1234")

	// stored key and generated user id are used when nothing else is set
	r = execute(t, "", "fav", "b3")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, "abcd12345678", srv.LastHeader().Get("x-api-key"))
	assert.Empty(t, srv.Favourites(DefaultSubID))

	r = execute(t, "", "auth", "logout")
	require.Equal(t, 0, r.code, r.err)
	r = execute(t, "", "auth", "status")
	assert.Contains(t, r.out, "not logged in")
}

func TestAuth_LoginRequiresKey(t *testing.T) {
	isolate(t, nil)
	r := execute(t, "\n", "auth", "login")
	assert.Equal(t, 2, r.code)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "***", maskKey("abc"))
	assert.Equal(t, "**cdef", maskKey("abcdef"))
}
