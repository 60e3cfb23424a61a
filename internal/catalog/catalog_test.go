package catalog

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/synth"
	"golang.org/x/oauth2"
)

func staticToken() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "app_token", TokenType: "Bearer"})
}

func testResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resolver := NewResolver(staticToken(), server.Client(), rand.New(rand.NewSource(1)), shared.NewLogger(io.Discard))
	resolver.baseURL = server.URL
	return resolver
}

const mixedPage = `{"playlists": {"items": [
	null,
	{"id": "p1", "name": "First", "owner": {"display_name": "a"}, "tracks": {"total": 10}},
	{"id": "", "name": "Ghost"},
	{"id": "p2", "name": "Second", "external_urls": {"spotify": "https://open.spotify.com/playlist/p2"}},
	{"id": "p3", "name": "Third"}
]}}`

func testQuery() synth.Query {
	return synth.Query{
		Primary:  "bollywood party dance songs hindi 2015-2024 hits day energy mode",
		Fallback: "bollywood happy songs",
		Offset:   7,
	}
}

func TestResolve(t *testing.T) {
	t.Run("picks among usable primary results", func(t *testing.T) {
		var requests []string
		resolver := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.URL.RawQuery)
			if r.Header.Get("Authorization") != "Bearer app_token" {
				t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(mixedPage))
		})

		playlist, err := resolver.Resolve(context.Background(), testQuery())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if playlist == nil {
			t.Fatal("expected a playlist")
		}
		if playlist.ID != "p1" && playlist.ID != "p2" && playlist.ID != "p3" {
			t.Errorf("picked an unusable item: %+v", playlist)
		}
		if len(requests) != 1 {
			t.Fatalf("expected a single search, got %d", len(requests))
		}

		query := requests[0]
		req, _ := http.NewRequest(http.MethodGet, "/?"+query, nil)
		params := req.URL.Query()
		if params.Get("type") != "playlist" || params.Get("limit") != "10" || params.Get("offset") != "7" {
			t.Errorf("unexpected search params %s", query)
		}
	})

	t.Run("empty primary falls back exactly once", func(t *testing.T) {
		var queries []string
		resolver := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
			queries = append(queries, r.URL.Query().Get("q"))
			if len(queries) == 1 {
				w.Write([]byte(`{"playlists": {"items": [null, {"id": ""}]}}`))
				return
			}
			if r.URL.Query().Has("offset") {
				t.Error("fallback search must not carry an offset")
			}
			w.Write([]byte(mixedPage))
		})

		playlist, err := resolver.Resolve(context.Background(), testQuery())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if playlist == nil || playlist.ID != "p1" {
			t.Errorf("expected first usable fallback result, got %+v", playlist)
		}
		if len(queries) != 2 {
			t.Fatalf("expected exactly one fallback search, got %d total", len(queries))
		}
		if queries[1] != "bollywood happy songs" {
			t.Errorf("unexpected fallback query %q", queries[1])
		}
	})

	t.Run("nothing usable anywhere yields nil without error", func(t *testing.T) {
		count := 0
		resolver := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
			count++
			w.Write([]byte(`{"playlists": {"items": []}}`))
		})

		playlist, err := resolver.Resolve(context.Background(), testQuery())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist != nil {
			t.Errorf("expected nil playlist, got %+v", playlist)
		}
		if count != 2 {
			t.Errorf("expected primary plus one fallback, got %d searches", count)
		}
	})

	t.Run("server errors degrade instead of propagating", func(t *testing.T) {
		resolver := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		playlist, err := resolver.Resolve(context.Background(), testQuery())
		if err != nil {
			t.Fatalf("expected swallowed error, got %v", err)
		}
		if playlist != nil {
			t.Errorf("expected nil playlist, got %+v", playlist)
		}
	})
}
