package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/vibescan/internal/shared"
	"golang.org/x/oauth2"
)

type stubExchanger struct {
	token *oauth2.Token
	err   error
	codes []string
}

func (s *stubExchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	s.codes = append(s.codes, code)
	return s.token, s.err
}

func TestBasicRouter(t *testing.T) {
	t.Run("filters methods", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in reverse order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("outer"), mark("inner"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})

	t.Run("request logger passes through", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(RequestLogger(shared.NewLogger(io.Discard)))
		router.Handle(http.MethodGet, "/ok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestCallbackHandler(t *testing.T) {
	t.Run("delivers the exchanged token", func(t *testing.T) {
		exchanger := &stubExchanger{token: &oauth2.Token{AccessToken: "token_abc"}}
		handler := NewCallbackHandler(exchanger, "expected_state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=auth_code&state=expected_state", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if len(exchanger.codes) != 1 || exchanger.codes[0] != "auth_code" {
			t.Errorf("unexpected exchanged codes %v", exchanger.codes)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token.AccessToken != "token_abc" {
			t.Errorf("unexpected token %s", result.Token.AccessToken)
		}
	})

	t.Run("rejects a state mismatch", func(t *testing.T) {
		exchanger := &stubExchanger{}
		handler := NewCallbackHandler(exchanger, "expected_state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=auth_code&state=forged", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if len(exchanger.codes) != 0 {
			t.Error("forged state must not reach the exchanger")
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("propagates a denied authorization", func(t *testing.T) {
		handler := NewCallbackHandler(&stubExchanger{}, "expected_state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&error=access_denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("propagates an exchange failure", func(t *testing.T) {
		exchanger := &stubExchanger{err: errors.New("invalid_grant")}
		handler := NewCallbackHandler(exchanger, "expected_state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=bad_code&state=expected_state", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("processes only one callback", func(t *testing.T) {
		exchanger := &stubExchanger{token: &oauth2.Token{AccessToken: "token_abc"}}
		handler := NewCallbackHandler(exchanger, "expected_state")

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=auth_code&state=expected_state", nil))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=auth_code&state=expected_state", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected replay to be rejected, got %d", rec.Code)
		}
		if len(exchanger.codes) != 1 {
			t.Errorf("expected a single exchange, got %d", len(exchanger.codes))
		}
	})
}
