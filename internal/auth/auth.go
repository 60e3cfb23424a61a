// Package auth manages the two Spotify credential lifecycles: an application
// token minted through the client-credentials grant for catalog search, and a
// user token obtained through the authorization-code flow with PKCE for
// profile and playback access.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/store"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	verifierLength  = 128
	verifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Scopes requested for the user token. Playback scopes are included so a
// locked result can be streamed in full rather than previewed.
var Scopes = []string{
	"user-read-email",
	"user-read-private",
	"streaming",
	"user-read-playback-state",
	"user-modify-playback-state",
}

// State tracks progress through the user login lifecycle.
type State int

const (
	StateLoggedOut State = iota
	StateLoginInitiated
	StateCodeReceived
	StateTokenExchanged
	StateProfileLoaded
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged out"
	case StateLoginInitiated:
		return "login initiated"
	case StateCodeReceived:
		return "code received"
	case StateTokenExchanged:
		return "token exchanged"
	case StateProfileLoaded:
		return "profile loaded"
	default:
		return "unknown"
	}
}

type followers struct {
	Total int `json:"total"`
}

// User represents the authenticated Spotify user's profile.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
}

// Flow drives both credential lifecycles against a persistent [store.Store].
//
// The user flow is a public client: no secret is sent during the code
// exchange, proof of possession comes from the PKCE verifier instead. The
// application flow is confidential and uses the client secret directly.
type Flow struct {
	config     *oauth2.Config
	app        *clientcredentials.Config
	appSource  oauth2.TokenSource
	store      store.Store
	httpClient *http.Client
	logger     *log.Logger
	state      State
	baseURL    string
}

// NewFlow creates a Flow from Spotify credentials. The store persists the
// user token and the in-flight PKCE verifier across process restarts.
func NewFlow(creds shared.SpotifyConfig, st store.Store, client *http.Client, logger *log.Logger) *Flow {
	if client == nil {
		client = http.DefaultClient
	}

	f := &Flow{
		config: &oauth2.Config{
			ClientID:    creds.ClientID,
			RedirectURL: creds.RedirectURI,
			Scopes:      Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		app: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     spotifyTokenURL,
		},
		store:      st,
		httpClient: client,
		logger:     logger,
		state:      StateLoggedOut,
		baseURL:    spotifyBaseURL,
	}

	if _, err := f.Token(); err == nil {
		f.state = StateTokenExchanged
	}

	return f
}

// State reports the current position in the user login lifecycle.
func (f *Flow) State() State {
	return f.state
}

// GenerateVerifier produces a 128-character alphanumeric PKCE code verifier.
func GenerateVerifier() (string, error) {
	buf := make([]byte, verifierLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verifier: %w", err)
	}

	for i, b := range buf {
		buf[i] = verifierCharset[int(b)%len(verifierCharset)]
	}

	return string(buf), nil
}

// Challenge derives the S256 code challenge for a verifier: the unpadded
// base64url encoding of its SHA-256 digest.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Login starts the authorization-code flow. It generates and persists a fresh
// verifier, then returns the authorization URL to open and the CSRF state the
// callback must echo.
func (f *Flow) Login() (authURL string, state string, err error) {
	verifier, err := GenerateVerifier()
	if err != nil {
		return "", "", err
	}

	if err := f.store.Set(store.KeyCodeVerifier, verifier); err != nil {
		return "", "", fmt.Errorf("failed to persist verifier: %w", err)
	}

	state, err = shared.GenerateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL = f.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("code_challenge", Challenge(verifier)),
	)

	f.state = StateLoginInitiated
	f.logger.Debug("login initiated", "redirect_uri", f.config.RedirectURL)
	return authURL, state, nil
}

// Exchange redeems an authorization code for a user token using the persisted
// verifier. The verifier is consumed only after a successful exchange, so a
// transient token-endpoint failure can be retried with the same code flow.
func (f *Flow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.state = StateCodeReceived

	verifier, err := f.store.Get(store.KeyCodeVerifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, shared.ErrVerifierMissing
		}
		return nil, fmt.Errorf("failed to load verifier: %w", err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	token, err := f.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := f.saveToken(token); err != nil {
		return nil, err
	}

	if err := f.store.Delete(store.KeyCodeVerifier); err != nil {
		f.logger.Warn("failed to clear verifier", "error", err)
	}

	f.state = StateTokenExchanged
	f.logger.Info("user token acquired", "expires", token.Expiry)
	return token, nil
}

// Token loads the persisted user token.
func (f *Flow) Token() (*oauth2.Token, error) {
	raw, err := f.store.Get(store.KeyUserToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, shared.ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}

func (f *Flow) saveToken(token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := f.store.Set(store.KeyUserToken, string(raw)); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return nil
}

// Profile validates the user token by fetching the profile behind it. Any
// rejection from the API invalidates the stored token and resets the flow, so
// a stale session can never present as logged in.
func (f *Flow) Profile(ctx context.Context) (*User, error) {
	token, err := f.Token()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("profile request rejected, clearing session", "status", resp.StatusCode)
		if err := f.Logout(); err != nil {
			f.logger.Error("failed to clear session", "error", err)
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	f.state = StateProfileLoaded
	return &user, nil
}

// AppTokenSource returns a self-refreshing token source for the application
// token. Callers hold the source, not a token, so expiry never surfaces as a
// mid-session failure.
func (f *Flow) AppTokenSource(ctx context.Context) oauth2.TokenSource {
	if f.appSource == nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
		f.appSource = f.app.TokenSource(ctx)
	}
	return f.appSource
}

// AppToken mints (or returns a cached, unexpired) application token.
func (f *Flow) AppToken(ctx context.Context) (*oauth2.Token, error) {
	token, err := f.AppTokenSource(ctx).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// Logout discards the user token and any in-flight verifier.
func (f *Flow) Logout() error {
	if err := f.store.Delete(store.KeyUserToken); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to clear token: %w", err)
	}

	if err := f.store.Delete(store.KeyCodeVerifier); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to clear verifier: %w", err)
	}

	f.state = StateLoggedOut
	return nil
}
