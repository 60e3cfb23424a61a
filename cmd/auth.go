package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/vibescan/internal/server"
	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the OAuth2 authorization code flow with PKCE.
//
// Starts a local HTTP server, opens browser for user authorization, and exchanges auth code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.flow == nil {
		return fmt.Errorf("%w: auth flow not initialized", shared.ErrServiceUnavailable)
	}
	if r.config.Credentials.Spotify.ClientID == "" {
		return fmt.Errorf("%w: Spotify client_id must be set in config.toml", shared.ErrMissingCredentials)
	}

	authURL, state, err := r.flow.Login()
	if err != nil {
		return fmt.Errorf("failed to start login: %w", err)
	}

	callbackHandler := server.NewCallbackHandler(r.flow, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(callbackHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify login...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-callbackHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return fmt.Errorf("no token received")
	}

	profile, err := r.flow.Profile(ctx)
	if err != nil {
		return fmt.Errorf("token accepted but profile fetch failed: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Logged in as %s (%s)\n\n", profile.DisplayName, profile.ID)
	r.writePlain("You can now run: vibescan vibe\n")

	return nil
}

// AuthLogout discards persisted tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.flow == nil {
		return fmt.Errorf("%w: auth flow not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.flow.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the auth state and token expiry without calling the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.flow == nil {
		return fmt.Errorf("%w: auth flow not initialized", shared.ErrServiceUnavailable)
	}

	r.writePlainHeader("Authentication Status")
	r.writePlain("State: %s\n", r.flow.State())

	token, err := r.flow.Token()
	if err != nil {
		r.writePlain("Token: none\n")
		return nil
	}

	r.writePlain("Token: present\n")
	if token.Expiry.IsZero() {
		r.writePlain("Expiry: unknown\n")
	} else if token.Valid() {
		r.writePlain("Expiry: %s\n", token.Expiry.Format(time.RFC3339))
	} else {
		r.writePlain("Expiry: expired at %s\n", token.Expiry.Format(time.RFC3339))
	}

	return nil
}

// AuthProfile fetches and prints the logged-in user's profile.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	if r.flow == nil {
		return fmt.Errorf("%w: auth flow not initialized", shared.ErrServiceUnavailable)
	}

	profile, err := r.flow.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Spotify Profile")
	r.writePlain("ID: %s\n", profile.ID)
	r.writePlain("Name: %s\n", profile.DisplayName)
	if profile.Email != "" {
		r.writePlain("Email: %s\n", profile.Email)
	}
	if profile.Country != "" {
		r.writePlain("Country: %s\n", profile.Country)
	}
	if profile.Product != "" {
		r.writePlain("Product: %s\n", profile.Product)
	}

	return nil
}
