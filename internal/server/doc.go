// Package server provides HTTP routing, middleware, and the OAuth callback
// endpoint for the CLI login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering.
//
// # OAuth Callback Handler
//
// [CallbackHandler] implements the authorization-code callback for the PKCE
// login flow. The handler validates the state parameter (CSRF protection),
// hands the code to an [Exchanger] for the verifier-bound token exchange, and
// sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `vibescan auth login`, a temporary HTTP server starts on
// the configured redirect host, handles the callback, and shuts down after
// the token exchange settles.
package server
