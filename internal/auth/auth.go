// Package auth implements the Spotify authorization-code flow with PKCE.
//
// The flow is a leaf collaborator: it hands the rest of the application a
// bearer token string and nothing more. Core code never depends on how the
// token was obtained.
package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistbridge/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	defaultRedirectURI = "http://127.0.0.1:8765/callback"
	callbackTimeout    = 2 * time.Minute
)

// Authorizer runs the browser-based PKCE login and returns the token.
type Authorizer struct {
	config      *oauth2.Config
	redirectURI *url.URL
	logger      *log.Logger
}

// NewAuthorizer builds an Authorizer from the Spotify credentials config.
// Only a client ID is required; PKCE replaces the client secret.
func NewAuthorizer(cfg shared.SpotifyConfig, logger *log.Logger) (*Authorizer, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: spotify client_id not configured", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redirect_uri: %v", shared.ErrInvalidConfig, err)
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: redirectURI,
		Scopes: []string{
			"playlist-modify-public",
			"playlist-modify-private",
			"user-read-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &Authorizer{
		config:      config,
		redirectURI: parsed,
		logger:      shared.WithLogger(logger, "component", "auth"),
	}, nil
}

// AuthURL returns the authorization URL for the given state and verifier.
func (a *Authorizer) AuthURL(state, verifier string) string {
	return a.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Login runs the full PKCE flow: starts the loopback callback server, opens
// the system browser to the authorization page, and exchanges the returned
// code for a token. Blocks until the callback arrives, the context is
// cancelled, or the timeout elapses.
func (a *Authorizer) Login(ctx context.Context) (*oauth2.Token, error) {
	state := shared.GenerateID()
	verifier := oauth2.GenerateVerifier()

	handler := newCallbackHandler(a.config, state, verifier)

	mux := http.NewServeMux()
	mux.Handle(a.callbackPath(), handler)

	listener, err := net.Listen("tcp", a.redirectURI.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot listen on %s: %v", shared.ErrAuthFailed, a.redirectURI.Host, err)
	}

	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Close()

	authURL := a.AuthURL(state, verifier)
	a.logger.Info("opening browser for authorization")
	if err := shared.OpenBrowser(authURL); err != nil {
		a.logger.Warn("could not open browser; visit the URL manually", "url", authURL)
	}

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Err)
		}
		a.logger.Info("authorization complete")
		return result.Token, nil
	case <-time.After(callbackTimeout):
		return nil, fmt.Errorf("%w: no callback received", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Authorizer) callbackPath() string {
	if a.redirectURI.Path == "" {
		return "/"
	}
	return a.redirectURI.Path
}
