package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/playlistbridge/internal/shared"
	"golang.org/x/oauth2"
)

func testConfig() shared.SpotifyConfig {
	return shared.SpotifyConfig{ClientID: "test_client_id"}
}

func TestNewAuthorizer(t *testing.T) {
	t.Run("with client ID", func(t *testing.T) {
		a, err := NewAuthorizer(testConfig(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if a.config.RedirectURL != defaultRedirectURI {
			t.Errorf("expected default redirect URI, got %s", a.config.RedirectURL)
		}
	})

	t.Run("missing client ID", func(t *testing.T) {
		_, err := NewAuthorizer(shared.SpotifyConfig{}, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("custom redirect URI", func(t *testing.T) {
		cfg := testConfig()
		cfg.RedirectURI = "http://127.0.0.1:9999/done"

		a, err := NewAuthorizer(cfg, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if a.redirectURI.Host != "127.0.0.1:9999" {
			t.Errorf("unexpected host: %s", a.redirectURI.Host)
		}
		if a.callbackPath() != "/done" {
			t.Errorf("unexpected callback path: %s", a.callbackPath())
		}
	})
}

func TestAuthURL(t *testing.T) {
	a, err := NewAuthorizer(testConfig(), nil)
	if err != nil {
		t.Fatalf("failed to create authorizer: %v", err)
	}

	verifier := oauth2.GenerateVerifier()
	authURL := a.AuthURL("test_state", verifier)

	if !strings.Contains(authURL, "accounts.spotify.com") {
		t.Error("auth URL should target the Spotify accounts domain")
	}
	if !strings.Contains(authURL, "test_client_id") {
		t.Error("auth URL should contain the client ID")
	}
	if !strings.Contains(authURL, "test_state") {
		t.Error("auth URL should contain the state")
	}
	if !strings.Contains(authURL, "code_challenge") {
		t.Error("auth URL should carry the PKCE challenge")
	}
	if !strings.Contains(authURL, "playlist-modify-private") {
		t.Error("auth URL should request the playlist scope")
	}
}

func TestCallbackHandler(t *testing.T) {
	newHandler := func() *callbackHandler {
		config := &oauth2.Config{ClientID: "test_client_id"}
		return newCallbackHandler(config, "expected_state", "verifier")
	}

	t.Run("rejects a mismatched state", func(t *testing.T) {
		handler := newHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Err == nil {
			t.Error("expected an error result for a state mismatch")
		}
	})

	t.Run("reports an authorization denial", func(t *testing.T) {
		handler := newHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&error=access_denied&error_description=denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Err == nil || !strings.Contains(result.Err.Error(), "access_denied") {
			t.Errorf("expected the denial reason in the error, got %v", result.Err)
		}
	})

	t.Run("exchanges the code for a token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "new_access", "refresh_token": "new_refresh", "token_type": "Bearer"}`))
		}))
		defer tokenServer.Close()

		config := &oauth2.Config{
			ClientID: "test_client_id",
			Endpoint: oauth2.Endpoint{TokenURL: tokenServer.URL},
		}
		handler := newCallbackHandler(config, "expected_state", "verifier")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&code=good_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected the success page")
		}

		result := <-handler.Result()
		if result.Err != nil {
			t.Fatalf("expected no error, got %v", result.Err)
		}
		if result.Token.AccessToken != "new_access" {
			t.Errorf("unexpected access token: %q", result.Token.AccessToken)
		}
	})

	t.Run("second callback gets a 400", func(t *testing.T) {
		handler := newHandler()

		first := httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for the second callback, got %d", rec.Code)
		}
	})
}
