package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// CallbackResult contains the result of an authorization callback.
type CallbackResult struct {
	Token *oauth2.Token
	Err   error
}

// callbackHandler handles the OAuth2 redirect for the PKCE flow.
//
// The first callback wins; later requests get a 400. The state parameter is
// validated for CSRF protection before the code is exchanged.
type callbackHandler struct {
	config     *oauth2.Config
	state      string
	verifier   string
	resultChan chan CallbackResult
	once       sync.Once
	hit        bool
	mu         sync.Mutex
}

func newCallbackHandler(config *oauth2.Config, state, verifier string) *callbackHandler {
	return &callbackHandler{
		config:     config,
		state:      state,
		verifier:   verifier,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Result returns the channel the callback outcome is delivered on.
func (h *callbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		h.send(CallbackResult{Err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		h.send(CallbackResult{Err: fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code, oauth2.VerifierOption(h.verifier))
	if err != nil {
		h.send(CallbackResult{Err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(CallbackResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// send delivers the result through the channel (only once).
func (h *callbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}
