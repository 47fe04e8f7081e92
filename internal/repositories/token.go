package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// TokenRepository persists one bearer token per service.
//
// The token row is the session: saving overwrites any previous login,
// deleting it is logout. Validity is never tracked locally: the catalog's
// identity endpoint is the only validity probe.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// StoredToken is a persisted credential for a service.
type StoredToken struct {
	Service      string
	AccessToken  string
	RefreshToken string
	SavedAt      time.Time
}

// Save upserts the token for a service.
func (r *TokenRepository) Save(token StoredToken) error {
	if token.Service == "" || token.AccessToken == "" {
		return fmt.Errorf("token requires service and access token")
	}

	query := `
		INSERT INTO tokens (service, access_token, refresh_token, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			saved_at = excluded.saved_at
	`

	_, err := r.db.Exec(query, token.Service, token.AccessToken, token.RefreshToken, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// Load retrieves the token for a service. Returns (nil, nil) when no token is stored.
func (r *TokenRepository) Load(service string) (*StoredToken, error) {
	query := `
		SELECT service, access_token, refresh_token, saved_at
		FROM tokens
		WHERE service = ?
	`

	var (
		token        StoredToken
		refreshToken sql.NullString
	)

	err := r.db.QueryRow(query, service).Scan(&token.Service, &token.AccessToken, &refreshToken, &token.SavedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	if refreshToken.Valid {
		token.RefreshToken = refreshToken.String
	}

	return &token, nil
}

// Delete removes the stored token for a service. Deleting an absent token is not an error.
func (r *TokenRepository) Delete(service string) error {
	if _, err := r.db.Exec("DELETE FROM tokens WHERE service = ?", service); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
