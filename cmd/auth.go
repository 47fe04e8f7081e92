package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playlistbridge/internal/auth"
	"github.com/desertthunder/playlistbridge/internal/repositories"
	"github.com/desertthunder/playlistbridge/internal/services"
	"github.com/desertthunder/playlistbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser PKCE flow and stores the resulting bearer token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	authorizer, err := auth.NewAuthorizer(r.config.Credentials.Spotify, r.logger)
	if err != nil {
		return err
	}

	token, err := authorizer.Login(ctx)
	if err != nil {
		return err
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	repo := repositories.NewTokenRepository(db)
	if err := repo.Save(repositories.StoredToken{
		Service:      serviceName,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}); err != nil {
		return err
	}

	// Greet with the profile; this also confirms the token works.
	catalog := services.NewSpotifyService(token.AccessToken, r.config.Resolver.RequestTimeout(), r.logger)
	identity, err := catalog.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: token stored but identity probe failed: %v", shared.ErrAuthFailed, err)
	}

	r.logger.Info("login complete", "user", identity.ID)
	return r.writePlain("✓ Logged in as %s\n", identity.DisplayName)
}

// AuthStatus probes the stored token against the identity endpoint.
//
// A failed probe discards the credential: the tool never distinguishes
// expired from malformed from unreachable; all force a fresh login.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.buildCatalog()
	if err != nil {
		return err
	}

	identity, probeErr := catalog.CurrentUser(ctx)
	if probeErr != nil {
		r.discardToken()
		r.writePlain("✗ Stored token rejected; run 'plb auth login'\n")
		return nil
	}

	r.writePlain("✓ Authenticated as %s (%s)\n", identity.DisplayName, identity.ID)
	return nil
}

// AuthLogout discards the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	if err := repositories.NewTokenRepository(db).Delete(serviceName); err != nil {
		return err
	}

	r.logger.Info("logged out")
	return r.writePlain("✓ Logged out\n")
}
