package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistbridge/internal/models"
	"github.com/desertthunder/playlistbridge/internal/repositories"
	"github.com/desertthunder/playlistbridge/internal/services"
	"github.com/desertthunder/playlistbridge/internal/shared"
	"github.com/desertthunder/playlistbridge/internal/tasks"
	"github.com/urfave/cli/v3"
)

const serviceName = "spotify"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
	catalog services.Catalog // injected in tests; built from the stored token otherwise
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	DB      *sql.DB
	Catalog services.Catalog
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		db:      opts.DB,
		catalog: opts.Catalog,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, resolveCommand, runCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger (used by the TUI to log to a file).
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// database lazily opens the configured SQLite database and runs migrations.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	r.db = db
	return db, nil
}

// loadToken fetches the stored bearer token, or ErrNotAuthenticated when none exists.
func (r *Runner) loadToken() (string, error) {
	db, err := r.database()
	if err != nil {
		return "", err
	}

	stored, err := repositories.NewTokenRepository(db).Load(serviceName)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", shared.ErrNotAuthenticated
	}

	return stored.AccessToken, nil
}

// discardToken removes the stored credential. Called when the identity
// probe rejects it; the only recovery is a fresh login.
func (r *Runner) discardToken() {
	db, err := r.database()
	if err != nil {
		return
	}
	if err := repositories.NewTokenRepository(db).Delete(serviceName); err != nil {
		r.logger.Warn("failed to discard token", "err", err)
	}
}

// buildCatalog returns the injected catalog or constructs a Spotify client
// around the stored bearer token.
func (r *Runner) buildCatalog() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	token, err := r.loadToken()
	if err != nil {
		return nil, err
	}

	return services.NewSpotifyService(token, r.config.Resolver.RequestTimeout(), r.logger), nil
}

// session validates the stored credential by probing the identity endpoint
// and returns a ready engine. A failed probe discards the token.
func (r *Runner) session(ctx context.Context) (*tasks.Engine, *models.Identity, error) {
	catalog, err := r.buildCatalog()
	if err != nil {
		return nil, nil, err
	}

	identity, err := catalog.CurrentUser(ctx)
	if err != nil {
		r.discardToken()
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}

	engine := tasks.NewEngine(catalog, r.config.Resolver.RateLimit, r.logger)
	return engine, identity, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
