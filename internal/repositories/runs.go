package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/playlistbridge/internal/shared"
)

// RunSummary is the persisted record of one resolution run.
//
// Only aggregate counts and the created playlist reference are stored; the
// resolved tracks themselves stay in memory and leave the process only
// through an explicit export.
type RunSummary struct {
	ID           string
	TotalLines   int
	MatchedLines int
	PlaylistID   string
	PlaylistName string
	CreatedAt    time.Time
}

// RunRepository records resolution run summaries.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new [RunRepository] with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run summary, generating an ID when none is set.
func (r *RunRepository) Create(run *RunSummary) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO runs (id, total_lines, matched_lines, playlist_id, playlist_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, run.ID, run.TotalLines, run.MatchedLines, run.PlaylistID, run.PlaylistName, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// List returns the most recent run summaries, newest first.
func (r *RunRepository) List(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, total_lines, matched_lines, playlist_id, playlist_name, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			run          RunSummary
			playlistID   sql.NullString
			playlistName sql.NullString
		)

		if err := rows.Scan(&run.ID, &run.TotalLines, &run.MatchedLines, &playlistID, &playlistName, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if playlistID.Valid {
			run.PlaylistID = playlistID.String
		}
		if playlistName.Valid {
			run.PlaylistName = playlistName.String
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}
