// Package formatter renders resolution results for humans and for export.
//
// The JSON export schema is fixed: a sequence of {query, name, artists}
// where name and artists are null for unmatched lines. Serialization is
// pure and deterministic: exporting the same ResultSet twice yields
// byte-identical output.
package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/playlistbridge/internal/models"
	"github.com/desertthunder/playlistbridge/internal/shared"
)

// ExportEntry is one row of the export document.
type ExportEntry struct {
	Query   string   `json:"query"`
	Name    *string  `json:"name"`
	Artists []string `json:"artists"`
}

// ExportEntries maps each outcome to its export row, preserving order.
func ExportEntries(rs *models.ResultSet) []ExportEntry {
	entries := make([]ExportEntry, 0, rs.Len())
	for _, o := range rs.Outcomes {
		entry := ExportEntry{Query: o.Original}
		if o.Matched() {
			name := o.Track.Name
			entry.Name = &name
			entry.Artists = o.Track.ArtistNames()
		}
		entries = append(entries, entry)
	}
	return entries
}

// MarshalResults serializes a ResultSet as an indented JSON document.
func MarshalResults(rs *models.ResultSet) ([]byte, error) {
	return shared.MarshalJSON(ExportEntries(rs), true)
}

// WriteExport writes the JSON export document to path.
func WriteExport(rs *models.ResultSet, path string) error {
	data, err := MarshalResults(rs)
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

// FormatOutcome renders one outcome as a single display line.
func FormatOutcome(index int, o models.Outcome) string {
	if !o.Matched() {
		return fmt.Sprintf("%3d. ✗ %s (no match)", index, o.Original)
	}
	return fmt.Sprintf("%3d. ✓ %s → %s - %s", index, o.Original, o.Track.Name, strings.Join(o.Track.ArtistNames(), ", "))
}

// FormatSummary renders the aggregate match counts for a ResultSet.
func FormatSummary(rs *models.ResultSet) string {
	matched := rs.MatchedCount()
	return fmt.Sprintf("Matched %d/%d lines", matched, rs.Len())
}
