// Package tasks implements the text-to-playlist pipeline.
//
// The core abstraction is [Engine], which turns a pasted block of song
// descriptions into an ordered [models.ResultSet] (Resolve) and materializes
// the matched tracks as a new remote playlist (Assemble). Operations emit
// progress updates via channels for non-blocking status reporting to the
// CLI/TUI layers.
package tasks
