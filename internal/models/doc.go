// Package models defines the domain entities for the text-to-playlist
// resolution pipeline.
//
// The package contains two categories of types:
//
// 1. Catalog objects: values decoded from Spotify API responses
//   - [Identity] : the authenticated user's profile subset
//   - [Track] : a catalog track, taken verbatim from a search response
//   - [Playlist] : a freshly created playlist
//
// 2. Pipeline objects: values produced by the resolution run
//   - [Outcome] : one input line paired with its resolved track (or nil)
//   - [ResultSet] : the ordered, append-only collection of outcomes for a run
//
// All types are plain values with no behavior beyond derived accessors.
// Tracks and identities are never mutated after they are fetched.
package models
