// Package repositories provides the SQLite persistence layer.
//
// Two small stores exist: [TokenRepository] keeps the bearer credential
// between sessions (the only thing the tool persists about the user), and
// [RunRepository] records per-run summaries (counts only; resolved tracks
// themselves are never persisted).
package repositories
