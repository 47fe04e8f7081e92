// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks the paste-and-go workflow through these views:
//  1. [InputView] : Paste the free-text song list into a textarea
//  2. [ResolveView] : Watch per-line resolution progress
//  3. [ResultsView] : Review matched and unmatched lines
//  4. [NameView] : Choose the playlist name
//  5. [AssembleView] : Watch the playlist being created
//  6. [DoneView] : See the assembly outcome
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the tasks.Engine, providing
// non-blocking status reporting during resolution and assembly.
package ui
