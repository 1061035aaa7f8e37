// Package ui implements the interactive library browser using bubbletea's
// Elm architecture.
//
// The TUI is a multi-view frontend over the library engine and job manager:
//  1. [LibraryView] : Browse, search, filter and sort the game library in
//     card, icon or list mode
//  2. [DetailView] : One game's files, updates and DLCs, with per-item
//     ignore toggles
//  3. [JobsView] : Active and recent background jobs with cancel and
//     cleanup
//  4. [HelpView] : Full key binding reference
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Remote work runs in commands; results come back as messages and are
// discarded when a newer request has superseded them. Push events arrive
// on a channel and are re-fed into the update loop one message at a time.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus
// view-mode and zoom keys, with contextual help via charmbracelet/bubbles/help.
package ui
