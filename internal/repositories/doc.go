// Package repositories implements SQLite persistence for client-side state.
//
// The server owns the library; what lives here is only what the client
// must remember between sessions:
//   - [PrefsStore] : view preferences (sort, view mode, zoom), the sticky
//     legacy-endpoint flag, and the last seen server build version
//   - [SearchHistoryStore] : recent search queries for the TUI prompt
//
// Persisted view preferences are invalidated when the server reports a
// different build version than the one they were saved under.
package repositories
