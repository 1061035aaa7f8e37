// Package models defines domain entities for the MyFoil library client.
//
// The package contains two categories of types:
//
// 1. Library records mirroring the server's wire shapes:
//   - [Game] : One cataloged title with its updates, DLCs and files
//   - [Update] / [DLC] / [GameFile] : Per-title child records
//   - [Pagination] : Cursor for the server-paged library endpoints
//   - [IgnorePrefs] : Per-title ignore flags for pending updates/DLCs
//
// 2. System records consumed by the job status manager:
//   - [Job] / [JobProgress] : Backend background jobs and their progress
//   - [TitleDBInfo] : State of the server's title database
//   - [SystemInfo] : Backend build identification
//
// All types are plain data carriers decoded straight from JSON. Derived
// fields on [Game] (status color/score, non-ignored flags) are owned by the
// library engine and recomputed on every filter pass.
package models
