// Package repository defines where editing sessions are saved.
//
// A snapshot is a full copy of a graph (devices with kinds, labels and
// positions; links with labels and endpoints) stored under a name. The
// server restores one named snapshot at start-up and saves it again at
// shutdown.
//
// # SQLite Implementation
//
// The sqlite subpackage stores snapshots as JSON documents in a single
// table. It runs on the pure-Go modernc.org/sqlite driver, so no cgo
// toolchain is needed. Tests use in-memory databases.
package repository
