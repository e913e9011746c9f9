// Package domain defines the core types of the netdiagram editor.
//
// This package contains the graph model the editor manipulates: devices,
// the links between them, and the arena that owns both.
//
// # Core Types
//
// Device is a node in the diagram (a host or a router) with a position,
// a velocity used by the layout engine, a label, and the set of links
// incident to it.
//
// Link is an undirected edge between two devices. Endpoints are stored
// as device IDs, never as pointers, so removing a device cannot leave a
// dangling reference behind.
//
// Graph owns every live device and link and keeps the incidence sets in
// step with the link collection. Removal swaps the target with the last
// element and truncates, so iteration order after a removal is
// unspecified.
//
// # Snapshots
//
// Snapshot is a value copy of a graph (devices with positions, links with
// endpoints) used to save and restore a session and to serve the graph
// over the API.
//
// # Design Principles
//
// - No database or external dependencies
// - IDs are stable for the lifetime of a graph and never reused
// - All mutations go through Graph so both invariants always hold
package domain
