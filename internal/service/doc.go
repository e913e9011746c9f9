// Package service hosts an editing session and the loop that drives it.
//
// # Session
//
// Session is the application context: it owns the graph, the layout
// engine, the link gesture, one context menu per element and the shared
// label editor. Every editing operation goes through it so that menus,
// highlights and events stay in step with the graph. Removing an element
// tears down its menu; replacing the graph (Clear, Import, Restore) tears
// down all of them and resets the engine.
//
// # Loop
//
// Loop runs the session on a single goroutine. Each tick advances the
// layout by one step; between ticks it executes commands queued with Do.
// HTTP handlers and discovery results reach the session only through Do.
//
// # Event System
//
// Mutations publish events on an EventBus. The server forwards them to
// SSE clients; frame events carry the positions of moving devices.
package service
