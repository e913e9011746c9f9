// Package handler implements the HTTP API of the diagram editor.
//
// EditorHandler exposes the editing session as JSON routes on a chi
// router. Every handler reaches the session through service.Loop.Do, so
// requests are applied between frames and never concurrently with the
// layout step.
//
// # Routes
//
//	GET|DELETE /api/graph
//	POST       /api/devices
//	DELETE     /api/devices/{id}
//	PUT        /api/devices/{id}/label
//	POST       /api/devices/{id}/link-from
//	POST       /api/links
//	DELETE     /api/links/{id}
//	PUT        /api/links/{id}/label
//	GET|POST|DELETE /api/selection
//	POST       /api/selection/devices/{id}
//	GET|POST   /api/menus/{target}       target is canvas, device:N or link:N
//	PUT|DELETE /api/rename
//	PUT        /api/viewport
//	PUT        /api/physics
//	POST       /api/import               ?format=json|yaml
//	GET        /api/export/{format}      json, yaml, dot or svg
//	POST       /api/discover
//	GET        /api/snapshots
//	PUT|DELETE /api/snapshots/{name}
//	POST       /api/snapshots/{name}/restore
//	GET        /events                   Server-Sent Events
//
// # Errors
//
// Failed requests return {error, details} JSON. Unknown devices, links and
// snapshots map to 404; malformed bodies, invalid kinds, self-links and bad
// import documents map to 400.
package handler
