// Package render turns a graph into pictures.
//
// Draw paints the current frame onto any Surface: a line per link, an
// element per device and a label element at every link midpoint. Canvas
// is a character-grid Surface used by the terminal front-end.
//
// ToDOT and RenderSVG produce static diagrams. Device positions are
// pinned, so the picture matches the live layout rather than a fresh
// graphviz layout.
package render
