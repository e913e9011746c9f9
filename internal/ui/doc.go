// Package ui defines the two interactive widgets the editor drives and
// provides in-memory implementations of them.
//
// # Menu
//
// A context menu is attached to the canvas, to every device and to every
// link. Options are added once when the element is created; opening the
// menu records the pointer position, and invoking an option runs its
// callback with that position.
//
// # LabelField
//
// The inline label editor is shared by all elements. Beginning a rename
// focuses it with the element's current label; committing reads the text
// back.
package ui
