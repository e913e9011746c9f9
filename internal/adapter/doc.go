// Package adapter implements network discovery for the editor.
//
// A Discoverer scans a network and returns a codec.Document, so that its
// results enter the session through the same all-or-nothing import path
// as a file.
//
// # Nmap
//
// NmapScanner runs an nmap ping sweep (-sn) over CIDR targets. Every host
// that answers becomes a device, identified by its reverse-DNS name or
// its address. The gateway (configured explicitly, otherwise the first
// ".1" address) becomes a router and every other host is linked to it.
// The nmap binary must be on PATH.
package adapter
