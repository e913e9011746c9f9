package adapter

import (
	"time"

	"github.com/charmbracelet/log"
)

// NmapOption is a functional option for configuring NmapScanner
type NmapOption func(*NmapScanner)

// WithTimeout sets the timeout for the entire nmap scan
func WithTimeout(d time.Duration) NmapOption {
	return func(n *NmapScanner) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithGateway names the router every other discovered host links to.
// Either an address or a hostname; without it the ".1" address is used.
func WithGateway(gateway string) NmapOption {
	return func(n *NmapScanner) {
		n.gateway = gateway
	}
}

// WithSkipHostDiscovery sets whether to skip ping and treat all hosts as online (-Pn)
// Useful for networks that block ICMP
func WithSkipHostDiscovery(skip bool) NmapOption {
	return func(n *NmapScanner) {
		n.skipHostDiscovery = skip
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) NmapOption {
	return func(n *NmapScanner) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithEventPublisher sets the publisher for progress events
func WithEventPublisher(pub EventPublisher) NmapOption {
	return func(n *NmapScanner) {
		n.publisher = pub
	}
}
