package adapter

import (
	"context"
	"errors"

	"netdiagram/internal/codec"
)

// ErrNoTargets is returned when a discovery is started without targets
var ErrNoTargets = errors.New("no discovery targets")

// Discoverer finds devices on a network and describes them as an import
// document
type Discoverer interface {
	// Name returns the unique identifier for this discoverer
	Name() string

	// Discover scans the targets (CIDR ranges or addresses)
	Discover(ctx context.Context, targets []string) (*codec.Document, error)
}

// EventPublisher allows discoverers to publish progress events
type EventPublisher interface {
	PublishDiscoveryEvent(eventType string, payload any)
}

// EventPublisherFunc adapts a function to EventPublisher
type EventPublisherFunc func(eventType string, payload any)

// PublishDiscoveryEvent calls f
func (f EventPublisherFunc) PublishDiscoveryEvent(eventType string, payload any) {
	f(eventType, payload)
}
