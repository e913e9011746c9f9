package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/charmbracelet/log"

	"netdiagram/internal/codec"
)

// NmapScanner discovers live hosts with an nmap ping sweep
type NmapScanner struct {
	timeout           time.Duration
	gateway           string
	skipHostDiscovery bool
	publisher         EventPublisher
	logger            *log.Logger
}

var _ Discoverer = (*NmapScanner)(nil)

// NewNmapScanner creates a new nmap-based discoverer
func NewNmapScanner(opts ...NmapOption) *NmapScanner {
	n := &NmapScanner{
		timeout: 2 * time.Minute,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.WithPrefix("nmap")
	return n
}

// Name returns the discoverer identifier
func (n *NmapScanner) Name() string {
	return "nmap"
}

// publishProgress emits a discovery progress event
func (n *NmapScanner) publishProgress(eventType string, payload any) {
	if n.publisher != nil {
		n.publisher.PublishDiscoveryEvent(eventType, payload)
	}
}

// Discover runs one ping sweep over the targets
func (n *NmapScanner) Discover(ctx context.Context, targets []string) (*codec.Document, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	opts := []nmap.Option{
		nmap.WithTargets(targets...),
		nmap.WithPingScan(),
	}
	if n.skipHostDiscovery {
		opts = append(opts, nmap.WithSkipHostDiscovery())
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	n.logger.Info("starting scan", "targets", targets)
	n.publishProgress("discovery-started", map[string]any{"targets": targets})

	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		n.logger.Warn("scan warnings", "warnings", *warnings)
	}

	doc, err := n.processResults(result)
	if err != nil {
		return nil, err
	}

	n.logger.Info("scan complete", "hosts", len(doc.Hosts), "routers", len(doc.Routers))
	n.publishProgress("discovery-complete", map[string]any{
		"hosts":   len(doc.Hosts),
		"routers": len(doc.Routers),
	})
	return doc, nil
}

type discovered struct {
	id string
	ip string
}

// processResults turns live hosts into an import document: the gateway
// becomes a router and every other host gets a link to it
func (n *NmapScanner) processResults(result *nmap.Run) (*codec.Document, error) {
	if result == nil {
		return nil, fmt.Errorf("nil scan result")
	}

	var found []discovered
	seen := make(map[string]bool)
	for _, host := range result.Hosts {
		if host.Status.State != "up" || len(host.Addresses) == 0 {
			continue
		}
		ip := primaryIP(host)
		id := ip
		if len(host.Hostnames) > 0 && host.Hostnames[0].Name != "" {
			id = host.Hostnames[0].Name
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		found = append(found, discovered{id: id, ip: ip})
		n.logger.Debug("host up", "id", id, "ip", ip)
	}

	doc := &codec.Document{
		Hosts:   []codec.DeviceRecord{},
		Routers: []codec.DeviceRecord{},
		Links:   []codec.LinkRecord{},
	}
	gw := n.findGateway(found)
	for i, d := range found {
		if i == gw {
			doc.Routers = append(doc.Routers, codec.DeviceRecord{ID: d.id})
			continue
		}
		doc.Hosts = append(doc.Hosts, codec.DeviceRecord{ID: d.id})
	}
	if gw >= 0 {
		router := found[gw].id
		for _, h := range doc.Hosts {
			doc.Links = append(doc.Links, codec.LinkRecord{
				ID:    h.ID + "~" + router,
				Left:  h.ID,
				Right: router,
			})
		}
	}
	return doc, nil
}

// findGateway returns the index of the gateway host, or -1
func (n *NmapScanner) findGateway(found []discovered) int {
	for i, d := range found {
		if n.gateway != "" {
			if d.ip == n.gateway || d.id == n.gateway {
				return i
			}
			continue
		}
		if strings.HasSuffix(d.ip, ".1") {
			return i
		}
	}
	return -1
}

// primaryIP prefers the IPv4 address, falling back to the first one
func primaryIP(host nmap.Host) string {
	for _, addr := range host.Addresses {
		if addr.AddrType == "ipv4" {
			return addr.Addr
		}
	}
	return host.Addresses[0].Addr
}
