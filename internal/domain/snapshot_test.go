package domain

import (
	"errors"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g := NewGraph()
	h := g.AddDevice(KindHost, 10, 20)
	r := g.AddDevice(KindRouter, 30, 40)
	h.Label = "web"
	r.Label = "gw"
	l, _ := g.AddLink(h.ID, r.ID)
	l.Label = "uplink"
	h.VX = 9

	restored, err := FromSnapshot(g.Snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := restored.Validate(); err != nil {
		t.Fatalf("expected valid graph, got %v", err)
	}

	if restored.DeviceCount() != 2 || restored.LinkCount() != 1 {
		t.Fatalf("expected 2 devices and 1 link, got %d and %d", restored.DeviceCount(), restored.LinkCount())
	}

	byLabel := make(map[string]*Device)
	for _, d := range restored.Devices() {
		byLabel[d.Label] = d
	}
	web, gw := byLabel["web"], byLabel["gw"]
	if web == nil || gw == nil {
		t.Fatalf("expected devices web and gw, got %v", byLabel)
	}
	if web.X != 10 || web.Y != 20 || web.Kind != KindHost {
		t.Errorf("web restored as %+v", web)
	}
	if web.VX != 0 {
		t.Errorf("expected velocity not to be restored, got %f", web.VX)
	}
	if gw.Kind != KindRouter {
		t.Errorf("expected gw to be a router, got %s", gw.Kind)
	}

	link := restored.Links()[0]
	if link.Label != "uplink" || link.Other(web.ID) != gw.ID {
		t.Errorf("link restored as %+v", link)
	}
}

func TestFromSnapshotErrors(t *testing.T) {
	tests := []struct {
		name    string
		snap    *Snapshot
		wantErr error
	}{
		{
			name: "dangling endpoint",
			snap: &Snapshot{
				Devices: []DeviceState{{ID: 1, Kind: KindHost}},
				Links:   []LinkState{{ID: 1, A: 1, B: 2}},
			},
			wantErr: ErrUnknownDevice,
		},
		{
			name: "self link",
			snap: &Snapshot{
				Devices: []DeviceState{{ID: 1, Kind: KindHost}},
				Links:   []LinkState{{ID: 1, A: 1, B: 1}},
			},
			wantErr: ErrSelfLink,
		},
		{
			name:    "bad kind",
			snap:    &Snapshot{Devices: []DeviceState{{ID: 1, Kind: "switch"}}},
			wantErr: ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("nil snapshot yields empty graph", func(t *testing.T) {
		g, err := FromSnapshot(nil)
		if err != nil || g.DeviceCount() != 0 {
			t.Errorf("expected empty graph, got %v (err %v)", g, err)
		}
	})
}
