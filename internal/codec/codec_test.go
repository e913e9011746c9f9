package codec

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdiagram/internal/domain"
	"netdiagram/internal/layout"
)

const twoHosts = `{
  "hosts": [{"id": "A"}, {"id": "B"}],
  "routers": [],
  "links": [{"id": "L1", "left_device_id": "A", "right_device_id": "B", "link_delay": 5}],
  "flows": [{"id": "F1"}]
}`

func testPlacement() Placement {
	return Placement{
		Spacing:  DefaultSpacing,
		Viewport: layout.Viewport{Width: 800, Height: 600},
		Rand:     rand.New(rand.NewPCG(1, 2)),
	}
}

func parseJSON(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := NewJSONCodec().Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestBuildPlacesDevices(t *testing.T) {
	doc := &Document{
		Hosts:   []DeviceRecord{{ID: "h1"}, {ID: "h2"}},
		Routers: []DeviceRecord{{ID: "r1"}},
	}

	g, err := Build(doc, testPlacement())
	require.NoError(t, err)

	devices := g.Devices()
	require.Len(t, devices, 3)
	wantLabels := []string{"h1", "h2", "r1"}
	wantKinds := []domain.DeviceKind{domain.KindHost, domain.KindHost, domain.KindRouter}
	for i, d := range devices {
		assert.Equal(t, wantLabels[i], d.Label)
		assert.Equal(t, wantKinds[i], d.Kind)
		assert.Equal(t, float64(i+1)*DefaultSpacing, d.X)
		assert.GreaterOrEqual(t, d.Y, 300.0-DefaultSpacing/2)
		assert.Less(t, d.Y, 300.0+DefaultSpacing/2)
	}
}

func TestBuildLinks(t *testing.T) {
	g, err := Build(parseJSON(t, twoHosts), testPlacement())
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	links := g.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "L1", links[0].Label)

	a, _ := g.Device(links[0].A)
	b, _ := g.Device(links[0].B)
	assert.ElementsMatch(t, []string{"A", "B"}, []string{a.Label, b.Label})
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "unknown right endpoint",
			doc: &Document{
				Hosts: []DeviceRecord{{ID: "A"}},
				Links: []LinkRecord{{ID: "L1", Left: "A", Right: "ghost"}},
			},
			wantErr: ErrUnknownReference,
		},
		{
			name: "unknown left endpoint",
			doc: &Document{
				Hosts: []DeviceRecord{{ID: "A"}},
				Links: []LinkRecord{{ID: "L1", Left: "ghost", Right: "A"}},
			},
			wantErr: ErrUnknownReference,
		},
		{
			name: "duplicate id across kinds",
			doc: &Document{
				Hosts:   []DeviceRecord{{ID: "A"}},
				Routers: []DeviceRecord{{ID: "A"}},
			},
			wantErr: ErrDuplicateDevice,
		},
		{
			name: "self link",
			doc: &Document{
				Hosts: []DeviceRecord{{ID: "A"}},
				Links: []LinkRecord{{ID: "L1", Left: "A", Right: "A"}},
			},
			wantErr: domain.ErrSelfLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.doc, testPlacement())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, g)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := NewJSONCodec().Parse(strings.NewReader(`{"hosts": [`))
	assert.Error(t, err)

	_, err = NewYAMLCodec().Parse(strings.NewReader("hosts: [\n"))
	assert.Error(t, err)
}

func TestExportRoundTripLimitation(t *testing.T) {
	g, err := Build(parseJSON(t, twoHosts), testPlacement())
	require.NoError(t, err)

	got := Export(g)

	want := &ExportDocument{
		Hosts: []ExportDevice{
			{ID: "A", Links: []string{"L1"}},
			{ID: "B", Links: []string{"L1"}},
		},
		Routers: []ExportDevice{},
		Links:   []any{},
		Flows:   []any{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Export() mismatch (-want +got):\n%s", diff)
	}

	// the exported document has no endpoints, so the link is lost
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(got, &buf))
	again, err := Build(parseJSON(t, buf.String()), testPlacement())
	require.NoError(t, err)
	assert.Equal(t, 2, again.DeviceCount())
	assert.Zero(t, again.LinkCount())
}

func TestJSONExportShape(t *testing.T) {
	g := domain.NewGraph()
	r := g.AddDevice(domain.KindRouter, 0, 0)
	r.Label = "gw"

	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(Export(g), &buf))

	assert.JSONEq(t,
		`{"hosts":[],"routers":[{"id":"gw","links":[]}],"links":[],"flows":[]}`,
		buf.String())
}

func TestYAMLMatchesJSON(t *testing.T) {
	yamlDoc := `
hosts:
  - id: A
  - id: B
routers: []
links:
  - id: L1
    left_device_id: A
    right_device_id: B
    throughput: 100
`
	fromYAML, err := NewYAMLCodec().Parse(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	if diff := cmp.Diff(parseJSON(t, twoHosts), fromYAML); diff != "" {
		t.Errorf("YAML and JSON documents differ (-json +yaml):\n%s", diff)
	}

	var buf bytes.Buffer
	require.NoError(t, NewYAMLCodec().Export(&ExportDocument{
		Hosts:   []ExportDevice{{ID: "A", Links: []string{"L1"}}},
		Routers: []ExportDevice{},
		Links:   []any{},
		Flows:   []any{},
	}, &buf))
	assert.Contains(t, buf.String(), "- id: A")
	assert.Contains(t, buf.String(), "flows: []")
}

func TestByFormat(t *testing.T) {
	for _, f := range []string{"json", "yaml", "yml"} {
		imp, exp, ok := ByFormat(f)
		assert.True(t, ok, f)
		assert.NotNil(t, imp, f)
		assert.NotNil(t, exp, f)
	}
	_, _, ok := ByFormat("xml")
	assert.False(t, ok)
}
