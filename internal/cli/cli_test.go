package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"netdiagram/internal/codec"
	"netdiagram/internal/domain"
)

const testDocument = `{
  "hosts": [{"id": "web"}, {"id": "db"}],
  "routers": [{"id": "gw"}],
  "links": [
    {"id": "web-gw", "left_device_id": "web", "right_device_id": "gw"},
    {"id": "db-gw", "left_device_id": "db", "right_device_id": "gw"}
  ]
}`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// execute runs the root command with an empty config file and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := writeTestFile(t, t.TempDir(), "netdiagram.yaml", "version: 1\n")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--config", cfg))

	err := root.Execute()
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := map[string]bool{"serve": false, "tui": false, "layout": false, "convert": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("expected persistent --config flag")
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		flag, output, fallback string
		want                   string
	}{
		{"", "", "json", "json"},
		{"DOT", "out.json", "json", "dot"},
		{"", "out.svg", "json", "svg"},
		{"", "out.yml", "json", "yaml"},
		{"", "-", "yaml", "yaml"},
	}

	for _, tt := range tests {
		if got := outputFormat(tt.flag, tt.output, tt.fallback); got != tt.want {
			t.Errorf("outputFormat(%q, %q, %q) = %q, want %q", tt.flag, tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		doc, err := readDocument(writeTestFile(t, dir, "doc.json", testDocument))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Hosts) != 2 || len(doc.Routers) != 1 || len(doc.Links) != 2 {
			t.Errorf("unexpected document %+v", doc)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		doc, err := readDocument(writeTestFile(t, dir, "doc.yml", "hosts:\n  - id: a\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Hosts) != 1 || doc.Hosts[0].ID != "a" {
			t.Errorf("unexpected document %+v", doc)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := readDocument(writeTestFile(t, dir, "doc.xml", "<hosts/>"))
		if err == nil || !strings.Contains(err.Error(), "unsupported format") {
			t.Errorf("expected unsupported format error, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := readDocument(filepath.Join(dir, "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestLayoutCommandJSON(t *testing.T) {
	input := writeTestFile(t, t.TempDir(), "doc.json", testDocument)

	out, err := execute(t, "layout", input, "--steps", "200")
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not a snapshot: %v\n%s", err, out)
	}
	if len(snap.Devices) != 3 || len(snap.Links) != 2 {
		t.Fatalf("expected 3 devices and 2 links, got %d and %d", len(snap.Devices), len(snap.Links))
	}
	for _, d := range snap.Devices {
		if math.IsNaN(d.X) || math.IsNaN(d.Y) {
			t.Errorf("device %s has no finite position", d.Label)
		}
	}
}

func TestLayoutCommandWritesDOTFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "doc.json", testDocument)
	output := filepath.Join(dir, "out.dot")

	if _, err := execute(t, "layout", input, "-o", output, "-n", "10"); err != nil {
		t.Fatalf("layout failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	dot := string(data)
	for _, want := range []string{"graph netdiagram {", "pos=", "web-gw"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeTestFile(t, dir, "bad.json", `{"hosts":[{"id":"a"}],"links":[{"id":"l","left_device_id":"a","right_device_id":"ghost"}]}`)
	good := writeTestFile(t, dir, "doc.json", testDocument)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown reference", []string{"layout", bad}},
		{"unsupported format", []string{"layout", good, "-f", "png"}},
		{"negative steps", []string{"layout", good, "--steps=-1"}},
		{"missing argument", []string{"layout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConvertCommand(t *testing.T) {
	input := writeTestFile(t, t.TempDir(), "doc.yaml", `
hosts:
  - id: A
  - id: B
routers: []
links:
  - id: L1
    left_device_id: A
    right_device_id: B
`)

	out, err := execute(t, "convert", input)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	var doc codec.ExportDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not an export document: %v\n%s", err, out)
	}
	if len(doc.Hosts) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(doc.Hosts))
	}
	for _, h := range doc.Hosts {
		if len(h.Links) != 1 || h.Links[0] != "L1" {
			t.Errorf("host %s links = %v, want [L1]", h.ID, h.Links)
		}
	}
	if len(doc.Links) != 0 || len(doc.Flows) != 0 {
		t.Errorf("expected empty links and flows, got %v and %v", doc.Links, doc.Flows)
	}

	out, err = execute(t, "convert", input, "-f", "yaml")
	if err != nil {
		t.Fatalf("convert to yaml failed: %v", err)
	}
	if !strings.Contains(out, "flows: []") {
		t.Errorf("expected yaml export, got:\n%s", out)
	}
}
