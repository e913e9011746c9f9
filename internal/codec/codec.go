// Package codec converts between interchange documents and graphs.
//
// Two document shapes exist. Document is what the editor imports: hosts,
// routers and links with explicit endpoints. ExportDocument is what it
// writes: each device carries the labels of its incident links, and the
// top-level links and flows arrays are always empty. The export cannot be
// re-imported with its links intact; full-fidelity save goes through
// domain.Snapshot instead.
package codec

import (
	"io"
)

// Importer parses an import document from some encoding
type Importer interface {
	Parse(r io.Reader) (*Document, error)
	Format() string
}

// Exporter writes an export document in some encoding
type Exporter interface {
	Export(doc *ExportDocument, w io.Writer) error
	Format() string
}

// Document is the import schema
type Document struct {
	Hosts   []DeviceRecord `json:"hosts" yaml:"hosts"`
	Routers []DeviceRecord `json:"routers" yaml:"routers"`
	Links   []LinkRecord   `json:"links" yaml:"links"`
}

// DeviceRecord names one device in an import document
type DeviceRecord struct {
	ID string `json:"id" yaml:"id"`
}

// LinkRecord joins two devices of an import document by id
type LinkRecord struct {
	ID    string `json:"id" yaml:"id"`
	Left  string `json:"left_device_id" yaml:"left_device_id"`
	Right string `json:"right_device_id" yaml:"right_device_id"`
}

// ExportDocument is the export schema
type ExportDocument struct {
	Hosts   []ExportDevice `json:"hosts" yaml:"hosts"`
	Routers []ExportDevice `json:"routers" yaml:"routers"`
	Links   []any          `json:"links" yaml:"links"`
	Flows   []any          `json:"flows" yaml:"flows"`
}

// ExportDevice is a device label with the labels of its incident links
type ExportDevice struct {
	ID    string   `json:"id" yaml:"id"`
	Links []string `json:"links" yaml:"links"`
}

// ByFormat returns the importer and exporter for a format name
func ByFormat(format string) (Importer, Exporter, bool) {
	switch format {
	case "json":
		c := NewJSONCodec()
		return c, c, true
	case "yaml", "yml":
		c := NewYAMLCodec()
		return c, c, true
	}
	return nil, nil, false
}
