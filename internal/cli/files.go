package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"netdiagram/internal/codec"
)

// readDocument parses an import document, choosing the codec by extension
func readDocument(path string) (*codec.Document, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	importer, _, ok := codec.ByFormat(format)
	if !ok {
		return nil, fmt.Errorf("read %s: unsupported format %q (want json or yaml)", path, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	doc, err := importer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// outputFormat resolves the format from the flag, then the output
// extension, then the fallback
func outputFormat(flag, output, fallback string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), "."); ext != "" {
		if ext == "yml" {
			return "yaml"
		}
		return ext
	}
	return fallback
}

// writeOutput writes data to path, or to stdout when path is empty or "-"
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
