package filestore

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// Format is the parsed representation of a document.
type Format int

const (
	// FormatRaw documents carry opaque bytes (images).
	FormatRaw Format = iota
	// FormatJSON documents are JSON objects; top-level arrays are wrapped under "data".
	FormatJSON
	// FormatLines documents are newline-delimited text lists.
	FormatLines
)

// Document is the parsed content of one cached element.
type Document struct {
	// Element is the logical element name.
	Element string
	// Path is the local file the document was read from.
	Path string
	// Format tells how Raw was interpreted.
	Format Format
	// Raw is the document body. JSON arrays are already wrapped into an object.
	Raw []byte
	// Lines holds the entries of a text list.
	Lines []string
}

// Decode unmarshals a JSON document into v.
func (d *Document) Decode(v any) error {
	if d.Format != FormatJSON {
		return fmt.Errorf("%s is not a JSON document", d.Element)
	}
	if err := json.Unmarshal(d.Raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", d.Element, err)
	}
	return nil
}

func parseDocument(element, path string, data []byte) (*Document, error) {
	doc := &Document{Element: element, Path: path}

	switch strings.ToLower(filepath.Ext(element)) {
	case ".json":
		raw, err := normalizeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", element, err)
		}
		doc.Format = FormatJSON
		doc.Raw = raw
	case ".txt":
		doc.Format = FormatLines
		doc.Raw = data
		doc.Lines = parseLines(data)
	default:
		doc.Format = FormatRaw
		doc.Raw = data
	}
	return doc, nil
}

func normalizeJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("invalid JSON")
	}

	switch trimmed[0] {
	case '{':
		return trimmed, nil
	case '[':
		wrapped := make([]byte, 0, len(trimmed)+10)
		wrapped = append(wrapped, `{"data":`...)
		wrapped = append(wrapped, trimmed...)
		wrapped = append(wrapped, '}')
		return wrapped, nil
	default:
		return nil, fmt.Errorf("expected a JSON object or array")
	}
}

func parseLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
