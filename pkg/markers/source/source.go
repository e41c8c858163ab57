// Package source loads the static marker dataset from the embedded default
// document, from local files or from S3.
//
// Documents share the read envelope shape
// {success, message, timestamp, data: {markers, statistics, metadata}} and may be
// JSON or YAML. A trailing ".sz" marks a snappy-compressed document; the format
// is then taken from the extension before it (markers.json.sz).
package source

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-globe/pkg/markers"
)

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for names whose extension is not recognized.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

//go:embed data/markers.json
var embeddedDocument []byte

// EmbeddedDocument returns a copy of the raw default document.
func EmbeddedDocument() []byte {
	return bytes.Clone(embeddedDocument)
}

// Embedded builds the Dataset shipped with the binary.
func Embedded() (*markers.Dataset, error) {
	return Load(embeddedDocument, FormatJSON, false)
}

// DetectFormat derives the format and compression from a file or object name.
func DetectFormat(name string) (Format, bool, error) {
	lower := strings.ToLower(name)
	compressed := strings.HasSuffix(lower, ".sz")
	lower = strings.TrimSuffix(lower, ".sz")

	switch filepath.Ext(lower) {
	case ".json":
		return FormatJSON, compressed, nil
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (*markers.Dataset, error) {
	format, compressed, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Load(data, format, compressed)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Load decodes a document and builds a validated Dataset.
func Load(data []byte, format Format, compressed bool) (*markers.Dataset, error) {
	p, err := DecodePayload(data, format, compressed)
	if err != nil {
		return nil, err
	}
	return markers.NewDatasetFromPayload(p)
}

// DecodePayload decodes a document without validating it.
func DecodePayload(data []byte, format Format, compressed bool) (*markers.Payload, error) {
	if compressed {
		raw, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("decompress dataset: %w", err)
		}
		data = raw
	}

	var p markers.Payload
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode json dataset: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode yaml dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &p, nil
}

// Encode renders p in the given format, optionally snappy-compressed.
// The CLI export command uses it to produce documents LoadFile accepts.
func Encode(p *markers.Payload, format Format, compressed bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(p, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	if compressed {
		data = snappy.Encode(nil, data)
	}
	return data, nil
}
