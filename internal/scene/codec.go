package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// Format is a scene encoding.
type Format uint8

const (
	YAML Format = iota
	TOML
)

func (f Format) String() string {
	if f == TOML {
		return "toml"
	}
	return "yaml"
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// segmentPresence records which optional segment fields a document spelled
// out. Fields left out take their NewSegmentProfile defaults.
type segmentPresence struct {
	Segments []struct {
		EndFraction *float32 `yaml:"end_fraction" toml:"end_fraction"`
	} `yaml:"segments" toml:"segments"`
}

func applySegmentDefaults(data []byte, f Format, doc *Document) error {
	var seen segmentPresence
	var err error
	if f == TOML {
		err = toml.Unmarshal(data, &seen)
	} else {
		err = yaml.Unmarshal(data, &seen)
	}
	if err != nil {
		return err
	}
	for i := range doc.Segments {
		if i >= len(seen.Segments) || seen.Segments[i].EndFraction == nil {
			doc.Segments[i].EndFraction = 1
		}
	}
	return nil
}

// Decode parses a document. Unknown fields are rejected. A segment without
// end_fraction runs to the end of the curve.
func Decode(data []byte, f Format) (*Document, error) {
	var doc Document
	switch f {
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	}
	if err := applySegmentDefaults(data, f, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f, err)
	}
	return &doc, nil
}

// Encode serialises a document.
func Encode(doc *Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case TOML:
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding toml: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Load reads and validates a document, choosing the codec by extension.
func Load(path string) (*Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes a document, choosing the codec by extension.
func Save(path string, doc *Document) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
