package solverio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrFormat           = errors.New("solverio: unknown format")
	ErrVersion          = errors.New("solverio: unsupported document version")
	ErrUnknownSubmodule = errors.New("solverio: unknown submodule")
)

// Format selects a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml", "toml" or "json", in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w %q", ErrFormat, s)
}

// FormatFromPath guesses the format from a file extension, falling back
// to def.
func FormatFromPath(path string, def Format) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return def
}

// Encode writes doc to w.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("solverio: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("solverio: encode toml: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("solverio: encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrFormat, f)
}

// Decode reads a document from r and validates it.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(&doc)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	default:
		return Document{}, fmt.Errorf("%w %q", ErrFormat, f)
	}
	if err != nil {
		return Document{}, fmt.Errorf("solverio: decode %s: %w", f, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// WriteFile encodes doc to path. The file is replaced only once encoding
// has succeeded.
func WriteFile(path string, doc Document, f Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, f); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile decodes the document at path, picking the format from the
// extension (YAML when unknown).
func ReadFile(path string) (Document, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer fh.Close()
	return Decode(fh, FormatFromPath(path, FormatYAML))
}
