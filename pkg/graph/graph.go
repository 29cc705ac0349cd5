package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/cfglevel/pkg/errors"
)

// =============================================================================
// Encodings
// =============================================================================

// Encoding selects the serialization used for graph files.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingYAML
)

// String returns "json" or "yaml".
func (e Encoding) String() string {
	if e == EncodingYAML {
		return "yaml"
	}
	return "json"
}

// EncodingFor picks the encoding from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func EncodingFor(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingJSON
	}
}

// =============================================================================
// Reading
// =============================================================================

// ReadGraph decodes a single graph.
func ReadGraph(r io.Reader, enc Encoding) (Graph, error) {
	var g Graph
	if err := decode(r, enc, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// ReadGraphFile decodes a single graph from a file, choosing the encoding
// from its extension.
func ReadGraphFile(path string) (Graph, error) {
	var g Graph
	if err := decodeFile(path, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// ReadDocument decodes a document. A bare graph becomes a one-function
// document named [SingleGraphName].
func ReadDocument(r io.Reader, enc Encoding) (Document, error) {
	var d Document
	if err := decode(r, enc, &d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// ReadDocumentFile decodes a document from a file, choosing the encoding
// from its extension.
func ReadDocumentFile(path string) (Document, error) {
	var d Document
	if err := decodeFile(path, &d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// UnmarshalDocument decodes a JSON document from memory.
func UnmarshalDocument(data []byte) (Document, error) {
	return ReadDocument(bytes.NewReader(data), EncodingJSON)
}

func decodeFile(path string, v any) error {
	if err := apperrors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := decode(f, EncodingFor(path), v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func decode(r io.Reader, enc Encoding, v any) error {
	var err error
	switch enc {
	case EncodingYAML:
		err = yaml.NewDecoder(r).Decode(v)
	default:
		err = json.NewDecoder(r).Decode(v)
	}
	if errors.Is(err, io.EOF) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "empty %s input", enc)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s", enc)
	}
	return nil
}

// =============================================================================
// Writing
// =============================================================================

// Write encodes v (a Graph, Leveled or Document) with two-space indentation.
func Write(w io.Writer, v any, enc Encoding) error {
	switch enc {
	case EncodingYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return e.Close()
	default:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// WriteFile encodes v into path, choosing the encoding from its extension.
func WriteFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, v, EncodingFor(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Canonical returns the compact JSON encoding of g. Attribute keys are
// sorted, so equal graphs produce equal bytes; the result is used as the
// cache key input.
func Canonical(g Graph) ([]byte, error) {
	return json.Marshal(g)
}
