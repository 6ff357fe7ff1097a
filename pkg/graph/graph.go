package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kruskalviz/pkg/errors"
)

// Format identifies a graph file encoding.
type Format string

// Supported file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// WriteOptions control graph serialization.
type WriteOptions struct {
	// Format defaults to JSON (or to the file extension in WriteFile).
	Format Format
	// IncludeColors keeps the per-edge display tags in the output.
	IncludeColors bool
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal encodes a graph to bytes.
func Marshal(g Graph, opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a graph to path. The file is created with 0644 permissions.
func WriteFile(g Graph, path string, opts WriteOptions) error {
	if opts.Format == "" {
		opts.Format = FormatFromPath(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeTo(g, f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes a graph to w.
func Write(g Graph, w io.Writer, opts WriteOptions) error {
	return writeTo(g, w, opts)
}

// ReadFile reads and validates a graph file, choosing the decoder by extension.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f, FormatFromPath(path))
}

// Read decodes and validates a JSON graph from r.
func Read(r io.Reader) (Graph, error) {
	return readFrom(r, FormatJSON)
}

// Unmarshal decodes and validates a graph from bytes in the given format.
func Unmarshal(data []byte, format Format) (Graph, error) {
	return readFrom(bytes.NewReader(data), format)
}

// =============================================================================
// Internal Implementation
// =============================================================================

// document mirrors Graph with pointer slices so missing keys can be told
// apart from empty lists.
type document struct {
	Nodes *[]Node `json:"nodes" yaml:"nodes"`
	Edges *[]Edge `json:"edges" yaml:"edges"`
}

func writeTo(g Graph, w io.Writer, opts WriteOptions) error {
	out := g.Clone()
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	if !opts.IncludeColors {
		for i := range out.Edges {
			out.Edges[i].Color = ""
		}
	}

	switch opts.Format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", opts.Format)
	}
	return nil
}

func readFrom(r io.Reader, format Format) (Graph, error) {
	var doc document
	switch format {
	case "", FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode")
		}
	default:
		return Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}

	if doc.Nodes == nil {
		return Graph{}, errors.New(errors.ErrCodeInvalidGraph, "missing nodes key")
	}
	if doc.Edges == nil {
		return Graph{}, errors.New(errors.ErrCodeInvalidGraph, "missing edges key")
	}

	g := Graph{Nodes: *doc.Nodes, Edges: *doc.Edges}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	for i := range g.Edges {
		if g.Edges[i].Color == "" {
			g.Edges[i].Color = ColorUnprocessed
		}
	}
	return g, nil
}
