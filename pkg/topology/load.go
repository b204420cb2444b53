package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a graph or attack document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Edge defaults applied when a document omits the field
const (
	DefaultEdgeWeight   = 1.0
	DefaultEdgeProtocol = "TCP"
	DefaultEdgePort     = 80
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// edgeDoc distinguishes absent fields from explicit zero values
type edgeDoc struct {
	Source    string         `json:"source" yaml:"source"`
	Target    string         `json:"target" yaml:"target"`
	Weight    *float64       `json:"weight" yaml:"weight"`
	Protocol  string         `json:"protocol" yaml:"protocol"`
	Port      *int           `json:"port" yaml:"port"`
	Timestamp float64        `json:"timestamp" yaml:"timestamp"`
	Metadata  map[string]any `json:"metadata" yaml:"metadata"`
}

// edge applies the defaults for absent fields
func (e edgeDoc) edge() Edge {
	edge := Edge{
		Source:    e.Source,
		Target:    e.Target,
		Weight:    DefaultEdgeWeight,
		Protocol:  e.Protocol,
		Port:      DefaultEdgePort,
		Timestamp: e.Timestamp,
		Metadata:  e.Metadata,
	}
	if e.Weight != nil {
		edge.Weight = *e.Weight
	}
	if e.Port != nil {
		edge.Port = *e.Port
	}
	if edge.Protocol == "" {
		edge.Protocol = DefaultEdgeProtocol
	}
	return edge
}

type graphDoc struct {
	Nodes []Node    `json:"nodes" yaml:"nodes"`
	Edges []edgeDoc `json:"edges" yaml:"edges"`
}

type attacksDoc struct {
	Attacks []Attack `json:"attacks" yaml:"attacks"`
}

// DecodeGraph reads a {nodes, edges} document.
func DecodeGraph(r io.Reader, format Format) (Graph, error) {
	var doc graphDoc
	if err := decode(r, format, &doc); err != nil {
		return Graph{}, fmt.Errorf("decode graph: %w", err)
	}

	g := Graph{
		Nodes: doc.Nodes,
		Edges: make([]Edge, 0, len(doc.Edges)),
	}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	for _, e := range doc.Edges {
		g.Edges = append(g.Edges, e.edge())
	}
	return g, nil
}

// DecodeEdge reads a single edge object, applying the same defaults as
// DecodeGraph.
func DecodeEdge(r io.Reader, format Format) (Edge, error) {
	var doc edgeDoc
	if err := decode(r, format, &doc); err != nil {
		return Edge{}, fmt.Errorf("decode edge: %w", err)
	}
	return doc.edge(), nil
}

// DecodeAttacks reads either a bare list of attacks or an {attacks: [...]}
// document. Every attack is normalized and given an id if it has none.
func DecodeAttacks(r io.Reader, format Format) ([]Attack, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read attacks: %w", err)
	}

	var attacks []Attack
	list, err := isList(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode attacks: %w", err)
	}
	if list {
		err = decode(bytes.NewReader(data), format, &attacks)
	} else {
		var doc attacksDoc
		err = decode(bytes.NewReader(data), format, &doc)
		attacks = doc.Attacks
	}
	if err != nil {
		return nil, fmt.Errorf("decode attacks: %w", err)
	}

	if attacks == nil {
		attacks = []Attack{}
	}
	PrepareAttacks(attacks)
	return attacks, nil
}

// LoadGraph reads a graph document from disk
func LoadGraph(path string) (Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Graph{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open graph: %w", err)
	}
	defer f.Close()
	return DecodeGraph(f, format)
}

// LoadAttacks reads an attack document from disk
func LoadAttacks(path string) ([]Attack, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attacks: %w", err)
	}
	defer f.Close()
	return DecodeAttacks(f, format)
}

func decode(r io.Reader, format Format, v any) error {
	switch format {
	case FormatJSON:
		return json.NewDecoder(r).Decode(v)
	case FormatYAML:
		err := yaml.NewDecoder(r).Decode(v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func isList(data []byte, format Format) (bool, error) {
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		return len(trimmed) > 0 && trimmed[0] == '[', nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return false, err
		}
		if len(node.Content) == 0 {
			return false, nil
		}
		return node.Content[0].Kind == yaml.SequenceNode, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
