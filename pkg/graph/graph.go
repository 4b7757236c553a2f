// Package graph defines the wire representation of dependency graphs:
// plain edge records exchanged with the CLI, the HTTP API, and the run
// store. Conversion to and from the in-memory model lives here so that
// the engine packages never deal with serialization concerns.
package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/errors"
)

// EdgeRecord is one directed dependency on the wire. Tags are optional
// presentation labels (CSV "classes"); algorithms never read them.
type EdgeRecord struct {
	Source string   `json:"source" bson:"source"`
	Target string   `json:"target" bson:"target"`
	Tags   []string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// Document is a complete graph on the wire. Nodes lists every node in
// insertion order, including isolated ones that no edge mentions.
type Document struct {
	Nodes []string     `json:"nodes" bson:"nodes"`
	Edges []EdgeRecord `json:"edges" bson:"edges"`
}

// FromDAG converts the in-memory model to its wire form.
func FromDAG(g *dag.DAG) *Document {
	doc := &Document{Nodes: g.Nodes()}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeRecord{Source: e.From, Target: e.To, Tags: e.Tags})
	}
	return doc
}

// ToDAG builds the in-memory model from a wire document. Explicit nodes
// are declared first, so isolated nodes and node ordering survive a
// round trip. Malformed records map to ErrCodeMalformedInput.
func (d *Document) ToDAG() (*dag.DAG, error) {
	g := dag.New()
	for _, id := range d.Nodes {
		if err := g.AddNode(id); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "node %q", id)
		}
	}
	for i, e := range d.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, errors.New(errors.ErrCodeMalformedInput, "edge %d is missing source or target", i)
		}
		if err := g.AddEdge(e.Source, e.Target, e.Tags...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "edge %s→%s", e.Source, e.Target)
		}
	}
	return g, nil
}

// FromRecords builds the in-memory model directly from an edge list,
// the facade's input form. Node ordering follows first appearance.
func FromRecords(records []EdgeRecord) (*dag.DAG, error) {
	doc := &Document{Edges: records}
	return doc.ToDAG()
}

// Records converts the in-memory model to a bare edge list.
func Records(g *dag.DAG) []EdgeRecord {
	return FromDAG(g).Edges
}

// Write encodes the document as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	return nil
}

// Read decodes a JSON document. Unknown fields are rejected so malformed
// payloads fail loudly instead of silently dropping data.
func Read(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding graph")
	}
	return &doc, nil
}
