// Package neo4j pushes optimized graphs into a Neo4j instance so teams
// can query dependency structure with Cypher. Nodes carry their ID as
// the name property; edges become DEPENDS_ON relationships with the tag
// list attached.
package neo4j

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/errors"
	"github.com/matzehuels/dagopt/pkg/observability"
)

// Exporter owns a driver connection to one Neo4j instance.
type Exporter struct {
	driver neo4j.DriverWithContext
}

// New connects to Neo4j and verifies connectivity before returning.
func New(ctx context.Context, uri, username, password string) (*Exporter, error) {
	if err := errors.ValidateURI(uri, "bolt", "bolt+s", "neo4j", "neo4j+s"); err != nil {
		return nil, err
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "creating neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "verifying neo4j connectivity")
	}
	return &Exporter{driver: driver}, nil
}

// Push writes the graph. Nodes and relationships are MERGEd, so pushing
// the same graph twice is idempotent; pushing a reduced graph after the
// original leaves the removed edges behind unless Clear ran first.
func (e *Exporter) Push(ctx context.Context, g *dag.DAG) error {
	start := time.Now()
	observability.Export().OnExportStart(ctx, "neo4j", g.NodeCount(), g.EdgeCount())

	err := e.push(ctx, g)
	observability.Export().OnExportComplete(ctx, "neo4j", time.Since(start), err)
	return err
}

func (e *Exporter) push(ctx context.Context, g *dag.DAG) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, id := range g.Nodes() {
			_, err := tx.Run(ctx,
				"MERGE (n:Node {name: $name})",
				map[string]any{"name": id})
			if err != nil {
				return nil, err
			}
		}
		for _, edge := range g.Edges() {
			_, err := tx.Run(ctx,
				"MERGE (a:Node {name: $from}) "+
					"MERGE (b:Node {name: $to}) "+
					"MERGE (a)-[r:DEPENDS_ON]->(b) SET r.tags = $tags",
				map[string]any{"from": edge.From, "to": edge.To, "tags": edge.Tags})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "pushing graph")
	}
	return nil
}

// Clear removes every Node and its relationships. Use before Push when
// the database should mirror exactly one graph.
func (e *Exporter) Clear(ctx context.Context) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, "MATCH (n:Node) DETACH DELETE n", nil)
		return nil, err
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "clearing graph")
	}
	return nil
}

// Close releases the driver.
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
