package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/pkg/export/neo4j"
)

func newExportCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Push a graph to an external system",
	}
	cmd.AddCommand(newExportNeo4jCmd(configPath))
	return cmd
}

func newExportNeo4jCmd(configPath *string) *cobra.Command {
	var (
		uri      string
		user     string
		password string
		clear    bool
	)

	cmd := &cobra.Command{
		Use:   "neo4j <graph>",
		Short: "Push a graph to Neo4j",
		Long: `Export neo4j writes the graph's nodes and edges into a Neo4j instance
as (:Node)-[:DEPENDS_ON]->(:Node) so it can be queried with Cypher.
Connection settings fall back to the config file; the password can also
come from the NEO4J_PASSWORD environment variable.

Examples:
  dagopt export neo4j deps.csv --uri bolt://localhost:7687 --user neo4j
  dagopt export neo4j reduced.json --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if uri == "" {
				uri = cfg.Export.Neo4jURI
			}
			if user == "" {
				user = cfg.Export.Neo4jUser
			}
			if password == "" {
				password = cfg.Export.Neo4jPassword
			}
			if password == "" {
				password = os.Getenv("NEO4J_PASSWORD")
			}

			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			exporter, err := neo4j.New(ctx, uri, user, password)
			if err != nil {
				return err
			}
			defer exporter.Close(ctx)

			if clear {
				if err := exporter.Clear(ctx); err != nil {
					return err
				}
				logger.Debug("cleared existing nodes")
			}

			prog := newProgress(logger)
			if err := exporter.Push(ctx, g); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Pushed %d nodes with %d edges", g.NodeCount(), g.EdgeCount()))
			printSuccess("Exported to %s", uri)
			return nil
		},
	}

	cmd.Flags().StringVar(&uri, "uri", "", "Neo4j URI (bolt://host:port)")
	cmd.Flags().StringVar(&user, "user", "", "Neo4j username")
	cmd.Flags().StringVar(&password, "password", "", "Neo4j password (or NEO4J_PASSWORD)")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete existing nodes before pushing")
	return cmd
}
