package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/errors"
	"github.com/matzehuels/dagopt/pkg/graph"
	"github.com/matzehuels/dagopt/pkg/ingest"
)

// loadGraph reads a graph from path, or stdin when path is "-". JSON
// documents and CSV edge lists are both accepted; the format is sniffed
// from the first byte, so piped input needs no flag.
func loadGraph(path string) (*dag.DAG, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "input is empty")
	}

	if trimmed[0] == '{' {
		doc, err := graph.Read(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return doc.ToDAG()
	}

	records, err := ingest.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return graph.FromRecords(records)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadDurations reads a JSON object mapping node IDs to task durations.
func loadDurations(path string) (map[string]float64, error) {
	if path == "" {
		return nil, nil
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	var durations map[string]float64
	if err := json.Unmarshal(data, &durations); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding durations")
	}
	return durations, nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is
// empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeReport writes v as indented JSON to path (stdout when empty).
func writeReport(v any, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}

// formatFromPath infers a render format from a file extension.
func formatFromPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".svg"):
		return "svg"
	case strings.HasSuffix(path, ".png"):
		return "png"
	case strings.HasSuffix(path, ".dot"), strings.HasSuffix(path, ".gv"):
		return "dot"
	default:
		return ""
	}
}
