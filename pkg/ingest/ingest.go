// Package ingest reads edge lists from the tabular formats collaborators
// produce: CSV files with source/target headers and plain string triples.
// JSON graph documents are handled by the graph package directly.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/dagopt/pkg/errors"
	"github.com/matzehuels/dagopt/pkg/graph"
)

// ReadCSV parses a CSV edge list. The header row must name a "source"
// and a "target" column (any order, case-insensitive); an optional
// "classes" column carries semicolon-separated tags. Extra columns are
// ignored.
func ReadCSV(r io.Reader) ([]graph.EdgeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "CSV input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "reading CSV header")
	}

	srcCol, tgtCol, classCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "source":
			srcCol = i
		case "target":
			tgtCol = i
		case "classes":
			classCol = i
		}
	}
	if srcCol < 0 || tgtCol < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "CSV header must contain source and target columns")
	}

	var records []graph.EdgeRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "reading CSV line %d", line)
		}

		source := strings.TrimSpace(row[srcCol])
		target := strings.TrimSpace(row[tgtCol])
		if source == "" || target == "" {
			return nil, errors.New(errors.ErrCodeMalformedInput, "line %d is missing source or target", line)
		}
		if err := errors.ValidateNodeID(source); err != nil {
			return nil, err
		}
		if err := errors.ValidateNodeID(target); err != nil {
			return nil, err
		}

		rec := graph.EdgeRecord{Source: source, Target: target}
		if classCol >= 0 && classCol < len(row) {
			rec.Tags = splitClasses(row[classCol])
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "CSV input contains no edges")
	}
	return records, nil
}

// ParseTriples converts (source, target[, class]) rows into edge records.
func ParseTriples(rows [][]string) ([]graph.EdgeRecord, error) {
	var records []graph.EdgeRecord
	for i, row := range rows {
		if len(row) < 2 {
			return nil, errors.New(errors.ErrCodeMalformedInput, "triple %d has %d fields, want at least 2", i, len(row))
		}
		source, target := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if source == "" || target == "" {
			return nil, errors.New(errors.ErrCodeMalformedInput, "triple %d is missing source or target", i)
		}

		rec := graph.EdgeRecord{Source: source, Target: target}
		if len(row) > 2 {
			rec.Tags = splitClasses(row[2])
		}
		records = append(records, rec)
	}
	return records, nil
}

// splitClasses splits a classes cell on semicolons, dropping empties.
func splitClasses(cell string) []string {
	var tags []string
	for _, t := range strings.Split(cell, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
