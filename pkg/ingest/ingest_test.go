package ingest

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/dagopt/pkg/errors"
)

func TestReadCSV(t *testing.T) {
	input := "source,target,classes\na,b,build\nb,c,build;test\nc,d,\n"
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Source != "a" || records[0].Target != "b" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if !slices.Equal(records[1].Tags, []string{"build", "test"}) {
		t.Errorf("record 1 tags = %v, want [build test]", records[1].Tags)
	}
	if records[2].Tags != nil {
		t.Errorf("record 2 tags = %v, want none", records[2].Tags)
	}
}

func TestReadCSVColumnOrder(t *testing.T) {
	input := "Target,Source\nb,a\n"
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if records[0].Source != "a" || records[0].Target != "b" {
		t.Errorf("record = %+v, columns not matched by header name", records[0])
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"empty input", "", errors.ErrCodeInvalidFormat},
		{"missing headers", "from,to\na,b\n", errors.ErrCodeInvalidFormat},
		{"blank target", "source,target\na,\n", errors.ErrCodeMalformedInput},
		{"no data rows", "source,target\n", errors.ErrCodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParseTriples(t *testing.T) {
	records, err := ParseTriples([][]string{
		{"a", "b"},
		{"b", "c", "deploy"},
	})
	if err != nil {
		t.Fatalf("ParseTriples: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !slices.Equal(records[1].Tags, []string{"deploy"}) {
		t.Errorf("tags = %v, want [deploy]", records[1].Tags)
	}

	if _, err := ParseTriples([][]string{{"only"}}); !errors.Is(err, errors.ErrCodeMalformedInput) {
		t.Errorf("short triple: err = %v, want MALFORMED_INPUT", err)
	}
}
