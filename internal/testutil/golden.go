package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/druidq/internal/ir"
)

// AssertGoldenJSON compares v against testdata/golden/{name}.golden.
//
// v is rendered with sorted keys, exactly as it would be sent to Druid, and then
// indented by two spaces, so golden files stay reviewable in diffs.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGoldenJSON(t *testing.T, name string, v ir.IRValue) {
	t.Helper()

	data, err := ir.MarshalSorted(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		t.Fatalf("indent %s: %v", name, err)
	}
	buf.WriteByte('\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
