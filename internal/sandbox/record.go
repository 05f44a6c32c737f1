package sandbox

import (
	"encoding/json"
	"fmt"
	"strings"
)

// harnessRecord is the single JSON object the harness prints on stdout.
type harnessRecord struct {
	Passed      int           `json:"passed"`
	Total       int           `json:"total"`
	TestResults []TestOutcome `json:"test_results"`
}

// parseHarnessRecord decodes the harness stdout. Anything other than one
// clean JSON record is a parse failure; stray prints from player code land
// here too and surface as an execution format error upstream.
func parseHarnessRecord(stdout string) (harnessRecord, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return harnessRecord{}, fmt.Errorf("empty harness output")
	}
	var rec harnessRecord
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return harnessRecord{}, fmt.Errorf("decode harness record: %w", err)
	}
	return rec, nil
}
