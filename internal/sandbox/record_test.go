package sandbox

import "testing"

func TestParseHarnessRecord(t *testing.T) {
	stdout := `{"passed": 2, "total": 3, "test_results": [
		{"test": 1, "status": "PASS", "expected": "True", "got": "True"},
		{"test": 2, "status": "FAIL", "expected": "True", "got": "False"},
		{"test": 3, "status": "ERROR", "error": "boom", "traceback": "tb"}
	]}`

	rec, err := parseHarnessRecord(stdout)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Passed != 2 || rec.Total != 3 {
		t.Fatalf("unexpected counts %d/%d", rec.Passed, rec.Total)
	}
	if len(rec.TestResults) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(rec.TestResults))
	}
	if rec.TestResults[2].Status != StatusError || rec.TestResults[2].Error != "boom" {
		t.Fatalf("error outcome not preserved: %+v", rec.TestResults[2])
	}
}

func TestParseHarnessRecordEmpty(t *testing.T) {
	if _, err := parseHarnessRecord("   \n"); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestParseHarnessRecordStrayPrints(t *testing.T) {
	// Player print statements corrupt the stream; the record must not be
	// fished out of the noise.
	if _, err := parseHarnessRecord("debugging!\n{\"passed\": 1, \"total\": 1, \"test_results\": []}"); err == nil {
		t.Fatal("expected error for prefixed output")
	}
	if _, err := parseHarnessRecord("{\"passed\": 1, \"total\": 1, \"test_results\": []}\ntrailing"); err == nil {
		t.Fatal("expected error for trailing output")
	}
}

func TestParseHarnessRecordNotJSON(t *testing.T) {
	if _, err := parseHarnessRecord("Traceback (most recent call last): ..."); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}
