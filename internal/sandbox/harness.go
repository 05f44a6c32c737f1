package sandbox

import (
	"encoding/json"
	"fmt"
	"regexp"

	"codeduel/internal/catalog"
	pkgerrors "codeduel/pkg/errors"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// harnessTemplate drives one solution function over the embedded test cases.
// Each case runs in its own try block so a fault in one never aborts the
// rest, and the script ends by printing exactly one JSON record on stdout.
const harnessTemplate = `import json
import traceback

%s

test_cases = json.loads(%s)
results = []
passed = 0
total = len(test_cases)

for i, case in enumerate(test_cases):
    try:
        expected = case["expected"]
        got = %s(*case["args"])
        if got == expected:
            results.append({"test": i + 1, "status": "PASS", "expected": str(expected), "got": str(got)})
            passed += 1
        else:
            results.append({"test": i + 1, "status": "FAIL", "expected": str(expected), "got": str(got)})
    except Exception as exc:
        results.append({"test": i + 1, "status": "ERROR", "error": str(exc), "traceback": traceback.format_exc()})

print(json.dumps({"passed": passed, "total": total, "test_results": results}))
`

// buildHarness renders the Python driver script embedding the normalized
// player source and the test cases. Cases travel as a JSON string literal
// decoded with json.loads inside the script, so booleans and null survive
// the Python round trip.
func buildHarness(source, functionName string, cases []catalog.TestCase) (string, error) {
	if !identifierRe.MatchString(functionName) {
		return "", pkgerrors.Newf(pkgerrors.InvalidParams,
			"invalid function name %q", functionName)
	}

	type wireCase struct {
		Args     []any `json:"args"`
		Expected any   `json:"expected"`
	}
	wire := make([]wireCase, len(cases))
	for i, c := range cases {
		args := c.Args
		if args == nil {
			args = []any{}
		}
		wire[i] = wireCase{Args: args, Expected: c.Expected}
	}

	casesJSON, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode test cases: %w", err)
	}
	casesLiteral, err := json.Marshal(string(casesJSON))
	if err != nil {
		return "", fmt.Errorf("quote test cases: %w", err)
	}

	return fmt.Sprintf(harnessTemplate, source, casesLiteral, functionName), nil
}
