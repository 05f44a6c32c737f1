// Package catalog holds the library of coding challenges players duel over.
package catalog

import (
	pkgerrors "codeduel/pkg/errors"
)

// TestCase is a single check a solution must pass. Args is the positional
// argument vector handed to the solution function; single-argument
// challenges use a one-element slice.
type TestCase struct {
	Args        []any  `json:"args"`
	Expected    any    `json:"expected"`
	Description string `json:"description,omitempty"`
}

// Challenge is one coding puzzle.
type Challenge struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Difficulty        string     `json:"difficulty"` // easy, medium, hard
	TimeLimit         int        `json:"time_limit"` // seconds per duel
	FunctionName      string     `json:"function_name"`
	FunctionSignature string     `json:"function_signature"`
	ExampleCode       string     `json:"example_code,omitempty"`
	TestCases         []TestCase `json:"test_cases"`
}

// Library is an immutable challenge collection with stable ordering.
type Library struct {
	order []string
	byID  map[string]Challenge
}

// New builds a Library from the given challenges, preserving their order.
func New(challenges []Challenge) (*Library, error) {
	lib := &Library{byID: make(map[string]Challenge, len(challenges))}
	for _, ch := range challenges {
		if ch.ID == "" || ch.Name == "" || ch.FunctionName == "" {
			return nil, pkgerrors.Newf(pkgerrors.InvalidChallenge,
				"challenge %q is missing required fields", ch.ID)
		}
		if _, dup := lib.byID[ch.ID]; dup {
			return nil, pkgerrors.Newf(pkgerrors.InvalidChallenge,
				"duplicate challenge id %q", ch.ID)
		}
		lib.order = append(lib.order, ch.ID)
		lib.byID[ch.ID] = ch
	}
	return lib, nil
}

// BuiltIn returns the library of stock challenges.
func BuiltIn() *Library {
	lib, err := New(builtinChallenges)
	if err != nil {
		panic(err)
	}
	return lib
}

// Get returns the challenge with the given id.
func (l *Library) Get(id string) (Challenge, bool) {
	ch, ok := l.byID[id]
	return ch, ok
}

// List returns every challenge in registration order.
func (l *Library) List() []Challenge {
	out := make([]Challenge, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

// ByDifficulty returns the challenges matching the given difficulty,
// keeping registration order.
func (l *Library) ByDifficulty(difficulty string) []Challenge {
	var out []Challenge
	for _, id := range l.order {
		if ch := l.byID[id]; ch.Difficulty == difficulty {
			out = append(out, ch)
		}
	}
	return out
}

// TestCount returns how many test cases the challenge has, 0 if unknown.
func (l *Library) TestCount(id string) int {
	return len(l.byID[id].TestCases)
}

// Len returns the number of challenges in the library.
func (l *Library) Len() int {
	return len(l.order)
}
