// Package suite checks the FEN codec against a YAML corpus of cases.
//
// A corpus file is a list of cases:
//
//   - name: sicilian
//     fen: "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2"
//   - name: castling order is normalized
//     fen: "8/8/8/8/8/8/8/8 w qk - 0 1"
//     want: "8/8/8/8/8/8/8/8 w kq - 0 1"
//   - name: five fields
//     fen: "8/8/8/8 w K - 0 1"
//     error: InsufficentFields
//
// A case without error must parse, and its serialization must equal want,
// or the trimmed fen when want is empty. A case with error must be rejected
// with that error kind.
package suite

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chessfen/internal/board"
)

// Case is one corpus entry. Error holds an ErrorKind name such as
// "InvalidPlayer".
type Case struct {
	Name  string `yaml:"name"`
	FEN   string `yaml:"fen"`
	Want  string `yaml:"want,omitempty"`
	Error string `yaml:"error,omitempty"`

	kind board.ErrorKind
}

// Suite is a decoded corpus file.
type Suite struct {
	Cases []*Case
}

// Load reads a corpus file.
func Load(filename string) (*Suite, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("'%s': %v", filename, err)
	}
	return s, nil
}

// Decode reads a corpus from r and checks that every expected error names
// a known error kind.
func Decode(r io.Reader) (*Suite, error) {
	var s Suite
	if err := yaml.NewDecoder(r).Decode(&s.Cases); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	for i, c := range s.Cases {
		if c == nil {
			return nil, fmt.Errorf("case %d is empty", i+1)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		if c.Error == "" {
			continue
		}
		kind, ok := board.ParseErrorKind(c.Error)
		if !ok {
			return nil, fmt.Errorf("%s: unknown error kind '%s'", c.Name, c.Error)
		}
		if c.Want != "" {
			return nil, fmt.Errorf("%s: a case cannot expect both output and an error", c.Name)
		}
		c.kind = kind
	}

	return &s, nil
}

// Result is the outcome of checking one case.
type Result struct {
	Case *Case
	Got  string // serialization of the parsed position, if parsing succeeded
	Err  error  // parse error, if any

	Failure string // empty when the case passed
}

// Passed reports whether the case met its expectation.
func (r Result) Passed() bool {
	return r.Failure == ""
}

// String formats the result as an "ok" or "FAIL" line naming the case.
func (r Result) String() string {
	if r.Passed() {
		return fmt.Sprintf("ok   %s", r.Case.Name)
	}
	return fmt.Sprintf("FAIL %s: %s", r.Case.Name, r.Failure)
}

// Check parses the case's FEN and compares the outcome with the expectation.
func (c *Case) Check() Result {
	res := Result{Case: c}

	pos, err := board.Parse(c.FEN)
	if err != nil {
		res.Err = err
		switch {
		case c.kind == 0:
			res.Failure = fmt.Sprintf("unexpected error: %v", err)
		case !errors.Is(err, c.kind):
			res.Failure = fmt.Sprintf("want %s, got %v", c.kind.String(), err)
		}
		return res
	}

	res.Got = pos.String()
	if c.kind != 0 {
		res.Failure = fmt.Sprintf("want %s, parsed as %q", c.kind.String(), res.Got)
		return res
	}

	want := c.Want
	if want == "" {
		want = strings.TrimSpace(c.FEN)
	}
	if res.Got != want {
		res.Failure = fmt.Sprintf("want %q, got %q", want, res.Got)
	}
	return res
}

// Run checks every case in order.
func (s *Suite) Run() []Result {
	results := make([]Result, 0, len(s.Cases))
	for _, c := range s.Cases {
		results = append(results, c.Check())
	}
	return results
}

// Summary counts passed and failed results.
func Summary(results []Result) (passed, failed int) {
	for _, r := range results {
		if r.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
