package diagram

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrMalformedEdge = errors.New("malformed DOT edge")

const dotIDPattern = `[A-Za-z_][A-Za-z0-9_]*|"(?:[^"\\]|\\.)*"`

var edgeLine = regexp.MustCompile(`^\s*(` + dotIDPattern + `)\s*->\s*(` + dotIDPattern + `)\s*\[label=(` + dotIDPattern + `)(?:,\s*guard=(` + dotIDPattern + `))?\];\s*$`)

// ParseDOT extracts the edges from DOT text produced by DOT.
// Lines without an arrow are ignored. A label is split into input and guard
// only when the edge carries a guard attribute.
func ParseDOT(text string) ([]Edge, error) {
	var edges []Edge
	sc := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		if !strings.Contains(raw, "->") {
			continue
		}

		m := edgeLine.FindStringSubmatch(raw)
		if m == nil {
			return nil, fmt.Errorf("%w at line %d: %q", ErrMalformedEdge, line, raw)
		}

		from, err := unquoteID(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrMalformedEdge, line, err)
		}
		to, err := unquoteID(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrMalformedEdge, line, err)
		}
		label, err := unquoteID(m[3])
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrMalformedEdge, line, err)
		}
		guard, err := unquoteID(m[4])
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrMalformedEdge, line, err)
		}

		input := label
		if guard != "" {
			input = strings.TrimSuffix(label, " ["+guard+"]")
		}
		edges = append(edges, Edge{From: from, Input: input, To: to, Guard: guard})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

func unquoteID(s string) (string, error) {
	if strings.HasPrefix(s, `"`) {
		return strconv.Unquote(s)
	}
	return s, nil
}
