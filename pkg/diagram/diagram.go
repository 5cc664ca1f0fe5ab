package diagram

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

// DefaultGraphName is used when the definition has no name.
const DefaultGraphName = "State Machine"

const quickChartEndpoint = "https://quickchart.io/graphviz"

// Source is the read-only view of a definition needed for rendering.
type Source interface {
	Name() string
	Initial() string
	States() []string
	Transitions() []statemachine.Transition
}

// Edge is one rendered transition.
type Edge struct {
	From  string
	Input string
	To    string
	Guard string
}

// Edges lists the transitions of src in declaration order.
func Edges(src Source) []Edge {
	ts := src.Transitions()
	edges := make([]Edge, 0, len(ts))
	for _, t := range ts {
		e := Edge{From: t.From, Input: t.Input, To: t.To, Guard: t.GuardLabel}
		if e.Guard == "" && t.Guarded() {
			e.Guard = "guarded"
		}
		edges = append(edges, e)
	}
	return edges
}

func graphName(src Source) string {
	if name := src.Name(); name != "" {
		return name
	}
	return DefaultGraphName
}

// DOT renders src as a Graphviz digraph. Guarded edges show the guard after
// the input and repeat it in a guard attribute, which ParseDOT relies on:
//
//	digraph "job" {
//	  node [shape=ellipse];
//	  Idle -> Running [label=start];
//	  Running -> Done [label="finish [ready]", guard=ready];
//	}
func DOT(src Source) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(graphName(src)))
	b.WriteString("  node [shape=ellipse];\n")
	for _, e := range Edges(src) {
		if e.Guard == "" {
			fmt.Fprintf(&b, "  %s -> %s [label=%s];\n", dotID(e.From), dotID(e.To), dotID(e.Input))
			continue
		}
		fmt.Fprintf(&b, "  %s -> %s [label=%s, guard=%s];\n",
			dotID(e.From), dotID(e.To), dotID(guardedLabel(e.Input, e.Guard)), dotID(e.Guard))
	}
	b.WriteString("}")
	return b.String()
}

// Mermaid renders src as a Mermaid state diagram with an entry arrow to the
// initial state. States whose names are not plain identifiers are declared
// with a generated id and the original name as description.
func Mermaid(src Source) string {
	ids, aliases := mermaidIDs(src)

	var b strings.Builder
	b.WriteString("stateDiagram-v2\n")
	for _, a := range aliases {
		fmt.Fprintf(&b, "    state %s as %s\n", strconv.Quote(a), ids[a])
	}
	fmt.Fprintf(&b, "    [*] --> %s\n", ids[src.Initial()])
	for _, e := range Edges(src) {
		label := e.Input
		if e.Guard != "" {
			label += " [" + e.Guard + "]"
		}
		fmt.Fprintf(&b, "    %s --> %s : %s\n", ids[e.From], ids[e.To], label)
	}
	return b.String()
}

func guardedLabel(input, guard string) string {
	return input + " [" + guard + "]"
}

// QuickChartURL returns a quickchart.io link rendering dot as SVG.
func QuickChartURL(dot string) string {
	return quickChartEndpoint + "?format=svg&graph=" + strings.ReplaceAll(url.QueryEscape(dot), "+", "%20")
}

var plainID = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dotID leaves plain identifiers bare and quotes everything else.
func dotID(s string) string {
	if plainID.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

// mermaidIDs maps every state to a unique Mermaid id. Plain identifiers are
// used as is; other names get s0, s1, ... skipping ids taken by plain names.
// aliases lists the renamed states in declaration order.
func mermaidIDs(src Source) (ids map[string]string, aliases []string) {
	states := src.States()
	ids = make(map[string]string, len(states))
	taken := make(map[string]bool, len(states))
	for _, s := range states {
		if plainID.MatchString(s) {
			ids[s] = s
			taken[s] = true
		}
	}

	n := 0
	for _, s := range states {
		if _, ok := ids[s]; ok {
			continue
		}
		id := fmt.Sprintf("s%d", n)
		for taken[id] {
			n++
			id = fmt.Sprintf("s%d", n)
		}
		n++
		ids[s] = id
		taken[id] = true
		aliases = append(aliases, s)
	}
	return ids, aliases
}
