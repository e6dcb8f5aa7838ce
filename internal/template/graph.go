package template

import (
	"strings"

	"github.com/cleared-dev/reclass/internal/formula"
	"github.com/cleared-dev/reclass/internal/ledger"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
)

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

// graph is the formula dependency graph as an arena: every line is a node
// addressed by its index, and edges[i] lists the lines node i reads.
type graph struct {
	lines []model.TemplateLine
	index map[string]int
	exprs []*formula.Expr // nil for literal lines
	edges [][]int
}

// build indexes the lines and parses their formulas. With checkRefs every
// reference must resolve to a line or a ledger total.
func build(lines []model.TemplateLine, totals ledger.Totals, checkRefs bool) (*graph, error) {
	g := &graph{
		lines: lines,
		index: make(map[string]int, len(lines)),
		exprs: make([]*formula.Expr, len(lines)),
		edges: make([][]int, len(lines)),
	}

	for i, l := range lines {
		code := strings.TrimSpace(l.Code)
		if code == "" {
			return nil, &shared.InputError{Field: "template line code", Reason: "is empty"}
		}
		if code != l.Code {
			return nil, &shared.InputError{Field: "template line " + l.Code, Reason: "code has surrounding spaces"}
		}
		if _, dup := g.index[code]; dup {
			return nil, &shared.InputError{Field: "template line " + code, Reason: "is defined twice"}
		}
		if !l.Sign.Valid() {
			return nil, &shared.InputError{Field: "template line " + code, Reason: "sign must be + or -"}
		}
		g.index[code] = i
	}

	for i, l := range lines {
		if !l.HasFormula() {
			continue
		}
		expr, err := formula.Parse(l.Formula)
		if err != nil {
			return nil, shared.WithLine(err, l.Code)
		}
		g.exprs[i] = expr
		for _, ref := range expr.Refs() {
			if j, ok := g.index[ref]; ok {
				g.edges[i] = append(g.edges[i], j)
				continue
			}
			if !checkRefs {
				continue
			}
			if _, ok := totals[ref]; !ok {
				return nil, &shared.ReferenceError{Line: l.Code, Code: ref}
			}
		}
	}
	return g, nil
}

// order returns node indexes so that every node follows the nodes it reads
// (depth-first post-order). Reaching a node that is still in progress is a
// cycle, reported with its full path.
func (g *graph) order() ([]int, error) {
	marks := make([]mark, len(g.lines))
	stack := make([]int, 0, len(g.lines))
	out := make([]int, 0, len(g.lines))

	var visit func(u int) error
	visit = func(u int) error {
		marks[u] = inProgress
		stack = append(stack, u)
		for _, v := range g.edges[u] {
			switch marks[v] {
			case done:
				continue
			case inProgress:
				return g.cycle(stack, v)
			}
			if err := visit(v); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		marks[u] = done
		out = append(out, u)
		return nil
	}

	for i := range g.lines {
		if marks[i] != unvisited {
			continue
		}
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (g *graph) cycle(stack []int, back int) error {
	start := 0
	for i, n := range stack {
		if n == back {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, n := range stack[start:] {
		path = append(path, g.lines[n].Code)
	}
	path = append(path, g.lines[back].Code)
	return &shared.CycleError{Path: path}
}
