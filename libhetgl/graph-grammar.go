package libhetgl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// GraphExpr is a compact notation for small typed graphs, mainly for tests
// and the CLI:
//
//	"1a-2b, 2b~3a, 1a-3a"
//
// Digits are one-based node ids, the letter suffix is the node's type tag
// ('a' is type 0; omitting the tag leaves the node at type 0). The edge runes
// '-', '~' and '=' select edge types 0, 1 and 2; a trailing '>' makes the
// edge a directed arc and the whole graph directed.
type GraphExpr struct {
	Runs []*EdgeRun `parser:"(@@ (\",\" @@)*)?"`
}

type EdgeRun struct {
	StartVtx *Vtx   `parser:"@@"`
	Hops     []*Hop `parser:"@@*"`
}

type Hop struct {
	Arc    string `parser:"@( \"-\" \">\"? | \"~\" \">\"? | \"=\" \">\"? )"`
	EndVtx *Vtx   `parser:"@@"`
}

type Vtx struct {
	ID  int64  `parser:"@Int"`
	Tag string `parser:"@Ident?"`
}

var parseGraphExpr = participle.MustBuild[GraphExpr]()

type exprEdge struct {
	a, b hetgl.NodeID
	et   hetgl.EdgeType
}

type exprBuilder struct {
	maxID    hetgl.NodeID
	types    map[hetgl.NodeID]hetgl.NodeType
	edges    []exprEdge
	directed bool
}

func (xb *exprBuilder) tallyVtx(vtx *Vtx) (hetgl.NodeID, error) {
	if vtx.ID < 1 {
		return 0, errors.Wrapf(hetgl.ErrBadGraphExpr, "node ids are one-based, got %d", vtx.ID)
	}
	n := hetgl.NodeID(vtx.ID - 1)
	if n+1 > xb.maxID {
		xb.maxID = n + 1
	}

	if vtx.Tag != "" {
		if len(vtx.Tag) != 1 || vtx.Tag[0] < 'a' || vtx.Tag[0] > 'z' {
			return 0, errors.Wrapf(hetgl.ErrBadNodeType, "node type tag %q", vtx.Tag)
		}
		t := hetgl.NodeType(vtx.Tag[0] - 'a')
		if prev, seen := xb.types[n]; seen && prev != t {
			return 0, errors.Wrapf(hetgl.ErrBadGraphExpr, "node %d tagged both %c and %c", vtx.ID, 'a'+prev, vtx.Tag[0])
		}
		xb.types[n] = t
	}
	return n, nil
}

func (xb *exprBuilder) applyRun(run *EdgeRun) error {
	cur, err := xb.tallyVtx(run.StartVtx)
	if err != nil {
		return err
	}

	for _, hop := range run.Hops {
		var et hetgl.EdgeType
		switch hop.Arc[0] {
		case '-':
			et = 0
		case '~':
			et = 1
		case '=':
			et = 2
		}
		if len(hop.Arc) > 1 { // trailing '>'
			xb.directed = true
		}

		next, err := xb.tallyVtx(hop.EndVtx)
		if err != nil {
			return err
		}
		xb.edges = append(xb.edges, exprEdge{a: cur, b: next, et: et})
		cur = next
	}
	return nil
}

// ParseGraphExpr builds a Graph from a graph expression.
func ParseGraphExpr(expr string) (*Graph, error) {
	ast, err := parseGraphExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(hetgl.ErrBadGraphExpr, err.Error())
	}

	xb := exprBuilder{
		types: make(map[hetgl.NodeID]hetgl.NodeType),
	}
	for _, run := range ast.Runs {
		if err := xb.applyRun(run); err != nil {
			return nil, err
		}
	}

	b := NewBuilder(int(xb.maxID), xb.directed)
	for n, t := range xb.types {
		if err := b.SetNodeType(n, t); err != nil {
			return nil, err
		}
	}
	for _, e := range xb.edges {
		if err := b.AddEdge(e.a, e.b, e.et); err != nil {
			return nil, err
		}
	}
	return b.Finalize(), nil
}
