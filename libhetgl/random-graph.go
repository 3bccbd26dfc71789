package libhetgl

import (
	"sort"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// RandomGraphOpts parameterizes NewRandomGraph. The same opts always produce
// the same graph: edges come from a fixed linear congruential sequence, so
// tests and benchmarks are reproducible without carrying fixture files.
type RandomGraphOpts struct {
	RandomState  uint64
	NumNodes     int
	MaxDegree    int
	NumNodeTypes int
	NumEdgeTypes int
	Directed     bool
}

// NewRandomGraph builds a deterministic pseudo-random typed graph.
func NewRandomGraph(opts RandomGraphOpts) *Graph {
	if opts.NumNodeTypes < 1 {
		opts.NumNodeTypes = 1
	}
	if opts.NumEdgeTypes < 1 {
		opts.NumEdgeTypes = 1
	}

	type rawEdge struct {
		u, v hetgl.NodeID
	}
	var edges []rawEdge

	for node := 0; node < opts.NumNodes; node++ {
		counter := opts.RandomState
		for d := 0; d < opts.MaxDegree; d++ {
			counter = counter*1103515245 + 12345
			dst := int(counter % uint64(opts.NumNodes))
			// Degree tapering: higher-id nodes keep fewer candidates, which
			// yields the uneven degree distributions worth testing against.
			if dst == node || dst%(node+1) == 0 {
				break
			}
			u, v := hetgl.NodeID(node), hetgl.NodeID(dst)
			if u > v {
				u, v = v, u
			}
			edges = append(edges, rawEdge{u, v})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].u != edges[j].u {
			return edges[i].u < edges[j].u
		}
		return edges[i].v < edges[j].v
	})

	b := NewBuilder(opts.NumNodes, opts.Directed)
	for n := 0; n < opts.NumNodes; n++ {
		t := hetgl.NodeType((uint64(n) * opts.RandomState) % uint64(opts.NumNodeTypes))
		b.SetNodeType(hetgl.NodeID(n), t)
	}

	var prev rawEdge
	for i, e := range edges {
		if i > 0 && e == prev {
			continue
		}
		prev = e
		et := hetgl.EdgeType((uint64(e.u)*31 + uint64(e.v)) % uint64(opts.NumEdgeTypes))
		b.AddEdge(e.u, e.v, et)
	}
	return b.Finalize()
}
