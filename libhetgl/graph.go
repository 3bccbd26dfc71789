package libhetgl

import (
	"sort"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// HalfEdge is one adjacency entry: the neighbor reached from the owning node,
// the edge type, and the edge orientation relative to the owning node
// (DirOut = owner -> Nbr).
type HalfEdge struct {
	Nbr  hetgl.NodeID
	Type hetgl.EdgeType
	Dir  hetgl.Dir
}

// Graph is an immutable typed adjacency structure.
//
// A Graph is produced by a Builder and never mutated afterward, so it is safe
// for any number of concurrent readers. In undirected mode every edge appears
// as a DirNone half-edge on both endpoints; in directed mode an edge u->v
// appears as DirOut on u and DirIn on v, so one merged list per node serves
// both weak-connectivity traversal and direction-aware induction.
type Graph struct {
	directed  bool
	types     []hetgl.NodeType
	adj       [][]HalfEdge
	edgeCount int
}

func (g *Graph) NumNodes() int  { return len(g.types) }
func (g *Graph) NumEdges() int  { return g.edgeCount }
func (g *Graph) Directed() bool { return g.directed }

// NodeType returns the type tag of the given node.
func (g *Graph) NodeType(n hetgl.NodeID) (hetgl.NodeType, error) {
	if err := g.checkNode(n); err != nil {
		return 0, err
	}
	return g.types[n], nil
}

// Degree returns the number of adjacency entries for the given node.
// In directed mode this counts in- and out-edges alike.
func (g *Graph) Degree(n hetgl.NodeID) (int, error) {
	if err := g.checkNode(n); err != nil {
		return 0, err
	}
	return len(g.adj[n]), nil
}

// Neighbors returns the adjacency list of the given node, ordered by
// ascending neighbor id. The returned slice is read-only.
func (g *Graph) Neighbors(n hetgl.NodeID) ([]HalfEdge, error) {
	if err := g.checkNode(n); err != nil {
		return nil, err
	}
	return g.adj[n], nil
}

func (g *Graph) checkNode(n hetgl.NodeID) error {
	if n < 0 || int(n) >= len(g.types) {
		return hetgl.ErrInvalidNode
	}
	return nil
}

// halfEdges is the unchecked fast path used by the enumerator, which only
// ever walks ids it obtained from the graph itself.
func (g *Graph) halfEdges(n hetgl.NodeID) []HalfEdge {
	return g.adj[n]
}

func (g *Graph) typeOf(n hetgl.NodeID) hetgl.NodeType {
	return g.types[n]
}

// Builder accumulates nodes and edges and finalizes them into a Graph.
// A Builder is single-use: Finalize may be called once.
type Builder struct {
	directed  bool
	types     []hetgl.NodeType
	adj       [][]HalfEdge
	edgeCount int
	finalized bool
}

// NewBuilder creates a builder for a graph with a fixed node count.
// All nodes start with type 0.
func NewBuilder(numNodes int, directed bool) *Builder {
	return &Builder{
		directed: directed,
		types:    make([]hetgl.NodeType, numNodes),
		adj:      make([][]HalfEdge, numNodes),
	}
}

// SetNodeType assigns a type tag to a node.
func (b *Builder) SetNodeType(n hetgl.NodeID, t hetgl.NodeType) error {
	if n < 0 || int(n) >= len(b.types) {
		return hetgl.ErrInvalidNode
	}
	b.types[n] = t
	return nil
}

// AddEdge adds a typed edge. In directed mode the edge is oriented u -> v.
// Self-loops are dropped: a graphlet is an induced subgraph over distinct
// nodes and a loop can never contribute to one.
//
// The builder does not reject duplicate (u, v, type) submissions; the loader
// owns that invariant per the adjacency contract.
func (b *Builder) AddEdge(u, v hetgl.NodeID, et hetgl.EdgeType) error {
	if u < 0 || int(u) >= len(b.types) || v < 0 || int(v) >= len(b.types) {
		return hetgl.ErrInvalidNode
	}
	if u == v {
		return nil
	}
	if b.directed {
		b.adj[u] = append(b.adj[u], HalfEdge{Nbr: v, Type: et, Dir: hetgl.DirOut})
		b.adj[v] = append(b.adj[v], HalfEdge{Nbr: u, Type: et, Dir: hetgl.DirIn})
	} else {
		b.adj[u] = append(b.adj[u], HalfEdge{Nbr: v, Type: et})
		b.adj[v] = append(b.adj[v], HalfEdge{Nbr: u, Type: et})
	}
	b.edgeCount++
	return nil
}

// Finalize orders each adjacency list and returns the immutable Graph.
// The builder must not be used afterward.
func (b *Builder) Finalize() *Graph {
	if b.finalized {
		panic("graph builder finalized twice")
	}
	b.finalized = true

	for _, nbrs := range b.adj {
		sort.Slice(nbrs, func(i, j int) bool {
			if nbrs[i].Nbr != nbrs[j].Nbr {
				return nbrs[i].Nbr < nbrs[j].Nbr
			}
			if nbrs[i].Type != nbrs[j].Type {
				return nbrs[i].Type < nbrs[j].Type
			}
			return nbrs[i].Dir < nbrs[j].Dir
		})
	}

	g := &Graph{
		directed:  b.directed,
		types:     b.types,
		adj:       b.adj,
		edgeCount: b.edgeCount,
	}
	b.types = nil
	b.adj = nil
	return g
}
