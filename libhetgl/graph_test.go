package libhetgl_test

import (
	"testing"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
	"github.com/LucaCappelletti94/heterogeneous-graphlets/libhetgl"
)

func TestBuilderBasics(t *testing.T) {
	b := libhetgl.NewBuilder(4, false)
	if err := b.SetNodeType(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := b.SetNodeType(4, 0); err != hetgl.ErrInvalidNode {
		t.Fatal("expected ErrInvalidNode")
	}

	b.AddEdge(2, 0, 1)
	b.AddEdge(0, 1, 0)
	b.AddEdge(3, 3, 0) // self-loop, dropped
	b.AddEdge(1, 3, 0)
	if err := b.AddEdge(0, 9, 0); err != hetgl.ErrInvalidNode {
		t.Fatal("expected ErrInvalidNode")
	}

	g := b.Finalize()
	if g.NumNodes() != 4 {
		t.Fatal("node count")
	}
	if g.NumEdges() != 3 {
		t.Fatal("edge count (self-loop must not count)")
	}
	if g.Directed() {
		t.Fatal("directed flag")
	}

	nt, err := g.NodeType(1)
	if err != nil || nt != 2 {
		t.Fatal("node type")
	}
	if _, err := g.NodeType(-1); err != hetgl.ErrInvalidNode {
		t.Fatal("expected ErrInvalidNode")
	}

	deg, err := g.Degree(0)
	if err != nil || deg != 2 {
		t.Fatal("degree")
	}
	if deg, _ := g.Degree(3); deg != 1 {
		t.Fatal("self-loop leaked into adjacency")
	}

	// Adjacency comes back ordered by neighbor id.
	nbrs, err := g.Neighbors(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(nbrs) != 2 || nbrs[0].Nbr != 1 || nbrs[1].Nbr != 2 {
		t.Fatalf("unsorted adjacency: %v", nbrs)
	}
	if nbrs[1].Type != 1 {
		t.Fatal("edge type lost")
	}
	if _, err := g.Neighbors(4); err != hetgl.ErrInvalidNode {
		t.Fatal("expected ErrInvalidNode")
	}
}

func TestBuilderDirected(t *testing.T) {
	b := libhetgl.NewBuilder(2, true)
	b.AddEdge(0, 1, 3)
	g := b.Finalize()

	out, _ := g.Neighbors(0)
	if len(out) != 1 || out[0].Dir != hetgl.DirOut || out[0].Type != 3 {
		t.Fatalf("half-edge on tail: %v", out)
	}
	in, _ := g.Neighbors(1)
	if len(in) != 1 || in[0].Dir != hetgl.DirIn {
		t.Fatalf("half-edge on head: %v", in)
	}
	if g.NumEdges() != 1 {
		t.Fatal("a directed edge is one edge, not two")
	}
}

func TestBuilderFinalizeTwice(t *testing.T) {
	b := libhetgl.NewBuilder(1, false)
	b.Finalize()
	defer func() {
		if recover() == nil {
			t.Fatal("second Finalize must panic")
		}
	}()
	b.Finalize()
}
