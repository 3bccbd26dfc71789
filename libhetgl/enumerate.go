package libhetgl

import (
	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// enumFrame is one level of the explicit expansion stack: the extension
// frontier built when this level was entered, a cursor into it, and the
// nodes this level stamped so they can be unstamped on backtrack.
type enumFrame struct {
	ext     []hetgl.NodeID
	cursor  int
	stamped []hetgl.NodeID
}

// Enumerator walks a Graph and emits every connected induced subgraph of
// size 2..=maxSize exactly once, using extension-set expansion seeded at each
// anchor node. Each subset is discovered only from its minimum-id node: the
// frontier never admits ids at or below the anchor, so no seen-set is needed.
//
// An Enumerator carries reusable scratch state and is not safe for concurrent
// use; parallel runs give each worker its own Enumerator over the shared
// (read-only) Graph.
type Enumerator struct {
	g       *Graph
	maxSize int

	sub    []hetgl.NodeID // current subset, sub[0] is the anchor
	frames []enumFrame    // frames[d] expands sub[:d+1]
	mark   []bool         // node is in sub or was ever frontier-reachable from it
	inst   hetgl.Instance // reusable emit scratch
}

// NewEnumerator creates an enumerator for subgraphs of size 2..=maxSize.
func NewEnumerator(g *Graph, maxSize int) (*Enumerator, error) {
	if g == nil {
		return nil, hetgl.ErrNilGraph
	}
	if maxSize < hetgl.MinGraphletSize || maxSize > hetgl.MaxGraphletSize {
		return nil, hetgl.ErrInvalidGraphletSize
	}
	en := &Enumerator{
		g:       g,
		maxSize: maxSize,
		sub:     make([]hetgl.NodeID, 0, maxSize),
		frames:  make([]enumFrame, maxSize),
		mark:    make([]bool, g.NumNodes()),
	}
	en.inst.Nodes = make([]hetgl.NodeID, 0, maxSize)
	en.inst.Types = make([]hetgl.NodeType, 0, maxSize)
	en.inst.Edges = make([]hetgl.InstanceEdge, 0, maxSize*(maxSize-1)/2)
	return en, nil
}

// EnumAll runs EnumFromAnchor for every node in ascending id order.
func (en *Enumerator) EnumAll(onInst hetgl.OnInstance) error {
	for v := hetgl.NodeID(0); int(v) < en.g.NumNodes(); v++ {
		if err := en.EnumFromAnchor(v, onInst); err != nil {
			return err
		}
	}
	return nil
}

// EnumFromAnchor emits every connected subset whose minimum node id is v,
// at every size 2..=maxSize. Isolated nodes emit nothing.
func (en *Enumerator) EnumFromAnchor(v hetgl.NodeID, onInst hetgl.OnInstance) error {
	if err := en.g.checkNode(v); err != nil {
		return err
	}

	en.sub = append(en.sub[:0], v)
	en.mark[v] = true

	// Seed frontier: neighbors of the anchor with greater id.
	root := &en.frames[0]
	root.ext = root.ext[:0]
	root.cursor = 0
	root.stamped = root.stamped[:0]
	for _, he := range en.g.halfEdges(v) {
		if he.Nbr > v && !en.mark[he.Nbr] {
			en.mark[he.Nbr] = true
			root.ext = append(root.ext, he.Nbr)
			root.stamped = append(root.stamped, he.Nbr)
		}
	}

	depth := 0
	var emitErr error

	for depth >= 0 {
		fr := &en.frames[depth]

		if fr.cursor >= len(fr.ext) || emitErr != nil {
			// Frontier exhausted at this level: backtrack.
			for _, u := range fr.stamped {
				en.mark[u] = false
			}
			fr.stamped = fr.stamped[:0]
			if depth > 0 {
				en.sub = en.sub[:len(en.sub)-1]
			}
			depth--
			continue
		}

		w := fr.ext[fr.cursor]
		fr.cursor++
		en.sub = append(en.sub, w)

		if err := en.emit(onInst); err != nil {
			emitErr = err
			en.sub = en.sub[:len(en.sub)-1]
			continue
		}

		if len(en.sub) == en.maxSize {
			en.sub = en.sub[:len(en.sub)-1]
			continue
		}

		// Descend: the child frontier is the unconsumed remainder of this
		// frontier plus the exclusive neighbors of w (greater than the
		// anchor and not yet reachable from the subset).
		depth++
		child := &en.frames[depth]
		child.ext = append(child.ext[:0], fr.ext[fr.cursor:]...)
		child.cursor = 0
		child.stamped = child.stamped[:0]
		for _, he := range en.g.halfEdges(w) {
			if he.Nbr > v && !en.mark[he.Nbr] {
				en.mark[he.Nbr] = true
				child.ext = append(child.ext, he.Nbr)
				child.stamped = append(child.stamped, he.Nbr)
			}
		}
	}

	en.mark[v] = false
	en.sub = en.sub[:0]
	return emitErr
}

// emit fills the scratch Instance with the induced subgraph over en.sub and
// hands it to the callback. The Instance is only valid during the call.
func (en *Enumerator) emit(onInst hetgl.OnInstance) error {
	inst := &en.inst
	inst.Nodes = append(inst.Nodes[:0], en.sub...)
	inst.Types = inst.Types[:0]
	inst.Edges = inst.Edges[:0]

	for _, n := range inst.Nodes {
		inst.Types = append(inst.Types, en.g.typeOf(n))
	}

	// Induce edges: scan each member's adjacency, keeping entries whose far
	// end sits later in the subset so every edge is captured exactly once.
	// Subset size is bounded by maxSize, so the inner position scan is cheap.
	for i, n := range inst.Nodes {
		for _, he := range en.g.halfEdges(n) {
			j := -1
			for k := i + 1; k < len(inst.Nodes); k++ {
				if inst.Nodes[k] == he.Nbr {
					j = k
					break
				}
			}
			if j < 0 {
				continue
			}
			// he.Dir is relative to Nodes[i], which is position A, so the
			// orientation carries over unchanged.
			inst.Edges = append(inst.Edges, hetgl.InstanceEdge{A: byte(i), B: byte(j), Type: he.Type, Dir: he.Dir})
		}
	}

	return onInst(inst)
}
