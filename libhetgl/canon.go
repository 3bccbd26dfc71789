package libhetgl

import (
	"bytes"
	"sort"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// pairCell collects the induced edges between one unordered node pair.
// Multi-edges of distinct types between the same pair each contribute an
// entry, so a cell is a short sorted run of (type, orientation) byte pairs.
type pairCell []byte

// CanonicalSignature maps an Instance to its canonical signature: two
// instances yield the same signature iff they are isomorphic under a
// node-type-preserving mapping that also preserves edge types and direction.
//
// Nodes are first partitioned into color classes by NodeType; the signature
// is the lexicographically smallest adjacency encoding over all permutations
// that only reorder nodes within their own color class. For graphlet sizes
// up to MaxGraphletSize the pruned brute-force search is tractable and needs
// no general isomorphism machinery.
//
// The function is pure: it reads the Instance, shares no state, and may be
// called concurrently from any number of workers.
func CanonicalSignature(inst *hetgl.Instance) (hetgl.Signature, error) {
	K := len(inst.Nodes)
	if K < hetgl.MinGraphletSize || K > hetgl.MaxGraphletSize {
		return nil, hetgl.ErrInvalidGraphletSize
	}

	// Order node slots by type; each run of equal types is one color block
	// whose internal order the search may permute.
	var orderBuf [hetgl.MaxGraphletSize]byte
	order := orderBuf[:K]
	for i := range order {
		order[i] = byte(i)
	}
	sort.Slice(order, func(i, j int) bool {
		return inst.Types[order[i]] < inst.Types[order[j]]
	})

	var blocks [][2]int
	for lo := 0; lo < K; {
		hi := lo + 1
		for hi < K && inst.Types[order[hi]] == inst.Types[order[lo]] {
			hi++
		}
		if hi-lo > 1 {
			blocks = append(blocks, [2]int{lo, hi})
		}
		lo = hi
	}

	// Cell lookup by unordered original-index pair.
	var cells [hetgl.MaxGraphletSize][hetgl.MaxGraphletSize]pairCell
	for _, e := range inst.Edges {
		a, b := e.A, e.B
		fwd := byte(e.Dir)
		if a > b {
			a, b = b, a
			fwd = flipDir(fwd)
		}
		cells[a][b] = appendCellEdge(cells[a][b], byte(e.Type), fwd)
		cells[b][a] = appendCellEdge(cells[b][a], byte(e.Type), flipDir(fwd))
	}

	encodedLen := 1 + K
	for i := 0; i < K; i++ {
		for j := i + 1; j < K; j++ {
			encodedLen += 1 + len(cells[order[i]][order[j]])
		}
	}

	best := make([]byte, 0, encodedLen)
	candidate := make([]byte, 0, encodedLen)

	tryOrder := func() {
		candidate = candidate[:0]
		candidate = append(candidate, byte(K))
		for _, oi := range order {
			candidate = append(candidate, byte(inst.Types[oi]))
		}
		for i := 0; i < K; i++ {
			for j := i + 1; j < K; j++ {
				cell := cells[order[i]][order[j]]
				candidate = append(candidate, byte(len(cell)/2))
				candidate = append(candidate, cell...)
			}
		}
		if len(best) == 0 || bytes.Compare(candidate, best) < 0 {
			best = append(best[:0], candidate...)
		}
	}

	permuteBlocks(order, blocks, tryOrder)

	return hetgl.Signature(best), nil
}

// appendCellEdge inserts a (type, orientation) pair keeping the cell sorted,
// so cell content is independent of edge insertion order.
func appendCellEdge(cell pairCell, et, dir byte) pairCell {
	at := len(cell)
	for i := 0; i < len(cell); i += 2 {
		if et < cell[i] || (et == cell[i] && dir < cell[i+1]) {
			at = i
			break
		}
	}
	cell = append(cell, 0, 0)
	copy(cell[at+2:], cell[at:len(cell)-2])
	cell[at] = et
	cell[at+1] = dir
	return cell
}

func flipDir(dir byte) byte {
	switch hetgl.Dir(dir) {
	case hetgl.DirOut:
		return byte(hetgl.DirIn)
	case hetgl.DirIn:
		return byte(hetgl.DirOut)
	}
	return dir
}

// permuteBlocks invokes fn for every admissible ordering: the product of all
// in-place permutations of each color block. Blocks of size 1 are skipped
// entirely, so a fully heterogeneous instance costs a single call.
func permuteBlocks(order []byte, blocks [][2]int, fn func()) {
	if len(blocks) == 0 {
		fn()
		return
	}
	b := blocks[0]
	permuteRange(order, b[0], b[1], func() {
		permuteBlocks(order, blocks[1:], fn)
	})
}

func permuteRange(order []byte, lo, hi int, next func()) {
	if lo+1 >= hi {
		next()
		return
	}
	for i := lo; i < hi; i++ {
		order[lo], order[i] = order[i], order[lo]
		permuteRange(order, lo+1, hi, next)
		order[lo], order[i] = order[i], order[lo]
	}
}
