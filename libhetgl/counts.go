package libhetgl

import (
	"fmt"
	"io"
	"math"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

type nodeOrbit struct {
	Node  hetgl.NodeID
	Orbit hetgl.OrbitID
}

// CountSet accumulates per-orbit and per-node-per-orbit occurrence counts.
// Counts saturate at the uint64 ceiling instead of wrapping; saturation is
// remembered and surfaced as ErrCountOverflow when the set is sealed.
//
// A CountSet is not synchronized: each worker owns one and the results are
// merged once at the end of the traversal.
type CountSet struct {
	global    map[hetgl.OrbitID]uint64
	perNode   map[nodeOrbit]uint64
	instances uint64
	saturated bool
}

func NewCountSet() *CountSet {
	return &CountSet{
		global:  make(map[hetgl.OrbitID]uint64),
		perNode: make(map[nodeOrbit]uint64),
	}
}

// AddInstance credits one occurrence of orbit globally and to every node of
// the instance.
func (cs *CountSet) AddInstance(inst *hetgl.Instance, orbit hetgl.OrbitID) {
	cs.global[orbit] = cs.satAdd(cs.global[orbit], 1)
	cs.instances = cs.satAdd(cs.instances, 1)
	for _, n := range inst.Nodes {
		key := nodeOrbit{Node: n, Orbit: orbit}
		cs.perNode[key] = cs.satAdd(cs.perNode[key], 1)
	}
}

// MergeFrom folds another worker's counts into this set.
// Increments commute, so merge order never affects the result.
func (cs *CountSet) MergeFrom(other *CountSet) {
	for orbit, n := range other.global {
		cs.global[orbit] = cs.satAdd(cs.global[orbit], n)
	}
	for key, n := range other.perNode {
		cs.perNode[key] = cs.satAdd(cs.perNode[key], n)
	}
	cs.instances = cs.satAdd(cs.instances, other.instances)
	cs.saturated = cs.saturated || other.saturated
}

// Instances returns the number of instances credited so far.
func (cs *CountSet) Instances() uint64 { return cs.instances }

// Saturated reports whether any counter hit the representable maximum.
func (cs *CountSet) Saturated() bool { return cs.saturated }

func (cs *CountSet) satAdd(cur, delta uint64) uint64 {
	if cur > math.MaxUint64-delta {
		cs.saturated = true
		return math.MaxUint64
	}
	return cur + delta
}

// Results is the immutable output of a counting run: the orbit table in
// canonical order plus the global and per-node count tables, all keyed by
// canonical orbit id.
type Results struct {
	Orbits   []hetgl.Orbit // Orbits[i].ID == OrbitID(i+1)
	NumNodes int

	global    []uint64
	perNode   map[nodeOrbit]uint64
	instances uint64
}

// sealResults freezes a merged CountSet against a registry snapshot,
// relabeling every run-local orbit id to its canonical id.
func sealResults(cs *CountSet, orbits []hetgl.Orbit, remap []hetgl.OrbitID, numNodes int) *Results {
	res := &Results{
		Orbits:    orbits,
		NumNodes:  numNodes,
		global:    make([]uint64, len(orbits)),
		perNode:   make(map[nodeOrbit]uint64, len(cs.perNode)),
		instances: cs.instances,
	}
	for runID, n := range cs.global {
		res.global[remap[runID]-1] = n
	}
	for key, n := range cs.perNode {
		key.Orbit = remap[key.Orbit]
		res.perNode[key] = n
	}
	return res
}

// GlobalCount returns the total occurrences of the given orbit.
func (res *Results) GlobalCount(orbit hetgl.OrbitID) uint64 {
	if orbit < 1 || int(orbit) > len(res.global) {
		return 0
	}
	return res.global[orbit-1]
}

// NodeCount returns how many occurrences of the orbit the node participates in.
func (res *Results) NodeCount(node hetgl.NodeID, orbit hetgl.OrbitID) uint64 {
	return res.perNode[nodeOrbit{Node: node, Orbit: orbit}]
}

// TotalInstances returns the number of classified subgraph instances.
func (res *Results) TotalInstances() uint64 { return res.instances }

// NodeOrbits fires the callback for each (orbit, count) the node participates
// in, in ascending orbit id order.
func (res *Results) NodeOrbits(node hetgl.NodeID, fn func(orbit hetgl.OrbitID, count uint64)) {
	for i := range res.Orbits {
		id := res.Orbits[i].ID
		if n := res.perNode[nodeOrbit{Node: node, Orbit: id}]; n > 0 {
			fn(id, n)
		}
	}
}

// WriteReport writes a "shape sig: count" line per orbit, in the manner of
// the classic graphlet count reports.
func (res *Results) WriteReport(out io.Writer) {
	for i := range res.Orbits {
		orb := &res.Orbits[i]
		fmt.Fprintf(out, "%-14s %s: %d\n", orb.Shape, orb.Sig.String(), res.global[i])
	}
}
