package libhetgl

import (
	"bytes"
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// Registry is the shared signature -> orbit id table for one run.
//
// ResolveSignature is the single insert-or-get contract of §5: the critical
// section is one map probe, so a mutex serializes concurrent discovery of the
// same new signature without two ids ever being issued for it. The registry
// is append-only for the lifetime of a run.
type Registry struct {
	mu     sync.Mutex
	bySig  map[string]hetgl.OrbitID
	orbits []hetgl.Orbit // orbits[id-1]
}

func NewRegistry() *Registry {
	return &Registry{
		bySig: make(map[string]hetgl.OrbitID),
	}
}

// ResolveSignature returns the orbit id for sig, assigning the next
// sequential id on first sight. The signature is copied on insert, so the
// caller may reuse its buffer.
func (reg *Registry) ResolveSignature(sig hetgl.Signature) hetgl.OrbitID {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if id, ok := reg.bySig[sig.Key()]; ok {
		return id
	}

	id := hetgl.OrbitID(len(reg.orbits) + 1)
	own := sig.Clone()
	shape, err := ShapeFromSignature(own)
	if err != nil {
		// Signatures only ever come from CanonicalSignature; a malformed one
		// is an internal invariant violation, not caller input.
		panic(err)
	}
	reg.orbits = append(reg.orbits, hetgl.Orbit{
		ID:    id,
		Sig:   own,
		Size:  own.Size(),
		Shape: shape,
	})
	reg.bySig[own.Key()] = id
	return id
}

// NumOrbits returns the number of orbits registered so far.
func (reg *Registry) NumOrbits() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.orbits)
}

// Lookup returns the orbit registered under the given id.
func (reg *Registry) Lookup(id hetgl.OrbitID) (hetgl.Orbit, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if id < 1 || int(id) > len(reg.orbits) {
		return hetgl.Orbit{}, false
	}
	return reg.orbits[id-1], true
}

// Snapshot returns every registered orbit relabeled into canonical order
// (ascending size, then signature bytes), plus the remap from run-local id
// to canonical id. Discovery order depends on worker scheduling; canonical
// order does not, which is what makes multi-worker output reproducible.
func (reg *Registry) Snapshot() (orbits []hetgl.Orbit, remap []hetgl.OrbitID) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	tree := redblacktree.NewWith(func(a, b interface{}) int {
		sa := a.(hetgl.Signature)
		sb := b.(hetgl.Signature)
		if sa.Size() != sb.Size() {
			return int(sa.Size()) - int(sb.Size())
		}
		return bytes.Compare(sa, sb)
	})
	for i := range reg.orbits {
		tree.Put(reg.orbits[i].Sig, reg.orbits[i])
	}

	orbits = make([]hetgl.Orbit, 0, len(reg.orbits))
	remap = make([]hetgl.OrbitID, len(reg.orbits)+1)

	itr := tree.Iterator()
	for itr.Next() {
		orb := itr.Value().(hetgl.Orbit)
		runID := orb.ID
		orb.ID = hetgl.OrbitID(len(orbits) + 1)
		orbits = append(orbits, orb)
		remap[runID] = orb.ID
	}
	return orbits, remap
}
