package hetgl

import (
	"encoding/base32"
)

const (
	// MinGraphletSize is the smallest subgraph that forms a graphlet.
	MinGraphletSize = 2

	// MaxGraphletSize is the largest supported graphlet size.
	// The canonicalizer search is bounded by MaxGraphletSize! permutations
	// (pruned by node-type classes), so this stays small.
	MaxGraphletSize = 8
)

// NodeID is a dense zero-based node index into a Graph.
type NodeID int32

// NodeType is a small enumerated node label (the node "color").
type NodeType byte

// EdgeType is a small enumerated edge label.
type EdgeType byte

// Dir tags the orientation of an edge relative to its (A, B) endpoint order.
type Dir byte

const (
	DirNone Dir = 0 // undirected
	DirOut  Dir = 1 // A -> B
	DirIn   Dir = 2 // B -> A
)

// OrbitID identifies an orbit within one registry run (one-based).
// Zero is never a valid OrbitID.
type OrbitID uint32

// Signature is the canonical encoding of a graphlet instance: identical for
// all instances related by a type-preserving isomorphism, distinct otherwise.
// Layout: size byte, node types in canonic order, then the flattened
// (present, edge type, dir) tuple per node pair in canonic order.
// A Signature is only ever used as a lookup key and is never mutated.
type Signature []byte

// Size returns the graphlet size K this signature encodes.
func (sig Signature) Size() byte {
	if len(sig) == 0 {
		return 0
	}
	return sig[0]
}

// Key returns the signature as a map key.
func (sig Signature) Key() string {
	return string(sig)
}

func (sig Signature) Clone() Signature {
	return append(Signature{}, sig...)
}

// GeohashBase32Alphabet is the alphabet used for Base32Encoding
const GeohashBase32Alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// Base32Encoding is used to render signatures as compact display strings.
var Base32Encoding = base32.NewEncoding(GeohashBase32Alphabet).WithPadding(base32.NoPadding)

func (sig Signature) String() string {
	return Base32Encoding.EncodeToString(sig)
}

// Orbit is an equivalence class of graphlet occurrences under type-preserving
// isomorphism. Orbits are created once by a registry and immutable afterward.
type Orbit struct {
	ID    OrbitID
	Sig   Signature
	Size  byte
	Shape string // name of the unlabeled shape, e.g. "triangle"
}

// InstanceEdge is one induced edge of an Instance.
// A and B index into Instance.Nodes with A < B.
type InstanceEdge struct {
	A, B byte
	Type EdgeType
	Dir  Dir
}

// Instance is one enumerated occurrence of a connected induced subgraph.
// Nodes[0] is the anchor (the minimum NodeID of the subset).
//
// An Instance is transient: it is owned by the enumeration step that created
// it and must be copied if retained past the emit callback.
type Instance struct {
	Nodes []NodeID
	Types []NodeType
	Edges []InstanceEdge
}

// Size returns the number of nodes in the instance.
func (inst *Instance) Size() int {
	return len(inst.Nodes)
}

// OnInstance receives enumerated instances.
// Returning an error aborts the enumeration.
type OnInstance func(inst *Instance) error

// OnOrbitHit is a callback channel used to return orbits matching a selector.
type OnOrbitHit chan<- Orbit

// OrbitSelector selects orbits from a Catalog.
// A zero MaxSize means no upper bound.
type OrbitSelector struct {
	MinSize byte
	MaxSize byte
	Shape   string // if set, only orbits with this shape name
}

// CatalogOpts specifies params for opening an orbit catalog.
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Catalog wraps a database of orbit signatures, allowing stable orbit
// identities to be shared across runs.
type Catalog interface {

	// TryAddOrbit adds the given orbit if its signature is not yet present.
	// Returns true if the orbit was added; false if it already existed
	// (or the catalog is read-only).
	TryAddOrbit(orb Orbit) bool

	// LookupOrbit resolves a signature previously added to this catalog.
	LookupOrbit(sig Signature) (Orbit, bool)

	// NumOrbits returns the number of orbits recorded for a graphlet size.
	// An out of bounds size returns 0.
	NumOrbits(forSize byte) int64

	// Select fires onHit with every cataloged orbit matching sel.
	// The caller owns onHit and the catalog never closes it.
	Select(sel OrbitSelector, onHit OnOrbitHit)

	// IsReadOnly reports whether the catalog was opened read-only.
	IsReadOnly() bool

	Close() error
}
