package hetgl

import "errors"

// Errors
var (
	ErrNilGraph            = errors.New("nil graph")
	ErrInvalidNode         = errors.New("node id out of range")
	ErrInvalidGraphletSize = errors.New("graphlet size out of range")
	ErrCountOverflow       = errors.New("orbit count reached the representable maximum")
	ErrBadGraphExpr        = errors.New("bad graph expression")
	ErrBadNodeType         = errors.New("bad node type tag")
	ErrBadEdgeType         = errors.New("bad edge type tag")
	ErrBadCatalogParam     = errors.New("bad catalog param")
	ErrCatalogReadOnly     = errors.New("catalog is read-only")
	ErrBadOrbitRecord      = errors.New("bad orbit record encoding")
)
