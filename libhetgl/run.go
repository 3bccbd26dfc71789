package libhetgl

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// Params configures a counting run.
type Params struct {
	// MaxSize is the largest graphlet size to enumerate (inclusive).
	// Every size 2..=MaxSize is counted in the same pass.
	MaxSize int

	// Workers is the number of enumeration workers; <= 0 means GOMAXPROCS.
	Workers int
}

// Count enumerates, classifies and aggregates every graphlet of size
// 2..=MaxSize in g and returns the sealed results.
//
// Anchors partition the work: each node's expansion subtree is self-contained,
// so workers pull anchors from a shared cursor and never coordinate during
// enumeration. The registry is the only contended structure; counts are
// per-worker and merged once at the end. Cancellation is checked between
// anchors; an aborted or failed run returns no partial results.
func Count(ctx context.Context, g *Graph, params Params) (*Results, error) {
	if g == nil {
		return nil, hetgl.ErrNilGraph
	}
	if params.MaxSize < hetgl.MinGraphletSize || params.MaxSize > hetgl.MaxGraphletSize {
		return nil, hetgl.ErrInvalidGraphletSize
	}

	workers := params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	numNodes := g.NumNodes()
	if workers > numNodes && numNodes > 0 {
		workers = numNodes
	}

	reg := NewRegistry()

	var (
		nextAnchor atomic.Int64
		mu         sync.Mutex
		merged     = NewCountSet()
	)

	grp, ctx := errgroup.WithContext(ctx)
	for wi := 0; wi < workers; wi++ {
		grp.Go(func() error {
			en, err := NewEnumerator(g, params.MaxSize)
			if err != nil {
				return err
			}
			counts := NewCountSet()

			classify := func(inst *hetgl.Instance) error {
				sig, err := CanonicalSignature(inst)
				if err != nil {
					return err
				}
				counts.AddInstance(inst, reg.ResolveSignature(sig))
				return nil
			}

			for {
				anchor := hetgl.NodeID(nextAnchor.Add(1) - 1)
				if int(anchor) >= numNodes {
					break
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := en.EnumFromAnchor(anchor, classify); err != nil {
					return err
				}
			}

			mu.Lock()
			merged.MergeFrom(counts)
			mu.Unlock()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if merged.Saturated() {
		return nil, hetgl.ErrCountOverflow
	}

	orbits, remap := reg.Snapshot()
	return sealResults(merged, orbits, remap, numNodes), nil
}
