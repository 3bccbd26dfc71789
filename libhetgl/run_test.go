package libhetgl_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
	"github.com/LucaCappelletti94/heterogeneous-graphlets/libhetgl"
)

// countByShape folds the orbit table into shape -> total for terse assertions
// on homogeneous graphs where shape determines the orbit.
func countByShape(res *libhetgl.Results) map[string]uint64 {
	out := map[string]uint64{}
	for i := range res.Orbits {
		out[res.Orbits[i].Shape] += res.GlobalCount(res.Orbits[i].ID)
	}
	return out
}

func TestCountSquare(t *testing.T) {
	g := mustParse(t, "1-2-3-4-1")
	res, err := libhetgl.Count(context.Background(), g, libhetgl.Params{MaxSize: 4})
	require.NoError(t, err)

	// One orbit per shape: every node and edge carries the same type.
	require.Len(t, res.Orbits, 3)
	require.Equal(t, map[string]uint64{
		"edge":       4,
		"triad":      4,
		"four-cycle": 1,
	}, countByShape(res))
	require.Equal(t, uint64(9), res.TotalInstances())

	// Canonical order is ascending size; ids are dense from 1.
	for i := range res.Orbits {
		require.Equal(t, hetgl.OrbitID(i+1), res.Orbits[i].ID)
		if i > 0 {
			require.LessOrEqual(t, res.Orbits[i-1].Size, res.Orbits[i].Size)
		}
	}

	// The square is vertex-transitive: every node sees the same counts.
	for n := hetgl.NodeID(0); n < 4; n++ {
		for i := range res.Orbits {
			orb := &res.Orbits[i]
			var want uint64
			switch orb.Shape {
			case "edge":
				want = 2
			case "triad":
				want = 3
			case "four-cycle":
				want = 1
			}
			require.Equal(t, want, res.NodeCount(n, orb.ID), "node %d %s", n, orb.Shape)
		}
	}
}

func TestCountTypedSquare(t *testing.T) {
	// Alternating node types split the triad orbit in two: b-a-b and a-b-a.
	g := mustParse(t, "1a-2b-3a-4b-1a")
	res, err := libhetgl.Count(context.Background(), g, libhetgl.Params{MaxSize: 4})
	require.NoError(t, err)

	require.Len(t, res.Orbits, 4)
	shapes := map[string]int{}
	for i := range res.Orbits {
		shapes[res.Orbits[i].Shape]++
	}
	require.Equal(t, map[string]int{"edge": 1, "triad": 2, "four-cycle": 1}, shapes)

	for i := range res.Orbits {
		orb := &res.Orbits[i]
		switch orb.Shape {
		case "edge":
			require.Equal(t, uint64(4), res.GlobalCount(orb.ID))
		case "triad":
			require.Equal(t, uint64(2), res.GlobalCount(orb.ID))
		case "four-cycle":
			require.Equal(t, uint64(1), res.GlobalCount(orb.ID))
		}
	}
}

func TestCountDirectedOrbits(t *testing.T) {
	chain := mustParse(t, "1->2->3")
	inStar := mustParse(t, "1->2, 3->2")

	resChain, err := libhetgl.Count(context.Background(), chain, libhetgl.Params{MaxSize: 3})
	require.NoError(t, err)
	resStar, err := libhetgl.Count(context.Background(), inStar, libhetgl.Params{MaxSize: 3})
	require.NoError(t, err)

	chainTriad := triadSig(t, resChain)
	starTriad := triadSig(t, resStar)
	require.NotEqual(t, chainTriad, starTriad, "directed path and in-star must be distinct orbits")
}

func triadSig(t *testing.T, res *libhetgl.Results) string {
	for i := range res.Orbits {
		if res.Orbits[i].Shape == "triad" {
			return res.Orbits[i].Sig.Key()
		}
	}
	t.Fatal("no triad orbit found")
	return ""
}

func TestCountWorkerDeterminism(t *testing.T) {
	g := libhetgl.NewRandomGraph(libhetgl.RandomGraphOpts{
		RandomState:  0x5eed,
		NumNodes:     48,
		MaxDegree:    5,
		NumNodeTypes: 3,
		NumEdgeTypes: 2,
	})

	ctx := context.Background()
	serial, err := libhetgl.Count(ctx, g, libhetgl.Params{MaxSize: 4, Workers: 1})
	require.NoError(t, err)
	parallel, err := libhetgl.Count(ctx, g, libhetgl.Params{MaxSize: 4, Workers: 7})
	require.NoError(t, err)

	require.Equal(t, serial.TotalInstances(), parallel.TotalInstances())
	require.Equal(t, len(serial.Orbits), len(parallel.Orbits))
	for i := range serial.Orbits {
		a, b := &serial.Orbits[i], &parallel.Orbits[i]
		require.Equal(t, a.ID, b.ID)
		require.Equal(t, a.Sig, b.Sig)
		require.Equal(t, a.Shape, b.Shape)
		require.Equal(t, serial.GlobalCount(a.ID), parallel.GlobalCount(b.ID))
	}
	for n := hetgl.NodeID(0); int(n) < g.NumNodes(); n++ {
		for i := range serial.Orbits {
			id := serial.Orbits[i].ID
			require.Equal(t, serial.NodeCount(n, id), parallel.NodeCount(n, id),
				"node %d orbit %d", n, id)
		}
	}
}

func TestCountGlobalIsNodeSumOverK(t *testing.T) {
	// Each instance credits its K nodes once, so summing node counts for an
	// orbit gives K times its global count.
	g := libhetgl.NewRandomGraph(libhetgl.RandomGraphOpts{
		RandomState:  99,
		NumNodes:     24,
		MaxDegree:    4,
		NumNodeTypes: 2,
		NumEdgeTypes: 2,
	})
	res, err := libhetgl.Count(context.Background(), g, libhetgl.Params{MaxSize: 4})
	require.NoError(t, err)

	for i := range res.Orbits {
		orb := &res.Orbits[i]
		var sum uint64
		for n := hetgl.NodeID(0); int(n) < res.NumNodes; n++ {
			sum += res.NodeCount(n, orb.ID)
		}
		require.Equal(t, res.GlobalCount(orb.ID)*uint64(orb.Size), sum, "orbit %d", orb.ID)
	}
}

func TestCountCancellation(t *testing.T) {
	g := libhetgl.NewRandomGraph(libhetgl.RandomGraphOpts{
		RandomState: 7,
		NumNodes:    64,
		MaxDegree:   6,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := libhetgl.Count(ctx, g, libhetgl.Params{MaxSize: 5})
	require.Nil(t, res, "an aborted run returns no partial results")
	require.True(t, errors.Is(err, context.Canceled))
}

func TestCountParams(t *testing.T) {
	g := mustParse(t, "1-2")
	ctx := context.Background()

	_, err := libhetgl.Count(ctx, nil, libhetgl.Params{MaxSize: 3})
	require.True(t, errors.Is(err, hetgl.ErrNilGraph))

	_, err = libhetgl.Count(ctx, g, libhetgl.Params{MaxSize: 1})
	require.True(t, errors.Is(err, hetgl.ErrInvalidGraphletSize))

	_, err = libhetgl.Count(ctx, g, libhetgl.Params{MaxSize: hetgl.MaxGraphletSize + 1})
	require.True(t, errors.Is(err, hetgl.ErrInvalidGraphletSize))

	// More workers than nodes is fine.
	res, err := libhetgl.Count(ctx, g, libhetgl.Params{MaxSize: 2, Workers: 16})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.TotalInstances())
}
