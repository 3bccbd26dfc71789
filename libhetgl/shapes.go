package libhetgl

import (
	"fmt"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

// ShapeFromSignature names the unlabeled shape a signature encodes, in the
// conventional graphlet vocabulary (triad, triangle, four-star, four-cycle,
// tailed-tri, chordal-cycle, four-clique). Node/edge types, multi-edges and
// direction do not change the name: the shape describes connectivity only.
// Sizes without conventional names fall back to "g<K>-m<pairs>".
func ShapeFromSignature(sig hetgl.Signature) (string, error) {
	K := int(sig.Size())
	if K < hetgl.MinGraphletSize || K > hetgl.MaxGraphletSize {
		return "", hetgl.ErrBadOrbitRecord
	}

	var deg [hetgl.MaxGraphletSize]int
	pos := 1 + K
	m := 0 // connected unordered pairs

	for i := 0; i < K; i++ {
		for j := i + 1; j < K; j++ {
			if pos >= len(sig) {
				return "", hetgl.ErrBadOrbitRecord
			}
			n := int(sig[pos])
			pos += 1 + 2*n
			if n > 0 {
				m++
				deg[i]++
				deg[j]++
			}
		}
	}
	if pos != len(sig) {
		return "", hetgl.ErrBadOrbitRecord
	}

	maxDeg := 0
	for i := 0; i < K; i++ {
		if deg[i] > maxDeg {
			maxDeg = deg[i]
		}
	}

	switch K {
	case 2:
		return "edge", nil
	case 3:
		if m == 3 {
			return "triangle", nil
		}
		return "triad", nil
	case 4:
		switch m {
		case 3:
			if maxDeg == 3 {
				return "four-star", nil
			}
			return "four-path", nil
		case 4:
			if maxDeg == 3 {
				return "tailed-tri", nil
			}
			return "four-cycle", nil
		case 5:
			return "chordal-cycle", nil
		case 6:
			return "four-clique", nil
		}
	}

	return fmt.Sprintf("g%d-m%d", K, m), nil
}
