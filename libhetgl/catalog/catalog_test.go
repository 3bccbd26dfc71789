package catalog_test

import (
	"os"
	"path"
	"testing"

	"github.com/pkg/errors"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
	"github.com/LucaCappelletti94/heterogeneous-graphlets/libhetgl/catalog"
)

// Hand-rolled signatures: [K, types.., per-pair cells].
var (
	sigEdge  = hetgl.Signature{2, 0, 0, 1, 0, 0}
	sigEdgeT = hetgl.Signature{2, 0, 1, 1, 0, 0}
	sigTriad = hetgl.Signature{3, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0}
)

func testOrbits() []hetgl.Orbit {
	return []hetgl.Orbit{
		{ID: 1, Sig: sigEdge, Size: 2, Shape: "edge"},
		{ID: 2, Sig: sigEdgeT, Size: 2, Shape: "edge"},
		{ID: 3, Sig: sigTriad, Size: 3, Shape: "triad"},
	}
}

func collectOrbits(cat hetgl.Catalog, sel hetgl.OrbitSelector) []hetgl.Orbit {
	onHit := make(chan hetgl.Orbit)
	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()
	var out []hetgl.Orbit
	for orb := range onHit {
		out = append(out, orb)
	}
	return out
}

func TestCatalogBasics(t *testing.T) {
	dir, err := os.MkdirTemp("", "hetgl*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	dbPath := path.Join(dir, "TestCatalogBasics")

	cat, err := catalog.OpenCatalog(hetgl.CatalogOpts{DbPathName: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	if cat.IsReadOnly() {
		t.Fatal("fresh catalog must be writable")
	}

	for _, orb := range testOrbits() {
		if !cat.TryAddOrbit(orb) {
			t.Fatal("first add must report new")
		}
		if cat.TryAddOrbit(orb) {
			t.Fatal("second add must report already present")
		}
	}
	if cat.NumOrbits(2) != 2 || cat.NumOrbits(3) != 1 {
		t.Fatal("per-size orbit tally")
	}
	if cat.NumOrbits(200) != 0 {
		t.Fatal("out of bounds size")
	}

	orb, found := cat.LookupOrbit(sigEdgeT)
	if !found || orb.ID != 2 || orb.Shape != "edge" || orb.Size != 2 {
		t.Fatalf("lookup: %+v", orb)
	}
	if _, found := cat.LookupOrbit(hetgl.Signature{2, 5, 5, 0}); found {
		t.Fatal("phantom lookup")
	}

	if err := cat.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen: orbits and tallies must have persisted.
	cat, err = catalog.OpenCatalog(hetgl.CatalogOpts{DbPathName: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	if cat.NumOrbits(2) != 2 || cat.NumOrbits(3) != 1 {
		t.Fatal("tally lost across reopen")
	}
	if orb, found := cat.LookupOrbit(sigTriad); !found || orb.Shape != "triad" {
		t.Fatal("orbit lost across reopen")
	}
	if cat.TryAddOrbit(testOrbits()[0]) {
		t.Fatal("reopen must remember prior orbits")
	}
}

func TestCatalogSelect(t *testing.T) {
	cat, err := catalog.OpenCatalog(hetgl.CatalogOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	for _, orb := range testOrbits() {
		cat.TryAddOrbit(orb)
	}

	all := collectOrbits(cat, hetgl.OrbitSelector{})
	if len(all) != 3 {
		t.Fatalf("select all: %d hits", len(all))
	}
	// Ascending (size, signature) order.
	for i := 1; i < len(all); i++ {
		if all[i-1].Size > all[i].Size {
			t.Fatal("selection out of size order")
		}
	}

	size2 := collectOrbits(cat, hetgl.OrbitSelector{MinSize: 2, MaxSize: 2})
	if len(size2) != 2 {
		t.Fatalf("size filter: %d hits", len(size2))
	}

	triads := collectOrbits(cat, hetgl.OrbitSelector{Shape: "triad"})
	if len(triads) != 1 || triads[0].Shape != "triad" {
		t.Fatalf("shape filter: %+v", triads)
	}
}

func TestCatalogInMemory(t *testing.T) {
	cat, err := catalog.OpenCatalog(hetgl.CatalogOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	if !cat.TryAddOrbit(testOrbits()[0]) {
		t.Fatal("in-memory add")
	}
	if _, found := cat.LookupOrbit(sigEdge); !found {
		t.Fatal("in-memory lookup")
	}
}

func TestCatalogReadOnly(t *testing.T) {
	// A read-only catalog needs a backing path.
	_, err := catalog.OpenCatalog(hetgl.CatalogOpts{ReadOnly: true})
	if !errors.Is(err, hetgl.ErrBadCatalogParam) {
		t.Fatal("expected ErrBadCatalogParam")
	}

	dir, err := os.MkdirTemp("", "hetgl*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	dbPath := path.Join(dir, "TestCatalogReadOnly")

	cat, err := catalog.OpenCatalog(hetgl.CatalogOpts{DbPathName: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	cat.TryAddOrbit(testOrbits()[0])
	cat.Close()

	cat, err = catalog.OpenCatalog(hetgl.CatalogOpts{DbPathName: dbPath, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	if !cat.IsReadOnly() {
		t.Fatal("read-only flag lost")
	}
	if cat.TryAddOrbit(testOrbits()[1]) {
		t.Fatal("read-only catalog must refuse writes")
	}
	if _, found := cat.LookupOrbit(sigEdge); !found {
		t.Fatal("read-only lookup")
	}
}
