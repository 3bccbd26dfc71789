// Package catalog persists orbit signatures in a badger LSM database so that
// successive counting runs can share stable orbit identities.
//
// Key layout: signature bytes (which lead with the graphlet size, giving the
// LSM ordering by size for free) followed by a double-NUL suffix. Values are
// msgpack-encoded orbit records. A single state entry carries the catalog
// identity and per-size orbit tallies.
package catalog

import (
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
)

var gCatalogStateKey = []byte{0x00, 0x00, 0x01}

const (
	catalogMajorVers = 2024
	catalogMinorVers = 1
)

type catalogState struct {
	MajorVers int32    `msgpack:"maj"`
	MinorVers int32    `msgpack:"min"`
	CatalogID string   `msgpack:"id"`
	NumOrbits []uint64 `msgpack:"num"` // indexed by graphlet size
}

type orbitRecord struct {
	ID    uint32 `msgpack:"id"`
	Shape string `msgpack:"shape"`
}

type catalog struct {
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

// OpenCatalog opens (or creates) an orbit catalog.
// An empty DbPathName opens a throwaway in-memory catalog.
func OpenCatalog(opts hetgl.CatalogOpts) (hetgl.Catalog, error) {
	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer discipline, skip the bookkeeping
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(hetgl.ErrBadCatalogParam, "DbPathName must be specified for a read-only catalog")
		}
		dbOpts.InMemory = true
	}

	cat := &catalog{
		readOnly: opts.ReadOnly,
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = catalogMajorVers
		cat.state.MinorVers = catalogMinorVers
		cat.state.CatalogID = uuid.NewString()
		cat.state.NumOrbits = make([]uint64, hetgl.MaxGraphletSize+1)
	}

	if err == nil && (cat.state.MajorVers != catalogMajorVers || cat.state.MinorVers != catalogMinorVers) {
		err = errors.Errorf("catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &cat.state)
		})
	})
}

func (cat *catalog) flushState() {
	if !cat.stateDirty || cat.readOnly {
		return
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := msgpack.Marshal(&cat.state)
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err != nil {
		panic(err)
	}
	cat.stateDirty = false
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
	}
	return nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

// CatalogID returns the identity assigned when the catalog was created.
func (cat *catalog) CatalogID() string {
	return cat.state.CatalogID
}

func (cat *catalog) NumOrbits(forSize byte) int64 {
	if int(forSize) >= len(cat.state.NumOrbits) {
		return 0
	}
	return int64(cat.state.NumOrbits[forSize])
}

func formOrbitKey(key []byte, sig hetgl.Signature) []byte {
	key = append(key, sig...)
	key = append(key, 0, 0)
	return key
}

// TryAddOrbit adds the given orbit if its signature isn't cataloged yet.
//
// If true is returned, the orbit was not present and was added.
func (cat *catalog) TryAddOrbit(orb hetgl.Orbit) bool {
	if cat.readOnly {
		return false
	}

	var keyBuf [128]byte
	key := formOrbitKey(keyBuf[:0], orb.Sig)

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	val, err := msgpack.Marshal(&orbitRecord{
		ID:    uint32(orb.ID),
		Shape: orb.Shape,
	})
	if err != nil {
		panic(err)
	}
	if err = txn.Set(key, val); err != nil {
		panic(err)
	}
	if err = txn.Commit(); err != nil {
		panic(err)
	}

	size := int(orb.Sig.Size())
	for len(cat.state.NumOrbits) <= size {
		cat.state.NumOrbits = append(cat.state.NumOrbits, 0)
	}
	cat.state.NumOrbits[size]++
	cat.stateDirty = true
	return true
}

// LookupOrbit resolves a signature previously added to this catalog.
func (cat *catalog) LookupOrbit(sig hetgl.Signature) (hetgl.Orbit, bool) {
	var keyBuf [128]byte
	key := formOrbitKey(keyBuf[:0], sig)

	var rec orbitRecord
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return hetgl.Orbit{}, false
	}

	return hetgl.Orbit{
		ID:    hetgl.OrbitID(rec.ID),
		Sig:   sig.Clone(),
		Size:  sig.Size(),
		Shape: rec.Shape,
	}, true
}

// Select fires onHit with every cataloged orbit matching sel, in ascending
// (size, signature) order.
func (cat *catalog) Select(sel hetgl.OrbitSelector, onHit hetgl.OnOrbitHit) {
	minSize := sel.MinSize
	if minSize < hetgl.MinGraphletSize {
		minSize = hetgl.MinGraphletSize
	}
	maxSize := sel.MaxSize
	if maxSize == 0 || maxSize > hetgl.MaxGraphletSize {
		maxSize = hetgl.MaxGraphletSize
	}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	for size := minSize; size <= maxSize; size++ {
		prefix := [1]byte{size}
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         prefix[:],
		})

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) < 3 || key[len(key)-2] != 0 || key[len(key)-1] != 0 {
				continue
			}
			sig := hetgl.Signature(key[:len(key)-2]).Clone()

			var rec orbitRecord
			err := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &rec)
			})
			if err != nil {
				panic(err)
			}
			if sel.Shape != "" && sel.Shape != rec.Shape {
				continue
			}
			onHit <- hetgl.Orbit{
				ID:    hetgl.OrbitID(rec.ID),
				Sig:   sig,
				Size:  sig.Size(),
				Shape: rec.Shape,
			}
		}
		it.Close()
	}
}
