// Package graph merges decoded containers into one batch: a global
// (container, path ID) index, lazy pointer resolution and class queries.
package graph

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/object"
	"unity-asset-reader/internal/serialized"
)

// Key addresses one object in a batch.
type Key struct {
	Container string
	PathID    int64
}

func (k Key) String() string { return fmt.Sprintf("%s/%d", k.Container, k.PathID) }

// Unit is one loaded container with its decoded objects in table order.
type Unit struct {
	Container *serialized.Container
	Objects   []*object.Object
}

// Batch is the read-only result of loading a set of containers. Every
// accessor is safe for concurrent use.
type Batch struct {
	Units     []*Unit
	Resources map[string][]byte // lower-cased base name -> bytes

	arena   []*object.Object
	index   map[Key]uint32
	owner   []int // arena ordinal -> unit index
	byName  map[string]int
	byBase  map[string]int
	extern  [][]int // unit -> external slot -> unit index or -1
	byClass map[classid.ID]*roaring.Bitmap
	typed   *roaring.Bitmap
	opaque  *roaring.Bitmap

	mu   sync.RWMutex
	memo map[memoKey]Resolution
}

// BaseName folds a container or resource path to the name external
// references are matched by.
func BaseName(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.ToLower(path.Base(p))
}

// Build indexes units. Units are ordered by container name first so
// enumeration does not depend on load order. Container names must be
// unique within a batch.
func Build(units []*Unit, resources map[string][]byte) (*Batch, error) {
	sorted := make([]*Unit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Container.Name < sorted[j].Container.Name
	})

	b := &Batch{
		Units:     sorted,
		Resources: make(map[string][]byte, len(resources)),
		index:     make(map[Key]uint32),
		byName:    make(map[string]int, len(sorted)),
		byBase:    make(map[string]int, len(sorted)),
		byClass:   make(map[classid.ID]*roaring.Bitmap),
		typed:     roaring.New(),
		opaque:    roaring.New(),
		memo:      make(map[memoKey]Resolution),
	}
	for name, data := range resources {
		b.Resources[BaseName(name)] = data
	}

	for ui, u := range sorted {
		name := u.Container.Name
		if _, dup := b.byName[name]; dup {
			return nil, fmt.Errorf("graph: container %s loaded twice", name)
		}
		b.byName[name] = ui
		base := BaseName(name)
		if _, taken := b.byBase[base]; !taken {
			b.byBase[base] = ui
		}

		for _, o := range u.Objects {
			if o == nil {
				continue
			}
			ord := uint32(len(b.arena))
			b.arena = append(b.arena, o)
			b.owner = append(b.owner, ui)
			b.index[Key{name, o.PathID}] = ord

			if !o.Typed() {
				b.opaque.Add(ord)
				continue
			}
			b.typed.Add(ord)
			bm, ok := b.byClass[o.ClassID]
			if !ok {
				bm = roaring.New()
				b.byClass[o.ClassID] = bm
			}
			bm.Add(ord)
		}
	}

	b.extern = make([][]int, len(sorted))
	for ui, u := range sorted {
		slots := make([]int, len(u.Container.Externals))
		for i, ext := range u.Container.Externals {
			slots[i] = -1
			if target, ok := b.byBase[BaseName(ext.PathName)]; ok {
				slots[i] = target
			}
		}
		b.extern[ui] = slots
	}
	return b, nil
}

// Len is the number of objects in the batch.
func (b *Batch) Len() int { return len(b.arena) }

// Objects returns every object, unit by unit in table order.
func (b *Batch) Objects() []*object.Object { return b.arena }

// Container returns a loaded container by name.
func (b *Batch) Container(name string) (*serialized.Container, bool) {
	ui, ok := b.byName[name]
	if !ok {
		return nil, false
	}
	return b.Units[ui].Container, true
}

// Lookup finds an object by container name and path ID.
func (b *Batch) Lookup(container string, pathID int64) (*object.Object, bool) {
	ord, ok := b.index[Key{container, pathID}]
	if !ok {
		return nil, false
	}
	return b.arena[ord], true
}

// Key returns the batch key of an object.
func (b *Batch) Key(o *object.Object) Key {
	return Key{o.Container.Name, o.PathID}
}

func (b *Batch) collect(bm *roaring.Bitmap) []*object.Object {
	if bm == nil {
		return nil
	}
	out := make([]*object.Object, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, b.arena[it.Next()])
	}
	return out
}

// OfClass returns the decoded objects of the given classes in arena order.
// Opaque and unreadable objects never match.
func (b *Batch) OfClass(ids ...classid.ID) []*object.Object {
	var bms []*roaring.Bitmap
	for _, id := range ids {
		if bm, ok := b.byClass[id]; ok {
			bms = append(bms, bm)
		}
	}
	switch len(bms) {
	case 0:
		return nil
	case 1:
		return b.collect(bms[0])
	}
	return b.collect(roaring.FastOr(bms...))
}

// Typed returns every object that carries decoded fields.
func (b *Batch) Typed() []*object.Object { return b.collect(b.typed) }

// Opaque returns objects kept only as raw ranges.
func (b *Batch) Opaque() []*object.Object { return b.collect(b.opaque) }

// ClassCounts tallies decoded objects per class.
func (b *Batch) ClassCounts() map[classid.ID]int {
	out := make(map[classid.ID]int, len(b.byClass))
	for id, bm := range b.byClass {
		out[id] = int(bm.GetCardinality())
	}
	return out
}

// Raw returns the exact backing bytes of the object at key.
func (b *Batch) Raw(k Key) ([]byte, error) {
	o, ok := b.Lookup(k.Container, k.PathID)
	if !ok {
		return nil, fmt.Errorf("graph: no object %s", k)
	}
	raw := o.Raw()
	if raw == nil {
		return nil, fmt.Errorf("graph: object %s: %w", k, o.Err)
	}
	return raw, nil
}
