package graph

import (
	"fmt"

	"unity-asset-reader/internal/object"
)

// State is the outcome of resolving a pointer.
type State uint8

const (
	StateNull     State = iota // path ID 0
	StateResolved              // target found in the batch
	StateExternal              // target container is not loaded
	StateMissing               // container loaded, object absent, or file index out of range
)

var stateNames = [...]string{"null", "resolved", "external", "missing"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// Resolution is a memoized pointer lookup. Target is set only for
// StateResolved; Err carries an *object.UnresolvedReferenceError for
// StateExternal and StateMissing.
type Resolution struct {
	State  State
	Target *object.Object
	Key    Key
	Err    error
}

// The same pointer value means different things in different containers.
type memoKey struct {
	unit int
	ptr  object.PPtr
}

// Resolve follows p as written inside container from. Results are
// memoized per (container, pointer) and never change for a batch.
func (b *Batch) Resolve(from string, p object.PPtr) Resolution {
	ui, ok := b.byName[from]
	if !ok {
		return Resolution{State: StateMissing, Err: &object.UnresolvedReferenceError{Container: from, Pointer: p}}
	}
	if p.IsNull() {
		return Resolution{State: StateNull}
	}
	mk := memoKey{ui, p}

	b.mu.RLock()
	r, hit := b.memo[mk]
	b.mu.RUnlock()
	if hit {
		return r
	}

	r = b.resolve(ui, p)

	b.mu.Lock()
	if prev, exists := b.memo[mk]; exists {
		b.mu.Unlock()
		return prev
	}
	b.memo[mk] = r
	b.mu.Unlock()
	return r
}

// ResolveFrom resolves a pointer read from o's fields.
func (b *Batch) ResolveFrom(o *object.Object, p object.PPtr) Resolution {
	return b.Resolve(o.Container.Name, p)
}

func (b *Batch) resolve(ui int, p object.PPtr) Resolution {
	c := b.Units[ui].Container
	target := ui
	if p.FileID != 0 {
		slot := int(p.FileID) - 1
		if slot < 0 || slot >= len(b.extern[ui]) {
			return Resolution{State: StateMissing, Err: &object.UnresolvedReferenceError{Container: c.Name, Pointer: p}}
		}
		target = b.extern[ui][slot]
		if target < 0 {
			return Resolution{State: StateExternal, Err: &object.UnresolvedReferenceError{
				Container: c.Name, Pointer: p, Target: c.Externals[slot].PathName,
			}}
		}
	}

	k := Key{b.Units[target].Container.Name, p.PathID}
	ord, ok := b.index[k]
	if !ok {
		return Resolution{State: StateMissing, Key: k, Err: &object.UnresolvedReferenceError{
			Container: c.Name, Pointer: p, Target: k.String(),
		}}
	}
	return Resolution{State: StateResolved, Target: b.arena[ord], Key: k}
}

// ExternalTarget names the loaded container that file index fileID of
// container from points at.
func (b *Batch) ExternalTarget(from string, fileID int32) (string, bool) {
	ui, ok := b.byName[from]
	if !ok || fileID < 1 || int(fileID) > len(b.extern[ui]) {
		return "", false
	}
	target := b.extern[ui][fileID-1]
	if target < 0 {
		return "", false
	}
	return b.Units[target].Container.Name, true
}
