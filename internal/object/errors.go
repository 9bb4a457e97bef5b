package object

import (
	"fmt"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/unityver"
)

// ObjectBoundsError reports a record whose bytes cannot be trusted: its
// declared range leaves the buffer (the object is unreadable) or its layout
// ran past the declared range (fields read before that point are kept).
type ObjectBoundsError struct {
	Container string
	PathID    int64
	Offset    int64
	Size      uint32
	Reason    string
}

func (e *ObjectBoundsError) Error() string {
	return fmt.Sprintf("object: %s/%d: range [%d, +%d): %s", e.Container, e.PathID, e.Offset, e.Size, e.Reason)
}

// UnknownClassError marks an object with neither an inline nor a static
// layout. The object is kept opaque.
type UnknownClassError struct {
	Container string
	PathID    int64
	ClassID   classid.ID
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("object: %s/%d: no layout for class %s (%d)", e.Container, e.PathID, e.ClassID, int32(e.ClassID))
}

// SchemaVersionGapError means the layout history has no entry for the
// object's engine version at some point; fields before the gap are kept.
type SchemaVersionGapError struct {
	Container string
	PathID    int64
	ClassID   classid.ID
	Version   unityver.Version
	After     string // last field read before the gap
}

func (e *SchemaVersionGapError) Error() string {
	return fmt.Sprintf("object: %s/%d: %s has no layout for engine %s after %q",
		e.Container, e.PathID, e.ClassID, e.Version, e.After)
}

// UnresolvedReferenceError describes a pointer into a container that is not
// part of the batch. It is a terminal state, not a failure of the batch.
type UnresolvedReferenceError struct {
	Container string
	Pointer   PPtr
	Target    string // external path, empty when the file index is out of range
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("object: %s: pointer %s has no external entry", e.Container, e.Pointer)
	}
	return fmt.Sprintf("object: %s: pointer %s targets %s which is not loaded", e.Container, e.Pointer, e.Target)
}
