// Package schema describes how each class is laid out on disk, per engine
// version, as ordered blocks of fields guarded by version gates.
package schema

import (
	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/unityver"
)

// Kind is the wire shape of a field.
type Kind uint8

const (
	KindBool Kind = iota
	KindI8
	KindU8
	KindI16
	KindU16
	KindI32
	KindU32
	KindI64
	KindU64
	KindF32
	KindF64
	KindString // i32 length, bytes, align 4
	KindFixed  // Size raw bytes
	KindArray  // i32 count, Elem repeated
	KindStruct // nested Blocks
	KindPPtr   // i32 file index, path ID (i64 from format 14, else i32)
	KindBlob   // i32 length, bytes, align 4
	KindAlign  // marker: align to 4, reads nothing
)

var kindNames = [...]string{
	"bool", "i8", "u8", "i16", "u16", "i32", "u32", "i64", "u64",
	"f32", "f64", "string", "fixed", "array", "struct", "pptr", "blob", "align",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind?"
}

// Width is the byte size of primitive kinds, 0 otherwise.
func (k Kind) Width() int {
	switch k {
	case KindBool, KindI8, KindU8:
		return 1
	case KindI16, KindU16:
		return 2
	case KindI32, KindU32, KindF32:
		return 4
	case KindI64, KindU64, KindF64:
		return 8
	}
	return 0
}

// Field is one node of a layout.
type Field struct {
	Name   string
	Type   string // engine type name, for listings
	Kind   Kind
	Size   int    // KindFixed byte count
	Align  bool   // align to 4 after the field
	Elem   *Field // KindArray element
	Blocks []Block
}

// Block is a run of fields read only when Gate matches the object's engine
// version. A block with Alternatives ignores Gate and Fields: the first
// alternative whose gate matches is read, and none matching is a gap in the
// known layout history.
type Block struct {
	Gate         unityver.Gate
	Fields       []Field
	Alternatives []Block
}

// Source tells where a schema came from.
type Source uint8

const (
	Static Source = iota
	Inline
)

func (s Source) String() string {
	if s == Inline {
		return "inline"
	}
	return "static"
}

// Schema is the full layout of one class.
type Schema struct {
	Class  classid.ID
	Name   string
	Source Source
	Blocks []Block
}

// Active returns the blocks that apply at version v, flattening
// alternatives. ok is false when a one-of block has no matching
// alternative; the returned blocks then stop before it.
func Active(blocks []Block, v unityver.Version) (out []Block, ok bool) {
	for _, b := range blocks {
		if b.Alternatives != nil {
			found := false
			for _, alt := range b.Alternatives {
				if alt.Gate.Match(v) {
					out = append(out, alt)
					found = true
					break
				}
			}
			if !found {
				return out, false
			}
			continue
		}
		if b.Gate.Match(v) {
			out = append(out, b)
		}
	}
	return out, true
}
