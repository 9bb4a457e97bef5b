package schema

import "unity-asset-reader/internal/unityver"

// Helpers for writing class tables.

func prim(name, typ string, k Kind) Field { return Field{Name: name, Type: typ, Kind: k} }

func Bool(name string) Field { return prim(name, "bool", KindBool) }
func U8(name string) Field { return prim(name, "UInt8", KindU8) }
func I16(name string) Field { return prim(name, "SInt16", KindI16) }
func U16(name string) Field { return prim(name, "UInt16", KindU16) }
func I32(name string) Field { return prim(name, "int", KindI32) }
func U32(name string) Field { return prim(name, "unsigned int", KindU32) }
func I64(name string) Field { return prim(name, "SInt64", KindI64) }
func U64(name string) Field { return prim(name, "UInt64", KindU64) }
func F32(name string) Field { return prim(name, "float", KindF32) }
func Str(name string) Field { return prim(name, "string", KindString) }
func Blob(name string) Field { return prim(name, "TypelessData", KindBlob) }
func AlignMark() Field { return Field{Kind: KindAlign} }
func Bytes16(name string) Field { return Field{Name: name, Type: "GUID", Kind: KindFixed, Size: 16} }

// PPtr is a pointer field to the named class.
func PPtr(name, target string) Field {
	return Field{Name: name, Type: "PPtr<" + target + ">", Kind: KindPPtr}
}

// Array is an i32-counted vector of elem.
func Array(name string, elem Field) Field {
	elem.Name = "data"
	return Field{Name: name, Type: "vector", Kind: KindArray, Elem: &elem}
}

// Struct is a nested record with unconditional fields.
func Struct(name, typ string, fields ...Field) Field {
	return Field{Name: name, Type: typ, Kind: KindStruct, Blocks: []Block{All(fields...)}}
}

// StructOf is a nested record with its own gated blocks.
func StructOf(name, typ string, blocks ...Block) Field {
	return Field{Name: name, Type: typ, Kind: KindStruct, Blocks: blocks}
}

// Aligned returns f with align-after set.
func (f Field) Aligned() Field {
	f.Align = true
	return f
}

func All(fields ...Field) Block { return Block{Gate: unityver.Always(), Fields: fields} }

func When(g unityver.Gate, fields ...Field) Block { return Block{Gate: g, Fields: fields} }

// OneOf picks the first alternative whose gate matches.
func OneOf(alts ...Block) Block { return Block{Alternatives: alts} }

func Vec2(name string) Field { return Struct(name, "Vector2f", F32("x"), F32("y")) }
func Vec3(name string) Field { return Struct(name, "Vector3f", F32("x"), F32("y"), F32("z")) }
func Vec4(name string) Field { return Struct(name, "Vector4f", F32("x"), F32("y"), F32("z"), F32("w")) }
func Quat(name string) Field {
	return Struct(name, "Quaternionf", F32("x"), F32("y"), F32("z"), F32("w"))
}

// AABB is a center/extent box.
func AABB(name string) Field { return Struct(name, "AABB", Vec3("m_Center"), Vec3("m_Extent")) }

// Matrix is a 4x4 float matrix stored as e00..e33 in column-major order.
func Matrix(name string) Field {
	fs := make([]Field, 0, 16)
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			fs = append(fs, F32("e"+string(rune('0'+row))+string(rune('0'+col))))
		}
	}
	return Struct(name, "Matrix4x4f", fs...)
}

// StreamingInfo locates bytes held in a side resource file. The offset
// widened to 64 bits in 2020.1.
func StreamingInfo(name string) Field {
	return StructOf(name, "StreamingInfo",
		OneOf(
			When(since(2020, 1, 0), U64("offset")),
			Otherwise(U32("offset")),
		),
		All(U32("size"), Str("path")),
	)
}

// Otherwise is the unconditional last alternative of a OneOf.
func Otherwise(fields ...Field) Block { return All(fields...) }

func v(major, minor, patch int) unityver.Version { return unityver.V(major, minor, patch) }

func since(major, minor, patch int) unityver.Gate { return unityver.AtLeast(v(major, minor, patch)) }
func before(major, minor, patch int) unityver.Gate { return unityver.Below(v(major, minor, patch)) }
func between(lo, hi unityver.Version) unityver.Gate { return unityver.Between(lo, hi) }
