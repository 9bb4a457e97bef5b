// Package fixture writes small in-memory containers for tests.
package fixture

import (
	"encoding/binary"
	"math"
)

// Writer appends primitives in one byte order. Alignment is computed from
// base+len so a payload aligns the same way it will inside the container.
type Writer struct {
	order binary.ByteOrder
	base  int
	buf   []byte
}

// NewWriter returns a writer whose first byte sits at an aligned position.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// LE is a little-endian payload writer.
func LE() *Writer { return NewWriter(binary.LittleEndian) }

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U8(1)
	}
	return w.U8(0)
}

func (w *Writer) U16(v uint16) *Writer {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

func (w *Writer) I16(v int16) *Writer { return w.U16(uint16(v)) }

func (w *Writer) U32(v uint32) *Writer {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

func (w *Writer) I32(v int32) *Writer { return w.U32(uint32(v)) }

func (w *Writer) U64(v uint64) *Writer {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

func (w *Writer) I64(v int64) *Writer { return w.U64(uint64(v)) }

func (w *Writer) F32(v float32) *Writer { return w.U32(math.Float32bits(v)) }

// Raw appends bytes as-is.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Align pads with zeros to a multiple of 4.
func (w *Writer) Align() *Writer {
	for (w.base+len(w.buf))%4 != 0 {
		w.buf = append(w.buf, 0)
	}
	return w
}

// CStr appends a NUL-terminated string.
func (w *Writer) CStr(s string) *Writer {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	return w
}

// Str appends a length-prefixed string and aligns.
func (w *Writer) Str(s string) *Writer {
	w.I32(int32(len(s)))
	w.buf = append(w.buf, s...)
	return w.Align()
}

// Blob appends a length-prefixed byte array and aligns.
func (w *Writer) Blob(b []byte) *Writer {
	w.I32(int32(len(b)))
	w.buf = append(w.buf, b...)
	return w.Align()
}

// PPtr appends a pointer in the wide (format 14+) layout.
func (w *Writer) PPtr(fileID int32, pathID int64) *Writer {
	return w.I32(fileID).I64(pathID)
}

func (w *Writer) Vec2(x, y float32) *Writer { return w.F32(x).F32(y) }
func (w *Writer) Vec3(x, y, z float32) *Writer { return w.F32(x).F32(y).F32(z) }
func (w *Writer) Quat(x, y, z, ww float32) *Writer { return w.F32(x).F32(y).F32(z).F32(ww) }

// Floats appends an i32 count followed by the values.
func (w *Writer) Floats(vs ...float32) *Writer {
	w.I32(int32(len(vs)))
	for _, v := range vs {
		w.F32(v)
	}
	return w
}
