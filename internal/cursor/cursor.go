package cursor

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"
)

// Alignment is the stream alignment used by serialized containers.
const Alignment = 4

// Cursor reads primitives sequentially from a byte buffer.
// Positions are absolute offsets into the buffer so alignment matches the
// file layout even when the cursor is windowed onto one object.
//
// A read past the end of the window returns the zero value, moves the
// cursor to the end and sets the sticky overrun flag.
type Cursor struct {
	data    []byte
	off     int
	end     int
	order   binary.ByteOrder
	overrun bool
}

// New returns a cursor over the whole buffer.
func New(data []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{data: data, end: len(data), order: order}
}

// Window returns a new cursor over data[start:end], positioned at start.
// Bounds are clamped to the underlying buffer.
func (c *Cursor) Window(start, end int) *Cursor {
	if end > len(c.data) {
		end = len(c.data)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return &Cursor{data: c.data, off: start, end: end, order: c.order}
}

func (c *Cursor) Order() binary.ByteOrder { return c.order }
func (c *Cursor) SetOrder(order binary.ByteOrder) { c.order = order }

// Pos returns the absolute position.
func (c *Cursor) Pos() int { return c.off }

// End returns the absolute end of the readable window.
func (c *Cursor) End() int { return c.end }

// Remaining returns the number of unread bytes in the window.
func (c *Cursor) Remaining() int {
	if c.off >= c.end {
		return 0
	}
	return c.end - c.off
}

// Overrun reports whether any read went past the window.
func (c *Cursor) Overrun() bool { return c.overrun }

// Fail marks the cursor as overrun and moves it to the end.
func (c *Cursor) Fail() {
	c.overrun = true
	c.off = c.end
}

// Seek moves to an absolute position inside the window.
func (c *Cursor) Seek(pos int) bool {
	if pos < 0 || pos > c.end {
		c.Fail()
		return false
	}
	c.off = pos
	return true
}

// Skip advances n bytes.
func (c *Cursor) Skip(n int) {
	if n < 0 || c.off+n > c.end {
		c.Fail()
		return
	}
	c.off += n
}

// Align advances to the next multiple of n. Aligned positions are left alone.
// Padding that would cross the window end stops at the end; trailing pad is
// not always counted in an object's declared size.
func (c *Cursor) Align(n int) {
	if n <= 1 {
		return
	}
	if mod := c.off % n; mod != 0 {
		c.off = min(c.off+n-mod, max(c.end, c.off))
	}
}

// Align4 aligns to the container stream alignment.
func (c *Cursor) Align4() { c.Align(Alignment) }

func (c *Cursor) take(n int) []byte {
	if n < 0 || c.off+n > c.end {
		c.Fail()
		return nil
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b
}

func (c *Cursor) U8() uint8 {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *Cursor) I8() int8 { return int8(c.U8()) }

func (c *Cursor) Bool() bool { return c.U8() != 0 }

func (c *Cursor) U16() uint16 {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return c.order.Uint16(b)
}

func (c *Cursor) I16() int16 { return int16(c.U16()) }

func (c *Cursor) U32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return c.order.Uint32(b)
}

func (c *Cursor) I32() int32 { return int32(c.U32()) }

func (c *Cursor) U64() uint64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	return c.order.Uint64(b)
}

func (c *Cursor) I64() int64 { return int64(c.U64()) }

func (c *Cursor) F32() float32 { return math.Float32frombits(c.U32()) }

func (c *Cursor) F64() float64 { return math.Float64frombits(c.U64()) }

// Bytes returns the next n bytes without copying.
func (c *Cursor) Bytes(n int) []byte {
	return c.take(n)
}

// Fixed16 reads 16 bytes by value (GUIDs, hashes).
func (c *Cursor) Fixed16() [16]byte {
	var out [16]byte
	copy(out[:], c.take(16))
	return out
}

// CString reads up to and including a NUL terminator. A missing terminator
// consumes the rest of the window.
func (c *Cursor) CString() string {
	start := c.off
	for i := start; i < c.end; i++ {
		if c.data[i] == 0 {
			c.off = i + 1
			return string(c.data[start:i])
		}
	}
	c.off = c.end
	return string(c.data[start:c.end])
}

// AlignedString reads an int32 length, the bytes and aligns to 4.
// An implausible length (negative or past the window) yields "" with only the
// length prefix consumed; legacy files carry soft-corrupted trailing strings
// that must not abort the whole object.
func (c *Cursor) AlignedString() string {
	n := int(c.I32())
	if c.overrun {
		return ""
	}
	if n <= 0 || n > c.Remaining() {
		return ""
	}
	s := string(c.take(n))
	c.Align4()
	return s
}

// Count reads an int32 element count and checks that count elements of at
// least minSize bytes fit in the window. On failure the cursor is overrun.
func (c *Cursor) Count(minSize int) (int, bool) {
	n := int(c.I32())
	if c.overrun {
		return 0, false
	}
	if minSize < 1 {
		minSize = 1
	}
	if n < 0 || n > c.Remaining()/minSize {
		c.Fail()
		return 0, false
	}
	return n, true
}

// Peek returns up to n bytes at the current position without consuming them.
func (c *Cursor) Peek(n int) []byte {
	if n > c.Remaining() {
		n = c.Remaining()
	}
	if n <= 0 {
		return nil
	}
	return c.data[c.off : c.off+n]
}

// PeekHex returns the upper-case hex encoding of up to n bytes at the
// current position without consuming them.
func (c *Cursor) PeekHex(n int) string {
	return strings.ToUpper(hex.EncodeToString(c.Peek(n)))
}

func (c *Cursor) F32s(n int) []float32 {
	if n < 0 || n > c.Remaining()/4 {
		c.Fail()
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = c.F32()
	}
	return out
}

func (c *Cursor) I32s(n int) []int32 {
	if n < 0 || n > c.Remaining()/4 {
		c.Fail()
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = c.I32()
	}
	return out
}
