package object

import (
	"unity-asset-reader/internal/cursor"
	"unity-asset-reader/internal/schema"
	"unity-asset-reader/internal/unityver"
)

// walker executes a schema against a cursor windowed onto one object.
type walker struct {
	cur     *cursor.Cursor
	version unityver.Version
	widePtr bool // path IDs are 8 bytes (format 14+)

	gap  bool
	last string
}

// stopped reports whether reading must end early.
func (w *walker) stopped() bool { return w.gap || w.cur.Overrun() }

func (w *walker) blocks(bs []schema.Block, out *Struct) {
	active, ok := schema.Active(bs, w.version)
	for _, b := range active {
		for _, f := range b.Fields {
			if f.Kind == schema.KindAlign {
				w.cur.Align4()
				continue
			}
			v := w.field(f)
			if w.stopped() {
				// Keep whatever a partial struct gathered.
				if st, isStruct := v.(*Struct); isStruct && st.Len() > 0 {
					out.add(f.Name, st)
				}
				return
			}
			out.add(f.Name, v)
			w.last = f.Name
		}
	}
	if !ok {
		w.gap = true
	}
}

func (w *walker) field(f schema.Field) any {
	v := w.value(f)
	if f.Align {
		w.cur.Align4()
	}
	return v
}

func (w *walker) value(f schema.Field) any {
	c := w.cur
	switch f.Kind {
	case schema.KindBool:
		return c.Bool()
	case schema.KindI8:
		return c.I8()
	case schema.KindU8:
		return c.U8()
	case schema.KindI16:
		return c.I16()
	case schema.KindU16:
		return c.U16()
	case schema.KindI32:
		return c.I32()
	case schema.KindU32:
		return c.U32()
	case schema.KindI64:
		return c.I64()
	case schema.KindU64:
		return c.U64()
	case schema.KindF32:
		return c.F32()
	case schema.KindF64:
		return c.F64()
	case schema.KindString:
		return c.AlignedString()
	case schema.KindFixed:
		return c.Bytes(f.Size)
	case schema.KindBlob:
		n, ok := c.Count(1)
		if !ok {
			return []byte(nil)
		}
		b := c.Bytes(n)
		c.Align4()
		return b
	case schema.KindPPtr:
		p := PPtr{FileID: c.I32()}
		if w.widePtr {
			p.PathID = c.I64()
		} else {
			p.PathID = int64(c.I32())
		}
		return p
	case schema.KindArray:
		return w.array(f)
	case schema.KindStruct:
		st := &Struct{Type: f.Type}
		w.blocks(f.Blocks, st)
		return st
	}
	return nil
}

func (w *walker) array(f schema.Field) any {
	c := w.cur
	elem := f.Elem
	if elem == nil {
		c.Count(1)
		return []any(nil)
	}
	width := elem.Kind.Width()
	n, ok := c.Count(max(width, 1))
	if !ok {
		return []any(nil)
	}
	switch elem.Kind {
	case schema.KindU8, schema.KindI8, schema.KindBool:
		if !elem.Align {
			return c.Bytes(n)
		}
	case schema.KindF32:
		if !elem.Align {
			return c.F32s(n)
		}
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v := w.field(*elem)
		if w.stopped() {
			break
		}
		out = append(out, v)
	}
	return out
}
