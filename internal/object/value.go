package object

import (
	"encoding/base64"
	"fmt"
)

// PPtr is a non-owning reference to another object. FileID 0 is the
// containing file; n > 0 is the container's external entry n-1.
type PPtr struct {
	FileID int32
	PathID int64
}

// IsNull reports the engine's null pointer.
func (p PPtr) IsNull() bool { return p.PathID == 0 }

func (p PPtr) String() string { return fmt.Sprintf("{%d, %d}", p.FileID, p.PathID) }

// Struct is an ordered record of decoded fields. Values hold bool, the
// sized integer and float types, string, []byte (u8 and bool arrays, blobs),
// []float32 (float arrays), []any (other arrays), *Struct or PPtr.
type Struct struct {
	Type   string
	Names  []string
	Values []any
}

func (s *Struct) add(name string, v any) {
	s.Names = append(s.Names, name)
	s.Values = append(s.Values, v)
}

// Len returns the number of fields read.
func (s *Struct) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Names)
}

// Get returns the first field with the given name.
func (s *Struct) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	for i, n := range s.Names {
		if n == name {
			return s.Values[i], true
		}
	}
	return nil, false
}

// Struct returns a nested record, or nil.
func (s *Struct) Struct(name string) *Struct {
	v, _ := s.Get(name)
	st, _ := v.(*Struct)
	return st
}

func (s *Struct) Str(name string) string {
	v, _ := s.Get(name)
	str, _ := v.(string)
	return str
}

func (s *Struct) Bool(name string) bool {
	v, _ := s.Get(name)
	b, _ := v.(bool)
	return b
}

// Int returns an integer field widened to int64; 0 when absent.
func (s *Struct) Int(name string) int64 {
	v, _ := s.Get(name)
	n, _ := toInt(v)
	return n
}

// Float returns a numeric field as float64; 0 when absent.
func (s *Struct) Float(name string) float64 {
	v, _ := s.Get(name)
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	n, _ := toInt(v)
	return float64(n)
}

// Bytes returns a byte array or blob field.
func (s *Struct) Bytes(name string) []byte {
	v, _ := s.Get(name)
	b, _ := v.([]byte)
	return b
}

// List returns an array field as a generic slice.
func (s *Struct) List(name string) []any {
	v, _ := s.Get(name)
	switch x := v.(type) {
	case []any:
		return x
	case []float32:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = f
		}
		return out
	case []byte:
		out := make([]any, len(x))
		for i, b := range x {
			out[i] = b
		}
		return out
	}
	return nil
}

// PPtr returns a pointer field.
func (s *Struct) PPtr(name string) (PPtr, bool) {
	v, _ := s.Get(name)
	p, ok := v.(PPtr)
	return p, ok
}

// FieldPtr is a pointer found in a record with its dotted field path;
// array elements appear as "name[i]".
type FieldPtr struct {
	Path string
	Ptr  PPtr
}

// Pointers lists every non-null pointer in the record, depth first in
// field order.
func (s *Struct) Pointers() []FieldPtr {
	if s == nil {
		return nil
	}
	var out []FieldPtr
	var visit func(prefix string, v any)
	visit = func(prefix string, v any) {
		switch x := v.(type) {
		case PPtr:
			if !x.IsNull() {
				out = append(out, FieldPtr{prefix, x})
			}
		case *Struct:
			for i, n := range x.Names {
				p := n
				if prefix != "" {
					p = prefix + "." + n
				}
				visit(p, x.Values[i])
			}
		case []any:
			for i, e := range x {
				visit(fmt.Sprintf("%s[%d]", prefix, i), e)
			}
		}
	}
	visit("", s)
	return out
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int8:
		return int64(x), true
	case uint8:
		return int64(x), true
	case int16:
		return int64(x), true
	case uint16:
		return int64(x), true
	case int32:
		return int64(x), true
	case uint32:
		return int64(x), true
	case int64:
		return x, true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

// Map converts the record into plain maps and slices (JSON-shaped values):
// integers become int64, floats float64, byte arrays base64 strings and
// pointers {"m_FileID", "m_PathID"} maps.
func (s *Struct) Map() map[string]any {
	if s == nil {
		return nil
	}
	m := make(map[string]any, len(s.Names))
	for i, n := range s.Names {
		m[n] = plain(s.Values[i])
	}
	return m
}

func plain(v any) any {
	switch x := v.(type) {
	case *Struct:
		return x.Map()
	case PPtr:
		return map[string]any{"m_FileID": int64(x.FileID), "m_PathID": x.PathID}
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case []float32:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case float32:
		return float64(x)
	case float64, string:
		return x
	}
	if n, ok := toInt(v); ok {
		if _, isBool := v.(bool); isBool {
			return v
		}
		return n
	}
	return v
}
