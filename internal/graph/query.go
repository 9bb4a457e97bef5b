package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/object"
	"unity-asset-reader/internal/serialized"
)

// Filter matches decoded objects against a listing query. "type:<text>"
// matches class names, anything else the display name; both are
// case-insensitive substring tests. An empty query matches everything.
func (b *Batch) Filter(query string) []*object.Object {
	q := strings.ToLower(strings.TrimSpace(query))
	byType := false
	if rest, ok := strings.CutPrefix(q, "type:"); ok {
		q, byType = strings.TrimSpace(rest), true
	}

	var out []*object.Object
	for _, o := range b.Typed() {
		subject := o.Name()
		if byType {
			subject = o.ClassName()
		}
		if strings.Contains(strings.ToLower(subject), q) {
			out = append(out, o)
		}
	}
	return out
}

// Match is one object selected by a field path, with the values found.
type Match struct {
	Object *object.Object
	Values []any
}

// Select evaluates a JSONPath expression (e.g. "$.m_Name" or
// "$.m_Component[*].component.m_PathID") against the field tree of every
// decoded object, optionally restricted to some classes.
func (b *Batch) Select(expr string, classes ...classid.ID) ([]Match, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("graph: invalid jsonpath '%s': %w", expr, err)
	}

	objs := b.Typed()
	if len(classes) > 0 {
		objs = b.OfClass(classes...)
	}
	var out []Match
	for _, o := range objs {
		if vals := x.Get(o.ToMap()); len(vals) > 0 {
			out = append(out, Match{Object: o, Values: vals})
		}
	}
	return out, nil
}

// ProductName is the product title from the first PlayerSettings in the
// batch, or "" when none decoded.
func (b *Batch) ProductName() string {
	for _, o := range b.OfClass(classid.PlayerSettings) {
		if ps, ok := o.Variant.(*object.PlayerSettings); ok && ps.ProductName != "" {
			return ps.ProductName
		}
	}
	return ""
}

// ClassTree is one inline layout seen in the batch.
type ClassTree struct {
	Version string
	ClassID classid.ID
	Name    string
	Tree    *serialized.TypeTree
}

// ClassTrees lists distinct inline layouts per engine version, sorted by
// version then class ID.
func (b *Batch) ClassTrees() []ClassTree {
	type key struct {
		version string
		class   classid.ID
		name    string
	}
	seen := make(map[key]bool)
	var out []ClassTree
	for _, u := range b.Units {
		c := u.Container
		for _, t := range c.Types {
			if t.Tree == nil || len(t.Tree.Nodes) == 0 {
				continue
			}
			k := key{c.UnityVersion, t.ClassID, t.Tree.RootType()}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, ClassTree{Version: c.UnityVersion, ClassID: t.ClassID, Name: k.name, Tree: t.Tree})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Version != out[j].Version {
			return out[i].Version < out[j].Version
		}
		if out[i].ClassID != out[j].ClassID {
			return out[i].ClassID < out[j].ClassID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// StreamData returns the bytes a stream reference points at in a loaded
// resource file.
func (b *Batch) StreamData(ref object.StreamRef) ([]byte, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("graph: empty stream reference")
	}
	data, ok := b.Resources[BaseName(ref.Path)]
	if !ok {
		return nil, fmt.Errorf("graph: resource %s is not loaded", ref.Path)
	}
	if ref.Offset > uint64(len(data)) || ref.Size > uint64(len(data))-ref.Offset {
		return nil, fmt.Errorf("graph: resource %s: range [%d, +%d) outside %d bytes", ref.Path, ref.Offset, ref.Size, len(data))
	}
	return data[ref.Offset : ref.Offset+ref.Size], nil
}
