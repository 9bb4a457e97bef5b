package schema

import (
	"strings"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/serialized"
)

var primitives = map[string]Kind{
	"bool":               KindBool,
	"char":               KindU8,
	"SInt8":              KindI8,
	"UInt8":              KindU8,
	"short":              KindI16,
	"SInt16":             KindI16,
	"UInt16":             KindU16,
	"unsigned short":     KindU16,
	"int":                KindI32,
	"SInt32":             KindI32,
	"Type*":              KindI32,
	"UInt32":             KindU32,
	"unsigned int":       KindU32,
	"long long":          KindI64,
	"SInt64":             KindI64,
	"UInt64":             KindU64,
	"unsigned long long": KindU64,
	"FileSize":           KindU64,
	"float":              KindF32,
	"double":             KindF64,
}

// FromTypeTree converts an inline type tree into a schema. It returns nil
// for empty trees.
func FromTypeTree(class classid.ID, tree *serialized.TypeTree) *Schema {
	if tree == nil || len(tree.Nodes) == 0 || tree.Nodes[0].Type == "" {
		return nil
	}
	nodes := tree.Nodes
	var fields []Field
	for _, i := range children(nodes, 0) {
		fields = append(fields, convert(nodes, i))
	}
	return &Schema{
		Class:  class,
		Name:   nodes[0].Type,
		Source: Inline,
		Blocks: []Block{All(fields...)},
	}
}

// children returns the indexes of the direct children of nodes[i].
func children(nodes []serialized.TypeTreeNode, i int) []int {
	var out []int
	level := nodes[i].Level
	for j := i + 1; j < len(nodes) && nodes[j].Level > level; j++ {
		if nodes[j].Level == level+1 {
			out = append(out, j)
		}
	}
	return out
}

func convert(nodes []serialized.TypeTreeNode, i int) Field {
	n := nodes[i]
	f := Field{Name: n.Name, Type: n.Type, Align: n.Aligned()}
	kids := children(nodes, i)

	if k, ok := primitives[n.Type]; ok && len(kids) == 0 {
		f.Kind = k
		return f
	}
	switch {
	case n.Type == "string":
		f.Kind = KindString
		return f
	case n.Type == "TypelessData":
		f.Kind = KindBlob
		return f
	case strings.HasPrefix(n.Type, "PPtr<"):
		f.Kind = KindPPtr
		return f
	}

	if len(kids) > 0 && nodes[kids[0]].Type == "Array" {
		arr := nodes[kids[0]]
		f.Kind = KindArray
		f.Align = f.Align || arr.Aligned()
		inner := children(nodes, kids[0])
		if len(inner) < 2 {
			f.Kind = KindStruct
			return f
		}
		elem := convert(nodes, inner[1])
		f.Elem = &elem
		return f
	}

	f.Kind = KindStruct
	var fs []Field
	for _, c := range kids {
		fs = append(fs, convert(nodes, c))
	}
	f.Blocks = []Block{All(fs...)}
	return f
}
