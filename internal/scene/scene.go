// Package scene rebuilds the GameObject hierarchy from the transforms in a
// batch.
package scene

import (
	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/mathutil"
	"unity-asset-reader/internal/object"
)

// Node is one GameObject placed in the hierarchy. Parent is a back link
// only; a node is owned by its parent's Children (or the root list).
type Node struct {
	GameObject *object.Object
	Transform  *object.Object
	Key        graph.Key
	Parent     *Node
	Children   []*Node

	// World is the local-to-world matrix composed down from the root.
	World mathutil.Mat4
}

// Name is the GameObject's name.
func (n *Node) Name() string { return n.GameObject.Name() }

// WorldPosition is the node's origin in world space.
func (n *Node) WorldPosition() mathutil.Vec3 { return n.World.Translation() }

// Hierarchy is the forest built for one batch.
type Hierarchy struct {
	Roots []*Node
	nodes map[graph.Key]*Node
}

// Node finds the node of a GameObject.
func (h *Hierarchy) Node(k graph.Key) (*Node, bool) {
	n, ok := h.nodes[k]
	return n, ok
}

// Len is the number of GameObjects placed in the tree.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// Walk visits nodes depth first in sibling order. Returning false from fn
// skips the node's subtree.
func (h *Hierarchy) Walk(fn func(n *Node, depth int) bool) {
	type frame struct {
		n     *Node
		depth int
	}
	stack := make([]frame, 0, len(h.Roots))
	for i := len(h.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{h.Roots[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.n, f.depth) {
			continue
		}
		for i := len(f.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.n.Children[i], f.depth + 1})
		}
	}
}

func local(o *object.Object) *object.Transform {
	switch t := o.Variant.(type) {
	case *object.Transform:
		return t
	case *object.RectTransform:
		return &t.Transform
	}
	return nil
}

// transformOf finds the first component of g that resolves to a decoded
// Transform or RectTransform.
func transformOf(b *graph.Batch, g *object.Object) *object.Object {
	comps := g.Variant.(*object.GameObject).Components
	for _, p := range comps {
		r := b.ResolveFrom(g, p)
		if r.State == graph.StateResolved && r.Target.ClassID.IsTransform() && local(r.Target) != nil {
			return r.Target
		}
	}
	return nil
}

// Build places every GameObject with a resolvable Transform. A parent
// chain that loops back onto itself is cut where the loop closes and that
// node becomes a root. Children follow the parent's m_Children order;
// children missing from that list follow in batch order.
func Build(b *graph.Batch) *Hierarchy {
	h := &Hierarchy{nodes: make(map[graph.Key]*Node)}

	var order []*Node
	byTransform := make(map[graph.Key]*Node)
	for _, g := range b.OfClass(classid.GameObject) {
		if _, ok := g.Variant.(*object.GameObject); !ok {
			continue
		}
		t := transformOf(b, g)
		if t == nil {
			continue
		}
		n := &Node{GameObject: g, Transform: t, Key: b.Key(g)}
		h.nodes[n.Key] = n
		byTransform[b.Key(t)] = n
		order = append(order, n)
	}

	nodeAt := func(from *object.Object, p object.PPtr) *Node {
		r := b.ResolveFrom(from, p)
		if r.State != graph.StateResolved {
			return nil
		}
		return byTransform[r.Key]
	}

	for _, n := range order {
		n.Parent = nodeAt(n.Transform, local(n.Transform).Father)
	}
	breakCycles(order)

	listed := make(map[*Node]bool)
	for _, n := range order {
		for _, p := range local(n.Transform).Children {
			c := nodeAt(n.Transform, p)
			if c == nil || c.Parent != n || listed[c] {
				continue
			}
			listed[c] = true
			n.Children = append(n.Children, c)
		}
	}
	for _, n := range order {
		switch {
		case n.Parent == nil:
			h.Roots = append(h.Roots, n)
		case !listed[n]:
			n.Parent.Children = append(n.Parent.Children, n)
		}
	}

	composeWorld(h.Roots)
	return h
}

// breakCycles walks each parent chain once. settled marks nodes whose
// chain is known to end at a root.
func breakCycles(order []*Node) {
	settled := make(map[*Node]bool, len(order))
	for _, n := range order {
		onPath := make(map[*Node]bool)
		var chain []*Node
		for cur := n; cur != nil && !settled[cur]; cur = cur.Parent {
			if onPath[cur] {
				cur.Parent = nil
				break
			}
			onPath[cur] = true
			chain = append(chain, cur)
		}
		for _, c := range chain {
			settled[c] = true
		}
	}
}

func composeWorld(roots []*Node) {
	stack := make([]*Node, 0, len(roots))
	for _, r := range roots {
		r.World = localMatrix(r)
		stack = append(stack, r)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range n.Children {
			c.World = mathutil.Mat4Mul(n.World, localMatrix(c))
			stack = append(stack, c)
		}
	}
}

func localMatrix(n *Node) mathutil.Mat4 {
	t := local(n.Transform)
	return mathutil.TRS(t.LocalPosition, t.LocalRotation, t.LocalScale)
}
