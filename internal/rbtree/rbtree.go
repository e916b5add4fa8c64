// Package rbtree implements a reusable intrusive red-black tree, used by
// the runtime's timer queue (internal/runtime/timers.go).
// Nodes embed a Node value directly rather than through a separate
// allocation — the classic intrusive layout that packs a parent pointer
// and a color bit into one machine word in C; here the color is a plain
// field, since Go makes pointer tagging neither safe nor portable.
// Go cannot safely steal the low bit of a pointer, so the color lives in
// its own field instead of being packed into Parent — the adjacency is
// kept at the struct level instead of the bit level (documented in
// DESIGN.md).
package rbtree

const (
	red   = false
	black = true
)

// Node is embedded by value into the owning struct, e.g.:
//
//	type timer struct {
//		rbtree.Node
//		deadline int64
//	}
//
// Operations take and return *Node; callers recover their owning struct
// with a container-of style cast via the Value field or their own
// bookkeeping — this package only manages tree shape.
type Node struct {
	left, right, parent *Node
	color                bool
	Value                any
}

// Tree is an ordered container keyed by an externally supplied Less
// comparator — the tree itself never compares values directly. Insert
// performs the binary-search positioning using Less so callers don't
// have to hand-roll it themselves.
type Tree struct {
	root *Node
	Less func(a, b any) bool
	size int
}

// New creates an empty tree ordered by less.
func New(less func(a, b any) bool) *Tree {
	return &Tree{Less: less}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return t.size }

// First returns the minimum node, or nil if the tree is empty.
func (t *Tree) First() *Node {
	n := t.root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

// Last returns the maximum node, or nil if the tree is empty.
func (t *Tree) Last() *Node {
	n := t.root
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// Next returns the in-order successor of n, or nil if n is the last node.
func (n *Node) Next() *Node {
	if n.right != nil {
		m := n.right
		for m.left != nil {
			m = m.left
		}
		return m
	}
	m := n
	for m.parent != nil && m == m.parent.right {
		m = m.parent
	}
	return m.parent
}

// Prev returns the in-order predecessor of n, or nil if n is the first node.
func (n *Node) Prev() *Node {
	if n.left != nil {
		m := n.left
		for m.right != nil {
			m = m.right
		}
		return m
	}
	m := n
	for m.parent != nil && m == m.parent.left {
		m = m.parent
	}
	return m.parent
}

// Insert locates the insertion point for value using Less, wires n in,
// and rebalances. n must be a fresh, zero-value Node with Value already
// set by the caller.
func (t *Tree) Insert(n *Node) {
	var parent *Node
	cur := t.root
	left := true
	for cur != nil {
		parent = cur
		if t.Less(n.Value, cur.Value) {
			cur = cur.left
			left = true
		} else {
			cur = cur.right
			left = false
		}
	}
	n.parent = parent
	n.left = nil
	n.right = nil
	n.color = red
	if parent == nil {
		t.root = n
	} else if left {
		parent.left = n
	} else {
		parent.right = n
	}
	t.size++
	t.insertFixup(n)
}

func (t *Tree) rotateLeft(x *Node) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *Tree) rotateRight(x *Node) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func isRed(n *Node) bool {
	return n != nil && n.color == red
}

func (t *Tree) insertFixup(z *Node) {
	for z.parent != nil && isRed(z.parent) {
		gp := z.parent.parent
		if gp == nil {
			break
		}
		if z.parent == gp.left {
			uncle := gp.right
			if isRed(uncle) {
				z.parent.color = black
				uncle.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateRight(gp)
		} else {
			uncle := gp.left
			if isRed(uncle) {
				z.parent.color = black
				uncle.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateLeft(gp)
		}
	}
	t.root.color = black
}

// Remove detaches n from the tree and rebalances, handling the standard
// zero/one/two-children cases.
func (t *Tree) Remove(z *Node) {
	y := z
	yOriginalColor := y.color
	var x, xParent *Node

	if z.left == nil {
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	} else if z.right == nil {
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	} else {
		y = z.right
		for y.left != nil {
			y = y.left
		}
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	z.left, z.right, z.parent = nil, nil, nil
	t.size--

	if yOriginalColor == black {
		t.deleteFixup(x, xParent)
	}
}

func (t *Tree) transplant(u, v *Node) {
	if u.parent == nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

func (t *Tree) deleteFixup(x, parent *Node) {
	for x != t.root && !isRed(x) {
		if parent == nil {
			break
		}
		if x == parent.left {
			w := parent.right
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}
			if w == nil {
				x = parent
				parent = x.parent
				continue
			}
			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x = parent
				parent = x.parent
			} else {
				if !isRed(w.right) {
					if w.left != nil {
						w.left.color = black
					}
					w.color = red
					t.rotateRight(w)
					w = parent.right
				}
				w.color = parent.color
				parent.color = black
				if w.right != nil {
					w.right.color = black
				}
				t.rotateLeft(parent)
				x = t.root
				parent = nil
			}
		} else {
			w := parent.left
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}
			if w == nil {
				x = parent
				parent = x.parent
				continue
			}
			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x = parent
				parent = x.parent
			} else {
				if !isRed(w.left) {
					if w.right != nil {
						w.right.color = black
					}
					w.color = red
					t.rotateLeft(w)
					w = parent.left
				}
				w.color = parent.color
				parent.color = black
				if w.left != nil {
					w.left.color = black
				}
				t.rotateRight(parent)
				x = t.root
				parent = nil
			}
		}
	}
	if x != nil {
		x.color = black
	}
}
