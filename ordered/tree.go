// Package ordered provides an unbalanced binary search tree whose ordering is
// supplied by the caller.
//
// The tree exists to keep activities in start-time order while they are
// discovered, so the index can be rendered without a separate sort pass.
// Items that compare equal are kept: a later item always descends to the
// right of an earlier equal one, so an in-order walk returns equal items in
// insertion order.
package ordered

import (
	"cmp"
	"iter"
)

type node[T any] struct {
	value       T
	left, right *node[T]
}

// Tree is a binary search tree ordered by a strict less-than function.
// The zero value is not usable; construct with New or NewOrdered.
type Tree[T any] struct {
	root *node[T]
	less func(a, b T) bool
	size int
}

// New returns an empty tree ordered by less.
func New[T any](less func(a, b T) bool) *Tree[T] {
	if less == nil {
		panic("ordered: nil less function")
	}
	return &Tree[T]{less: less}
}

// NewOrdered returns an empty tree ordered by the natural < of T.
func NewOrdered[T cmp.Ordered]() *Tree[T] {
	return New(cmp.Less[T])
}

// Insert places v at the first empty slot reached by walking left while
// less(v, node) holds and right otherwise. The tree is never rebalanced.
func (t *Tree[T]) Insert(v T) {
	n := &node[T]{value: v}
	t.size++
	if t.root == nil {
		t.root = n
		return
	}
	cur := t.root
	for {
		if t.less(v, cur.value) {
			if cur.left == nil {
				cur.left = n
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = n
				return
			}
			cur = cur.right
		}
	}
}

// Len reports the number of inserted items.
func (t *Tree[T]) Len() int { return t.size }

// Height reports the number of nodes on the longest root-to-leaf path.
func (t *Tree[T]) Height() int {
	if t.root == nil {
		return 0
	}
	type level struct {
		n     *node[T]
		depth int
	}
	height := 0
	stack := []level{{t.root, 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > height {
			height = top.depth
		}
		if top.n.left != nil {
			stack = append(stack, level{top.n.left, top.depth + 1})
		}
		if top.n.right != nil {
			stack = append(stack, level{top.n.right, top.depth + 1})
		}
	}
	return height
}

// All returns an in-order iterator (left subtree, node, right subtree).
// Each call starts a new walk, so the sequence can be ranged over more than
// once. The walk uses an explicit stack, so degenerate trees built from
// already-sorted input do not grow the goroutine stack.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		var stack []*node[T]
		cur := t.root
		for cur != nil || len(stack) > 0 {
			for cur != nil {
				stack = append(stack, cur)
				cur = cur.left
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur.value) {
				return
			}
			cur = cur.right
		}
	}
}

// Values collects the in-order walk into a slice.
func (t *Tree[T]) Values() []T {
	out := make([]T, 0, t.size)
	for v := range t.All() {
		out = append(out, v)
	}
	return out
}
