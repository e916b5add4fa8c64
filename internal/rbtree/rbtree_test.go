package rbtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func intLess(a, b any) bool {
	return a.(int) < b.(int)
}

func TestTreeInOrderTraversal(t *testing.T) {
	tr := New(intLess)
	values := []int{5, 3, 8, 1, 4, 7, 9, 2, 6, 0}
	for _, v := range values {
		tr.Insert(&Node{Value: v})
	}
	require.Equal(t, len(values), tr.Len())

	var got []int
	for n := tr.First(); n != nil; n = n.Next() {
		got = append(got, n.Value.(int))
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)

	var gotRev []int
	for n := tr.Last(); n != nil; n = n.Prev() {
		gotRev = append(gotRev, n.Value.(int))
	}
	require.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, gotRev)
}

func TestTreeRemoveKeepsOrder(t *testing.T) {
	tr := New(intLess)
	nodes := make(map[int]*Node)
	for _, v := range []int{10, 20, 30, 40, 50, 25, 5} {
		n := &Node{Value: v}
		nodes[v] = n
		tr.Insert(n)
	}

	tr.Remove(nodes[30])
	tr.Remove(nodes[10])

	var got []int
	for n := tr.First(); n != nil; n = n.Next() {
		got = append(got, n.Value.(int))
	}
	require.Equal(t, []int{5, 20, 25, 40, 50}, got)
	require.Equal(t, 5, tr.Len())
}

func TestTreeRandomizedMatchesSortedOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New(intLess)
	const n = 500
	present := map[int]*Node{}

	for i := 0; i < n; i++ {
		v := rng.Intn(n * 4)
		if _, ok := present[v]; ok {
			continue
		}
		node := &Node{Value: v}
		present[v] = node
		tr.Insert(node)
	}

	prev := -1
	count := 0
	for node := tr.First(); node != nil; node = node.Next() {
		v := node.Value.(int)
		require.GreaterOrEqual(t, v, prev)
		prev = v
		count++
	}
	require.Equal(t, len(present), count)

	// Remove half, check ordering still holds.
	i := 0
	for v, node := range present {
		if i%2 == 0 {
			tr.Remove(node)
			delete(present, v)
		}
		i++
	}
	prev = -1
	count = 0
	for node := tr.First(); node != nil; node = node.Next() {
		v := node.Value.(int)
		require.GreaterOrEqual(t, v, prev)
		prev = v
		count++
	}
	require.Equal(t, len(present), count)
}
