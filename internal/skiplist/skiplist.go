// Package skiplist implements the ordered, slab-backed index at the core of
// the table: a probabilistic skip list keyed by opaque byte sequences,
// supporting ordered iteration, insertion, point lookup, in-place
// replacement, and deletion, publishing inserted nodes so that concurrent
// readers observe consistent snapshots while one writer mutates.
package skiplist

import (
	"sync/atomic"

	"github.com/barrelkv/kvtable/internal/slab"
)

// Comparator is a total order over byte sequences, duplicated here (rather
// than imported from the root package) to keep this package import-cycle
// free of it; the root package's Comparator has the identical underlying
// function type and converts to this one at the List boundary.
type Comparator func(a, b []byte) int

const (
	growthProbability = 4
	randomSeed        = 0xBADC0FFE
)

// List is the skip list index. All storage for node keys and values is
// drawn from pool; a List never allocates key/value bytes any other way.
//
// Writers must be externally serialized (at most one goroutine calling
// Insert/Update/Remove at a time). Readers may call Lookup/Begin/Iterator
// concurrently with the single writer and with each other, subject to the
// TTL bound the pool's quarantine enforces on the bytes they observe.
type List struct {
	head   *Node
	height atomic.Int32 // current max height in use; grows monotonically, never shrinks
	cmp    Comparator
	pool   *slab.Allocator
	rng    *lcg
}

// New constructs an empty List using cmp for ordering and pool for all
// backing storage.
func New(cmp Comparator, pool *slab.Allocator) *List {
	head := newNode(MaxHeight, nil, nil)
	l := &List{
		head: head,
		cmp:  cmp,
		pool: pool,
		rng:  newLCG(randomSeed),
	}
	l.height.Store(1)
	return l
}

func (l *List) randomHeight() int {
	height := 1
	for height < MaxHeight && (l.rng.next()&(growthProbability-1)) == 0 {
		height++
	}
	return height
}

// firstGE walks down from the current top level to level 0, returning the
// first node whose key compares >= key. If prev is non-nil, prev[level] is
// set to the immediate predecessor at that level — the splice point an
// insert or remove must use.
func (l *List) firstGE(key []byte, prev []*Node) *Node {
	cur := l.head
	for level := int(l.height.Load()) - 1; level >= 0; level-- {
		next := cur.next(level)
		for next != nil && l.cmp(next.Key, key) < 0 {
			cur = next
			next = cur.next(level)
		}
		if prev != nil {
			prev[level] = cur
		}
	}
	return cur.next(0)
}

// publish makes node reachable at every one of its levels, immediately
// after prev[level] at that level. For each level, node's own forward
// pointer is stored before it is linked in from its predecessor, so a
// reader following prev[level]'s link either still sees the old successor
// or sees node with all of node's own lower-level links already valid.
func (l *List) publish(node *Node, prev []*Node) {
	for i := 0; i < node.height; i++ {
		node.setNext(i, prev[i].next(i))
		prev[i].setNext(i, node)
	}
}

// unlink removes node from the predecessors recorded in prev, top-down
// (highest level first), matching the reference implementation's removal
// order.
func (l *List) unlink(node *Node, prev []*Node) {
	for i := node.height - 1; i >= 0; i-- {
		prev[i].setNext(i, node.next(i))
	}
}

// Begin returns an iterator positioned at the first (smallest-key) node.
func (l *List) Begin() Iterator {
	return newIterator(l.head.next(0))
}

// Insert adds key/value to the list. It returns a bad iterator without
// mutating anything if key already has a live node.
func (l *List) Insert(key, value []byte) Iterator {
	var prevArr [MaxHeight]*Node
	prev := prevArr[:]

	next := l.firstGE(key, prev)
	if next != nil && l.cmp(next.Key, key) == 0 {
		return newIterator(nil)
	}

	newHeight := l.randomHeight()
	curHeight := int(l.height.Load())
	if newHeight > curHeight {
		for i := curHeight; i < newHeight; i++ {
			prev[i] = l.head
		}
		l.height.Store(int32(newHeight))
	}

	node := newNode(newHeight, l.pool.Dup(key), l.pool.Dup(value))
	l.publish(node, prev)
	return newIterator(node)
}

// Update replaces the value stored for key. It splices a replacement node
// (same height as the old one) in immediately after the old node at every
// level, then unlinks the old node — so any reader walking the list
// observes at least one of the two values, never neither. Returns a bad
// iterator, as a no-op, if key has no live node.
func (l *List) Update(key, newValue []byte) Iterator {
	var prevArr [MaxHeight]*Node
	prev := prevArr[:]

	node := l.firstGE(key, prev)
	if node == nil || l.cmp(node.Key, key) != 0 {
		return newIterator(nil)
	}

	replacement := newNode(node.height, l.pool.Dup(node.Key), l.pool.Dup(newValue))

	temp := make([]*Node, node.height)
	for i := range temp {
		temp[i] = node
	}
	l.publish(replacement, temp)

	l.unlink(node, prev[:node.height])
	l.pool.Dealloc(node.Key, len(node.Key))
	l.pool.Dealloc(node.Value, len(node.Value))

	return newIterator(replacement)
}

// Lookup returns an iterator at the node whose key equals key, or a bad
// iterator if there is no such node.
func (l *List) Lookup(key []byte) Iterator {
	node := l.firstGE(key, nil)
	if node != nil && l.cmp(node.Key, key) == 0 {
		return newIterator(node)
	}
	return newIterator(nil)
}

// Remove deletes the node whose key equals key, if any, and returns
// whether a node was removed.
func (l *List) Remove(key []byte) bool {
	var prevArr [MaxHeight]*Node
	prev := prevArr[:]

	node := l.firstGE(key, prev)
	if node == nil || l.cmp(node.Key, key) != 0 {
		return false
	}

	l.unlink(node, prev[:node.height])
	l.pool.Dealloc(node.Key, len(node.Key))
	l.pool.Dealloc(node.Value, len(node.Value))
	return true
}
