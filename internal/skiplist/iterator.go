package skiplist

// Iterator walks the index in ascending key order starting at the node it
// was constructed with. The zero Iterator (and one built from a nil node)
// is "not good" and must not be dereferenced.
type Iterator struct {
	node *Node
}

func newIterator(n *Node) Iterator {
	return Iterator{node: n}
}

// Good reports whether the iterator points at a live node.
func (it Iterator) Good() bool {
	return it.node != nil
}

// Next advances to the successor at level 0. REQUIRES Good().
func (it *Iterator) Next() {
	it.node = it.node.next(0)
}

// Key returns the key at the current position. REQUIRES Good().
func (it Iterator) Key() []byte {
	return it.node.Key
}

// Value returns the value at the current position. REQUIRES Good().
func (it Iterator) Value() []byte {
	return it.node.Value
}
