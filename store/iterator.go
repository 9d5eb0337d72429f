package store

import (
	"bytes"
)

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines a snapshot of the btree items in the requested range
// with the iterator of the parent store, taking into consideration
// overwrites and deletes.
type itemIter struct {
	items []keyer
	idx   int
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent  Iterator
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) *itemIter {
	iter := &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	iter.skipAllDeleted()
	return iter
}

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.usValid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.idx++
	case both:
		i.idx++
		i.parent.Next()
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}

	// keep advancing over all deleted entries
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.items[i.idx].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.items[i.idx].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() {
	for i.skipDeleted() {
	}
}

// skipDeleted jumps over the current element if it is a delete marker,
// together with the shadowed parent entry. Returns true if it skipped, so
// we can skip again.
func (i *itemIter) skipDeleted() bool {
	src := i.firstKey()
	if src != us && src != both {
		return false
	}
	if _, ok := i.items[i.idx].(deletedItem); !ok {
		return false
	}
	i.idx++
	// if parent had the same key, advance parent as well
	if src == both {
		i.parent.Next()
	}
	return true
}

// firstKey selects the iterator with the lowest (or highest when in
// reverse) key if any
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.usValid() {
			return none
		}
		return us
	} else if !i.usValid() {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parent.Key(), i.items[i.idx].Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

func (i *itemIter) usValid() bool {
	return i.idx < len(i.items)
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
