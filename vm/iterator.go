package vm

import (
	"fmt"
	"reflect"
	"sort"
)

// ---------------------------------------------------------------------------
// Keyed iteration
// ---------------------------------------------------------------------------

// IterationItem is one item produced by keyed iteration: the item's value,
// a memo (its index or map key), and a key string that identifies the item
// across successive renders so list diffing can match by identity rather
// than position.
type IterationItem struct {
	Key   string
	Value Reference
	Memo  Reference
}

// Iterator walks one snapshot of an iterable value.
type Iterator interface {
	// IsEmpty reports whether the iterator has no items at all.
	IsEmpty() bool
	// Next returns the next item, or nil when exhausted.
	Next() *IterationItem
}

// Iterable produces a fresh iterator over a reference's current value.
// Each render pass calls Iterate once and walks the resulting snapshot.
type Iterable interface {
	Iterate() Iterator
}

// Key paths with reserved meaning. Any other key path names a property
// looked up on each item.
const (
	KeyIndex    = "@index"    // position in the sequence
	KeyIdentity = "@identity" // formatted item value
)

// NewIterable adapts ref for keyed iteration. Slices and arrays iterate in
// order; string-keyed maps iterate in sorted key order so identity is
// deterministic; nil and non-iterable values produce an empty iterator.
func NewIterable(ref Reference, keyPath string) Iterable {
	return &reflectIterable{ref: ref, keyPath: keyPath}
}

type reflectIterable struct {
	ref     Reference
	keyPath string
}

func (it *reflectIterable) Iterate() Iterator {
	value := it.ref.Value()
	if value == nil {
		return &sliceIterator{}
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, v.Len())
		memos := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = v.Index(i).Interface()
			memos[i] = i
		}
		return newSliceIterator(items, memos, it.keyPath)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return &sliceIterator{}
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		items := make([]any, len(keys))
		memos := make([]any, len(keys))
		keyType := v.Type().Key()
		for i, k := range keys {
			items[i] = v.MapIndex(reflect.ValueOf(k).Convert(keyType)).Interface()
			memos[i] = k
		}
		return newSliceIterator(items, memos, it.keyPath)
	}
	return &sliceIterator{}
}

// sliceIterator walks a snapshot of items, deriving keys as it goes.
// Duplicate keys get a uniquing suffix so identity stays unambiguous within
// one pass while remaining stable across passes with the same data.
type sliceIterator struct {
	items   []any
	memos   []any
	keyPath string
	pos     int
	seen    map[string]int
}

func newSliceIterator(items, memos []any, keyPath string) *sliceIterator {
	return &sliceIterator{items: items, memos: memos, keyPath: keyPath, seen: make(map[string]int)}
}

func (it *sliceIterator) IsEmpty() bool { return len(it.items) == 0 }

func (it *sliceIterator) Next() *IterationItem {
	if it.pos >= len(it.items) {
		return nil
	}
	i := it.pos
	it.pos++
	item := it.items[i]
	key := it.uniqueKey(it.keyFor(item, i))
	return &IterationItem{
		Key:   key,
		Value: NewConstReference(item),
		Memo:  NewConstReference(it.memos[i]),
	}
}

func (it *sliceIterator) keyFor(item any, index int) string {
	switch it.keyPath {
	case "", KeyIdentity:
		return fmt.Sprintf("%v", item)
	case KeyIndex:
		return fmt.Sprintf("%d", index)
	}
	return fmt.Sprintf("%v", property(item, it.keyPath))
}

func (it *sliceIterator) uniqueKey(key string) string {
	n := it.seen[key]
	it.seen[key] = n + 1
	if n == 0 {
		return key
	}
	return fmt.Sprintf("%s:%d", key, n)
}
