package repository

import "slices"

// collection is an id-keyed map that remembers insertion order.
// It is not safe for concurrent use; MemStore holds the lock.
type collection[T any] struct {
	byID  map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{byID: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// put inserts v, or replaces it in place when id already exists.
func (c *collection[T]) put(id string, v T) {
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] = v
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return true
}

// filter returns the records matching keep, in insertion order.
// A nil keep selects everything.
func (c *collection[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		v := c.byID[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (c *collection[T]) find(match func(T) bool) (T, bool) {
	for _, id := range c.order {
		if v := c.byID[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) len() int {
	return len(c.byID)
}
