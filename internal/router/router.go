// Package router resolves command names through a compressed prefix trie.
package router

import (
	"bytes"
	"errors"
)

var ErrDuplicateKey = errors.New("key already registered")

type (
	node[V any] struct {
		edge     []byte
		children []*node[V]
		value    V
		hasValue bool
	}

	// Router is built once and only read afterwards; lookups take no lock.
	Router[V any] struct {
		root node[V]
		size int
	}
)

func New[V any]() *Router[V] {
	return &Router[V]{}
}

// Add stores value under the exact key. A key that is already present is left
// untouched and ErrDuplicateKey is returned.
func (router *Router[V]) Add(key []byte, value V) error {
	err := insert(&router.root, key, value)
	if hasError(err) {
		return err
	}

	router.size++
	return nil
}

func (router *Router[V]) Get(key []byte) (V, bool) {
	current := &router.root

	for !isEmpty(key) {
		next := matchingChild(current, key)
		if next == nil {
			var zero V
			return zero, false
		}

		key = key[len(next.edge):]
		current = next
	}

	return current.value, current.hasValue
}

// Register adds a command name in its canonical upper-case form.
func (router *Router[V]) Register(name string, value V) error {
	return router.Add(canonical([]byte(name)), value)
}

// Route looks a command name up regardless of its case.
func (router *Router[V]) Route(command []byte) (V, bool) {
	return router.Get(canonical(command))
}

func (router *Router[V]) Len() int {
	return router.size
}

func insert[V any](current *node[V], key []byte, value V) error {
	if isEmpty(key) {
		if current.hasValue {
			return ErrDuplicateKey
		}

		current.value = value
		current.hasValue = true
		return nil
	}

	for _, child := range current.children {
		shared := commonPrefix(child.edge, key)
		if shared == 0 {
			continue
		}

		if shared < len(child.edge) {
			split(child, shared)
		}

		return insert(child, key[shared:], value)
	}

	current.children = append(current.children, &node[V]{
		edge:     bytes.Clone(key),
		value:    value,
		hasValue: true,
	})

	return nil
}

// split cuts child's edge at the given length and moves its payload into a
// new single child holding the remainder.
func split[V any](child *node[V], at int) {
	tail := &node[V]{
		edge:     child.edge[at:],
		children: child.children,
		value:    child.value,
		hasValue: child.hasValue,
	}

	var zero V
	child.edge = child.edge[:at]
	child.children = []*node[V]{tail}
	child.value = zero
	child.hasValue = false
}

// matchingChild relies on siblings never sharing a first byte.
func matchingChild[V any](current *node[V], key []byte) *node[V] {
	for _, child := range current.children {
		if bytes.HasPrefix(key, child.edge) {
			return child
		}
	}

	return nil
}
