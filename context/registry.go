/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
 * Copyright (c) 2025 Europlacer Ltd
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package context provides a small keyed registry used by the multi-peer
// supervisor (spec.md §4.5) to hold its `sessionId -> Session` map. It is
// a narrowed form of
// github.com/nabbar/golib/context's generic Config[T] map manager: Hermes
// never needs context cloning/merging across instances, only atomic
// load/store/delete/walk over one map per supervisor.
package context

import "sync"

// FuncWalk is called once per entry during Walk; returning false stops the
// walk early.
type FuncWalk[K comparable, V any] func(key K, val V) bool

// Registry is a concurrency-safe key/value map, one instance per
// multi-peer supervisor.
type Registry[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{items: make(map[K]V)}
}

// Load returns the value stored for key, if any.
func (r *Registry[K, V]) Load(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	return v, ok
}

// Store sets the value for key, overwriting any previous value.
func (r *Registry[K, V]) Store(key K, val V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = val
}

// Delete removes key, reporting whether it was present.
func (r *Registry[K, V]) Delete(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[key]
	delete(r.items, key)
	return ok
}

// Len returns the number of entries currently stored.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Walk iterates a snapshot of the map, stopping early if fn returns false.
func (r *Registry[K, V]) Walk(fn FuncWalk[K, V]) {
	r.mu.RLock()
	snapshot := make(map[K]V, len(r.items))
	for k, v := range r.items {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

// Clean removes every entry.
func (r *Registry[K, V]) Clean() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[K]V)
}
