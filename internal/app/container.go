// Package app wires the application's services together. Dependencies are
// expressed as typed providers resolved at compile time, so a missing wiring
// is a build error rather than a runtime lookup failure.
package app

import "sync"

// Singleton wraps a factory whose result is constructed once and shared for
// the process lifetime. Construction is race-free under concurrent resolves.
type Singleton[T any] struct {
	once    sync.Once
	factory func() T
	value   T
}

// NewSingleton registers a factory without invoking it.
func NewSingleton[T any](factory func() T) *Singleton[T] {
	return &Singleton[T]{factory: factory}
}

// Get returns the cached instance, constructing it on first call.
func (s *Singleton[T]) Get() T {
	s.once.Do(func() {
		s.value = s.factory()
		s.factory = nil
	})
	return s.value
}

// Transient wraps a factory that yields a fresh instance on every resolve.
type Transient[T any] struct {
	factory func() T
}

// NewTransient registers a factory invoked on every Get.
func NewTransient[T any](factory func() T) *Transient[T] {
	return &Transient[T]{factory: factory}
}

// Get constructs and returns a new instance.
func (t *Transient[T]) Get() T {
	return t.factory()
}
