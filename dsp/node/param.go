package node

import "sync/atomic"

// Param publishes immutable snapshots from the control side to the render
// side. Store replaces the snapshot atomically; Load never blocks. Values
// must not be modified after Store.
type Param[T any] struct {
	p atomic.Pointer[T]
}

// NewParam returns a Param holding v (nil for none).
func NewParam[T any](v *T) *Param[T] {
	p := &Param[T]{}
	p.p.Store(v)
	return p
}

// Load returns the current snapshot.
func (p *Param[T]) Load() *T {
	return p.p.Load()
}

// Store publishes v.
func (p *Param[T]) Store(v *T) {
	p.p.Store(v)
}

// Swap publishes v and returns the previous snapshot.
func (p *Param[T]) Swap(v *T) *T {
	return p.p.Swap(v)
}
