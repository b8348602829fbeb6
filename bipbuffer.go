package bipbuffer

// Region is a contiguous index range [Start, Start+Len) of the backing storage.
type Region struct {
	Start int
	Len   int
}

// End returns the index one past the last element of the region.
func (r Region) End() int {
	return r.Start + r.Len
}

// Empty reports whether the region holds no elements.
func (r Region) Empty() bool {
	return r.Len == 0
}

// overlaps reports whether two non-empty regions share an index.
func (r Region) overlaps(o Region) bool {
	if r.Len == 0 || o.Len == 0 {
		return false
	}
	return r.Start < o.End() && o.Start < r.End()
}

// counters tracks lifetime activity. Clear does not reset them.
type counters struct {
	committed    uint64
	decommitted  uint64
	reservations uint64
	refused      uint64
	wraps        uint64
}

// Buffer is a bip-buffer over a fixed array of T. Not goroutine-safe.
// Use SafeBuffer or Pipe when the producer and consumer run concurrently.
//
// Slices returned by Reserve and Read alias the internal storage and stay
// valid only until the next mutating call that frees the range they cover.
type Buffer[T any] struct {
	data []T

	// a holds the oldest committed data, b the data that wrapped around to the
	// start of storage while a was still in use.
	a, b Region

	res      Region
	reserved bool

	stats counters
}

// New creates a Buffer backed by capacity zero-valued elements.
// It panics if capacity is negative.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 0 {
		panic("bipbuffer: negative capacity")
	}
	return &Buffer[T]{data: make([]T, capacity)}
}

// Reserve claims a contiguous block of up to n elements for writing.
// If less space is free than requested, the returned block is smaller.
// Any previous uncommitted reservation is discarded.
// Returns ErrNoSpace if no element can be reserved; the previous reservation
// is then left in place.
func (b *Buffer[T]) Reserve(n int) ([]T, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}

	span := b.growable()
	if span.Len == 0 {
		b.stats.refused++
		return nil, ErrNoSpace
	}
	if n < span.Len {
		span.Len = n
	}

	b.res = span
	b.reserved = true
	b.stats.reservations++
	return b.data[span.Start:span.End():span.End()], nil
}

// growable returns the free span the next reservation must come from.
// The tail after a is preferred while b is empty unless the gap before a
// is strictly larger.
func (b *Buffer[T]) growable() Region {
	if b.b.Len > 0 {
		return Region{Start: b.b.End(), Len: b.a.Start - b.b.End()}
	}
	tail := len(b.data) - b.a.End()
	if tail >= b.a.Start {
		return Region{Start: b.a.End(), Len: tail}
	}
	return Region{Start: 0, Len: b.a.Start}
}

// Commit makes the first n elements of the current reservation readable and
// drops the reservation. n is clamped to the reservation length; committing 0
// elements just discards the reservation.
// Returns ErrNoReservation if nothing is reserved.
func (b *Buffer[T]) Commit(n int) error {
	_, err := b.commit(n)
	return err
}

// commit is Commit that also reports where the committed elements landed.
func (b *Buffer[T]) commit(n int) (Region, error) {
	if n < 0 {
		return Region{}, ErrInvalidLength
	}
	if !b.reserved {
		return Region{}, ErrNoReservation
	}

	if n > b.res.Len {
		n = b.res.Len
	}
	done := Region{Start: b.res.Start, Len: n}
	b.res = Region{}
	b.reserved = false
	if n == 0 {
		return done, nil
	}

	switch {
	case b.a.Len == 0 && b.b.Len == 0:
		b.a = done
	case done.Start == b.a.End():
		b.a.Len += n
	default:
		if b.b.Len == 0 {
			b.stats.wraps++
		}
		b.b.Len += n
	}
	b.stats.committed += uint64(n)
	return done, nil
}

// Read returns the oldest contiguous block of committed data.
// Data that wrapped around becomes visible once the block before it has been
// fully decommitted. Returns ErrNoData if nothing is readable.
func (b *Buffer[T]) Read() ([]T, error) {
	if b.a.Len == 0 {
		return nil, ErrNoData
	}
	return b.data[b.a.Start:b.a.End():b.a.End()], nil
}

// Decommit releases the first n elements of the readable block and returns
// how many were actually released. n is clamped to the readable length.
func (b *Buffer[T]) Decommit(n int) (int, error) {
	if n < 0 {
		return 0, ErrInvalidLength
	}
	if n > b.a.Len {
		n = b.a.Len
	}
	if n == 0 {
		return 0, nil
	}

	b.stats.decommitted += uint64(n)
	if n < b.a.Len {
		b.a.Start += n
		b.a.Len -= n
		return n, nil
	}

	// a is exhausted: the wrapped block becomes the oldest one
	b.a = b.b
	b.b = Region{}
	return n, nil
}

// Clear drops all committed data and any reservation in O(1).
// The storage itself is left untouched.
func (b *Buffer[T]) Clear() {
	b.a = Region{}
	b.b = Region{}
	b.res = Region{}
	b.reserved = false
}
