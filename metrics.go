package bipbuffer

// Cap returns the number of elements in the backing storage.
func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// CommittedLen returns the number of committed elements, including data that
// wrapped around and is not yet visible to Read.
func (b *Buffer[T]) CommittedLen() int {
	return b.a.Len + b.b.Len
}

// ReservedLen returns the length of the outstanding reservation, 0 if none.
func (b *Buffer[T]) ReservedLen() int {
	return b.res.Len
}

// FreeLen returns the number of elements neither committed nor reserved.
// Not all of them are necessarily reservable in one block.
func (b *Buffer[T]) FreeLen() int {
	return len(b.data) - b.CommittedLen() - b.ReservedLen()
}

// Readable returns the length of the block the next Read would return.
func (b *Buffer[T]) Readable() int {
	return b.a.Len
}

// IsEmpty reports whether nothing is committed or reserved.
func (b *Buffer[T]) IsEmpty() bool {
	return b.CommittedLen() == 0 && b.ReservedLen() == 0
}

// Wrapped reports whether committed data currently wraps around the end of storage.
func (b *Buffer[T]) Wrapped() bool {
	return b.b.Len > 0
}

// Regions returns the current committed regions.
func (b *Buffer[T]) Regions() (a, wrapped Region) {
	return b.a, b.b
}

// Reservation returns the outstanding reservation, if any.
func (b *Buffer[T]) Reservation() (Region, bool) {
	return b.res, b.reserved
}

// Utilization returns the ratio of committed elements to capacity (0.0 to 1.0).
// Returns 0.0 for a zero-capacity buffer.
func (b *Buffer[T]) Utilization() float64 {
	if len(b.data) == 0 {
		return 0
	}
	return float64(b.CommittedLen()) / float64(len(b.data))
}

// Metrics returns a snapshot of buffer statistics.
func (b *Buffer[T]) Metrics() Metrics {
	return Metrics{
		Capacity:           b.Cap(),
		Committed:          b.CommittedLen(),
		Reserved:           b.ReservedLen(),
		Free:               b.FreeLen(),
		Readable:           b.Readable(),
		Wrapped:            b.Wrapped(),
		Utilization:        b.Utilization(),
		TotalCommitted:     b.stats.committed,
		TotalDecommitted:   b.stats.decommitted,
		Reservations:       b.stats.reservations,
		ReservationsFailed: b.stats.refused,
		Wraps:              b.stats.wraps,
	}
}

// Metrics contains statistical information about a buffer.
type Metrics struct {
	Capacity    int     // Elements of backing storage
	Committed   int     // Elements committed and not yet decommitted
	Reserved    int     // Elements in the outstanding reservation
	Free        int     // Elements neither committed nor reserved
	Readable    int     // Length of the block Read would return
	Wrapped     bool    // Committed data wraps around the end of storage
	Utilization float64 // Ratio of committed elements to capacity (0.0-1.0)

	TotalCommitted     uint64 // Elements committed over the buffer lifetime
	TotalDecommitted   uint64 // Elements decommitted over the buffer lifetime
	Reservations       uint64 // Successful Reserve calls
	ReservationsFailed uint64 // Reserve calls refused with ErrNoSpace
	Wraps              uint64 // Times committed data started wrapping around
}

// Thread-safe metrics for SafeBuffer

// Cap thread-safely returns the number of elements in the backing storage.
func (s *SafeBuffer[T]) Cap() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Cap()
}

// CommittedLen thread-safely returns the number of committed elements.
func (s *SafeBuffer[T]) CommittedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.CommittedLen()
}

// ReservedLen thread-safely returns the length of the outstanding reservation.
func (s *SafeBuffer[T]) ReservedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.ReservedLen()
}

// FreeLen thread-safely returns the number of elements neither committed nor reserved.
func (s *SafeBuffer[T]) FreeLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.FreeLen()
}

// IsEmpty thread-safely reports whether nothing is committed or reserved.
func (s *SafeBuffer[T]) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.IsEmpty()
}

// Utilization thread-safely returns the ratio of committed elements to capacity.
func (s *SafeBuffer[T]) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Utilization()
}

// Metrics thread-safely returns a snapshot of buffer statistics.
func (s *SafeBuffer[T]) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Metrics()
}
