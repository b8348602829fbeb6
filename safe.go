package bipbuffer

import "sync"

// SafeBuffer is a mutex-protected wrapper around Buffer for a producer and a
// consumer running on different goroutines. Each operation holds the lock for
// its whole duration. The reservation and the readable block never overlap, so
// the producer may fill its block while the consumer reads its own.
type SafeBuffer[T any] struct {
	mu sync.Mutex
	b  *Buffer[T]
}

// NewSafeBuffer creates a thread-safe buffer backed by capacity elements.
// It panics if capacity is negative.
func NewSafeBuffer[T any](capacity int) *SafeBuffer[T] {
	return &SafeBuffer[T]{b: New[T](capacity)}
}

// Reserve thread-safely claims a contiguous block of up to n elements.
func (s *SafeBuffer[T]) Reserve(n int) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Reserve(n)
}

// Commit thread-safely makes the first n reserved elements readable.
func (s *SafeBuffer[T]) Commit(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Commit(n)
}

// Read thread-safely returns the oldest contiguous block of committed data.
func (s *SafeBuffer[T]) Read() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Read()
}

// Decommit thread-safely releases the first n elements of the readable block.
func (s *SafeBuffer[T]) Decommit(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Decommit(n)
}

// Clear thread-safely drops all committed data and any reservation.
func (s *SafeBuffer[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Clear()
}

// Validate thread-safely checks the region layout.
func (s *SafeBuffer[T]) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Validate()
}

// Generic copy helpers for SafeBuffer

// SafePush thread-safely stores as much of src as fits and returns the count stored.
func SafePush[T any](s *SafeBuffer[T], src []T) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Push(s.b, src)
}

// SafePop thread-safely moves up to len(dst) elements out of the buffer.
func SafePop[T any](s *SafeBuffer[T], dst []T) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Pop(s.b, dst)
}
