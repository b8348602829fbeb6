package bipbuffer

import "io"

// Stream adapts a byte Buffer to the io interfaces. ReadFrom and WriteTo move
// data straight between the caller's reader/writer and the buffer's blocks
// without an intermediate copy.
type Stream struct {
	b *Buffer[byte]
}

var (
	_ io.ReadWriter = (*Stream)(nil)
	_ io.ReaderFrom = (*Stream)(nil)
	_ io.WriterTo   = (*Stream)(nil)
)

// NewStream creates a Stream over a byte buffer of the given capacity.
func NewStream(capacity int) *Stream {
	return &Stream{b: New[byte](capacity)}
}

// Buffer returns the underlying buffer.
func (s *Stream) Buffer() *Buffer[byte] {
	return s.b
}

// Len returns the number of buffered bytes.
func (s *Stream) Len() int {
	return s.b.CommittedLen()
}

// Write buffers as much of p as fits. It returns ErrNoSpace on a short write.
func (s *Stream) Write(p []byte) (int, error) {
	n := Push(s.b, p)
	if n < len(p) {
		return n, ErrNoSpace
	}
	return n, nil
}

// Read moves buffered bytes into p. It returns io.EOF when nothing is buffered.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := Pop(s.b, p)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadFrom reads from r directly into reserved blocks until r returns io.EOF.
// It returns ErrNoSpace if the buffer fills up before r reports io.EOF, which
// includes a reader whose data exactly fills the buffer. A reader returning a
// count outside its block yields ErrBadRead and nothing of that read is kept.
func (s *Stream) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		block, err := s.b.Reserve(s.b.Cap())
		if err != nil {
			return total, err
		}
		n, rerr := r.Read(block)
		if n < 0 || n > len(block) {
			_ = s.b.Commit(0)
			return total, ErrBadRead
		}
		if err := s.b.Commit(n); err != nil {
			return total, err
		}
		total += int64(n)
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
	}
}

// WriteTo writes buffered blocks to w, oldest first, until the buffer is
// drained or w fails. Bytes accepted by w are decommitted.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for {
		block, err := s.b.Read()
		if err != nil {
			return total, nil
		}
		n, werr := w.Write(block)
		if n > len(block) {
			n = len(block)
		}
		_, _ = s.b.Decommit(n)
		total += int64(n)
		if werr != nil {
			return total, werr
		}
		if n < len(block) {
			return total, io.ErrShortWrite
		}
	}
}
