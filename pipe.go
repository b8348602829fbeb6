package bipbuffer

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/gammazero/deque"
	"go.uber.org/zap"
)

// Block describes a committed run of elements handed from the producer to the
// consumer of a Pipe. Seq numbers start at 1 and increase by one per block.
type Block struct {
	Seq uint64
	Region
}

// PipeOption configures a Pipe.
type PipeOption func(*pipeOptions)

type pipeOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report stalls and misuse.
func WithLogger(logger *zap.Logger) PipeOption {
	return func(o *pipeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Pipe connects one producer goroutine and one consumer goroutine through a
// Buffer without any locking. The producer owns the buffer; committed blocks
// travel to the consumer over a channel and come back over another one when
// the consumer is done with them.
//
// Producer side: Reserve, Commit, Close. Consumer side: Next, Release.
// Metrics may be called from anywhere.
type Pipe[T any] struct {
	buf *Buffer[T]

	blocks   chan Block
	released chan uint64

	// producer-owned
	inflight *deque.Deque[Block]
	seq      uint64
	closed   bool

	// consumer-owned
	lastReleased atomic.Uint64

	snapshot atomic.Pointer[Metrics]
	logger   *zap.Logger
}

// NewPipe creates a Pipe over a buffer of capacity elements.
// It panics if capacity is negative.
func NewPipe[T any](capacity int, opts ...PipeOption) *Pipe[T] {
	o := pipeOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	// every in-flight block holds at least one element, so neither channel
	// can hold more than capacity entries
	queue := capacity
	if queue < 1 {
		queue = 1
	}

	p := &Pipe[T]{
		buf:      New[T](capacity),
		blocks:   make(chan Block, queue),
		released: make(chan uint64, queue),
		inflight: deque.New[Block](),
		logger:   o.logger,
	}
	p.publish()
	return p
}

// Reserve claims a block of up to n elements for writing. When the buffer is
// full it waits until the consumer releases a block or ctx is done.
func (p *Pipe[T]) Reserve(ctx context.Context, n int) ([]T, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if err := p.reclaim(); err != nil {
		return nil, err
	}
	defer p.publish()

	for {
		block, err := p.buf.Reserve(n)
		if !errors.Is(err, ErrNoSpace) {
			return block, err
		}
		if p.inflight.Len() == 0 {
			// nothing is held by the consumer, waiting would never end
			return nil, err
		}

		p.logger.Debug("pipe full, waiting for release",
			zap.Int("requested", n),
			zap.Int("in_flight_blocks", p.inflight.Len()),
			zap.Int("committed", p.buf.CommittedLen()),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case seq := <-p.released:
			if err := p.apply(seq); err != nil {
				return nil, err
			}
		}
		if err := p.reclaim(); err != nil {
			return nil, err
		}
	}
}

// Commit makes the first n reserved elements available to the consumer and
// returns the block describing them. Committing 0 elements sends nothing.
func (p *Pipe[T]) Commit(n int) (Block, error) {
	if p.closed {
		return Block{}, ErrClosed
	}
	r, err := p.buf.commit(n)
	if err != nil {
		return Block{}, err
	}
	p.publish()
	if r.Len == 0 {
		return Block{}, nil
	}

	p.seq++
	blk := Block{Seq: p.seq, Region: r}
	p.inflight.PushBack(blk)
	p.blocks <- blk
	return blk, nil
}

// Close tells the consumer that no more blocks will follow.
func (p *Pipe[T]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.blocks)
}

// Next waits for the next committed block and returns it together with its
// elements. It returns io.EOF once the pipe is closed and drained.
// The elements stay valid until the block is released.
func (p *Pipe[T]) Next(ctx context.Context) (Block, []T, error) {
	select {
	case <-ctx.Done():
		return Block{}, nil, ctx.Err()
	case blk, ok := <-p.blocks:
		if !ok {
			return Block{}, nil, io.EOF
		}
		return blk, p.buf.data[blk.Start:blk.End():blk.End()], nil
	}
}

// Release hands a block back to the producer. Blocks must be released in the
// order Next returned them.
func (p *Pipe[T]) Release(blk Block) error {
	last := p.lastReleased.Load()
	if blk.Seq != last+1 || !p.lastReleased.CompareAndSwap(last, blk.Seq) {
		p.logger.Debug("block released out of order",
			zap.Uint64("seq", blk.Seq),
			zap.Uint64("expected", last+1),
		)
		return ErrOutOfOrder
	}
	p.released <- blk.Seq
	return nil
}

// Metrics returns the buffer statistics as of the last producer operation.
func (p *Pipe[T]) Metrics() Metrics {
	return *p.snapshot.Load()
}

// reclaim applies every release already queued without blocking.
func (p *Pipe[T]) reclaim() error {
	for {
		select {
		case seq := <-p.released:
			if err := p.apply(seq); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// apply decommits the oldest in-flight block, which must be seq.
func (p *Pipe[T]) apply(seq uint64) error {
	if p.inflight.Len() == 0 || p.inflight.Front().Seq != seq {
		return ErrOutOfOrder
	}
	blk := p.inflight.PopFront()
	if _, err := p.buf.Decommit(blk.Len); err != nil {
		return err
	}
	return nil
}

func (p *Pipe[T]) publish() {
	m := p.buf.Metrics()
	p.snapshot.Store(&m)
}
