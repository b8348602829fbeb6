// Package bipbuffer implements a bip-buffer for Go: a fixed-capacity circular
// buffer that always hands out contiguous blocks, for writing and for reading.
//
// # Overview
//
// A ring buffer stores data in a circle, so a block of data may straddle the
// end of storage and come back out in two pieces. A bip-buffer keeps two
// committed regions instead of one. New data grows the first region until the
// end of storage, then starts a second region at index 0 that grows into the
// gap left by consumed data. Every block handed out is a plain slice, which
// makes it a good fit for:
//
//   - Feeding io.Reader.Read and io.Writer.Write without an extra copy
//   - Framing protocols where a message must sit in one piece of memory
//   - Handing fixed-size element batches between a producer and a consumer
//
// # Basic Usage
//
//	b := bipbuffer.New[byte](4096)
//
//	// Producer
//	block, err := b.Reserve(512)
//	if err != nil {
//		// bipbuffer.ErrNoSpace: wait for the consumer
//	}
//	n := copy(block, payload)
//	_ = b.Commit(n)
//
//	// Consumer
//	data, err := b.Read()
//	if err == nil {
//		handle(data)
//		_, _ = b.Decommit(len(data))
//	}
//
// Reserve may return a shorter block than requested. Commit may publish fewer
// elements than were reserved; the rest of the reservation is dropped.
//
// # Thread Safety
//
// Buffer is not thread-safe. SafeBuffer guards every operation with a mutex:
//
//	sb := bipbuffer.NewSafeBuffer[int](1024)
//	n := bipbuffer.SafePush(sb, values)
//
// Pipe connects exactly one producer goroutine and one consumer goroutine
// without locks. Committed blocks travel to the consumer over a channel and
// are handed back with Release:
//
//	p := bipbuffer.NewPipe[byte](1 << 16)
//	// producer: p.Reserve(ctx, n), p.Commit(n), p.Close()
//	// consumer: blk, data, err := p.Next(ctx); ...; p.Release(blk)
//
// # Memory Layout
//
// The storage is allocated once by New and never grows. Slices returned by
// Reserve and Read point into it and carry a capacity equal to their length,
// so appending to them reallocates instead of overwriting neighbouring data.
//
// # Performance Characteristics
//
//   - Reserve, Commit, Read, Decommit: O(1)
//   - Clear: O(1), storage is not zeroed
//   - Push, Pop: O(n) in the elements copied
//
// # Metrics and Monitoring
//
// Metrics returns the current occupancy together with lifetime counters.
// The bipmetrics package exposes them as Prometheus metrics:
//
//	m := b.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("Wraps: %d\n", m.Wraps)
package bipbuffer
