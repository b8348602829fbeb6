package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/squidpickles/bipbuffer"
)

var (
	copyIn  string
	copyOut string
)

func init() {
	cmd := newCopyCmd()
	cmd.Flags().StringVarP(&copyIn, "in", "i", "-", "Input file, - for stdin")
	cmd.Flags().StringVarP(&copyOut, "out", "o", "-", "Output file, - for stdout")
	rootCmd.AddCommand(cmd)
}

func newCopyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy a byte stream through a bip-buffer pipe",
		Long: `The copy command reads the input directly into reserved buffer blocks on one
goroutine and writes committed blocks to the output on another.

Example:
  bipstage copy --in big.bin --out copy.bin --capacity 1048576 --chunk 65536
  cat big.bin | bipstage copy --metrics-addr :9090 > copy.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd.Context())
		},
	}
	return cmd
}

func runCopy(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, closeIn, err := openInput(copyIn)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(copyOut)
	if err != nil {
		return err
	}

	pipe := bipbuffer.NewPipe[byte](cfg.Buffer.Capacity, bipbuffer.WithLogger(logger.Named("pipe")))

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	waitMetrics := startMetricsServer(metricsCtx, cfg.Metrics.Addr, "copy", pipe)

	logger.Info("Starting copy",
		zap.String("in", copyIn),
		zap.String("out", copyOut),
		zap.Int("capacity", cfg.Buffer.Capacity),
		zap.Int("chunk", cfg.Buffer.Chunk),
	)
	res, err := stage(ctx, pipe, in, out, cfg.Buffer.Chunk)
	stopMetrics()
	waitMetrics()

	if cerr := closeOut(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "close output")
	}
	if err != nil {
		return err
	}

	m := pipe.Metrics()
	logger.Info("Copy complete",
		zap.Int64("bytes_read", res.read),
		zap.Int64("bytes_written", res.written),
		zap.Uint64("blocks", res.blocks),
		zap.Uint64("wraps", m.Wraps),
		zap.Uint64("reservation_failures", m.ReservationsFailed),
	)
	return nil
}

type stageResult struct {
	read    int64
	written int64
	blocks  uint64
}

// stage runs the producer and the consumer side of pipe until in is drained
// and everything read has been written to out.
func stage(ctx context.Context, pipe *bipbuffer.Pipe[byte], in io.Reader, out io.Writer, chunk int) (stageResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		res      stageResult
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer pipe.Close()
		for {
			block, err := pipe.Reserve(ctx, chunk)
			if err != nil {
				fail(errors.Wrap(err, "reserve block"))
				return
			}
			n, rerr := in.Read(block)
			if n < 0 || n > len(block) {
				fail(errors.Wrapf(bipbuffer.ErrBadRead, "read input: %d bytes into a block of %d", n, len(block)))
				return
			}
			if _, err := pipe.Commit(n); err != nil {
				fail(errors.Wrap(err, "commit block"))
				return
			}
			res.read += int64(n)
			if rerr == io.EOF {
				return
			}
			if rerr != nil {
				fail(errors.Wrap(rerr, "read input"))
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			blk, data, err := pipe.Next(ctx)
			if err == io.EOF {
				return
			}
			if err != nil {
				fail(errors.Wrap(err, "next block"))
				return
			}
			n, werr := out.Write(data)
			res.written += int64(n)
			if werr != nil {
				fail(errors.Wrapf(werr, "write block %d", blk.Seq))
				return
			}
			res.blocks++
			if err := pipe.Release(blk); err != nil {
				fail(errors.Wrapf(err, "release block %d", blk.Seq))
				return
			}
		}
	}()

	wg.Wait()
	return res, firstErr
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" || path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open input %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" || path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create output %s", path)
	}
	return f, f.Close, nil
}
