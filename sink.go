package d7r

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Sink is the diagnostic side channel consumed by combinators. Trace
// receives intercepted failures (with a stack when one was captured at a
// panic recovery site); Timing receives execution-time reports.
//
// A Sink must be safe for concurrent use.
type Sink interface {
	Trace(err error, stack []byte)
	Timing(name string, elapsed time.Duration)
}

// writerSink writes failure traces to errOut and timing reports to out.
type writerSink struct {
	out    io.Writer
	errOut io.Writer
}

// NewWriterSink returns a Sink that writes timing reports to out and
// failure traces to errOut.
func NewWriterSink(out, errOut io.Writer) Sink {
	return &writerSink{out: out, errOut: errOut}
}

func (s *writerSink) Trace(err error, stack []byte) {
	fmt.Fprintln(s.errOut, err)

	if len(stack) > 0 {
		s.errOut.Write(stack)
	}
}

func (s *writerSink) Timing(name string, elapsed time.Duration) {
	fmt.Fprintf(s.out, "%s executed in %v seconds\n", name, elapsed.Seconds())
}

//nolint:gochecknoglobals // singleton via sync.OnceValue
var defaultSink = sync.OnceValue(func() Sink {
	return NewWriterSink(os.Stdout, os.Stderr)
})

// DefaultSink returns the package-level sink, creating it on first call.
// It reports timings on standard output and failure traces on standard
// error.
func DefaultSink() Sink {
	return defaultSink()
}

// slogSink routes diagnostics through a structured logger.
type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a Sink backed by logger. Failure traces are logged at
// error level, timing reports at info level.
func NewSlogSink(logger *slog.Logger) Sink {
	return &slogSink{logger: logger}
}

func (s *slogSink) Trace(err error, stack []byte) {
	if len(stack) > 0 {
		s.logger.Error("call suppressed", "error", err, "stack", string(stack))
		return
	}

	s.logger.Error("call suppressed", "error", err)
}

func (s *slogSink) Timing(name string, elapsed time.Duration) {
	s.logger.Info("call timed", "name", name, "elapsed", elapsed)
}
