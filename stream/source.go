// Package stream unifies the shapes a lazy byte source can take behind one
// interface, Source, and provides helpers to drain and collect it.
//
// Every Source is single-use: once it reports io.EOF it stays exhausted and
// cannot be restarted. Next on a closed Source returns ErrClosed.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"
	"sync/atomic"
)

// DefaultChunkSize is the read size used by FromReader when none is given.
const DefaultChunkSize = 32 * 1024

// ErrClosed is returned by Next after a Source has been closed early.
var ErrClosed = errors.New("stream: source closed")

// ErrUnsupported is returned by Of for values that cannot produce bytes.
var ErrUnsupported = errors.New("stream: unsupported source type")

// Source produces byte chunks lazily.
type Source interface {
	// Next returns the next chunk, or io.EOF once the sequence is exhausted.
	Next(ctx context.Context) ([]byte, error)

	// Close releases the underlying resource. It is safe to call more than once.
	Close() error
}

// readerSource reads fixed-size chunks from an io.Reader.
type readerSource struct {
	r      io.Reader
	size   int
	mu     sync.Mutex
	done   bool
	closed atomic.Bool
	once   sync.Once
	close  error
}

// FromReader wraps a reader in a Source. Each call to Next performs at most
// one Read into a freshly allocated chunk of size bytes (DefaultChunkSize if
// size <= 0). Close closes r when it implements io.Closer, which also unblocks
// a pending read on network bodies.
//
//nolint:ireturn // Source is the package's unifying abstraction.
func FromReader(r io.Reader, size int) Source {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &readerSource{r: r, size: size}
}

func (s *readerSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrClosed
	}
	if s.done {
		return nil, io.EOF
	}

	buf := make([]byte, s.size)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			if errors.Is(err, io.EOF) {
				s.done = true
			}
			return buf[:n], nil
		}
		if errors.Is(err, io.EOF) {
			s.done = true
			return nil, io.EOF
		}
		if err != nil {
			s.done = true
			if s.closed.Load() {
				return nil, ErrClosed
			}
			return nil, fmt.Errorf("stream: read: %w", err)
		}
	}
}

// Close does not take mu; it may run while Next is blocked in Read.
func (s *readerSource) Close() error {
	s.closed.Store(true)
	s.once.Do(func() {
		if c, ok := s.r.(io.Closer); ok {
			s.close = c.Close()
		}
	})
	return s.close
}

// sliceSource yields pre-resolved chunks in order.
type sliceSource struct {
	mu     sync.Mutex
	chunks [][]byte
	closed bool
}

// FromBytes wraps a single already-resolved value as a one-element sequence.
//
//nolint:ireturn // Source is the package's unifying abstraction.
func FromBytes(b []byte) Source {
	return &sliceSource{chunks: [][]byte{b}}
}

// FromChunks yields the given chunks in order.
//
//nolint:ireturn // Source is the package's unifying abstraction.
func FromChunks(chunks ...[]byte) Source {
	return &sliceSource{chunks: chunks}
}

func (s *sliceSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if len(s.chunks) == 0 {
		return nil, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks[0] = nil
	s.chunks = s.chunks[1:]
	return chunk, nil
}

func (s *sliceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.chunks = nil
	return nil
}

// seqSource pulls from a synchronous iterator.
type seqSource struct {
	mu     sync.Mutex
	next   func() ([]byte, bool)
	stop   func()
	done   bool
	closed bool
}

// FromSeq adapts a synchronous iterator. Close stops the iterator early.
//
//nolint:ireturn // Source is the package's unifying abstraction.
func FromSeq(seq iter.Seq[[]byte]) Source {
	next, stop := iter.Pull(seq)
	return &seqSource{next: next, stop: stop}
}

func (s *seqSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.done {
		return nil, io.EOF
	}
	chunk, ok := s.next()
	if !ok {
		s.done = true
		return nil, io.EOF
	}
	return chunk, nil
}

func (s *seqSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stop()
	return nil
}

// Of normalizes v into a Source. A value that already is a Source is returned
// unchanged and takes precedence over any other shape it also has; iterators,
// readers, byte slices and strings are adapted. Anything else is rejected.
//
//nolint:ireturn // Source is the package's unifying abstraction.
func Of(v any) (Source, error) {
	switch src := v.(type) {
	case Source:
		return src, nil
	case iter.Seq[[]byte]:
		return FromSeq(src), nil
	case func(yield func([]byte) bool):
		return FromSeq(src), nil
	case io.Reader:
		return FromReader(src, 0), nil
	case []byte:
		return FromBytes(src), nil
	case string:
		return FromBytes([]byte(src)), nil
	case nil:
		return FromChunks(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}
