package stream

import (
	"context"
	"errors"
	"io"
)

// Drain pulls chunks from src until it is exhausted, calling fn for every
// non-empty chunk. The source is closed before Drain returns, whether or not
// it was fully consumed.
func Drain(ctx context.Context, src Source, fn func([]byte) error) (err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for {
		chunk, nerr := src.Next(ctx)
		if errors.Is(nerr, io.EOF) {
			return nil
		}
		if nerr != nil {
			return nerr
		}
		if len(chunk) == 0 {
			continue
		}
		if ferr := fn(chunk); ferr != nil {
			return ferr
		}
	}
}

// Collect drains src into one contiguous buffer.
func Collect(ctx context.Context, src Source) ([]byte, error) {
	var agg Aggregate
	if err := Drain(ctx, src, agg.Add); err != nil {
		return nil, err
	}
	return agg.Bytes(), nil
}

// Aggregate accumulates chunks and concatenates them on demand.
// The zero value is ready to use.
type Aggregate struct {
	chunks [][]byte
	size   int
}

// Add appends a chunk. The chunk is retained, not copied.
func (a *Aggregate) Add(chunk []byte) error {
	a.chunks = append(a.chunks, chunk)
	a.size += len(chunk)
	return nil
}

// Len returns the total number of bytes added so far.
func (a *Aggregate) Len() int {
	return a.size
}

// Bytes returns the chunks concatenated in the order they were added.
func (a *Aggregate) Bytes() []byte {
	out := make([]byte, 0, a.size)
	for _, c := range a.chunks {
		out = append(out, c...)
	}
	return out
}

// reader adapts a Source back into an io.ReadCloser.
type reader struct {
	ctx context.Context //nolint:containedctx // reads have no context parameter of their own.
	src Source
	buf []byte
	err error
}

// NewReader returns an io.ReadCloser that reads the chunks of src in order.
// ctx is passed to every Next call; Close closes src.
func NewReader(ctx context.Context, src Source) io.ReadCloser {
	return &reader{ctx: ctx, src: src}
}

func (r *reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.buf) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		chunk, err := r.src.Next(r.ctx)
		if err != nil {
			r.err = err
			continue
		}
		r.buf = chunk
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *reader) Close() error {
	return r.src.Close()
}
