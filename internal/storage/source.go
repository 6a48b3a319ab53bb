package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/tuannm99/bdbread/internal/alias/util"
)

// Source is the whole database file held in memory. It is read once, never
// written, and shared by every page view handed out by the reader.
//
// Views returned by Page alias the underlying buffer. After Close, Page
// fails with ErrClosed so a stale handle cannot keep reading through the
// Source, although byte slices already handed out stay valid memory.
type Source struct {
	buf  atomic.Pointer[[]byte]
	name string
	size int64
}

// Open reads the file at path into memory.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer util.CloseFunc(path, f)

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}

	s, err := newSource(path, buf)
	if err != nil {
		return nil, err
	}
	slog.Debug("storage.open", "path", path, "size", s.size, "pages", s.PageCount())
	return s, nil
}

// FromBytes wraps an in-memory image. The caller must not modify buf
// afterwards.
func FromBytes(buf []byte) (*Source, error) {
	return newSource("<memory>", buf)
}

func newSource(name string, buf []byte) (*Source, error) {
	if len(buf) < PageSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, need at least one %d-byte page",
			ErrTruncatedPage, name, len(buf), PageSize)
	}
	if rem := len(buf) % PageSize; rem != 0 {
		return nil, fmt.Errorf("%w: %s ends with a partial page of %d bytes",
			ErrTruncatedPage, name, rem)
	}

	s := &Source{name: name, size: int64(len(buf))}
	s.buf.Store(&buf)
	return s, nil
}

// Name is the path the Source was opened from.
func (s *Source) Name() string { return s.name }

// Size is the file length in bytes.
func (s *Source) Size() int64 { return s.size }

// PageCount returns the number of whole pages in the file.
func (s *Source) PageCount() uint32 {
	return uint32(s.size / PageSize)
}

// Page returns the PageSize bytes of page pgno. The slice aliases the
// Source buffer and must not be modified.
func (s *Source) Page(pgno PageNumber) ([]byte, error) {
	bp := s.buf.Load()
	if bp == nil {
		return nil, ErrClosed
	}
	if pgno >= s.PageCount() {
		return nil, fmt.Errorf("%w: page %d, file has %d pages", ErrPageOutOfRange, pgno, s.PageCount())
	}

	off := int64(pgno) * PageSize
	buf := *bp
	if off+PageSize > int64(len(buf)) {
		return nil, fmt.Errorf("%w: page %d", ErrTruncatedPage, pgno)
	}
	return buf[off : off+PageSize : off+PageSize], nil
}

// Closed reports whether Close has been called.
func (s *Source) Closed() bool {
	return s.buf.Load() == nil
}

// Close releases the buffer. Calling Close more than once is a no-op.
func (s *Source) Close() error {
	if s.buf.Swap(nil) != nil {
		slog.Debug("storage.close", "name", s.name)
	}
	return nil
}
