package storage

import (
	"errors"
)

const (
	OneB  = 1 << 0  // 1
	OneKB = 1 << 10 // 1,024

	// PageSize is the only page size this reader understands. The metadata
	// page records the size the file was created with; files built with any
	// other value are rejected at decode time, not adapted to.
	PageSize = 4 * OneKB // 4,096
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

// PageNumber is a 0-based page index; the page starts at PageNumber*PageSize.
type PageNumber = uint32

var (
	ErrIO             = errors.New("storage: I/O error")
	ErrTruncatedPage  = errors.New("storage: truncated page")
	ErrPageOutOfRange = errors.New("storage: page number out of range")
	ErrClosed         = errors.New("storage: source is closed")
)
