package btree

import "log/slog"

// Options tune a Database. The zero value is valid: default logger, no
// page cache, lenient pairing.
type Options struct {
	Logger *slog.Logger

	// CachePages bounds the decoded-page cache. 0 disables it.
	CachePages int64

	// StrictPairs makes a leaf that ends with a key but no value an error
	// (ErrUnpairedEntry). When false the dangling key is treated as absent
	// and a warning is logged.
	StrictPairs bool
}

func DefaultOptions() Options {
	return Options{
		Logger:     slog.Default(),
		CachePages: 1024,
	}
}
