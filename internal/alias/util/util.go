package util

import (
	"io"
	"log/slog"
)

// CloseFunc closes c and logs a failure instead of returning it; meant for
// defers on read-only handles where a close error changes nothing.
func CloseFunc(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Error("close", "name", name, "err", err)
	}
}
