package btree

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func openImage(t *testing.T, image []byte, opts Options) *Database {
	t.Helper()
	db, err := FromBytes(image, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type pair struct {
	Key, Value string
}

// collect drains a fresh scan.
func collect(t *testing.T, db *Database) ([]pair, error) {
	t.Helper()
	var out []pair
	c := db.Scan()
	for c.Next() {
		out = append(out, pair{string(c.Key()), string(c.Value())})
	}
	return out, c.Err()
}
