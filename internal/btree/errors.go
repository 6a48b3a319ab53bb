package btree

import "errors"

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("btree: key not found")

	// ErrNoRootPage means the file has no metadata page to start from.
	ErrNoRootPage = errors.New("btree: no metadata page, root unknown")

	// ErrTraversal covers descents that cannot continue: a key below every
	// separator, a link to a missing page, a page visited twice, or a page
	// that is neither internal nor leaf where one was expected.
	ErrTraversal = errors.New("btree: traversal error")

	// ErrUnpairedEntry is returned in strict mode when a leaf ends with a
	// key that has no value.
	ErrUnpairedEntry = errors.New("btree: leaf key has no value")
)
