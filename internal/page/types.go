// Package page decodes single Berkeley DB pages: the fixed header, the
// offset table that follows it and the entries it points at.
//
// Every value handed out by this package is a view into the page bytes it
// was decoded from; nothing is copied except the small fixed-width header
// fields.
package page

import (
	"errors"
	"fmt"

	"github.com/tuannm99/bdbread/internal/storage"
)

// Size is the fixed page size. It mirrors storage.PageSize so decoders can
// be used without a Source.
const Size = storage.PageSize

const (
	// MetaMagic sits at byte 12 of a btree metadata page.
	MetaMagic uint32 = 0x00053162

	// MetaSize is the number of bytes of a metadata page that carry fields.
	MetaSize = 512

	// HeaderSize is the length of the btree page header; the offset table
	// starts right after it.
	HeaderSize = 26

	offsetSize = 2
)

// PageType is the type byte at offset 25 of every page.
type PageType uint8

const (
	TypeInvalid       PageType = 0
	TypeDuplicate     PageType = 1
	TypeHashUnsorted  PageType = 2
	TypeInternal      PageType = 3
	TypeInternalRecno PageType = 4
	TypeLeaf          PageType = 5
	TypeLeafRecno     PageType = 6
	TypeOverflow      PageType = 7
	TypeHashMeta      PageType = 8
	TypeBTreeMeta     PageType = 9
	TypeQueueMeta     PageType = 10
	TypeQueueData     PageType = 11
	TypeLeafDup       PageType = 12
	TypeHash          PageType = 13
)

func (t PageType) String() string {
	switch t {
	case TypeInvalid:
		return "invalid"
	case TypeDuplicate:
		return "duplicate"
	case TypeHashUnsorted:
		return "hash_unsorted"
	case TypeInternal:
		return "internal_btree"
	case TypeInternalRecno:
		return "internal_recno"
	case TypeLeaf:
		return "leaf_btree"
	case TypeLeafRecno:
		return "leaf_recno"
	case TypeOverflow:
		return "overflow"
	case TypeHashMeta:
		return "hash_meta"
	case TypeBTreeMeta:
		return "btree_meta"
	case TypeQueueMeta:
		return "queue_meta"
	case TypeQueueData:
		return "queue_data"
	case TypeLeafDup:
		return "leaf_dup"
	case TypeHash:
		return "hash"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// btree reports whether t may appear in a btree page header.
func (t PageType) btree() bool {
	return t == TypeInternal || t == TypeLeaf || t == TypeBTreeMeta
}

// EntryType is the type byte stored at offset 2 of every entry.
type EntryType uint8

const (
	EntryKeyData   EntryType = 1
	EntryDuplicate EntryType = 2
	EntryOverflow  EntryType = 3
)

func (t EntryType) String() string {
	switch t {
	case EntryKeyData:
		return "keydata"
	case EntryDuplicate:
		return "duplicate"
	case EntryOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

var (
	ErrInvalidPageSize  = errors.New("page: buffer size != page size")
	ErrUnknownPageType  = errors.New("page: unknown page type")
	ErrInvalidEntry     = errors.New("page: invalid entry")
	ErrUnsupportedEntry = fmt.Errorf("%w: unsupported entry type", ErrInvalidEntry)
	ErrOffsetOutOfRange = errors.New("page: entry offset out of range")
	ErrNoEntry          = errors.New("page: no such entry")
)
