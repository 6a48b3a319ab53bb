package page

import (
	"fmt"

	"github.com/tuannm99/bdbread/internal/alias/bx"
)

const (
	// KeyDataHeaderSize: [length uint16][type uint8], data follows.
	KeyDataHeaderSize = 3

	// InternalHeaderSize: [length uint16][type uint8][unused uint8]
	// [pgno uint32][nrecs uint32], key follows.
	InternalHeaderSize = 12
)

// EntryKind says which layout an Entry was decoded with. It follows from
// the page level, never from the entry bytes.
type EntryKind uint8

const (
	KeyDataEntry EntryKind = iota + 1
	InternalEntry
)

// Entry is one decoded item of a btree page. Data aliases the page buffer.
//
// On a leaf, entries alternate key, value, key, value. On an internal page
// each entry routes to Pgno and Data is its separator key.
type Entry struct {
	Kind   EntryKind
	Length uint16
	Type   EntryType
	Pgno   uint32 // internal only
	NRecs  uint32 // internal only
	Data   []byte
}

// DecodeEntry decodes b as a leaf item when level is LeafLevel, otherwise
// as an internal item.
func DecodeEntry(b []byte, level uint8) (Entry, error) {
	if level == LeafLevel {
		return DecodeKeyData(b)
	}
	return DecodeInternal(b)
}

// DecodeKeyData decodes a leaf item.
func DecodeKeyData(b []byte) (Entry, error) {
	if len(b) < KeyDataHeaderSize {
		return Entry{}, fmt.Errorf("%w: keydata item is %d bytes, need %d",
			ErrInvalidEntry, len(b), KeyDataHeaderSize)
	}

	typ := EntryType(b[2])
	switch typ {
	case EntryKeyData:
	case EntryDuplicate, EntryOverflow:
		return Entry{}, fmt.Errorf("%w: %s", ErrUnsupportedEntry, typ)
	default:
		return Entry{}, fmt.Errorf("%w: type %s", ErrInvalidEntry, typ)
	}

	length := bx.U16(b)
	data, ok := bx.Span(b, KeyDataHeaderSize, int(length))
	if !ok {
		return Entry{}, fmt.Errorf("%w: keydata length %d overruns %d-byte item",
			ErrInvalidEntry, length, len(b))
	}
	return Entry{
		Kind:   KeyDataEntry,
		Length: length,
		Type:   typ,
		Data:   data,
	}, nil
}

// DecodeInternal decodes an internal (routing) item.
func DecodeInternal(b []byte) (Entry, error) {
	if len(b) < InternalHeaderSize {
		return Entry{}, fmt.Errorf("%w: internal item is %d bytes, need %d",
			ErrInvalidEntry, len(b), InternalHeaderSize)
	}

	length := bx.U16(b)
	data, ok := bx.Span(b, InternalHeaderSize, int(length))
	if !ok {
		return Entry{}, fmt.Errorf("%w: internal length %d overruns %d-byte item",
			ErrInvalidEntry, length, len(b))
	}
	return Entry{
		Kind:   InternalEntry,
		Length: length,
		Type:   EntryType(b[2]),
		Pgno:   bx.U32At(b, 4),
		NRecs:  bx.U32At(b, 8),
		Data:   data,
	}, nil
}

// EncodeKeyData builds a leaf item for data.
// Layout: [length uint16][type=1][data]
func EncodeKeyData(data []byte) []byte {
	buf := make([]byte, KeyDataHeaderSize+len(data))
	bx.PutU16(buf, uint16(len(data)))
	buf[2] = byte(EntryKeyData)
	copy(buf[KeyDataHeaderSize:], data)
	return buf
}

// EncodeInternal builds an internal item routing key to child.
// Layout: [length uint16][type=1][0][pgno uint32][nrecs uint32][key]
func EncodeInternal(child, nrecs uint32, key []byte) []byte {
	buf := make([]byte, InternalHeaderSize+len(key))
	bx.PutU16(buf, uint16(len(key)))
	buf[2] = byte(EntryKeyData)
	bx.PutU32At(buf, 4, child)
	bx.PutU32At(buf, 8, nrecs)
	copy(buf[InternalHeaderSize:], key)
	return buf
}
