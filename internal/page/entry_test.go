package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeyData(t *testing.T) {
	b := EncodeKeyData([]byte("hello"))
	require.Len(t, b, KeyDataHeaderSize+5)

	e, err := DecodeKeyData(b)
	require.NoError(t, err)
	assert.Equal(t, KeyDataEntry, e.Kind)
	assert.Equal(t, uint16(5), e.Length)
	assert.Equal(t, EntryKeyData, e.Type)
	assert.Equal(t, []byte("hello"), e.Data)

	// trailing alignment padding is not part of the payload
	padded := append(b, 0, 0, 0)
	e, err = DecodeKeyData(padded)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), e.Data)

	// no copy
	padded[KeyDataHeaderSize] = 'j'
	assert.Equal(t, []byte("jello"), e.Data)
}

func TestDecodeKeyData_Empty(t *testing.T) {
	e, err := DecodeKeyData(EncodeKeyData(nil))
	require.NoError(t, err)
	assert.Empty(t, e.Data)
}

func TestDecodeKeyData_Invalid(t *testing.T) {
	_, err := DecodeKeyData([]byte{1, 0})
	require.ErrorIs(t, err, ErrInvalidEntry)

	b := EncodeKeyData([]byte("x"))
	b[2] = 9
	_, err = DecodeKeyData(b)
	require.ErrorIs(t, err, ErrInvalidEntry)
	require.NotErrorIs(t, err, ErrUnsupportedEntry)

	b[2] = byte(EntryOverflow)
	_, err = DecodeKeyData(b)
	require.ErrorIs(t, err, ErrUnsupportedEntry)
	require.ErrorIs(t, err, ErrInvalidEntry)

	b[2] = byte(EntryDuplicate)
	_, err = DecodeKeyData(b)
	require.ErrorIs(t, err, ErrUnsupportedEntry)

	// length claims more than the item holds
	b = EncodeKeyData([]byte("abc"))
	b[0] = 10
	_, err = DecodeKeyData(b)
	require.ErrorIs(t, err, ErrInvalidEntry)
}

func TestDecodeInternal(t *testing.T) {
	b := EncodeInternal(17, 250, []byte("sep"))
	require.Len(t, b, InternalHeaderSize+3)

	e, err := DecodeInternal(b)
	require.NoError(t, err)
	assert.Equal(t, InternalEntry, e.Kind)
	assert.Equal(t, uint32(17), e.Pgno)
	assert.Equal(t, uint32(250), e.NRecs)
	assert.Equal(t, uint16(3), e.Length)
	assert.Equal(t, []byte("sep"), e.Data)

	// empty leftmost separator
	e, err = DecodeInternal(EncodeInternal(2, 0, nil))
	require.NoError(t, err)
	assert.Empty(t, e.Data)
	assert.Equal(t, uint32(2), e.Pgno)
}

func TestDecodeInternal_Invalid(t *testing.T) {
	_, err := DecodeInternal(make([]byte, InternalHeaderSize-1))
	require.ErrorIs(t, err, ErrInvalidEntry)

	b := EncodeInternal(1, 0, []byte("k"))
	b[0] = 200
	_, err = DecodeInternal(b)
	require.ErrorIs(t, err, ErrInvalidEntry)
}

func TestDecodeEntry_ByLevel(t *testing.T) {
	e, err := DecodeEntry(EncodeKeyData([]byte("v")), LeafLevel)
	require.NoError(t, err)
	assert.Equal(t, KeyDataEntry, e.Kind)

	e, err = DecodeEntry(EncodeInternal(3, 0, []byte("k")), 2)
	require.NoError(t, err)
	assert.Equal(t, InternalEntry, e.Kind)

	// a short keydata item is too short for the internal layout
	_, err = DecodeEntry(EncodeKeyData([]byte("v")), 2)
	require.ErrorIs(t, err, ErrInvalidEntry)
}
