package page

import (
	"fmt"

	"github.com/tuannm99/bdbread/internal/alias/bx"
)

// Kind tells the two header layouts apart.
type Kind uint8

const (
	KindMetadata Kind = iota + 1
	KindBTree
)

func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindBTree:
		return "btree"
	default:
		return "unknown"
	}
}

// Header is either a *MetaHeader or a *BTreeHeader.
type Header interface {
	Kind() Kind
	PageNumber() uint32
	Put(buf []byte)
}

// Metadata page offsets.
const (
	offMetaLSN         = 0
	offMetaPgno        = 8
	offMetaMagic       = 12
	offMetaVersion     = 16
	offMetaPageSize    = 20
	offMetaEncryptAlg  = 24
	offMetaType        = 25
	offMetaFlagsByte   = 26
	offMetaFree        = 28
	offMetaLastPgno    = 32
	offMetaNParts      = 36
	offMetaKeyCount    = 40
	offMetaRecordCount = 44
	offMetaFlags       = 48
	offMetaUID         = 52
	offMetaMinKey      = 76
	offMetaReLen       = 80
	offMetaRePad       = 84
	offMetaRoot        = 88
	offMetaCryptoMagic = 460
	offMetaIV          = 476
	offMetaChecksum    = 492
)

// MetaHeader is the btree metadata page. Only Root is needed to navigate;
// everything else is reported as-is. IV and Checksum are raw and never
// verified.
type MetaHeader struct {
	LSN         uint64
	Pgno        uint32
	Magic       uint32
	Version     uint32
	PageSize    uint32
	EncryptAlg  uint8
	Type        PageType
	MetaFlags   uint8
	Free        uint32
	LastPgno    uint32
	NParts      uint32
	KeyCount    uint32
	RecordCount uint32
	Flags       uint32
	UID         [20]byte
	MinKey      uint32
	ReLen       uint32
	RePad       uint32
	Root        uint32
	CryptoMagic uint32
	IV          [16]byte
	Checksum    [20]byte
}

func (m *MetaHeader) Kind() Kind         { return KindMetadata }
func (m *MetaHeader) PageNumber() uint32 { return m.Pgno }

// Put writes every field of m at its on-disk offset. Bytes that carry no
// field are left untouched. buf must hold at least MetaSize bytes.
func (m *MetaHeader) Put(buf []byte) {
	bx.PutU64At(buf, offMetaLSN, m.LSN)
	bx.PutU32At(buf, offMetaPgno, m.Pgno)
	bx.PutU32At(buf, offMetaMagic, m.Magic)
	bx.PutU32At(buf, offMetaVersion, m.Version)
	bx.PutU32At(buf, offMetaPageSize, m.PageSize)
	buf[offMetaEncryptAlg] = m.EncryptAlg
	buf[offMetaType] = byte(m.Type)
	buf[offMetaFlagsByte] = m.MetaFlags
	bx.PutU32At(buf, offMetaFree, m.Free)
	bx.PutU32At(buf, offMetaLastPgno, m.LastPgno)
	bx.PutU32At(buf, offMetaNParts, m.NParts)
	bx.PutU32At(buf, offMetaKeyCount, m.KeyCount)
	bx.PutU32At(buf, offMetaRecordCount, m.RecordCount)
	bx.PutU32At(buf, offMetaFlags, m.Flags)
	copy(buf[offMetaUID:offMetaUID+len(m.UID)], m.UID[:])
	bx.PutU32At(buf, offMetaMinKey, m.MinKey)
	bx.PutU32At(buf, offMetaReLen, m.ReLen)
	bx.PutU32At(buf, offMetaRePad, m.RePad)
	bx.PutU32At(buf, offMetaRoot, m.Root)
	bx.PutU32At(buf, offMetaCryptoMagic, m.CryptoMagic)
	copy(buf[offMetaIV:offMetaIV+len(m.IV)], m.IV[:])
	copy(buf[offMetaChecksum:offMetaChecksum+len(m.Checksum)], m.Checksum[:])
}

func decodeMeta(raw []byte) *MetaHeader {
	m := &MetaHeader{
		LSN:         bx.U64At(raw, offMetaLSN),
		Pgno:        bx.U32At(raw, offMetaPgno),
		Magic:       bx.U32At(raw, offMetaMagic),
		Version:     bx.U32At(raw, offMetaVersion),
		PageSize:    bx.U32At(raw, offMetaPageSize),
		EncryptAlg:  raw[offMetaEncryptAlg],
		Type:        PageType(raw[offMetaType]),
		MetaFlags:   raw[offMetaFlagsByte],
		Free:        bx.U32At(raw, offMetaFree),
		LastPgno:    bx.U32At(raw, offMetaLastPgno),
		NParts:      bx.U32At(raw, offMetaNParts),
		KeyCount:    bx.U32At(raw, offMetaKeyCount),
		RecordCount: bx.U32At(raw, offMetaRecordCount),
		Flags:       bx.U32At(raw, offMetaFlags),
		MinKey:      bx.U32At(raw, offMetaMinKey),
		ReLen:       bx.U32At(raw, offMetaReLen),
		RePad:       bx.U32At(raw, offMetaRePad),
		Root:        bx.U32At(raw, offMetaRoot),
		CryptoMagic: bx.U32At(raw, offMetaCryptoMagic),
	}
	copy(m.UID[:], raw[offMetaUID:])
	copy(m.IV[:], raw[offMetaIV:])
	copy(m.Checksum[:], raw[offMetaChecksum:])
	return m
}

// BTree page header offsets.
const (
	offLSN      = 0
	offPgno     = 8
	offPrevPgno = 12
	offNextPgno = 16
	offEntries  = 20
	offHFOffset = 22
	offLevel    = 24
	offType     = 25
)

// LeafLevel is the level of every leaf page; internal pages sit above it.
const LeafLevel = 1

// BTreeHeader is the 26-byte header of internal and leaf pages.
type BTreeHeader struct {
	LSN      uint64
	Pgno     uint32
	PrevPgno uint32
	NextPgno uint32
	Entries  uint16
	HFOffset uint16
	Level    uint8
	Type     PageType
}

func (h *BTreeHeader) Kind() Kind         { return KindBTree }
func (h *BTreeHeader) PageNumber() uint32 { return h.Pgno }

// Put writes the header into the first HeaderSize bytes of buf.
func (h *BTreeHeader) Put(buf []byte) {
	bx.PutU64At(buf, offLSN, h.LSN)
	bx.PutU32At(buf, offPgno, h.Pgno)
	bx.PutU32At(buf, offPrevPgno, h.PrevPgno)
	bx.PutU32At(buf, offNextPgno, h.NextPgno)
	bx.PutU16At(buf, offEntries, h.Entries)
	bx.PutU16At(buf, offHFOffset, h.HFOffset)
	buf[offLevel] = h.Level
	buf[offType] = byte(h.Type)
}

func decodeBTree(raw []byte) (*BTreeHeader, error) {
	h := &BTreeHeader{
		LSN:      bx.U64At(raw, offLSN),
		Pgno:     bx.U32At(raw, offPgno),
		PrevPgno: bx.U32At(raw, offPrevPgno),
		NextPgno: bx.U32At(raw, offNextPgno),
		Entries:  bx.U16At(raw, offEntries),
		HFOffset: bx.U16At(raw, offHFOffset),
		Level:    raw[offLevel],
		Type:     PageType(raw[offType]),
	}
	if !h.Type.btree() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPageType, h.Type)
	}
	return h, nil
}

// IsMetadata probes the magic number only; it does not decode the page.
func IsMetadata(raw []byte) bool {
	return bx.Fits(raw, offMetaMagic, 4) && bx.U32At(raw, offMetaMagic) == MetaMagic
}

// DecodeHeader picks the header layout from the magic number at byte 12
// and decodes it. raw must be exactly one page.
func DecodeHeader(raw []byte) (Header, error) {
	if len(raw) != Size {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidPageSize, len(raw))
	}
	if IsMetadata(raw) {
		return decodeMeta(raw), nil
	}
	return decodeBTree(raw)
}
