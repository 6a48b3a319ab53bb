package page

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Fprintf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

func (e *errWriter) Fprintln(a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, a...)
}

func utf8Preview(b []byte) string {
	if !utf8.Valid(b) {
		return ""
	}
	var buf bytes.Buffer
	for _, r := range string(b) {
		if unicode.IsPrint(r) && r != '\n' && r != '\r' && r != '\t' {
			buf.WriteRune(r)
		} else {
			buf.WriteByte('.')
		}
	}
	return buf.String()
}

// ASCII preview: printable -> itself, else '.'
func asciiPreview(b []byte) string {
	var buf bytes.Buffer
	for _, c := range b {
		r := rune(c)
		if c < utf8.RuneSelf && unicode.IsPrint(r) {
			buf.WriteRune(r)
		} else {
			buf.WriteByte('.')
		}
	}
	return buf.String()
}

// Preview renders b for humans: quoted text when it is printable UTF-8,
// hex otherwise. At most max bytes are shown.
func Preview(b []byte, max int) string {
	if len(b) == 0 {
		return `""`
	}
	cut := b
	if max > 0 && len(cut) > max {
		cut = cut[:max]
	}
	suffix := ""
	if len(cut) < len(b) {
		suffix = "..."
	}
	if s := utf8Preview(cut); s != "" && s == string(cut) {
		return fmt.Sprintf("%q%s", s, suffix)
	}
	return "0x" + hex.EncodeToString(cut) + suffix
}

// Summary is a one-line description of the page header.
func (p *Page) Summary() string {
	switch h := p.Header.(type) {
	case *MetaHeader:
		return fmt.Sprintf("page %d: metadata version=%d pagesize=%d root=%d last=%d keys=%d records=%d",
			p.pgno, h.Version, h.PageSize, h.Root, h.LastPgno, h.KeyCount, h.RecordCount)
	case *BTreeHeader:
		return fmt.Sprintf("page %d: %s level=%d entries=%d prev=%d next=%d lsn=%#x",
			p.pgno, h.Type, h.Level, h.Entries, h.PrevPgno, h.NextPgno, h.LSN)
	default:
		return fmt.Sprintf("page %d: unknown header", p.pgno)
	}
}

// Debug prints the header, the offset table and entry previews to w.
func (p *Page) Debug(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.Fprintf("=== Page %d ===\n", p.pgno)
	switch h := p.Header.(type) {
	case *MetaHeader:
		ew.Fprintf("kind=metadata lsn=%#x pgno=%d magic=%#08x version=%d pagesize=%d\n",
			h.LSN, h.Pgno, h.Magic, h.Version, h.PageSize)
		ew.Fprintf("ec=%d type=%s mf=%#02x free=%d last_pgno=%d nparts=%d\n",
			h.EncryptAlg, h.Type, h.MetaFlags, h.Free, h.LastPgno, h.NParts)
		ew.Fprintf("key_count=%d record_count=%d flags=%#08x minkey=%d re_len=%d re_pad=%d\n",
			h.KeyCount, h.RecordCount, h.Flags, h.MinKey, h.ReLen, h.RePad)
		ew.Fprintf("root=%d crypto_magic=%#08x\n", h.Root, h.CryptoMagic)
		ew.Fprintf("uid=%s\niv=%s\nchksum=%s\n",
			hex.EncodeToString(h.UID[:]), hex.EncodeToString(h.IV[:]), hex.EncodeToString(h.Checksum[:]))
	case *BTreeHeader:
		ew.Fprintf("kind=btree type=%s level=%d lsn=%#x pgno=%d\n", h.Type, h.Level, h.LSN, h.Pgno)
		ew.Fprintf("prev=%d next=%d entries=%d hf_offset=%d\n",
			h.PrevPgno, h.NextPgno, h.Entries, h.HFOffset)
		p.debugEntries(ew)
	}
	ew.Fprintln("=== End Page ===")
	return ew.err
}

func (p *Page) debugEntries(ew *errWriter) {
	const maxPreview = 32

	ew.Fprintln("\n-- Entries --")
	if p.NumEntries() == 0 {
		ew.Fprintln("(none)")
	}
	for i := 0; i < p.NumEntries(); i++ {
		if ew.err != nil {
			break
		}
		off, err := p.Offset(i)
		if err != nil {
			ew.Fprintf("[%d] <offset: %v>\n", i, err)
			continue
		}
		e, err := p.EntryAt(i)
		if err != nil {
			ew.Fprintf("[%d] off=%d <error: %v>\n", i, off, err)
			continue
		}
		if e.Kind == InternalEntry {
			ew.Fprintf("[%d] off=%d len=%d child=%d nrecs=%d key=%s\n",
				i, off, e.Length, e.Pgno, e.NRecs, Preview(e.Data, maxPreview))
			continue
		}
		role := "key"
		if i%2 == 1 {
			role = "val"
		}
		ew.Fprintf("[%d] off=%d len=%d %s=%s\n", i, off, e.Length, role, Preview(e.Data, maxPreview))
		if s := asciiPreview(e.Data); len(e.Data) > 0 && utf8Preview(e.Data) == "" {
			ew.Fprintf("     ascii=%q\n", s)
		}
	}
}

func (p *Page) DebugString() string {
	var b bytes.Buffer
	if err := p.Debug(&b); err != nil {
		_, _ = b.WriteString("\n<debug write error: " + err.Error() + ">\n")
	}
	return b.String()
}
