// Package bytestream owns the raw byte buffer the tokenizers run over and
// exposes a character-at-a-time cursor with lookahead, reconsume, and
// position tracking (§3 ByteStream). Decoding is configurable (UTF-8,
// ASCII, ISO-8859-1, UTF-16LE/BE) and carries a confidence flag that may
// change mid-parse, following the teacher's package-scoped tracer idiom
// (dom/style/property.go).
package bytestream

import (
	"fmt"

	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.bytestream")
}

// Encoding identifies how raw bytes are decoded into runes.
type Encoding int

const (
	UTF8 Encoding = iota
	ASCII
	ISO88591
	UTF16LE
	UTF16BE
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case ASCII:
		return "ASCII"
	case ISO88591:
		return "ISO-8859-1"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	}
	return "unknown"
}

// Confidence tracks how sure the stream is of its current encoding.
// Transitions from Tentative to Certain at most once (§3, GLOSSARY).
type Confidence int

const (
	Tentative Confidence = iota
	Certain
)

// Stream is a mutable cursor over a decoded character sequence. It is not
// safe for concurrent use; per §5, the DOM arena (and the stream feeding
// it) is owned exclusively by one stage at a time.
type Stream struct {
	raw        []byte
	runes      []rune
	offsets    []int // byte offset of the start of runes[i]
	pos        int   // index into runes
	encoding   Encoding
	confidence Confidence
	closed     bool
	reconsumed bool
}

// ErrBadEncodingConfig is the single fatal error surfaced when the initial
// byte stream cannot be created (§7 "Fatal errors").
type ErrBadEncodingConfig struct{ Encoding Encoding }

func (e ErrBadEncodingConfig) Error() string {
	return fmt.Sprintf("bytestream: cannot create stream with encoding %s", e.Encoding)
}

// New creates a Stream over raw bytes, decoded with the given encoding at
// the given confidence.
func New(raw []byte, enc Encoding, conf Confidence) (*Stream, error) {
	if enc < UTF8 || enc > UTF16BE {
		return nil, ErrBadEncodingConfig{enc}
	}
	s := &Stream{raw: raw, encoding: enc, confidence: conf}
	s.decode()
	return s, nil
}

// replacementChar substitutes invalid byte sequences (§7.1).
const replacementChar = '�'

func (s *Stream) decode() {
	s.runes = s.runes[:0]
	s.offsets = s.offsets[:0]
	switch s.encoding {
	case ASCII:
		for i, b := range s.raw {
			r := rune(b)
			if b > 0x7F {
				r = replacementChar
			}
			s.runes = append(s.runes, r)
			s.offsets = append(s.offsets, i)
		}
	case ISO88591:
		dec := charmap.ISO8859_1.NewDecoder()
		for i, b := range s.raw {
			out, err := dec.Bytes([]byte{b})
			r := replacementChar
			if err == nil && len(out) > 0 {
				rs := []rune(string(out))
				if len(rs) > 0 {
					r = rs[0]
				}
			}
			s.runes = append(s.runes, r)
			s.offsets = append(s.offsets, i)
		}
	case UTF16LE, UTF16BE:
		endian := unicode.LittleEndian
		if s.encoding == UTF16BE {
			endian = unicode.BigEndian
		}
		out, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder().Bytes(s.raw)
		if err != nil {
			tracer().Debugf("bytestream: utf-16 decode error, substituting replacement characters: %v", err)
		}
		i := 0
		for i < len(out) {
			r, size := decodeUTF8Rune(out[i:])
			s.runes = append(s.runes, r)
			s.offsets = append(s.offsets, i)
			i += size
		}
	default: // UTF8
		i := 0
		for i < len(s.raw) {
			r, size := decodeUTF8Rune(s.raw[i:])
			s.runes = append(s.runes, r)
			s.offsets = append(s.offsets, i)
			i += size
		}
	}
}

// decodeUTF8Rune decodes one UTF-8 rune, substituting U+FFFD for invalid
// sequences and advancing by one byte on failure, as mandated by §7.1.
func decodeUTF8Rune(b []byte) (rune, int) {
	if len(b) == 0 {
		return replacementChar, 1
	}
	c := b[0]
	switch {
	case c < 0x80:
		return rune(c), 1
	case c&0xE0 == 0xC0 && len(b) >= 2:
		r := rune(c&0x1F)<<6 | rune(b[1]&0x3F)
		if b[1]&0xC0 != 0x80 || r < 0x80 {
			return replacementChar, 1
		}
		return r, 2
	case c&0xF0 == 0xE0 && len(b) >= 3:
		r := rune(c&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
		if b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 || r < 0x800 {
			return replacementChar, 1
		}
		return r, 3
	case c&0xF8 == 0xF0 && len(b) >= 4:
		r := rune(c&0x07)<<18 | rune(b[1]&0x3F)<<12 | rune(b[2]&0x3F)<<6 | rune(b[3]&0x3F)
		if b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 || b[3]&0xC0 != 0x80 || r < 0x10000 || r > 0x10FFFF {
			return replacementChar, 1
		}
		return r, 4
	}
	return replacementChar, 1
}

// Encoding returns the stream's current encoding.
func (s *Stream) Encoding() Encoding { return s.encoding }

// Confidence returns the stream's current confidence.
func (s *Stream) Confidence() Confidence { return s.confidence }

// SetEncoding re-decodes the raw bytes under a new encoding. Legal only
// while confidence is Tentative (§3 invariant); changing it at Certain
// confidence is a programming error, logged and ignored.
func (s *Stream) SetEncoding(enc Encoding) {
	if s.confidence == Certain {
		tracer().Errorf("bytestream: refusing to change encoding once confidence is certain")
		return
	}
	s.encoding = enc
	pos := s.pos
	s.decode()
	if pos > len(s.runes) {
		pos = len(s.runes)
	}
	s.pos = pos
}

// SetConfidence raises (or lowers, for testing) the confidence flag.
func (s *Stream) SetConfidence(c Confidence) { s.confidence = c }

// Len returns the number of decoded runes.
func (s *Stream) Len() int { return len(s.runes) }

// Eof reports whether the cursor is at or past the end of input.
func (s *Stream) Eof() bool { return s.pos >= len(s.runes) }

// location computes the Location of rune index i by scanning for newlines.
// Cheap enough for the token/AST-node granularity this is called at.
func (s *Stream) location(i int) (line, col, offset int) {
	line, col = 1, 1
	for j := 0; j < i && j < len(s.runes); j++ {
		if s.runes[j] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	if i < len(s.offsets) {
		offset = s.offsets[i]
	} else if len(s.raw) > 0 {
		offset = len(s.raw)
	}
	return
}

// Pos returns the current cursor location.
func (s *Stream) Pos() errs.Location {
	l, c, o := s.location(s.pos)
	return errs.Location{Line: l, Column: c, Offset: o}
}

// Read consumes and returns the next rune, advancing the cursor. It
// returns (0, false) at EOF. Reconsume becomes valid only immediately
// after a call to Read.
func (s *Stream) Read() (rune, bool) {
	if s.pos >= len(s.runes) {
		s.reconsumed = false
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	s.reconsumed = true
	return r, true
}

// Unread steps the cursor back by one, the inverse of Read.
func (s *Stream) Unread() {
	if s.pos > 0 {
		s.pos--
	}
}

// Reconsume rewinds the cursor by one so the last-read character will be
// re-read by the next state. Valid only immediately after a Read; calling
// it otherwise is a no-op (defensive, mirrors the state machine's own
// discipline of calling Reconsume at most once per consumed character).
func (s *Stream) Reconsume() {
	if !s.reconsumed {
		return
	}
	s.pos--
	s.reconsumed = false
}

// Lookahead returns the rune k positions ahead of the cursor (k=0 is the
// next character to be read) without consuming it. ok is false past EOF.
func (s *Stream) Lookahead(k int) (rune, bool) {
	i := s.pos + k
	if i < 0 || i >= len(s.runes) {
		return 0, false
	}
	return s.runes[i], true
}

// LookaheadString returns up to n characters ahead as a string, for
// multi-character lookahead comparisons (e.g. "PUBLIC" keyword matching).
func (s *Stream) LookaheadString(n int) string {
	end := s.pos + n
	if end > len(s.runes) {
		end = len(s.runes)
	}
	if end <= s.pos {
		return ""
	}
	return string(s.runes[s.pos:end])
}

// SkipWhitespace advances the cursor past ASCII whitespace and returns how
// many characters were skipped (lookahead-skipping-whitespace, §3).
func (s *Stream) SkipWhitespace() int {
	n := 0
	for {
		r, ok := s.Lookahead(0)
		if !ok || !isWhitespace(r) {
			break
		}
		s.Read()
		n++
	}
	return n
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// Close seals the stream against further mutation of its encoding. Reads
// past this point still work; it simply documents that the input is final.
func (s *Stream) Close() {
	s.closed = true
	s.confidence = Certain
}

// Closed reports whether Close has been called.
func (s *Stream) Closed() bool { return s.closed }
