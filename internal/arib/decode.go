// Package arib decodes ARIB STD-B24 8-bit character strings as carried in
// broadcast SI descriptors, and normalizes the result for display: full-width
// alphanumerics are folded to ASCII and the Unicode enclosed broadcast marks
// are mapped back to their bracketed-abbreviation text.
package arib

import (
	"strings"

	"golang.org/x/text/encoding/japanese"
)

// Graphic sets used by SI text. Broadcast EIT strings stay within the
// default designations plus locking/single shifts; DRCS and mosaic sets are
// not carried in event descriptions and decode to nothing here.
type charSet int

const (
	setKanji charSet = iota // two-byte, JIS X 0208 plus ARIB gaiji rows
	setAlnum
	setHiragana
	setKatakana
)

// decoder holds the shift state of one string. ARIB text is stateful:
// G0..G3 hold designated sets, GL/GR select which set single bytes index.
type decoder struct {
	g      [4]charSet
	gl, gr int
	single int // pending single-shift set index, -1 if none

	out strings.Builder
	euc []byte // pending EUC-JP bytes awaiting conversion
}

// Decode converts an ARIB STD-B24 8-bit string to UTF-8 and applies
// Normalize. Undecodable code points become GETA MARK (〓).
func Decode(b []byte) string {
	d := &decoder{
		g:      [4]charSet{setKanji, setAlnum, setHiragana, setKatakana},
		gl:     0,
		gr:     2,
		single: -1,
	}
	d.run(b)
	d.flushEUC()
	return Normalize(d.out.String())
}

func (d *decoder) run(b []byte) {
	for i := 0; i < len(b); {
		c := b[i]

		switch {
		case c == 0x20, c == 0xa0:
			d.flushEUC()
			d.out.WriteByte(' ')
			i++
		case c == 0x0d:
			d.flushEUC()
			d.out.WriteByte('\n')
			i++
		case c == 0x0e: // LS1
			d.gl = 1
			i++
		case c == 0x0f: // LS0
			d.gl = 0
			i++
		case c == 0x19: // SS2
			d.single = 2
			i++
		case c == 0x1d: // SS3
			d.single = 3
			i++
		case c == 0x1b:
			i += d.escape(b[i:])
		case c < 0x20 || (c >= 0x80 && c <= 0x9f):
			// Remaining C0/C1 controls (color, size, macros) carry no text.
			i++
		default:
			set := d.g[d.gl]
			if d.single >= 0 {
				set = d.g[d.single]
				d.single = -1
			}
			v := c
			if c >= 0xa1 { // GR
				set = d.g[d.gr]
				v = c & 0x7f
			}

			if set == setKanji {
				if i+1 >= len(b) {
					return
				}
				d.writeKanji(v, b[i+1]&0x7f)
				i += 2
			} else {
				d.writeSingle(set, v)
				i++
			}
		}
	}
}

// escape handles the designation and locking-shift escape sequences,
// returning the number of bytes consumed including the ESC itself.
func (d *decoder) escape(b []byte) int {
	if len(b) < 2 {
		return len(b)
	}
	switch b[1] {
	case 0x6e: // LS2
		d.gl = 2
		return 2
	case 0x6f: // LS3
		d.gl = 3
		return 2
	case 0x7e: // LS1R
		d.gr = 1
		return 2
	case 0x7d: // LS2R
		d.gr = 2
		return 2
	case 0x7c: // LS3R
		d.gr = 3
		return 2
	case 0x28, 0x29, 0x2a, 0x2b: // single-byte designation
		if len(b) < 3 {
			return len(b)
		}
		if b[2] == 0x20 { // DRCS designation, one more byte
			if len(b) < 4 {
				return len(b)
			}
			return 4
		}
		d.g[b[1]-0x28] = finalToSet(b[2])
		return 3
	case 0x24: // multi-byte designation
		if len(b) < 3 {
			return len(b)
		}
		if b[2] >= 0x28 && b[2] <= 0x2b {
			if len(b) < 4 {
				return len(b)
			}
			d.g[b[2]-0x28] = finalToSet(b[3])
			return 4
		}
		d.g[0] = finalToSet(b[2])
		return 3
	}
	return 2
}

func finalToSet(f byte) charSet {
	switch f {
	case 0x42, 0x39, 0x3a, 0x3b: // kanji, JIS-compat kanji 1/2, added symbols
		return setKanji
	case 0x30:
		return setHiragana
	case 0x31:
		return setKatakana
	default:
		return setAlnum
	}
}

// writeKanji handles a two-byte character: standard JIS X 0208 rows go
// through the EUC-JP converter, ARIB gaiji rows (85..94) through the local
// table.
func (d *decoder) writeKanji(b1, b2 byte) {
	if b1 < 0x21 || b1 > 0x7e || b2 < 0x21 || b2 > 0x7e {
		return
	}
	row := int(b1) - 0x20
	if row >= 85 {
		d.flushEUC()
		if s, ok := gaiji[uint16(b1)<<8|uint16(b2)]; ok {
			d.out.WriteString(s)
		} else {
			d.out.WriteString("〓")
		}
		return
	}
	d.euc = append(d.euc, b1|0x80, b2|0x80)
}

func (d *decoder) writeSingle(set charSet, v byte) {
	if v < 0x21 || v > 0x7e {
		return
	}
	switch set {
	case setAlnum:
		d.flushEUC()
		d.out.WriteByte(v)
	case setHiragana:
		if v <= 0x73 {
			d.euc = append(d.euc, 0xa4, v|0x80)
		} else {
			d.flushEUC()
			d.out.WriteString(kanaExtra(v, false))
		}
	case setKatakana:
		if v <= 0x76 {
			d.euc = append(d.euc, 0xa5, v|0x80)
		} else {
			d.flushEUC()
			d.out.WriteString(kanaExtra(v, true))
		}
	}
}

// kanaExtra covers the iteration/punctuation cells the kana sets append
// beyond their JIS X 0208 rows.
func kanaExtra(v byte, katakana bool) string {
	switch v {
	case 0x77:
		if katakana {
			return "ヽ"
		}
		return "ゝ"
	case 0x78:
		if katakana {
			return "ヾ"
		}
		return "ゞ"
	case 0x79:
		return "ー"
	case 0x7a:
		return "。"
	case 0x7b:
		return "「"
	case 0x7c:
		return "」"
	case 0x7d:
		return "、"
	case 0x7e:
		return "・"
	}
	return ""
}

func (d *decoder) flushEUC() {
	if len(d.euc) == 0 {
		return
	}
	s, err := japanese.EUCJP.NewDecoder().Bytes(d.euc)
	d.euc = d.euc[:0]
	if err != nil {
		d.out.WriteString("〓")
		return
	}
	d.out.Write(s)
}
