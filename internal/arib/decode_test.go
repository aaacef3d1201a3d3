package arib

import "testing"

func TestDecodeKanji(t *testing.T) {
	t.Parallel()
	// JIS X 0208 row 48 cell 1 via the default kanji set in GL.
	if got := Decode([]byte{0x30, 0x21}); got != "亜" {
		t.Errorf("Decode = %q, want 亜", got)
	}
}

func TestDecodeHiraganaViaGR(t *testing.T) {
	t.Parallel()
	// G2 (hiragana) is the default GR set.
	if got := Decode([]byte{0xa2, 0xa4, 0xa6}); got != "あいう" {
		t.Errorf("Decode = %q, want あいう", got)
	}
}

func TestDecodeKatakanaSingleShift(t *testing.T) {
	t.Parallel()
	if got := Decode([]byte{0x1d, 0x24}); got != "イ" {
		t.Errorf("Decode = %q, want イ", got)
	}
}

func TestDecodeAlnumLockingShift(t *testing.T) {
	t.Parallel()
	if got := Decode([]byte{0x0e, 'A', 'B', 'C', ' ', '1'}); got != "ABC 1" {
		t.Errorf("Decode = %q, want %q", got, "ABC 1")
	}
}

func TestDecodeNewline(t *testing.T) {
	t.Parallel()
	if got := Decode([]byte{0x0e, 'a', 0x0d, 'b'}); got != "a\nb" {
		t.Errorf("Decode = %q", got)
	}
}

func TestDecodeKanaIteration(t *testing.T) {
	t.Parallel()
	// 0x79 is the prolonged sound mark in both kana sets.
	if got := Decode([]byte{0xf9}); got != "ー" {
		t.Errorf("Decode = %q, want ー", got)
	}
}

func TestDecodeGaijiMark(t *testing.T) {
	t.Parallel()
	// Row 93 "new program" mark normalizes to bracketed text.
	if got := Decode([]byte{0x7d, 0x38}); got != "[新]" {
		t.Errorf("Decode = %q, want [新]", got)
	}
}

func TestDecodeUnknownGaiji(t *testing.T) {
	t.Parallel()
	if got := Decode([]byte{0x7c, 0x7e}); got != "〓" {
		t.Errorf("Decode = %q, want 〓", got)
	}
}

func TestDecodeDesignationEscape(t *testing.T) {
	t.Parallel()
	// Designate alphanumeric into G0, then use it in GL.
	if got := Decode([]byte{0x1b, 0x28, 0x4a, 'o', 'k'}); got != "ok" {
		t.Errorf("Decode = %q, want ok", got)
	}
}

func TestNormalizeFullWidth(t *testing.T) {
	t.Parallel()
	if got := Normalize("ＡＢＣ１２３！"); got != "ABC123!" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestNormalizeEnclosedMarks(t *testing.T) {
	t.Parallel()
	if got := Normalize("\U0001F21F\U0001F211ドラマ"); got != "[新][字]ドラマ" {
		t.Errorf("Normalize = %q", got)
	}
}
