package arc

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTripFraming(t *testing.T) {
	t.Parallel()
	section := make([]byte, 300)
	for i := range section {
		section[i] = byte(i)
	}

	stream := buildStream(testChunk{
		decls: []testDecl{literal(0x0012, section)},
		times: []uint32{absTime(1000), deltaTime(50, 1)},
		codes: []int{0},
	})

	var out []emission
	d := NewDecoder(0)
	rest, err := d.Decode(stream, collect(&out))
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("remainder = %d bytes, want 0", len(rest))
	}
	if len(out) != 1 {
		t.Fatalf("emissions = %d, want 1", len(out))
	}

	e := out[0]
	if e.pid != 0x0012 {
		t.Errorf("pid = 0x%04x, want 0x0012", e.pid)
	}
	// ceil((300+1)/184) blocks of 188 bytes.
	if want := 2 * 188; len(e.packets) != want {
		t.Errorf("packet bytes = %d, want %d", len(e.packets), want)
	}
	for off := 0; off < len(e.packets); off += 188 {
		if e.packets[off] != syncByte {
			t.Errorf("block at %d missing sync byte", off)
		}
	}
	if e.packets[1]&0x40 == 0 {
		t.Error("first block should carry payload_unit_start_indicator")
	}
	if e.packets[188+1]&0x40 != 0 {
		t.Error("second block should not carry payload_unit_start_indicator")
	}

	// Pointer field, then the section itself.
	if e.packets[4] != 0x00 {
		t.Errorf("pointer field = 0x%02x, want 0x00", e.packets[4])
	}
	got := append([]byte(nil), e.packets[5:188]...)
	got = append(got, e.packets[188+4:]...)
	if !bytes.Equal(got[:300], section) {
		t.Error("reconstructed section differs from input")
	}
	for _, b := range got[300:] {
		if b != 0xff {
			t.Error("tail block not stuffed with 0xFF")
			break
		}
	}
}

func TestContinuityAcrossChunks(t *testing.T) {
	t.Parallel()
	section := make([]byte, 100)

	stream := buildStream(
		testChunk{
			decls: []testDecl{literal(0x0100, section)},
			times: []uint32{absTime(0), deltaTime(10, 1)},
			codes: []int{0},
		},
		testChunk{
			window: 1,
			decls:  []testDecl{reference(0)},
			times:  []uint32{deltaTime(10, 2)},
			codes:  []int{0, 0},
		},
	)

	var out []emission
	d := NewDecoder(0)
	if _, err := d.Decode(stream, collect(&out)); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("emissions = %d, want 3", len(out))
	}
	for i, e := range out {
		if cc := e.packets[3] & 0x0f; int(cc) != i {
			t.Errorf("emission %d continuity counter = %d, want %d", i, cc, i)
		}
	}
}

func TestReferenceResolution(t *testing.T) {
	t.Parallel()
	section := []byte{0x4e, 0xf0, 0x05, 0x01, 0x02, 0x03, 0x04, 0x05}

	stream := buildStream(
		testChunk{
			decls: []testDecl{literal(0x0012, section)},
			times: []uint32{absTime(100), deltaTime(1, 1)},
			codes: []int{0},
		},
		testChunk{
			window: 1,
			decls:  []testDecl{reference(0)},
			times:  []uint32{deltaTime(1, 1)},
			codes:  []int{0},
		},
	)

	var out []emission
	d := NewDecoder(0)
	if _, err := d.Decode(stream, collect(&out)); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("emissions = %d, want 2", len(out))
	}
	if out[1].pid != out[0].pid {
		t.Errorf("referenced PID = 0x%04x, want 0x%04x", out[1].pid, out[0].pid)
	}
	// Same framed payload modulo the continuity counter nibble.
	a := append([]byte(nil), out[0].packets...)
	b := append([]byte(nil), out[1].packets...)
	for off := 3; off < len(a); off += 188 {
		a[off] &= 0xf0
		b[off] &= 0xf0
	}
	if !bytes.Equal(a, b) {
		t.Error("referenced emission differs from the literal one")
	}
}

func TestCarryOverWithoutReference(t *testing.T) {
	t.Parallel()
	// Chunk 2 declares nothing; slot 0 rolls forward because chunk 2's
	// window still has room for it.
	stream := buildStream(
		testChunk{
			decls: []testDecl{literal(0x0012, []byte{1, 2, 3, 4})},
			times: []uint32{absTime(0), deltaTime(1, 1)},
			codes: []int{0},
		},
		testChunk{
			window: 1,
			times:  []uint32{deltaTime(1, 1)},
			codes:  []int{0},
		},
	)

	var out []emission
	d := NewDecoder(0)
	if _, err := d.Decode(stream, collect(&out)); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("emissions = %d, want 2", len(out))
	}
	if out[1].pid != 0x0012 {
		t.Errorf("carried-over PID = 0x%04x, want 0x0012", out[1].pid)
	}
}

func TestDoubleReferenceRejected(t *testing.T) {
	t.Parallel()
	stream := buildStream(
		testChunk{
			decls: []testDecl{literal(0x0012, []byte{1, 2, 3})},
			times: []uint32{absTime(0)},
		},
		testChunk{
			window: 2,
			decls:  []testDecl{reference(0), reference(0)},
		},
	)

	d := NewDecoder(0)
	_, err := d.Decode(stream, func(float64, []byte, uint16) {})
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("err = %v, want ErrCorruptArchive", err)
	}
}

func TestTimelineMonotonic(t *testing.T) {
	t.Parallel()
	stream := buildStream(testChunk{
		decls: []testDecl{literal(0x0012, []byte{1, 2, 3})},
		times: []uint32{absTime(1000), deltaTime(50, 1), deltaTime(75, 1)},
		codes: []int{0, 0},
	})

	var out []emission
	d := NewDecoder(0)
	if _, err := d.Decode(stream, collect(&out)); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("emissions = %d, want 2", len(out))
	}
	prev := -1.0
	for i, e := range out {
		if e.second < prev {
			t.Errorf("second %d = %f decreased below %f", i, e.second, prev)
		}
		prev = e.second
	}
	if want := 125.0 / ticksPerSecond; out[1].second != want {
		t.Errorf("final second = %f, want %f", out[1].second, want)
	}
}

func TestDiscontinuitySuppressesOutput(t *testing.T) {
	t.Parallel()
	stream := buildStream(testChunk{
		decls: []testDecl{literal(0x0012, []byte{1, 2, 3})},
		times: []uint32{
			absTime(0),
			timeDiscontinuity,
			deltaTime(10, 1), // unanchored, consumed silently
			absTime(5000),
			deltaTime(10, 1),
		},
		codes: []int{0, 0},
	})

	var out []emission
	d := NewDecoder(0)
	if _, err := d.Decode(stream, collect(&out)); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("emissions = %d, want 1 (code under dropped time must be skipped)", len(out))
	}
}

func TestStartOffsetSkipsOutput(t *testing.T) {
	t.Parallel()
	stream := buildStream(testChunk{
		decls: []testDecl{literal(0x0012, []byte{1, 2, 3})},
		times: []uint32{
			absTime(0),
			deltaTime(11250, 1), // second 1
			deltaTime(22500, 1), // second 3
		},
		codes: []int{0, 0},
	})

	var out []emission
	d := NewDecoder(2)
	if _, err := d.Decode(stream, collect(&out)); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("emissions = %d, want 1", len(out))
	}
	if out[0].second != 3 {
		t.Errorf("second = %f, want 3", out[0].second)
	}
}

func TestSplitReadResumption(t *testing.T) {
	t.Parallel()
	section := make([]byte, 250)
	for i := range section {
		section[i] = byte(i * 7)
	}
	stream := buildStream(
		testChunk{
			decls: []testDecl{literal(0x0012, section), literal(0x0100, []byte{9, 8, 7})},
			times: []uint32{absTime(0), deltaTime(5, 2)},
			codes: []int{0, 1},
		},
		testChunk{
			window: 2,
			decls:  []testDecl{reference(0)},
			times:  []uint32{deltaTime(5, 1)},
			codes:  []int{0},
		},
	)

	var want []emission
	d := NewDecoder(0)
	if _, err := d.Decode(stream, collect(&want)); err != nil {
		t.Fatal(err)
	}

	for split := 1; split < len(stream); split++ {
		var got []emission
		d := NewDecoder(0)
		tail := append([]byte(nil), stream[:split]...)
		tail, err := d.Decode(tail, collect(&got))
		if err != nil {
			t.Fatalf("split %d first half: %v", split, err)
		}
		tail = append(tail, stream[split:]...)
		if _, err := d.Decode(tail, collect(&got)); err != nil {
			t.Fatalf("split %d second half: %v", split, err)
		}

		if len(got) != len(want) {
			t.Fatalf("split %d: emissions = %d, want %d", split, len(got), len(want))
		}
		for i := range want {
			if got[i].second != want[i].second || got[i].pid != want[i].pid ||
				!bytes.Equal(got[i].packets, want[i].packets) {
				t.Fatalf("split %d: emission %d differs", split, i)
			}
		}
	}
}

func TestCorruptMagicAborts(t *testing.T) {
	t.Parallel()
	stream := buildStream(testChunk{
		decls: []testDecl{literal(0x0012, []byte{1, 2, 3})},
		times: []uint32{absTime(0), deltaTime(1, 1)},
		codes: []int{0},
	})
	stream[0] ^= 0xff

	var out []emission
	d := NewDecoder(0)
	_, err := d.Decode(stream, collect(&out))
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("err = %v, want ErrCorruptArchive", err)
	}
	if len(out) != 0 {
		t.Errorf("emissions = %d, want 0", len(out))
	}
}

func TestWindowBoundsValidation(t *testing.T) {
	t.Parallel()
	c := testChunk{
		window: maxWindowLen + 1,
		decls:  []testDecl{literal(0x0012, []byte{1})},
	}
	d := NewDecoder(0)
	_, err := d.Decode(c.marshal(), func(float64, []byte, uint16) {})
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("err = %v, want ErrCorruptArchive", err)
	}
}

func TestTruncatedChunkDeferred(t *testing.T) {
	t.Parallel()
	stream := buildStream(testChunk{
		decls: []testDecl{literal(0x0012, []byte{1, 2, 3})},
		times: []uint32{absTime(0), deltaTime(1, 1)},
		codes: []int{0},
	})

	var out []emission
	d := NewDecoder(0)
	rest, err := d.Decode(stream[:len(stream)-1], collect(&out))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("emissions = %d before chunk complete, want 0", len(out))
	}
	if len(rest) != len(stream)-1 {
		t.Errorf("remainder = %d bytes, want %d", len(rest), len(stream)-1)
	}
}
