package arc

import "encoding/binary"

// Test fixture builders for archive streams.

type testDecl struct {
	isRef   bool
	slot    int
	pid     uint16
	section []byte
}

func literal(pid uint16, section []byte) testDecl {
	return testDecl{pid: pid, section: section}
}

func reference(slot int) testDecl {
	return testDecl{isRef: true, slot: slot}
}

type testChunk struct {
	window int // 0 = number of declarations
	times  []uint32
	decls  []testDecl
	codes  []int // window slot indexes
}

func absTime(t uint32) uint32   { return 0x80000000 | (t & tickMask) }
func deltaTime(d, n int) uint32 { return uint32(n)<<16 | uint32(d) }

const timeDiscontinuity = 0xffffffff

func le16(v int) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return b[:]
}

func le32(v int) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return b[:]
}

// marshal produces the chunk bytes: 32-byte header, time list, dictionary
// codes, dictionary payload, code list.
func (c testChunk) marshal() []byte {
	var dictCodes, sections, pids []byte
	for _, d := range c.decls {
		if d.isRef {
			dictCodes = append(dictCodes, le16(dictBias+d.slot)...)
			continue
		}
		dictCodes = append(dictCodes, le16(len(d.section)-1)...)
		sections = append(sections, d.section...)
		pids = append(pids, le16(int(d.pid))...)
	}
	payload := append(sections, pids...)
	dataSize := len(payload)
	if dataSize%2 != 0 {
		payload = append(payload, 0x00)
	}

	window := c.window
	if window == 0 {
		window = len(c.decls)
	}

	out := make([]byte, 0, chunkHeaderSize)
	out = append(out, le16(chunkMagic1)...)
	out = append(out, le16(chunkMagic2)...)
	out = append(out, le16(len(c.times))...)
	out = append(out, le16(len(c.decls))...)
	out = append(out, le16(window)...)
	out = append(out, le16(0)...)
	out = append(out, le32(dataSize)...)
	out = append(out, le32(dataSize)...)
	out = append(out, le32(len(c.codes))...)
	out = append(out, le32(0)...)
	out = append(out, le32(0)...)

	for _, t := range c.times {
		out = append(out, le32(int(t))...)
	}
	out = append(out, dictCodes...)
	out = append(out, payload...)
	for _, code := range c.codes {
		out = append(out, le16(dictBias+code)...)
	}
	return out
}

// buildStream concatenates chunks with the alignment trailer the decoder
// expects between them.
func buildStream(chunks ...testChunk) []byte {
	var out []byte
	for i, c := range chunks {
		b := c.marshal()
		out = append(out, b...)
		if i < len(chunks)-1 {
			ps := len(b) - chunkHeaderSize
			out = append(out, make([]byte, 2+(2+ps)%4)...)
		}
	}
	return out
}

// emission records one emit callback.
type emission struct {
	second  float64
	packets []byte
	pid     uint16
}

func collect(out *[]emission) EmitFunc {
	return func(second float64, packets []byte, pid uint16) {
		*out = append(*out, emission{second, append([]byte(nil), packets...), pid})
	}
}
