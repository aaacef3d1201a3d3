package arc

import (
	"encoding/binary"
	"fmt"
)

// dictEntry is one decoded dictionary declaration: either a literal section
// carried in this chunk's payload, or a reference to a slot materialized by
// an earlier chunk. The biased-code arithmetic lives only in parseDictCode.
type dictEntry struct {
	ref  bool
	slot int // reference: previous-window slot index
	size int // literal: raw section size in bytes
}

func parseDictCode(code uint16) dictEntry {
	v := int(code) - dictBias
	if v >= 0 {
		return dictEntry{ref: true, slot: v}
	}
	return dictEntry{size: v + dictBias + 1}
}

// resolveDictionary rebuilds the chunk's {pids, dict} window of windowLen
// slots. The first len(codes) slots follow the declarations; the remainder
// carry over still-unreferenced slots from the previous window, which is how
// a repeated section avoids retransmission.
func (c *ArchiveContext) resolveDictionary(codes, payload []byte, windowLen int) error {
	newPids := make([]int, 0, windowLen)
	newDict := make([][]byte, 0, windowLen)

	// Literal slot indexes, so their PIDs can be filled in from the
	// trailing code area once all section bytes are consumed.
	var literals []int

	pos := 0
	for i := 0; i+2 <= len(codes); i += 2 {
		e := parseDictCode(binary.LittleEndian.Uint16(codes[i:]))

		if e.ref {
			if e.slot >= len(c.pids) || c.pids[e.slot] < 0 {
				return fmt.Errorf("%w: dictionary reference to unavailable slot %d",
					ErrCorruptArchive, e.slot)
			}
			newPids = append(newPids, c.pids[e.slot])
			newDict = append(newDict, c.dict[e.slot])
			c.pids[e.slot] = -1 // consumed, unreferenceable again
			continue
		}

		if pos+e.size > len(payload) {
			return fmt.Errorf("%w: dictionary payload overrun (%d+%d > %d)",
				ErrCorruptArchive, pos, e.size, len(payload))
		}
		literals = append(literals, len(newPids))
		newPids = append(newPids, 0) // PID filled below
		newDict = append(newDict, frameSection(payload[pos:pos+e.size]))
		pos += e.size
	}

	// Each literal's 2-byte PID trails the section data.
	if pos+2*len(literals) > len(payload) {
		return fmt.Errorf("%w: dictionary PID area overrun", ErrCorruptArchive)
	}
	for _, slot := range literals {
		newPids[slot] = int(binary.LittleEndian.Uint16(payload[pos:]))
		pos += 2
	}

	// Roll forward whatever the chunk did not redeclare or reference.
	for i := 0; i < len(c.pids) && len(newPids) < windowLen; i++ {
		if c.pids[i] >= 0 {
			newPids = append(newPids, c.pids[i])
			newDict = append(newDict, c.dict[i])
		}
	}

	c.pids = newPids
	c.dict = newDict
	return nil
}

// frameSection packs a raw section into 188-byte blocks: four bytes per
// block reserved for the transport header (stamped at emission time), one
// pointer-field byte before the first section byte, 184 payload bytes per
// block, and 0xFF stuffing in the tail.
func frameSection(section []byte) []byte {
	blocks := (len(section) + 1 + packetPayloadSize - 1) / packetPayloadSize
	framed := make([]byte, blocks*packetSize)

	src := 0
	for blk := 0; blk < blocks; blk++ {
		out := framed[blk*packetSize+packetHeaderSize : (blk+1)*packetSize]
		if blk == 0 {
			out[0] = 0x00 // pointer field: section starts immediately
			out = out[1:]
		}
		n := copy(out, section[src:])
		src += n
		for i := n; i < len(out); i++ {
			out[i] = 0xff
		}
	}
	return framed
}
