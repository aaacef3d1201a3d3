package arc

import (
	"encoding/binary"
	"fmt"
)

// EmitFunc receives one reconstructed section per emission code: the framed
// 188-byte packet blocks (headers already stamped), the PID they carry, and
// the archive second they were sampled at. The byte slice is reused by the
// decoder; consume it before Decode returns.
type EmitFunc func(second float64, packets []byte, pid uint16)

// Decoder turns archive bytes back into transport packets. Feed it the
// unconsumed tail of the stream with Decode; it decodes every fully buffered
// chunk and returns the remainder to prepend to the next read. A Decoder is
// not safe for concurrent use.
type Decoder struct {
	ctx   ArchiveContext
	syn   *Synthesizer
	start float64
}

// NewDecoder creates a decoder that skips output until the archive clock
// reaches startSeconds (0 means from the beginning of the stream).
func NewDecoder(startSeconds float64) *Decoder {
	return &Decoder{
		ctx:   newArchiveContext(),
		syn:   NewSynthesizer(),
		start: startSeconds,
	}
}

// Reset discards all carried state: dictionary window, clock anchor, chunk
// cursors, and continuity counters. A subsequent Decode starts clean.
func (d *Decoder) Reset() {
	d.ctx = newArchiveContext()
	d.syn.Reset()
}

// Decode consumes every fully buffered chunk in buf, invoking emit for each
// emission code, and returns the unconsumed remainder. A truncated chunk is
// deferred until more bytes arrive, never an error. A malformed chunk header
// returns ErrCorruptArchive, after which the decoder must not be fed again
// without Reset.
func (d *Decoder) Decode(buf []byte, emit EmitFunc) ([]byte, error) {
	pos := 0
	for len(buf)-pos >= d.ctx.trailerSize+chunkHeaderSize {
		p := pos + d.ctx.trailerSize

		h, err := parseChunkHeader(buf[p : p+chunkHeaderSize])
		if err != nil {
			return nil, err
		}

		body := p + chunkHeaderSize
		if len(buf)-body < h.payloadSize() {
			break // truncated: wait for more bytes
		}

		if err := d.decodeChunk(h, buf[body:body+h.payloadSize()], emit); err != nil {
			return nil, err
		}

		// 4-byte alignment with a 2-byte minimum trailer before the next
		// header.
		d.ctx.trailerSize = 2 + (2+h.payloadSize())%4
		d.ctx.beginChunk()
		pos = body + h.payloadSize()
	}
	return buf[pos:], nil
}

func (d *Decoder) decodeChunk(h chunkHeader, body []byte, emit EmitFunc) error {
	timeList := body[:h.timeListLen*4]
	dictCodes := body[h.timeListLen*4 : h.timeListLen*4+h.dictLen*2]
	payStart := h.timeListLen*4 + h.dictLen*2
	payEnd := payStart + (h.dictDataSize+1)/2*2
	payload := body[payStart:payEnd]
	codeList := body[payEnd:]

	if d.ctx.timeListCount < 0 {
		if err := d.ctx.resolveDictionary(dictCodes, payload[:h.dictDataSize], h.windowLen); err != nil {
			return err
		}
		d.ctx.timeListCount = 0
	}

	for d.ctx.timeListCount < h.timeListLen || d.ctx.codeCount > 0 {
		if d.ctx.codeCount == 0 {
			entry := binary.LittleEndian.Uint32(timeList[d.ctx.timeListCount*4:])
			d.ctx.timeListCount++

			switch {
			case entry == 0xffffffff:
				// Discontinuity: drop the current time until re-anchored.
				d.ctx.currTime = -1
			case entry&0x80000000 != 0:
				d.ctx.currTime = int64(entry & tickMask)
				if d.ctx.initTime < 0 {
					d.ctx.initTime = d.ctx.currTime
				}
			default:
				if d.ctx.currTime >= 0 {
					d.ctx.currTime += int64(entry & 0xffff)
				}
				d.ctx.codeCount = int(entry >> 16)
			}
			continue
		}

		// Codes are consumed even while output is suppressed, so the cursor
		// stays aligned during fast-forward to the start offset.
		second := d.ctx.second()
		for d.ctx.codeCount > 0 {
			if d.ctx.codeListPos+2 > len(codeList) {
				return fmt.Errorf("%w: code list overrun", ErrCorruptArchive)
			}
			code := binary.LittleEndian.Uint16(codeList[d.ctx.codeListPos:])
			d.ctx.codeListPos += 2
			d.ctx.codeCount--

			slot := int(code) - dictBias
			if slot < 0 || slot >= len(d.ctx.dict) {
				return fmt.Errorf("%w: emission code %d outside dictionary window", ErrCorruptArchive, code)
			}
			if second < 0 || second < d.start {
				continue
			}

			framed := d.ctx.dict[slot]
			pid := uint16(d.ctx.pids[slot])
			d.syn.Stamp(framed, pid)
			emit(second, framed, pid)
		}
	}
	return nil
}
