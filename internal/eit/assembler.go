package eit

const (
	packetSize = 188
	syncByte   = 0x47
)

// assembler reassembles PSI/SI sections from transport packets on one PID.
// The synthesized stream aligns every section start to a payload-unit start,
// but long sections still span multiple packets.
type assembler struct {
	buf []byte
}

// push adds one 188-byte packet and returns any sections completed by it.
func (a *assembler) push(pkt []byte) [][]byte {
	if len(pkt) != packetSize || pkt[0] != syncByte || pkt[3]&0x10 == 0 {
		return nil
	}
	payload := pkt[4:]

	if pkt[1]&0x40 != 0 { // payload_unit_start_indicator
		a.buf = append([]byte(nil), payload...)
	} else {
		if a.buf == nil {
			return nil // mid-section packet without a start, drop
		}
		a.buf = append(a.buf, payload...)
	}

	return a.extract()
}

// extract walks the buffered payload and pulls out every complete section,
// keeping the remainder (a partial section) for the next packet.
func (a *assembler) extract() [][]byte {
	if len(a.buf) < 1 {
		return nil
	}
	offset := 1 + int(a.buf[0]) // pointer field
	if offset > len(a.buf) {
		a.buf = nil
		return nil
	}

	var sections [][]byte
	for offset < len(a.buf) {
		if a.buf[offset] == 0xff {
			// Stuffing: nothing further in this payload unit.
			a.buf = nil
			return sections
		}
		if offset+3 > len(a.buf) {
			break
		}
		sectionLength := int(a.buf[offset+1]&0x0f)<<8 | int(a.buf[offset+2])
		end := offset + 3 + sectionLength
		if end > len(a.buf) {
			break
		}
		sections = append(sections, a.buf[offset:end])
		offset = end
	}

	if sections != nil {
		// Re-anchor the buffer on the unfinished tail. The pointer field has
		// been consumed, so prepend a zero one.
		rest := a.buf[offset:]
		a.buf = append([]byte{0x00}, rest...)
	}
	return sections
}
