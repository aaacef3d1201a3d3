package arc

const (
	packetSize        = 188
	packetHeaderSize  = 4
	packetPayloadSize = packetSize - packetHeaderSize
	syncByte          = 0x47
)

// Synthesizer stamps transport packet headers into framed section blocks.
// Continuity counters are per PID and persist for the whole session; they
// reset only on full teardown, never per chunk.
type Synthesizer struct {
	counters map[uint16]uint8
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{counters: make(map[uint16]uint8)}
}

// Stamp writes the 4-byte header into every 188-byte block of framed in
// place: sync byte, payload_unit_start_indicator on the first block only,
// the 13-bit PID, and the next continuity counter value for that PID.
func (s *Synthesizer) Stamp(framed []byte, pid uint16) {
	for off := 0; off+packetSize <= len(framed); off += packetSize {
		cc := s.counters[pid]
		s.counters[pid] = (cc + 1) & 0x0f

		b := framed[off:]
		b[0] = syncByte
		b[1] = byte(pid>>8) & 0x1f
		if off == 0 {
			b[1] |= 0x40
		}
		b[2] = byte(pid)
		b[3] = 0x10 | cc // payload only, no adaptation field
	}
}

// Reset clears all continuity counters.
func (s *Synthesizer) Reset() {
	s.counters = make(map[uint16]uint8)
}
