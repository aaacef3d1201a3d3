package eit

import (
	"encoding/binary"
	"time"
)

const tableIDPresentFollowing = 0x4e

var jst = time.FixedZone("JST", 9*60*60)

// Update is one decoded present or following record.
type Update struct {
	Kind   Kind
	Record *ProgramRecord
}

// Extractor consumes EIT transport packets and produces program records for
// one tracked service. Sections for other services, schedule tables,
// not-yet-current sections, and multi-event sections are silently ignored;
// all of those are expected in a normal stream.
type Extractor struct {
	networkID uint16
	serviceID uint16
	asm       assembler
}

func NewExtractor(networkID, serviceID uint16) *Extractor {
	return &Extractor{networkID: networkID, serviceID: serviceID}
}

// Push feeds one 188-byte packet from the EIT PID and returns any program
// records completed by it.
func (e *Extractor) Push(pkt []byte) []Update {
	var updates []Update
	for _, sec := range e.asm.push(pkt) {
		if u, ok := e.parseSection(sec); ok {
			updates = append(updates, u)
		}
	}
	return updates
}

// parseSection decodes one present/following section. The layout up to the
// event loop is fixed:
//
//	[0]     table_id
//	[1-2]   section_syntax_indicator(1) + reserved(3) + section_length(12)
//	[3-4]   service_id
//	[5]     reserved(2) + version(5) + current_next_indicator(1)
//	[6]     section_number (0 = present, 1 = following)
//	[7]     last_section_number
//	[8-9]   transport_stream_id
//	[10-11] original_network_id
//	[12]    segment_last_section_number
//	[13]    last_table_id
//	[14..]  exactly one event, then CRC32
func (e *Extractor) parseSection(data []byte) (Update, bool) {
	if len(data) < 14+12+4 {
		return Update{}, false
	}
	if data[0] != tableIDPresentFollowing {
		return Update{}, false
	}
	if data[5]&0x01 == 0 {
		return Update{}, false // not current
	}
	if binary.BigEndian.Uint16(data[3:]) != e.serviceID ||
		binary.BigEndian.Uint16(data[10:]) != e.networkID {
		return Update{}, false
	}
	if verifyCRC32(data) != nil {
		return Update{}, false
	}

	sectionLength := int(data[1]&0x0f)<<8 | int(data[2])
	sectionEnd := 3 + sectionLength
	if sectionEnd > len(data) {
		return Update{}, false
	}

	// Present/following carries at most one event per section; anything else
	// is discarded.
	descLen := int(data[24]&0x0f)<<8 | int(data[25])
	if 14+12+descLen != sectionEnd-4 {
		return Update{}, false
	}

	rec := &ProgramRecord{
		NetworkID: e.networkID,
		ServiceID: e.serviceID,
		EventID:   binary.BigEndian.Uint16(data[14:]),
	}
	rec.StartTime = decodeStartTime(data[16:21])
	rec.Duration, rec.Infinite = decodeDuration(data[21:24])

	var ev eventDecoder
	ev.parseDescriptors(data[26 : 26+descLen])
	ev.apply(rec)

	kind := Following
	if data[6] == 0 {
		kind = Present
	}
	return Update{Kind: kind, Record: rec}, true
}

// decodeStartTime converts the 40-bit MJD+BCD field. The all-high sentinel
// means the start time is undefined, returned as the zero time.
func decodeStartTime(b []byte) time.Time {
	if b[0] == 0xff && b[1] == 0xff && b[2] == 0xff && b[3] == 0xff && b[4] == 0xff {
		return time.Time{}
	}
	mjd := int(binary.BigEndian.Uint16(b))

	y := int((float64(mjd) - 15078.2) / 365.25)
	m := int((float64(mjd) - 14956.1 - float64(int(float64(y)*365.25))) / 30.6001)
	day := mjd - 14956 - int(float64(y)*365.25) - int(float64(m)*30.6001)
	k := 0
	if m == 14 || m == 15 {
		k = 1
	}
	year := y + k + 1900
	month := m - 1 - k*12

	return time.Date(year, time.Month(month), day, bcd(b[2]), bcd(b[3]), bcd(b[4]), 0, jst)
}

// decodeDuration converts the 24-bit BCD hh:mm:ss field. The all-high
// sentinel means the event has no scheduled end.
func decodeDuration(b []byte) (time.Duration, bool) {
	if b[0] == 0xff && b[1] == 0xff && b[2] == 0xff {
		return 0, true
	}
	d := time.Duration(bcd(b[0]))*time.Hour +
		time.Duration(bcd(b[1]))*time.Minute +
		time.Duration(bcd(b[2]))*time.Second
	return d, false
}

func bcd(b byte) int {
	return int(b>>4)*10 + int(b&0x0f)
}
