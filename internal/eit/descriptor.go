package eit

import (
	"fmt"

	"github.com/tsviewer/psiarc/internal/arib"
)

// Descriptor tags carried in ARIB event loops.
const (
	descTagShortEvent     = 0x4d
	descTagExtendedEvent  = 0x4e
	descTagComponent      = 0x50
	descTagContent        = 0x54
	descTagAudioComponent = 0xc4
)

// Placeholders for events whose descriptors are absent or empty.
const (
	noInfoTitle       = "番組情報がありません"
	noInfoDescription = "番組情報がありません"
	emptyHeading      = "番組内容"
	subAudioLanguage  = "副音声"
)

// rawDetail is one extended-event item before character decoding. The
// continuation rule appends raw bytes, so decoding must wait until the whole
// loop is assembled.
type rawDetail struct {
	heading []byte
	body    []byte
}

// eventDecoder accumulates descriptor state for one event.
type eventDecoder struct {
	title    string
	desc     string
	hasShort bool
	items    []rawDetail
	genres   []Genre
	video    *VideoInfo
	audio    []AudioInfo
}

func (ev *eventDecoder) parseDescriptors(d []byte) {
	for len(d) >= 2 {
		tag, length := d[0], int(d[1])
		if 2+length > len(d) {
			return
		}
		body := d[2 : 2+length]
		d = d[2+length:]

		switch tag {
		case descTagShortEvent:
			ev.parseShortEvent(body)
		case descTagExtendedEvent:
			ev.parseExtendedEvent(body)
		case descTagContent:
			ev.parseContent(body)
		case descTagComponent:
			ev.parseComponent(body)
		case descTagAudioComponent:
			ev.parseAudioComponent(body)
		}
	}
}

// apply finalizes the accumulated state into the record.
func (ev *eventDecoder) apply(rec *ProgramRecord) {
	rec.Title = ev.title
	rec.Description = ev.desc
	if !ev.hasShort {
		rec.Title = noInfoTitle
		rec.Description = noInfoDescription
	}

	seen := make(map[string]int)
	for _, it := range ev.items {
		heading := arib.Decode(it.heading)
		if heading == "" {
			heading = emptyHeading
		}
		seen[heading]++
		if n := seen[heading]; n > 1 {
			heading = fmt.Sprintf("%s(%d)", heading, n)
		}
		rec.Details = append(rec.Details, Detail{
			Heading: heading,
			Body:    arib.Decode(it.body),
		})
	}
	if rec.Description == "" && len(rec.Details) > 0 {
		rec.Description = rec.Details[0].Body
	}

	rec.Genres = ev.genres
	rec.Video = ev.video
	rec.Audio = ev.audio
}

func (ev *eventDecoder) parseShortEvent(d []byte) {
	if len(d) < 5 {
		return
	}
	nameLen := int(d[3])
	if 4+nameLen >= len(d) {
		return
	}
	textLen := int(d[4+nameLen])
	if 5+nameLen+textLen > len(d) {
		return
	}
	ev.hasShort = true
	ev.title = arib.Decode(d[4 : 4+nameLen])
	ev.desc = arib.Decode(d[5+nameLen : 5+nameLen+textLen])
}

func (ev *eventDecoder) parseExtendedEvent(d []byte) {
	if len(d) < 5 {
		return
	}
	itemsLen := int(d[4])
	if 5+itemsLen > len(d) {
		return
	}
	items := d[5 : 5+itemsLen]

	for len(items) >= 2 {
		headLen := int(items[0])
		if 1+headLen+1 > len(items) {
			return
		}
		bodyLen := int(items[1+headLen])
		if 2+headLen+bodyLen > len(items) {
			return
		}
		heading := items[1 : 1+headLen]
		itemBody := items[2+headLen : 2+headLen+bodyLen]
		items = items[2+headLen+bodyLen:]

		if headLen == 0 && len(ev.items) > 0 {
			// Overflow continuation of the previous item: the raw bytes are
			// joined before decoding so multi-byte characters split across
			// descriptors survive.
			prev := &ev.items[len(ev.items)-1]
			prev.body = append(prev.body, itemBody...)
			continue
		}
		// A zero-length heading with no prior item is not supposed to occur,
		// but a guarded fresh entry beats indexing past the front.
		ev.items = append(ev.items, rawDetail{
			heading: append([]byte(nil), heading...),
			body:    append([]byte(nil), itemBody...),
		})
	}
}

func (ev *eventDecoder) parseContent(d []byte) {
	for i := 0; i+2 <= len(d); i += 2 {
		major := d[i] >> 4
		minor := d[i] & 0x0f
		user := d[i+1]

		if major == genreMajorExtended {
			// Remapped through the program-attribute table; entries the
			// table does not know are dropped.
			if name, ok := programAttributes[user]; ok {
				ev.genres = append(ev.genres, Genre{Major: attributeMajor, Minor: name})
			}
			continue
		}
		majorName, ok := genreMajors[major]
		if !ok {
			continue
		}
		ev.genres = append(ev.genres, Genre{
			Major: majorName,
			Minor: genreMinor(major, minor),
		})
	}
}

func (ev *eventDecoder) parseComponent(d []byte) {
	if len(d) < 6 {
		return
	}
	streamContent := d[0] & 0x0f
	componentType := d[1]

	vc, ok := videoComponents[componentType]
	if !ok {
		return
	}
	ev.video = &VideoInfo{
		Type:       vc.typ,
		Codec:      videoCodec(streamContent),
		Resolution: vc.resolution,
	}
}

func (ev *eventDecoder) parseAudioComponent(d []byte) {
	if len(d) < 9 {
		return
	}
	mode := d[1] & 0x1f
	multiLingual := d[5]&0x80 != 0
	primary := d[5]&0x40 != 0
	rate := samplingRates[(d[5]>>1)&0x07]

	info := AudioInfo{
		Type:       audioModeName(mode),
		Language:   languageName(string(d[6:9])),
		SampleRate: rate,
		Primary:    primary,
	}
	if mode == audioModeDualMono {
		if multiLingual && len(d) >= 12 {
			info.Language2 = languageName(string(d[9:12]))
		} else {
			info.Language2 = subAudioLanguage
		}
	}
	ev.audio = append(ev.audio, info)
}
