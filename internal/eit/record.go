// Package eit extracts present/following program information from the event
// information table packets of the reconstructed stream. It consumes
// transport packets on the EIT PID, reassembles and validates sections, and
// produces immutable ProgramRecords keyed by {network, service, event}.
package eit

import "time"

// PID is the transport packet identifier carrying event information tables.
const PID = 0x12

// Kind distinguishes the two sections of a present/following table.
type Kind int

const (
	Present Kind = iota
	Following
)

func (k Kind) String() string {
	if k == Present {
		return "present"
	}
	return "following"
}

// ProgramRecord is one decoded program. Records are immutable: a newer
// section for the same key supersedes the whole record, it never mutates one.
type ProgramRecord struct {
	NetworkID uint16
	ServiceID uint16
	EventID   uint16

	// StartTime is zero when the broadcast signals an undefined start.
	StartTime time.Time
	// Duration is meaningless when Infinite is set, in which case the event
	// has no scheduled end and EndTime equals StartTime.
	Duration time.Duration
	Infinite bool

	Title       string
	Description string
	Details     []Detail
	Genres      []Genre
	Video       *VideoInfo
	Audio       []AudioInfo
}

// EndTime returns the scheduled end of the event, or StartTime when the
// duration is undefined.
func (r *ProgramRecord) EndTime() time.Time {
	if r.Infinite || r.StartTime.IsZero() {
		return r.StartTime
	}
	return r.StartTime.Add(r.Duration)
}

// Detail is one heading/body pair from the extended event descriptors, in
// broadcast order.
type Detail struct {
	Heading string
	Body    string
}

// Genre is one resolved content classification.
type Genre struct {
	Major string
	Minor string
}

// VideoInfo describes the video component. Nil on audio-only services.
type VideoInfo struct {
	Type       string // e.g. "1080i[16:9]"
	Codec      string // e.g. "MPEG-2"
	Resolution string // e.g. "1920x1080"
}

// AudioInfo describes one audio component.
type AudioInfo struct {
	Type       string // e.g. "ステレオ"
	Language   string
	Language2  string // dual-mono second channel, empty otherwise
	SampleRate int    // Hz
	Primary    bool   // main_component_flag
}
