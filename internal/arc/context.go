// Package arc decodes the chunked PSI/SI section-archive format back into
// framed MPEG-TS packets. An archive trades bandwidth for state: sections a
// chunk would retransmit are replaced by references into a rolling dictionary
// window carried between chunks, and timing is delta-coded against a clock
// anchor. The decoder is a plain synchronous state machine driven by Decode;
// how it is scheduled is the caller's concern.
package arc

// ArchiveContext is the decoder state carried between successive Decode
// calls. It is exclusively owned by one Decoder and mutated in place; given
// the same unconsumed tail and the same context, decoding always yields
// identical output.
type ArchiveContext struct {
	// pids holds the PID of each dictionary window slot. During dictionary
	// resolution a negative value marks a slot of the previous window as
	// checked out, so it can neither be referenced again nor carried over.
	pids []int

	// dict holds the framed (headerless) packet blocks of each window slot,
	// parallel to pids.
	dict [][]byte

	// trailerSize is the number of alignment bytes pending before the next
	// chunk header.
	trailerSize int

	// Mid-chunk cursors. timeListCount < 0 means the current chunk has not
	// had its dictionary resolved yet.
	timeListCount int
	codeListPos   int
	codeCount     int

	// Clock state in 1/11250-second ticks. -1 means unanchored.
	initTime int64
	currTime int64
}

func newArchiveContext() ArchiveContext {
	return ArchiveContext{
		timeListCount: -1,
		initTime:      -1,
		currTime:      -1,
	}
}

// second returns the seconds elapsed since the clock anchor, or -1 while the
// clock is unanchored.
func (c *ArchiveContext) second() float64 {
	if c.initTime < 0 || c.currTime < 0 {
		return -1
	}
	return float64((c.currTime+0x40000000-c.initTime)&tickMask) / ticksPerSecond
}

// beginChunk resets the per-chunk cursors after a chunk completes.
func (c *ArchiveContext) beginChunk() {
	c.timeListCount = -1
	c.codeListPos = 0
	c.codeCount = 0
}
