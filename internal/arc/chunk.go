package arc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	chunkHeaderSize = 32

	// "Ps" and "sc", little-endian.
	chunkMagic1 = 0x7350
	chunkMagic2 = 0x6373

	// dictBias splits the 16-bit code space: codes below the bias declare
	// literal section sizes, codes at or above it reference window slots.
	dictBias = 4096

	maxWindowLen = 65536 - dictBias

	// The archive clock runs at 11250 ticks per second, wrapping at 30 bits.
	ticksPerSecond = 11250
	tickMask       = 0x3fffffff
)

// ErrCorruptArchive reports an archive that violates the chunk format. It is
// fatal for the whole run: the decoder emits nothing further and the caller
// must restart the fetch.
var ErrCorruptArchive = errors.New("arc: corrupt archive")

// chunkHeader is the fixed 32-byte header preceding every chunk.
type chunkHeader struct {
	timeListLen  int
	dictLen      int
	windowLen    int
	dictDataSize int
	dictBufSize  int
	codeListLen  int
}

func parseChunkHeader(b []byte) (chunkHeader, error) {
	if binary.LittleEndian.Uint16(b[0:]) != chunkMagic1 ||
		binary.LittleEndian.Uint16(b[2:]) != chunkMagic2 {
		return chunkHeader{}, fmt.Errorf("%w: bad chunk magic %02x %02x %02x %02x",
			ErrCorruptArchive, b[0], b[1], b[2], b[3])
	}

	h := chunkHeader{
		timeListLen:  int(binary.LittleEndian.Uint16(b[4:])),
		dictLen:      int(binary.LittleEndian.Uint16(b[6:])),
		windowLen:    int(binary.LittleEndian.Uint16(b[8:])),
		dictDataSize: int(binary.LittleEndian.Uint32(b[12:])),
		dictBufSize:  int(binary.LittleEndian.Uint32(b[16:])),
		codeListLen:  int(binary.LittleEndian.Uint32(b[20:])),
	}

	switch {
	case h.windowLen < h.dictLen:
		return chunkHeader{}, fmt.Errorf("%w: dictionary window %d smaller than dictionary %d",
			ErrCorruptArchive, h.windowLen, h.dictLen)
	case h.dictBufSize < h.dictDataSize:
		return chunkHeader{}, fmt.Errorf("%w: dictionary buffer %d smaller than data %d",
			ErrCorruptArchive, h.dictBufSize, h.dictDataSize)
	case h.windowLen > maxWindowLen:
		return chunkHeader{}, fmt.Errorf("%w: dictionary window %d exceeds %d",
			ErrCorruptArchive, h.windowLen, maxWindowLen)
	}

	return h, nil
}

// payloadSize is the chunk body size following the header: the time list,
// the dictionary code list, the 2-byte-aligned dictionary payload, and the
// emission code list.
func (h chunkHeader) payloadSize() int {
	return h.timeListLen*4 + h.dictLen*2 + (h.dictDataSize+1)/2*2 + h.codeListLen*2
}
