// Package session drives one live decode pipeline: it pumps an archive byte
// source into the chunk decoder, forwards reconstructed packets and clock
// ticks to the caller, and feeds EIT packets through the program extractor.
// All decode work for newly arrived bytes completes synchronously before the
// next read; there is no internal parallelism and exactly one pipeline may
// own a Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/tsviewer/psiarc/internal/arc"
	"github.com/tsviewer/psiarc/internal/eit"
)

const (
	readBufSize = 32 << 10

	// Clock ticks are reported on the 90 kHz transport clock base.
	clockHz = 90000
)

// Config carries the construction parameters of a decode session.
type Config struct {
	// NetworkID and ServiceID select the service whose present/following
	// events are extracted.
	NetworkID uint16
	ServiceID uint16

	// StartSeconds fast-forwards output to this archive offset (0 = from
	// the beginning of the stream).
	StartSeconds float64

	Logger *slog.Logger
}

// Callbacks receive decoded output. Nil callbacks are skipped. All callbacks
// run on the pump's goroutine; packet slices are only valid for the duration
// of the call.
type Callbacks struct {
	// OnPacket receives each reconstructed 188-byte transport packet.
	OnPacket func(pkt []byte)
	// OnTick receives one 90 kHz clock tick per distinct integer second of
	// archive time, never duplicated.
	OnTick func(tick int64)
	// OnProgram receives each decoded present/following record for the
	// tracked service.
	OnProgram func(kind eit.Kind, rec *eit.ProgramRecord)
}

// Session owns one decode pipeline. Not safe for concurrent Run calls; Close
// may be called from any goroutine.
type Session struct {
	log *slog.Logger
	cfg Config
	cb  Callbacks

	dec        *arc.Decoder
	ext        *eit.Extractor
	tail       []byte
	lastSecond int64

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(cfg Config, cb Callbacks) *Session {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		log:        log.With("component", "session"),
		cfg:        cfg,
		cb:         cb,
		dec:        arc.NewDecoder(cfg.StartSeconds),
		ext:        eit.NewExtractor(cfg.NetworkID, cfg.ServiceID),
		lastSecond: -1,
	}
}

// Run pumps src until it ends, the context is cancelled, or the archive
// proves corrupt. Stream read errors are swallowed at this boundary (logged,
// loop exits cleanly): reconnecting is the owner's decision, not the
// decoder's. A corrupt archive returns arc.ErrCorruptArchive wrapped; no
// further output is emitted after it.
//
// Cancellation relies on the source honoring the request context (a chunked
// HTTP body does once its request is cancelled or closed); Run itself stops
// at the next read return. On exit all session state is discarded, so a
// subsequent Run starts clean.
func (s *Session) Run(ctx context.Context, src io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()
	defer s.reset()

	buf := make([]byte, readBufSize)
	for {
		if ctx.Err() != nil {
			s.log.Debug("session cancelled")
			return nil
		}

		n, err := src.Read(buf)
		if n > 0 {
			s.tail = append(s.tail, buf[:n]...)
			rest, derr := s.dec.Decode(s.tail, s.emit)
			if derr != nil {
				s.log.Warn("archive corrupt, stopping", "error", derr)
				return fmt.Errorf("session: %w", derr)
			}
			// rest aliases s.tail; slide it to the front for the next read.
			s.tail = append(s.tail[:0], rest...)
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				s.log.Debug("stream ended")
			case ctx.Err() != nil:
				s.log.Debug("session cancelled", "error", err)
			default:
				s.log.Warn("stream read failed", "error", err)
			}
			return nil
		}
	}
}

// Close aborts an in-flight Run. Idempotent, and safe even if Run was never
// called.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// reset discards carried state so the next Run cannot see stale
// back-references, counters, or buffered tail bytes.
func (s *Session) reset() {
	s.tail = nil
	s.lastSecond = -1
	s.dec.Reset()
	s.ext = eit.NewExtractor(s.cfg.NetworkID, s.cfg.ServiceID)
}

// emit fans one reconstructed section out to the callbacks: a clock tick on
// each new integer second, every packet, and any program records the EIT
// extractor completes.
func (s *Session) emit(second float64, packets []byte, pid uint16) {
	if fs := int64(second); fs != s.lastSecond {
		s.lastSecond = fs
		if s.cb.OnTick != nil {
			s.cb.OnTick(int64(math.Floor(second * clockHz)))
		}
	}

	for off := 0; off+188 <= len(packets); off += 188 {
		pkt := packets[off : off+188]
		if s.cb.OnPacket != nil {
			s.cb.OnPacket(pkt)
		}
		if pid == eit.PID {
			for _, u := range s.ext.Push(pkt) {
				if s.cb.OnProgram != nil {
					s.cb.OnProgram(u.Kind, u.Record)
				}
			}
		}
	}
}
