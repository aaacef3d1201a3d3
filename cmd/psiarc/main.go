// Command psiarc decodes a PSI/SI section archive into an MPEG-TS packet
// stream and logs the now/next program information of one service. The
// archive may come from a file, stdin, or a chunked HTTP(S) response,
// optionally over HTTP/3.
package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quic-go/quic-go/http3"
	"golang.org/x/sync/errgroup"

	"github.com/tsviewer/psiarc/internal/eit"
	"github.com/tsviewer/psiarc/internal/session"
)

var version = "dev"

func main() {
	var (
		in          = flag.String("in", "-", "archive source: file path, '-' for stdin, or an http(s) URL")
		out         = flag.String("out", "-", "transport stream sink: file path or '-' for stdout")
		networkID   = flag.Uint("network", 4, "original_network_id of the tracked service")
		serviceID   = flag.Uint("service", 0, "service_id of the tracked service")
		start       = flag.Float64("start", 0, "start offset into the archive in seconds (0 = from now)")
		useHTTP3    = flag.Bool("http3", false, "fetch the archive over HTTP/3")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return
	}

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	src, closeSrc, err := openSource(ctx, *in, *useHTTP3)
	if err != nil {
		slog.Error("failed to open archive source", "error", err)
		os.Exit(1)
	}

	sink, closeSink, err := openSink(*out)
	if err != nil {
		closeSrc()
		slog.Error("failed to open output", "error", err)
		os.Exit(1)
	}
	w := bufio.NewWriterSize(sink, 64<<10)

	slog.Info("psiarc starting",
		"version", version,
		"in", *in,
		"out", *out,
		"network_id", *networkID,
		"service_id", *serviceID,
		"start", *start,
	)

	sess := session.New(session.Config{
		NetworkID:    uint16(*networkID),
		ServiceID:    uint16(*serviceID),
		StartSeconds: *start,
	}, session.Callbacks{
		OnPacket: func(pkt []byte) {
			if _, werr := w.Write(pkt); werr != nil {
				slog.Error("output write failed", "error", werr)
				cancel()
			}
		},
		OnTick: func(tick int64) {
			slog.Debug("clock", "tick", tick)
		},
		OnProgram: func(kind eit.Kind, rec *eit.ProgramRecord) {
			slog.Info("program",
				"kind", kind.String(),
				"event_id", rec.EventID,
				"title", rec.Title,
				"start", rec.StartTime,
				"end", rec.EndTime(),
				"genres", len(rec.Genres),
			)
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return sess.Run(gctx, src)
	})
	g.Go(func() error {
		// Unblock the pump's read when shutdown is requested.
		<-gctx.Done()
		sess.Close()
		closeSrc()
		return nil
	})

	err = g.Wait()
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	closeSink()
	if err != nil {
		slog.Error("decode failed", "error", err)
		os.Exit(1)
	}
	slog.Info("psiarc finished")
}

// openSource opens the archive byte source. HTTP responses stream chunked
// bytes bound to ctx, so cancelling the context aborts an in-flight read.
func openSource(ctx context.Context, in string, useHTTP3 bool) (io.Reader, func(), error) {
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		client := &http.Client{}
		var rt *http3.RoundTripper
		if useHTTP3 {
			rt = &http3.RoundTripper{TLSClientConfig: &tls.Config{}}
			client.Transport = rt
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, in, nil)
		if err != nil {
			return nil, nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			if rt != nil {
				rt.Close()
			}
			return nil, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if rt != nil {
				rt.Close()
			}
			return nil, nil, fmt.Errorf("archive fetch: %s", resp.Status)
		}

		closeFn := func() {
			resp.Body.Close()
			if rt != nil {
				rt.Close()
			}
		}
		return resp.Body, closeFn, nil
	}

	if in == "-" {
		return os.Stdin, func() { os.Stdin.Close() }, nil
	}
	f, err := os.Open(in)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openSink(out string) (io.Writer, func(), error) {
	if out == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(out)
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		if cerr := f.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			slog.Warn("output close failed", "error", cerr)
		}
	}, nil
}
