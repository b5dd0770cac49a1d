package video

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"
	"time"

	"pose-pipeline/internal/pose"
	"pose-pipeline/internal/storage"
)

// FrameSource is a pull-based, forward-only, finite sequence of raw frames.
// Next returns (nil, nil) when the sequence is exhausted. The caller owns
// each returned frame.
type FrameSource interface {
	Next() (*pose.Frame, error)
}

// FrameStream decodes a stored video into raw RGB24 frames by streaming a
// presigned URL through an ffmpeg subprocess. At most one frame is held in
// memory at a time. FrameStream is not safe for concurrent use; run one
// stream per pipeline invocation.
type FrameStream struct {
	geo       Geometry
	frameSize int

	out    io.ReadCloser
	stderr *bytes.Buffer
	finish func() error

	finished  bool
	finishErr error
}

// OpenFrameStream resolves a presigned URL for key, probes the stream
// geometry, and spawns the decode subprocess. ffmpeg resamples to fps
// (duplicating or dropping source frames) and writes packed RGB24 with no
// container framing to its stdout.
//
// No validation is performed beyond what ffmpeg itself enforces; malformed
// or unreachable sources may hang, so callers bound the overall request
// duration externally.
func OpenFrameStream(ctx context.Context, store storage.ObjectStore, key string, ttl time.Duration, fps float64) (*FrameStream, error) {
	url, err := store.PresignedGetURL(ctx, key, ttl)
	if err != nil {
		return nil, err
	}

	geo, err := Probe(ctx, url)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-i", url,
		"-vf", "fps="+strconv.FormatFloat(fps, 'f', -1, 64),
		"-pix_fmt", "rgb24",
		"-f", "rawvideo",
		"-loglevel", "error",
		"pipe:1",
	)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &DecodeError{Stderr: err.Error()}
	}
	if err := cmd.Start(); err != nil {
		return nil, &DecodeError{Stderr: err.Error()}
	}

	s := &FrameStream{
		geo:       geo,
		frameSize: geo.Width * geo.Height * 3,
		out:       stdout,
		stderr:    stderr,
	}
	s.finish = func() error {
		stdout.Close()
		if waitErr := cmd.Wait(); waitErr != nil {
			return &DecodeError{Stderr: stderr.String()}
		}
		return nil
	}
	return s, nil
}

// newFrameStream builds a stream over an arbitrary reader. Used by tests to
// exercise the frame-chunking logic without a subprocess.
func newFrameStream(r io.ReadCloser, geo Geometry, finish func() error) *FrameStream {
	if finish == nil {
		finish = func() error { return r.Close() }
	}
	return &FrameStream{
		geo:       geo,
		frameSize: geo.Width * geo.Height * 3,
		out:       r,
		finish:    finish,
	}
}

// Geometry returns the probed frame shape.
func (s *FrameStream) Geometry() Geometry { return s.geo }

// Next reads exactly one frame-sized block from the decode pipe into a fresh
// buffer. A read returning fewer bytes than one frame ends the sequence:
// partial bytes are discarded, the pipe is closed and the subprocess joined.
// A non-zero exit code surfaces as *DecodeError; a clean end returns
// (nil, nil).
func (s *FrameStream) Next() (*pose.Frame, error) {
	if s.finished {
		return nil, s.finishErr
	}

	buf := make([]byte, s.frameSize)
	if _, err := io.ReadFull(s.out, buf); err != nil {
		// io.EOF or io.ErrUnexpectedEOF: end of stream, possibly with
		// trailing partial bytes. Any other read error also ends the
		// sequence; the exit code decides what the caller sees.
		s.finished = true
		s.finishErr = s.finish()
		return nil, s.finishErr
	}

	return &pose.Frame{Data: buf, Width: s.geo.Width, Height: s.geo.Height}, nil
}

// Close stops the stream early: it closes the pipe and joins the subprocess
// so no runaway process is leaked. Like exhaustion, a non-zero exit code is
// reported as *DecodeError; callers stopping early may ignore it.
func (s *FrameStream) Close() error {
	if s.finished {
		return s.finishErr
	}
	s.finished = true
	s.finishErr = s.finish()
	return s.finishErr
}
