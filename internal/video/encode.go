package video

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"

	"pose-pipeline/internal/pose"
	"pose-pipeline/internal/storage"
)

// EncodeAndUpload drains frames, encodes them into a fragmented MP4 through
// an ffmpeg subprocess, and writes the complete result to the store under
// key. Frames are piped to ffmpeg stdin one at a time, so memory stays
// bounded by one frame plus the collected compressed output.
//
// width and height are the source frame dimensions; odd values are reduced
// by one to satisfy the H.264 even-dimension requirement, and frames that do
// not match the adjusted size are cropped. The destination write happens
// only after the subprocess exited successfully, so partial output is never
// uploaded.
func EncodeAndUpload(ctx context.Context, store storage.ObjectStore, frames FrameSource, key string, width, height int, fps float64, crf int) error {
	width, height = evenAdjust(width, height)

	enc, err := startEncoder(ctx, width, height, fps, crf)
	if err != nil {
		return err
	}
	out, err := runEncode(enc, frames, width, height)
	if err != nil {
		return err
	}

	if err := store.Put(ctx, key, bytes.NewReader(out), int64(len(out)), "video/mp4"); err != nil {
		return err
	}
	return nil
}

// encoder is the write side of one encode subprocess: a sink for raw frame
// bytes plus a finish that closes the input, joins the process, and returns
// the compressed output. A non-zero exit surfaces as *EncodeError carrying
// the subprocess stderr.
type encoder struct {
	in     io.WriteCloser
	finish func() ([]byte, error)
}

// newEncoder builds an encoder over an arbitrary sink. Used by tests to
// exercise the frame-feeding logic without a subprocess.
func newEncoder(in io.WriteCloser, finish func() ([]byte, error)) *encoder {
	return &encoder{in: in, finish: finish}
}

// startEncoder spawns the ffmpeg encode subprocess reading raw RGB24 frames
// on stdin and writing a fragmented MP4 to stdout.
func startEncoder(ctx context.Context, width, height int, fps float64, crf int) (*encoder, error) {
	fpsArg := strconv.FormatFloat(fps, 'f', -1, 64)

	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", strconv.Itoa(width)+"x"+strconv.Itoa(height),
		"-r", fpsArg,
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-crf", strconv.Itoa(crf),
		"-pix_fmt", "yuv420p",
		"-r", fpsArg,
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &EncodeError{Stderr: err.Error()}
	}
	if err := cmd.Start(); err != nil {
		return nil, &EncodeError{Stderr: err.Error()}
	}

	return newEncoder(stdin, func() ([]byte, error) {
		stdin.Close()
		if waitErr := cmd.Wait(); waitErr != nil {
			return nil, &EncodeError{Stderr: stderr.String()}
		}
		return stdout.Bytes(), nil
	}), nil
}

// runEncode feeds cropped frames into the encoder and joins it on every
// path, so no subprocess is leaked. An empty source is not special-cased:
// the encoder receives zero frames, exits non-zero, and that exit surfaces
// as *EncodeError like any other encode failure.
func runEncode(enc *encoder, frames FrameSource, width, height int) ([]byte, error) {
	for {
		frame, err := frames.Next()
		if err != nil {
			// Upstream failed mid-stream. Join the encoder before
			// propagating so it is not leaked.
			enc.finish()
			return nil, err
		}
		if frame == nil {
			break
		}

		if _, err := enc.in.Write(cropFrame(*frame, width, height)); err != nil {
			// The encoder exited before consuming all frames. Its
			// own diagnostics beat the broken-pipe fault, so join
			// first and prefer the exit error.
			if _, finishErr := enc.finish(); finishErr != nil {
				return nil, finishErr
			}
			return nil, &EncodeError{Stderr: err.Error()}
		}
	}

	return enc.finish()
}

// evenAdjust reduces odd dimensions by one. H.264 with yuv420p requires even
// width and height.
func evenAdjust(width, height int) (int, int) {
	if width%2 != 0 {
		width--
	}
	if height%2 != 0 {
		height--
	}
	return width, height
}

// cropFrame returns the frame's pixel data trimmed to width x height. Frames
// that already match are passed through without copying.
func cropFrame(f pose.Frame, width, height int) []byte {
	if f.Width == width && f.Height == height {
		return f.Data
	}
	out := make([]byte, width*height*3)
	srcStride := f.Width * 3
	dstStride := width * 3
	for y := 0; y < height; y++ {
		copy(out[y*dstStride:(y+1)*dstStride], f.Data[y*srcStride:y*srcStride+dstStride])
	}
	return out
}
