package video

import (
	"bytes"
	"io"
	"testing"
)

// frameBytes builds n frames of the given geometry with distinct fill
// values, plus tail extra bytes.
func frameBytes(geo Geometry, n int, tail int) []byte {
	size := geo.Width * geo.Height * 3
	buf := make([]byte, 0, n*size+tail)
	for i := 0; i < n; i++ {
		frame := bytes.Repeat([]byte{byte(i + 1)}, size)
		buf = append(buf, frame...)
	}
	buf = append(buf, bytes.Repeat([]byte{0xEE}, tail)...)
	return buf
}

func newTestStream(data []byte, geo Geometry, finish func() error) *FrameStream {
	return newFrameStream(io.NopCloser(bytes.NewReader(data)), geo, finish)
}

func TestFrameStream_exact_frames(t *testing.T) {
	geo := Geometry{Width: 64, Height: 48}
	s := newTestStream(frameBytes(geo, 10, 0), geo, nil)

	count := 0
	for {
		frame, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if frame == nil {
			break
		}
		if frame.Width != 64 || frame.Height != 48 {
			t.Fatalf("expected 64x48 frame, got %dx%d", frame.Width, frame.Height)
		}
		if len(frame.Data) != 64*48*3 {
			t.Fatalf("expected %d bytes, got %d", 64*48*3, len(frame.Data))
		}
		if frame.Data[0] != byte(count+1) {
			t.Fatalf("frame %d: expected fill %d, got %d", count, count+1, frame.Data[0])
		}
		count++
	}
	if count != 10 {
		t.Errorf("expected 10 frames, got %d", count)
	}
}

func TestFrameStream_partial_tail_discarded(t *testing.T) {
	geo := Geometry{Width: 8, Height: 4}
	s := newTestStream(frameBytes(geo, 3, 17), geo, nil)

	count := 0
	for {
		frame, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if frame == nil {
			break
		}
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 full frames, got %d", count)
	}
}

func TestFrameStream_fresh_buffer_per_frame(t *testing.T) {
	geo := Geometry{Width: 4, Height: 2}
	s := newTestStream(frameBytes(geo, 2, 0), geo, nil)

	first, err := s.Next()
	if err != nil || first == nil {
		t.Fatalf("first frame: %v %v", first, err)
	}
	second, err := s.Next()
	if err != nil || second == nil {
		t.Fatalf("second frame: %v %v", second, err)
	}
	if &first.Data[0] == &second.Data[0] {
		t.Error("frames share a buffer; each frame must own its data")
	}
	if first.Data[0] != 1 || second.Data[0] != 2 {
		t.Errorf("frame contents corrupted: %d %d", first.Data[0], second.Data[0])
	}
}

func TestFrameStream_finish_error_surfaces_once(t *testing.T) {
	geo := Geometry{Width: 4, Height: 2}
	failure := &DecodeError{Stderr: "boom"}
	s := newTestStream(frameBytes(geo, 1, 0), geo, func() error { return failure })

	if frame, err := s.Next(); err != nil || frame == nil {
		t.Fatalf("expected one frame, got %v %v", frame, err)
	}
	if _, err := s.Next(); err != failure {
		t.Fatalf("expected finish error at exhaustion, got %v", err)
	}
	// Error sticks on subsequent calls.
	if _, err := s.Next(); err != failure {
		t.Fatalf("expected sticky finish error, got %v", err)
	}
}

func TestFrameStream_close_early_joins_once(t *testing.T) {
	geo := Geometry{Width: 4, Height: 2}
	joins := 0
	s := newTestStream(frameBytes(geo, 5, 0), geo, func() error {
		joins++
		return nil
	})

	if frame, err := s.Next(); err != nil || frame == nil {
		t.Fatalf("expected a frame before close, got %v %v", frame, err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if joins != 1 {
		t.Errorf("expected exactly one join, got %d", joins)
	}
	if frame, err := s.Next(); frame != nil || err != nil {
		t.Errorf("Next after close should end the sequence, got %v %v", frame, err)
	}
}
