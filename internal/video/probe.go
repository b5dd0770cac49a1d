package video

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
)

// Geometry is the frame shape of a video stream, discovered once per source
// before decoding starts. The raw-frame pipe format requires a fixed byte
// stride per frame, so probing must complete before the decode subprocess is
// spawned.
type Geometry struct {
	Width  int
	Height int
}

// probeOutput mirrors the ffprobe -of json layout for stream entries.
type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// Probe inspects the first video stream behind url and returns its geometry.
// It blocks until ffprobe exits.
func Probe(ctx context.Context, url string) (Geometry, error) {
	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		url,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Geometry{}, &ProbeError{Msg: "ffprobe failed", Stderr: stderr.String(), Err: err}
	}
	return parseProbeOutput(stdout.Bytes())
}

func parseProbeOutput(data []byte) (Geometry, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Geometry{}, &ProbeError{Msg: "unparseable ffprobe output", Err: err}
	}
	if len(out.Streams) == 0 {
		return Geometry{}, &ProbeError{Msg: "no video stream"}
	}
	g := Geometry{Width: out.Streams[0].Width, Height: out.Streams[0].Height}
	if g.Width <= 0 || g.Height <= 0 {
		return Geometry{}, &ProbeError{Msg: "invalid stream dimensions"}
	}
	return g, nil
}
