package video

import "fmt"

// ProbeError is returned when the metadata-inspection subprocess fails,
// emits no video stream, or its output cannot be parsed.
type ProbeError struct {
	Msg    string
	Stderr string
	Err    error
}

func (e *ProbeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("probe: %s: %s", e.Msg, e.Stderr)
	}
	return "probe: " + e.Msg
}

func (e *ProbeError) Unwrap() error { return e.Err }

// DecodeError is returned when the decode subprocess exits non-zero after
// streaming began. Stderr carries the subprocess diagnostic output.
type DecodeError struct {
	Stderr string
}

func (e *DecodeError) Error() string {
	return "decode: ffmpeg failed: " + e.Stderr
}

// EncodeError is returned when the encode subprocess exits non-zero or exits
// before consuming all input frames (e.g. it received zero frames).
type EncodeError struct {
	Stderr string
}

func (e *EncodeError) Error() string {
	return "encode: ffmpeg failed: " + e.Stderr
}

// RelayError is returned when the streaming request to a presigned URL fails
// or answers with a non-success status.
type RelayError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("relay: %v", e.Err)
	}
	return fmt.Sprintf("relay: unexpected status %d", e.StatusCode)
}

func (e *RelayError) Unwrap() error { return e.Err }
