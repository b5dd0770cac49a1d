package video

import (
	"context"
	"io"
	"net/http"
	"time"
)

// relayChunkSize is the fixed size of chunks yielded by a Relay.
const relayChunkSize = 8 * 1024

// relayTimeout bounds the whole relay request, covering connection
// establishment and reads.
const relayTimeout = 30 * time.Second

var relayClient = &http.Client{Timeout: relayTimeout}

// Relay streams raw bytes from a presigned URL in fixed-size chunks,
// independent of the decode/encode path. Exactly one chunk is held in
// memory at a time.
type Relay struct {
	body io.ReadCloser
	done bool
}

// OpenRelay issues the streaming GET request. A non-2xx status, timeout, or
// connection error is returned as *RelayError before any chunk is yielded.
func OpenRelay(ctx context.Context, url string) (*Relay, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RelayError{URL: url, Err: err}
	}
	resp, err := relayClient.Do(req)
	if err != nil {
		return nil, &RelayError{URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &RelayError{URL: url, StatusCode: resp.StatusCode}
	}
	return &Relay{body: resp.Body}, nil
}

// Next returns the next non-empty chunk, at most relayChunkSize bytes, or
// (nil, nil) at end of stream. Network failures mid-stream are propagated
// unmodified inside *RelayError.
func (r *Relay) Next() ([]byte, error) {
	if r.done {
		return nil, nil
	}
	buf := make([]byte, relayChunkSize)
	for {
		n, err := r.body.Read(buf)
		if n > 0 {
			return buf[:n], nil
		}
		if err == io.EOF {
			r.done = true
			r.body.Close()
			return nil, nil
		}
		if err != nil {
			r.done = true
			r.body.Close()
			return nil, &RelayError{Err: err}
		}
	}
}

// Close releases the underlying connection. Safe to call more than once.
func (r *Relay) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	return r.body.Close()
}
