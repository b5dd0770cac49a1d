package video

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenRelay_not_found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such object", http.StatusNotFound)
	}))
	defer srv.Close()

	relay, err := OpenRelay(context.Background(), srv.URL)
	if relay != nil {
		relay.Close()
		t.Fatal("expected no relay on error status")
	}
	var re *RelayError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RelayError, got %T", err)
	}
	if re.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", re.StatusCode)
	}
}

func TestOpenRelay_connection_refused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := OpenRelay(context.Background(), srv.URL)
	var re *RelayError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RelayError, got %T", err)
	}
	if re.Err == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestRelay_chunks(t *testing.T) {
	// Three full chunks plus a partial tail.
	payload := bytes.Repeat([]byte{0xAB}, 3*relayChunkSize+100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	relay, err := OpenRelay(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer relay.Close()

	var got []byte
	for {
		chunk, err := relay.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if chunk == nil {
			break
		}
		if len(chunk) == 0 || len(chunk) > relayChunkSize {
			t.Fatalf("chunk size out of range: %d", len(chunk))
		}
		got = append(got, chunk...)
	}

	if !bytes.Equal(got, payload) {
		t.Errorf("reassembled body differs: got %d bytes, want %d", len(got), len(payload))
	}
	// Exhausted relay keeps returning (nil, nil).
	if chunk, err := relay.Next(); chunk != nil || err != nil {
		t.Errorf("expected (nil, nil) after exhaustion, got %v %v", chunk, err)
	}
}

func TestRelay_empty_body(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay, err := OpenRelay(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if chunk, err := relay.Next(); chunk != nil || err != nil {
		t.Errorf("expected immediate end for empty body, got %v %v", chunk, err)
	}
}
