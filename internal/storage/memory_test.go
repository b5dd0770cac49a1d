package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMemoryStore_put_get_stat(t *testing.T) {
	store := NewMemoryStore("")
	ctx := context.Background()

	payload := []byte("raw video bytes")
	if err := store.Put(ctx, "vid/input_video", bytes.NewReader(payload), int64(len(payload)), "video/mp4"); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetBytes(ctx, "vid/input_video")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("stored bytes differ: %q", got)
	}

	// Mutating the returned slice must not affect stored state.
	got[0] = 'X'
	again, _ := store.GetBytes(ctx, "vid/input_video")
	if !bytes.Equal(again, payload) {
		t.Error("GetBytes must return a copy")
	}

	info, err := store.Stat(ctx, "vid/input_video")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Key != "vid/input_video" || info.Size != int64(len(payload)) || info.ContentType != "video/mp4" {
		t.Errorf("unexpected object info: %+v", info)
	}
	if info.LastModified.IsZero() {
		t.Error("expected a last-modified timestamp")
	}
}

func TestMemoryStore_not_found(t *testing.T) {
	store := NewMemoryStore("")
	ctx := context.Background()

	if _, err := store.GetBytes(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Stat(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stat: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_delete_idempotent(t *testing.T) {
	store := NewMemoryStore("")
	ctx := context.Background()

	store.Put(ctx, "k", strings.NewReader("v"), 1, "text/plain")
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete must succeed: %v", err)
	}
	if _, err := store.Stat(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Error("object should be gone after delete")
	}
}

func TestMemoryStore_presigned_serving(t *testing.T) {
	store := NewMemoryStore("")
	ctx := context.Background()

	srv := httptest.NewServer(store)
	defer srv.Close()
	store.SetBaseURL(srv.URL)

	payload := []byte("frag mp4")
	store.Put(ctx, "abc/output_video", bytes.NewReader(payload), int64(len(payload)), "video/mp4")

	u, err := store.PresignedGetURL(ctx, "abc/output_video", time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("get presigned url: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("expected video/mp4, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(body, payload) {
		t.Errorf("served bytes differ: %q", body)
	}
}

func TestMemoryStore_presigned_unknown_key(t *testing.T) {
	store := NewMemoryStore("")

	srv := httptest.NewServer(store)
	defer srv.Close()
	store.SetBaseURL(srv.URL)

	u, _ := store.PresignedGetURL(context.Background(), "ghost/key", time.Minute)
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestArtifactKeys(t *testing.T) {
	id := "8c7e"
	cases := map[string]string{
		InputVideoKey(id):  "8c7e/input_video",
		OutputVideoKey(id): "8c7e/output_video",
		EstimationsKey(id): "8c7e/estimations",
		AnalysisKey(id):    "8c7e/analysis",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("expected key %q, got %q", want, got)
		}
	}
}
