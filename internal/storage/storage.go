package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Artifact object names under a video's key prefix. These are fixed rather
// than configurable so that every component derives the same keys.
const (
	InputVideoName  = "input_video"
	OutputVideoName = "output_video"
	EstimationsName = "estimations"
	AnalysisName    = "analysis"
)

// ErrNotFound is returned by Stat and GetBytes when the object does not
// exist in the bucket.
var ErrNotFound = errors.New("object not found")

// ObjectInfo holds the metadata subset the service needs from a head call.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// ObjectStore is the contract for a single-bucket S3-compatible object
// store. Implementations must be safe for concurrent use.
type ObjectStore interface {
	// EnsureBucket creates the configured bucket if it does not already
	// exist. Safe to call more than once.
	EnsureBucket(ctx context.Context) error

	// Put stores the contents of r under key, replacing any existing
	// object. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// GetBytes reads an entire object into memory. Suitable only for
	// small artifacts; video payloads go through presigned URLs instead.
	GetBytes(ctx context.Context, key string) ([]byte, error)

	// Stat returns object metadata, or ErrNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// PresignedGetURL returns a time-boxed URL granting direct read
	// access to the object without exposing credentials.
	PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// InputVideoKey returns the storage key of the uploaded source video.
func InputVideoKey(videoID string) string { return videoID + "/" + InputVideoName }

// OutputVideoKey returns the storage key of the annotated output video.
func OutputVideoKey(videoID string) string { return videoID + "/" + OutputVideoName }

// EstimationsKey returns the storage key of the pose estimation artifact.
func EstimationsKey(videoID string) string { return videoID + "/" + EstimationsName }

// AnalysisKey returns the storage key of the running analysis artifact.
func AnalysisKey(videoID string) string { return videoID + "/" + AnalysisName }
