package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pose-pipeline/internal/analysis"
	"pose-pipeline/internal/pose"
	"pose-pipeline/internal/results"
	"pose-pipeline/internal/storage"
	"pose-pipeline/internal/video"
)

var (
	// ErrUnsupportedMedia is returned when an uploaded filename does not
	// carry a known video extension.
	ErrUnsupportedMedia = errors.New("file must be a video")

	// ErrVideoNotFound is returned when the input video for a video ID
	// is missing from storage.
	ErrVideoNotFound = errors.New("input video not found")

	// ErrOutputNotFound is returned when the annotated output video has
	// not been rendered yet.
	ErrOutputNotFound = errors.New("output video not found")

	// ErrEstimationsNotFound is returned when no pose estimation results
	// exist for a video ID.
	ErrEstimationsNotFound = errors.New("pose estimation results not found")

	// ErrAnalysisNotFound is returned when no running analysis exists
	// for a video ID.
	ErrAnalysisNotFound = errors.New("analysis results not found")
)

// allowedVideoTypes maps accepted upload extensions to the content type
// stored with the object. Detection is by filename, not content.
var allowedVideoTypes = map[string]string{
	".mp4":  "video/mp4",
	".avi":  "video/avi",
	".mov":  "video/quicktime",
	".webm": "video/webm",
}

// RenderJob describes one annotate-and-render pipeline invocation.
type RenderJob struct {
	VideoID     string
	FPS         float64
	CRF         int
	Options     RenderOptions
	Estimations []pose.EstimationResult
}

// RenderOptions are the per-request annotation toggles.
type RenderOptions struct {
	ShowBBox       bool
	ShowKeypoints  bool
	ShowConfidence bool
	ShowSkeleton   bool
	Format         pose.Format
}

// Pipeline runs the streaming decode, annotate, encode, upload chain for one
// video. Implementations own their subprocess handles, so independent jobs
// may run concurrently.
type Pipeline interface {
	Render(ctx context.Context, job RenderJob) error
}

// Service applies the business logic over object storage and the render
// pipeline, and owns artifact existence checks.
type Service struct {
	store      storage.ObjectStore
	pipeline   Pipeline
	presignTTL time.Duration
}

// NewService returns a Service using store for artifacts and pipeline for
// rendering. presignTTL bounds the lifetime of presigned URLs handed to
// subprocesses and download relays.
func NewService(store storage.ObjectStore, pipeline Pipeline, presignTTL time.Duration) *Service {
	return &Service{store: store, pipeline: pipeline, presignTTL: presignTTL}
}

// UploadVideo stores an uploaded video under a fresh UUID and returns that
// ID. The filename is only used for media-type detection.
func (s *Service) UploadVideo(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	contentType, ok := allowedVideoTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", ErrUnsupportedMedia
	}

	videoID := uuid.NewString()
	if err := s.store.Put(ctx, storage.InputVideoKey(videoID), r, size, contentType); err != nil {
		return "", fmt.Errorf("upload video: %w", err)
	}
	return videoID, nil
}

// OpenDownload verifies the annotated output video exists, presigns it, and
// opens a chunked relay over it. The caller must Close the relay.
func (s *Service) OpenDownload(ctx context.Context, videoID string) (*video.Relay, error) {
	key := storage.OutputVideoKey(videoID)
	if _, err := s.store.Stat(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOutputNotFound
		}
		return nil, err
	}

	url, err := s.store.PresignedGetURL(ctx, key, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return video.OpenRelay(ctx, url)
}

// SaveEstimations stores pose estimation results delivered by the external
// estimator worker. The input video must already exist.
func (s *Service) SaveEstimations(ctx context.Context, videoID string, seq []pose.EstimationResult) error {
	if _, err := s.store.Stat(ctx, storage.InputVideoKey(videoID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	return results.SaveEstimations(ctx, s.store, videoID, seq)
}

// RenderVideo verifies the input video and estimation results exist, then
// runs the annotate-and-render pipeline for them.
func (s *Service) RenderVideo(ctx context.Context, videoID string, fps float64, crf int, opts RenderOptions) error {
	if _, err := s.store.Stat(ctx, storage.InputVideoKey(videoID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	estimations, err := results.LoadEstimations(ctx, s.store, videoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrEstimationsNotFound
		}
		return err
	}

	return s.pipeline.Render(ctx, RenderJob{
		VideoID:     videoID,
		FPS:         fps,
		CRF:         crf,
		Options:     opts,
		Estimations: estimations,
	})
}

// Analyze computes aggregated running-form metrics from stored estimation
// results for one anatomical side and saves them as an artifact.
func (s *Service) Analyze(ctx context.Context, videoID string, side analysis.Side) (analysis.VideoAnalysis, error) {
	estimations, err := results.LoadEstimations(ctx, s.store, videoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return analysis.VideoAnalysis{}, ErrEstimationsNotFound
		}
		return analysis.VideoAnalysis{}, err
	}

	sequence := make([]pose.KeypointMap, len(estimations))
	for i, r := range estimations {
		sequence[i] = r.Keypoints
	}

	a := analysis.AnalyzeVideo(sequence, side)
	if err := results.SaveAnalysis(ctx, s.store, videoID, a); err != nil {
		return analysis.VideoAnalysis{}, fmt.Errorf("save analysis: %w", err)
	}
	return a, nil
}

// GetAnalysis loads a previously computed running analysis.
func (s *Service) GetAnalysis(ctx context.Context, videoID string) (analysis.VideoAnalysis, error) {
	a, err := results.LoadAnalysis(ctx, s.store, videoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return analysis.VideoAnalysis{}, ErrAnalysisNotFound
		}
		return analysis.VideoAnalysis{}, err
	}
	return a, nil
}

// DeleteArtifacts removes every artifact stored for a video ID. Idempotent:
// missing artifacts are not an error.
func (s *Service) DeleteArtifacts(ctx context.Context, videoID string) error {
	keys := []string{
		storage.InputVideoKey(videoID),
		storage.OutputVideoKey(videoID),
		storage.EstimationsKey(videoID),
		storage.AnalysisKey(videoID),
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete artifacts: %w", err)
		}
	}
	return nil
}
