// Package results stores and loads pipeline result artifacts (pose
// estimation sequences, running analyses) as msgpack objects in the
// object store.
package results

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"pose-pipeline/internal/analysis"
	"pose-pipeline/internal/pose"
	"pose-pipeline/internal/storage"
)

const contentType = "application/x-msgpack"

// SaveEstimations writes the per-frame pose estimation sequence for a video.
func SaveEstimations(ctx context.Context, store storage.ObjectStore, videoID string, seq []pose.EstimationResult) error {
	return save(ctx, store, storage.EstimationsKey(videoID), seq)
}

// LoadEstimations reads the per-frame pose estimation sequence for a video.
// Returns storage.ErrNotFound when no estimations exist.
func LoadEstimations(ctx context.Context, store storage.ObjectStore, videoID string) ([]pose.EstimationResult, error) {
	var seq []pose.EstimationResult
	if err := load(ctx, store, storage.EstimationsKey(videoID), &seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// SaveAnalysis writes the aggregated running analysis for a video.
func SaveAnalysis(ctx context.Context, store storage.ObjectStore, videoID string, a analysis.VideoAnalysis) error {
	return save(ctx, store, storage.AnalysisKey(videoID), a)
}

// LoadAnalysis reads the aggregated running analysis for a video. Returns
// storage.ErrNotFound when no analysis exists.
func LoadAnalysis(ctx context.Context, store storage.ObjectStore, videoID string) (analysis.VideoAnalysis, error) {
	var a analysis.VideoAnalysis
	if err := load(ctx, store, storage.AnalysisKey(videoID), &a); err != nil {
		return analysis.VideoAnalysis{}, err
	}
	return a, nil
}

func save(ctx context.Context, store storage.ObjectStore, key string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
}

func load(ctx context.Context, store storage.ObjectStore, key string, v any) error {
	data, err := store.GetBytes(ctx, key)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return nil
}
