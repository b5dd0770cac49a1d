package results

import (
	"context"
	"errors"
	"testing"

	"pose-pipeline/internal/analysis"
	"pose-pipeline/internal/pose"
	"pose-pipeline/internal/storage"
)

func TestEstimations_roundtrip(t *testing.T) {
	store := storage.NewMemoryStore("")
	ctx := context.Background()

	seq := []pose.EstimationResult{
		{
			BBox: &pose.BBox{X1: 10, Y1: 20, X2: 110, Y2: 220},
			Keypoints: pose.KeypointMap{
				"nose":      {X: 60.5, Y: 40.25, Confidence: 0.97},
				"left_knee": {X: 55, Y: 180, Confidence: 0.81},
			},
		},
		{}, // frame with no detection
	}

	if err := SaveEstimations(ctx, store, "vid-1", seq); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadEstimations(ctx, store, "vid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].BBox == nil || got[0].BBox.X2 != 110 {
		t.Errorf("bbox not preserved: %+v", got[0].BBox)
	}
	if kp := got[0].Keypoints["nose"]; kp.X != 60.5 || kp.Confidence != 0.97 {
		t.Errorf("keypoint not preserved: %+v", kp)
	}
	if got[1].BBox != nil || len(got[1].Keypoints) != 0 {
		t.Errorf("empty result not preserved: %+v", got[1])
	}
}

func TestLoadEstimations_not_found(t *testing.T) {
	store := storage.NewMemoryStore("")
	_, err := LoadEstimations(context.Background(), store, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysis_roundtrip(t *testing.T) {
	store := storage.NewMemoryStore("")
	ctx := context.Background()

	knee := 165.5
	swingMax := 42.0
	in := analysis.VideoAnalysis{
		MeanKneeAngle:    &knee,
		MaxArmSwingAngle: &swingMax,
	}

	if err := SaveAnalysis(ctx, store, "vid-2", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadAnalysis(ctx, store, "vid-2")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.MeanKneeAngle == nil || *got.MeanKneeAngle != 165.5 {
		t.Errorf("mean knee angle not preserved: %v", got.MeanKneeAngle)
	}
	if got.MaxArmSwingAngle == nil || *got.MaxArmSwingAngle != 42.0 {
		t.Errorf("max arm swing not preserved: %v", got.MaxArmSwingAngle)
	}
	if got.MeanHipAngle != nil || got.MinArmSwingAngle != nil {
		t.Error("unset metrics must stay nil after the roundtrip")
	}
}

func TestLoadAnalysis_not_found(t *testing.T) {
	store := storage.NewMemoryStore("")
	_, err := LoadAnalysis(context.Background(), store, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArtifacts_use_distinct_keys(t *testing.T) {
	store := storage.NewMemoryStore("")
	ctx := context.Background()

	if err := SaveEstimations(ctx, store, "vid-3", nil); err != nil {
		t.Fatalf("save estimations: %v", err)
	}
	if _, err := LoadAnalysis(ctx, store, "vid-3"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("estimations must not satisfy an analysis load, got %v", err)
	}
}
