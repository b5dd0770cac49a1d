package analysis

import (
	"math"
	"testing"

	"pose-pipeline/internal/pose"
)

const angleTolerance = 1e-9

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: expected %v, got nil", name, want)
	}
	if math.Abs(*got-want) > angleTolerance {
		t.Errorf("%s: expected %v, got %v", name, want, *got)
	}
}

func kp(x, y float64) pose.Keypoint { return pose.Keypoint{X: x, Y: y, Confidence: 1} }

func TestKneeAngle_right_angle(t *testing.T) {
	// Hip directly above the knee, ankle directly behind it. Image
	// coordinates: +y points down.
	kps := pose.KeypointMap{
		"right_hip":   kp(100, 100),
		"right_knee":  kp(100, 200),
		"right_ankle": kp(50, 200),
	}
	approx(t, "knee", KneeAngle(kps, SideRight), 90)
}

func TestKneeAngle_straight_leg(t *testing.T) {
	kps := pose.KeypointMap{
		"left_hip":   kp(100, 100),
		"left_knee":  kp(100, 200),
		"left_ankle": kp(100, 300),
	}
	approx(t, "knee", KneeAngle(kps, SideLeft), 180)
}

func TestKneeAngle_missing_keypoint(t *testing.T) {
	kps := pose.KeypointMap{
		"right_hip":  kp(100, 100),
		"right_knee": kp(100, 200),
	}
	if KneeAngle(kps, SideRight) != nil {
		t.Error("expected nil when a keypoint is missing")
	}
}

func TestTrunkAngle_sign_by_side(t *testing.T) {
	// Shoulder ahead of the hip: a runner facing right leans toward +x,
	// a runner facing left toward -x. Both lean 45 degrees forward.
	right := pose.KeypointMap{
		"right_shoulder": kp(150, 100),
		"right_hip":      kp(100, 150),
	}
	approx(t, "right trunk", TrunkAngle(right, SideRight), 45)

	left := pose.KeypointMap{
		"left_shoulder": kp(50, 100),
		"left_hip":      kp(100, 150),
	}
	approx(t, "left trunk", TrunkAngle(left, SideLeft), 45)

	// A left-side runner leaning toward +x is leaning backward.
	backward := pose.KeypointMap{
		"left_shoulder": kp(150, 100),
		"left_hip":      kp(100, 150),
	}
	approx(t, "backward lean", TrunkAngle(backward, SideLeft), -45)
}

func TestArmSwingAngle_sign(t *testing.T) {
	// Vertical torso. Elbow ahead of the shoulder swings forward,
	// behind swings backward.
	base := pose.KeypointMap{
		"right_shoulder": kp(100, 100),
		"right_hip":      kp(100, 200),
	}
	forward := pose.KeypointMap{
		"right_shoulder": base["right_shoulder"],
		"right_hip":      base["right_hip"],
		"right_elbow":    kp(150, 150),
	}
	backward := pose.KeypointMap{
		"right_shoulder": base["right_shoulder"],
		"right_hip":      base["right_hip"],
		"right_elbow":    kp(50, 150),
	}

	fwd := ArmSwingAngle(forward, SideRight)
	bwd := ArmSwingAngle(backward, SideRight)
	if fwd == nil || bwd == nil {
		t.Fatal("expected angles for complete keypoint sets")
	}
	if *fwd <= 0 {
		t.Errorf("forward swing should be positive, got %v", *fwd)
	}
	if *bwd >= 0 {
		t.Errorf("backward swing should be negative, got %v", *bwd)
	}
	if math.Abs(*fwd+*bwd) > angleTolerance {
		t.Errorf("mirrored swings should have equal magnitude: %v vs %v", *fwd, *bwd)
	}
}

func TestShankAngle_vertical_is_zero(t *testing.T) {
	kps := pose.KeypointMap{
		"right_knee":  kp(100, 100),
		"right_ankle": kp(100, 200),
	}
	approx(t, "shank", ShankAngle(kps, SideRight), 0)
}

func TestAngleBetween_degenerate(t *testing.T) {
	if got := angleBetween(vec2{0, 0}, vec2{1, 0}); got != 0 {
		t.Errorf("zero vector should yield 0, got %v", got)
	}
	if got := angleBetween(vec2{1, 0}, vec2{-1, 0}); math.Abs(got-180) > angleTolerance {
		t.Errorf("opposed vectors should yield 180, got %v", got)
	}
}

func TestAnalyzeFrame_partial_keypoints(t *testing.T) {
	kps := pose.KeypointMap{
		"right_hip":   kp(100, 100),
		"right_knee":  kp(100, 200),
		"right_ankle": kp(100, 300),
	}
	m := AnalyzeFrame(kps, SideRight)
	if m.KneeAngle == nil {
		t.Error("knee angle should be computable")
	}
	if m.HipAnkleAngle == nil {
		t.Error("hip-ankle angle should be computable")
	}
	if m.ElbowAngle != nil || m.ArmSwingAngle != nil || m.HeadAngle != nil {
		t.Error("arm and head metrics should be nil without their keypoints")
	}
}

func TestAnalyzeVideo_aggregation(t *testing.T) {
	legOnly := pose.KeypointMap{
		"right_hip":   kp(100, 100),
		"right_knee":  kp(100, 200),
		"right_ankle": kp(100, 300),
	}
	withArm := pose.KeypointMap{
		"right_hip":      kp(100, 200),
		"right_knee":     kp(100, 300),
		"right_ankle":    kp(100, 400),
		"right_shoulder": kp(100, 100),
		"right_elbow":    kp(150, 150),
	}
	withArmBack := pose.KeypointMap{
		"right_hip":      kp(100, 200),
		"right_knee":     kp(100, 300),
		"right_ankle":    kp(100, 400),
		"right_shoulder": kp(100, 100),
		"right_elbow":    kp(50, 150),
	}

	out := AnalyzeVideo([]pose.KeypointMap{legOnly, withArm, withArmBack, {}}, SideRight)

	// Knee angle present in 3 of 4 frames, all straight legs.
	approx(t, "mean knee", out.MeanKneeAngle, 180)
	// Arm swing present in 2 frames: the elbow sits 135 degrees off the
	// torso axis, once forward and once backward.
	approx(t, "max arm swing", out.MaxArmSwingAngle, 135)
	approx(t, "min arm swing", out.MinArmSwingAngle, -135)
	// No frame had head keypoints.
	if out.MeanHeadAngle != nil {
		t.Error("head angle should stay nil when never computable")
	}
}

func TestAnalyzeVideo_empty(t *testing.T) {
	out := AnalyzeVideo(nil, SideLeft)
	if out.MeanKneeAngle != nil || out.MaxArmSwingAngle != nil || out.MinArmSwingAngle != nil {
		t.Error("empty sequence should produce all-nil aggregates")
	}
}

func TestSideValid(t *testing.T) {
	if !SideLeft.Valid() || !SideRight.Valid() {
		t.Error("left and right must be valid sides")
	}
	if Side("up").Valid() {
		t.Error("unexpected side accepted")
	}
}
