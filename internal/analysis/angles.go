// Package analysis computes biomechanical running-form angles from 2D pose
// keypoints and aggregates them over a video.
package analysis

import (
	"math"

	"pose-pipeline/internal/pose"
)

type vec2 struct {
	x, y float64
}

func (a vec2) sub(b vec2) vec2 { return vec2{a.x - b.x, a.y - b.y} }

// angleBetween returns the angle between two vectors in degrees, in
// [0, 180]. A near-zero magnitude product yields 0 to avoid division by
// zero.
func angleBetween(a, b vec2) float64 {
	dot := a.x*b.x + a.y*b.y
	norm := math.Hypot(a.x, a.y) * math.Hypot(b.x, b.y)
	if norm < 1e-8 {
		return 0
	}
	cosine := dot / norm
	if cosine > 1 {
		cosine = 1
	} else if cosine < -1 {
		cosine = -1
	}
	return math.Acos(cosine) * 180 / math.Pi
}

// coords extracts a keypoint's position, reporting whether it exists.
func coords(keypoints pose.KeypointMap, name string) (vec2, bool) {
	kp, ok := keypoints[name]
	if !ok {
		return vec2{}, false
	}
	return vec2{kp.X, kp.Y}, true
}

// sideSign applies a sign to an unsigned angle based on the anatomical side
// and the horizontal displacement of the vector of interest. In side-view
// biomechanics a right profile moves toward +X and a left profile toward -X;
// a positive result always means forward orientation.
func sideSign(angle float64, side Side, displacementX float64) float64 {
	forward := displacementX > 0
	if side == SideLeft {
		forward = displacementX < 0
	}
	if forward {
		return angle
	}
	return -angle
}

// KneeAngle computes the hip-knee-ankle angle, or nil when a required
// keypoint is missing.
func KneeAngle(keypoints pose.KeypointMap, side Side) *float64 {
	hip, ok1 := coords(keypoints, string(side)+"_hip")
	knee, ok2 := coords(keypoints, string(side)+"_knee")
	ankle, ok3 := coords(keypoints, string(side)+"_ankle")
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	angle := angleBetween(hip.sub(knee), ankle.sub(knee))
	return &angle
}

// HipAngle computes the shoulder-hip-knee angle.
func HipAngle(keypoints pose.KeypointMap, side Side) *float64 {
	shoulder, ok1 := coords(keypoints, string(side)+"_shoulder")
	hip, ok2 := coords(keypoints, string(side)+"_hip")
	knee, ok3 := coords(keypoints, string(side)+"_knee")
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	angle := angleBetween(shoulder.sub(hip), knee.sub(hip))
	return &angle
}

// TrunkAngle computes the signed trunk lean relative to vertical; positive
// means forward lean.
func TrunkAngle(keypoints pose.KeypointMap, side Side) *float64 {
	shoulder, ok1 := coords(keypoints, string(side)+"_shoulder")
	hip, ok2 := coords(keypoints, string(side)+"_hip")
	if !ok1 || !ok2 {
		return nil
	}
	torso := shoulder.sub(hip)
	angle := sideSign(angleBetween(torso, vec2{0, -1}), side, torso.x)
	return &angle
}

// ArmSwingAngle computes the signed upper-arm angle relative to the torso;
// positive means forward swing.
func ArmSwingAngle(keypoints pose.KeypointMap, side Side) *float64 {
	shoulder, ok1 := coords(keypoints, string(side)+"_shoulder")
	elbow, ok2 := coords(keypoints, string(side)+"_elbow")
	hip, ok3 := coords(keypoints, string(side)+"_hip")
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	torso := shoulder.sub(hip)
	upperArm := elbow.sub(shoulder)
	angle := sideSign(angleBetween(torso, upperArm), side, upperArm.x)
	return &angle
}

// ElbowAngle computes the shoulder-elbow-wrist flexion angle.
func ElbowAngle(keypoints pose.KeypointMap, side Side) *float64 {
	shoulder, ok1 := coords(keypoints, string(side)+"_shoulder")
	elbow, ok2 := coords(keypoints, string(side)+"_elbow")
	wrist, ok3 := coords(keypoints, string(side)+"_wrist")
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	angle := angleBetween(shoulder.sub(elbow), wrist.sub(elbow))
	return &angle
}

// ShankAngle computes the signed lower-leg angle relative to downward
// vertical; positive means forward tilt.
func ShankAngle(keypoints pose.KeypointMap, side Side) *float64 {
	knee, ok1 := coords(keypoints, string(side)+"_knee")
	ankle, ok2 := coords(keypoints, string(side)+"_ankle")
	if !ok1 || !ok2 {
		return nil
	}
	shank := ankle.sub(knee)
	angle := sideSign(angleBetween(shank, vec2{0, 1}), side, shank.x)
	return &angle
}

// HipAnkleAngle computes the hip-to-ankle alignment relative to downward
// vertical. Reflects overall leg posture, e.g. overstriding when too
// extended.
func HipAnkleAngle(keypoints pose.KeypointMap, side Side) *float64 {
	hip, ok1 := coords(keypoints, string(side)+"_hip")
	ankle, ok2 := coords(keypoints, string(side)+"_ankle")
	if !ok1 || !ok2 {
		return nil
	}
	angle := angleBetween(ankle.sub(hip), vec2{0, 1})
	return &angle
}

// HeadAngle computes the head alignment angle relative to the torso. The
// head vector runs ear to eye, approximating neck orientation; the torso
// vector runs shoulder to hip.
func HeadAngle(keypoints pose.KeypointMap, side Side) *float64 {
	ear, ok1 := coords(keypoints, string(side)+"_ear")
	eye, ok2 := coords(keypoints, string(side)+"_eye")
	shoulder, ok3 := coords(keypoints, string(side)+"_shoulder")
	hip, ok4 := coords(keypoints, string(side)+"_hip")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}
	angle := angleBetween(eye.sub(ear), hip.sub(shoulder))
	return &angle
}

// AnalyzeFrame computes all available metrics for one frame.
func AnalyzeFrame(keypoints pose.KeypointMap, side Side) FrameMetrics {
	return FrameMetrics{
		KneeAngle:     KneeAngle(keypoints, side),
		HipAngle:      HipAngle(keypoints, side),
		TrunkAngle:    TrunkAngle(keypoints, side),
		ArmSwingAngle: ArmSwingAngle(keypoints, side),
		ElbowAngle:    ElbowAngle(keypoints, side),
		ShankAngle:    ShankAngle(keypoints, side),
		HipAnkleAngle: HipAnkleAngle(keypoints, side),
		HeadAngle:     HeadAngle(keypoints, side),
	}
}

// AnalyzeVideo aggregates metrics over consecutive frames: means for most
// angles, min and max for arm swing. Frames where a metric is missing are
// skipped for that metric; a metric missing everywhere stays nil.
func AnalyzeVideo(sequence []pose.KeypointMap, side Side) VideoAnalysis {
	var knee, hip, trunk, elbow, shank, hipAnkle, head, armSwing []float64

	collect := func(dst *[]float64, v *float64) {
		if v != nil {
			*dst = append(*dst, *v)
		}
	}

	for _, keypoints := range sequence {
		frame := AnalyzeFrame(keypoints, side)
		collect(&knee, frame.KneeAngle)
		collect(&hip, frame.HipAngle)
		collect(&trunk, frame.TrunkAngle)
		collect(&elbow, frame.ElbowAngle)
		collect(&shank, frame.ShankAngle)
		collect(&hipAnkle, frame.HipAnkleAngle)
		collect(&head, frame.HeadAngle)
		collect(&armSwing, frame.ArmSwingAngle)
	}

	return VideoAnalysis{
		MeanKneeAngle:     mean(knee),
		MeanHipAngle:      mean(hip),
		MeanTrunkAngle:    mean(trunk),
		MaxArmSwingAngle:  maxOf(armSwing),
		MinArmSwingAngle:  minOf(armSwing),
		MeanElbowAngle:    mean(elbow),
		MeanShankAngle:    mean(shank),
		MeanHipAnkleAngle: mean(hipAnkle),
		MeanHeadAngle:     mean(head),
	}
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

func maxOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return &m
}

func minOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return &m
}
