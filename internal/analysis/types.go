package analysis

// Side is the anatomical side evaluated in a side-view running assessment.
// Angle metrics are computed identically for left and right limbs, only the
// keypoint names differ, so one generic implementation serves both.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Valid reports whether s is a known anatomical side.
func (s Side) Valid() bool { return s == SideLeft || s == SideRight }

// FrameMetrics holds the running-form angles for one frame. A nil value
// means the metric could not be computed, usually because a required
// keypoint is missing.
type FrameMetrics struct {
	KneeAngle     *float64 `json:"knee_angle" msgpack:"knee_angle"`
	HipAngle      *float64 `json:"hip_angle" msgpack:"hip_angle"`
	TrunkAngle    *float64 `json:"trunk_angle" msgpack:"trunk_angle"`
	ArmSwingAngle *float64 `json:"arm_swing_angle" msgpack:"arm_swing_angle"`
	ElbowAngle    *float64 `json:"elbow_angle" msgpack:"elbow_angle"`
	ShankAngle    *float64 `json:"shank_angle" msgpack:"shank_angle"`
	HipAnkleAngle *float64 `json:"hip_ankle_angle" msgpack:"hip_ankle_angle"`
	HeadAngle     *float64 `json:"head_angle" msgpack:"head_angle"`
}

// VideoAnalysis aggregates running-form metrics over consecutive frames.
// A nil value means the metric was computable in no frame.
type VideoAnalysis struct {
	MeanKneeAngle     *float64 `json:"mean_knee_angle" msgpack:"mean_knee_angle"`
	MeanHipAngle      *float64 `json:"mean_hip_angle" msgpack:"mean_hip_angle"`
	MeanTrunkAngle    *float64 `json:"mean_trunk_angle" msgpack:"mean_trunk_angle"`
	MaxArmSwingAngle  *float64 `json:"max_arm_swing_angle" msgpack:"max_arm_swing_angle"`
	MinArmSwingAngle  *float64 `json:"min_arm_swing_angle" msgpack:"min_arm_swing_angle"`
	MeanElbowAngle    *float64 `json:"mean_elbow_angle" msgpack:"mean_elbow_angle"`
	MeanShankAngle    *float64 `json:"mean_shank_angle" msgpack:"mean_shank_angle"`
	MeanHipAnkleAngle *float64 `json:"mean_hip_ankle_angle" msgpack:"mean_hip_ankle_angle"`
	MeanHeadAngle     *float64 `json:"mean_head_angle" msgpack:"mean_head_angle"`
}
