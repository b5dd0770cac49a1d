package render

import "pose-pipeline/internal/pose"

// Edge connects two named keypoints with a fixed rendering color. Edge
// tables are static per keypoint format and never mutated after process
// start, so concurrent reads need no synchronization.
type Edge struct {
	Start string
	End   string
	Color RGB
}

var cocoSkeleton = []Edge{
	// Face
	{"nose", "left_eye", RGB{51, 153, 255}},
	{"nose", "right_eye", RGB{51, 153, 255}},
	{"left_eye", "right_eye", RGB{51, 153, 255}},
	{"left_eye", "left_ear", RGB{51, 153, 255}},
	{"right_eye", "right_ear", RGB{51, 153, 255}},

	// Left arm
	{"left_shoulder", "left_elbow", RGB{0, 255, 0}},
	{"left_elbow", "left_wrist", RGB{0, 255, 0}},

	// Right arm
	{"right_shoulder", "right_elbow", RGB{255, 128, 0}},
	{"right_elbow", "right_wrist", RGB{255, 128, 0}},

	// Torso
	{"left_shoulder", "right_shoulder", RGB{255, 255, 255}},
	{"left_shoulder", "left_hip", RGB{0, 255, 0}},
	{"right_shoulder", "right_hip", RGB{255, 128, 0}},
	{"left_hip", "right_hip", RGB{255, 255, 255}},

	// Left leg
	{"left_hip", "left_knee", RGB{0, 255, 0}},
	{"left_knee", "left_ankle", RGB{0, 255, 0}},

	// Right leg
	{"right_hip", "right_knee", RGB{255, 128, 0}},
	{"right_knee", "right_ankle", RGB{255, 128, 0}},
}

var cocoWholeBodySkeleton = append(append([]Edge{}, cocoSkeleton...),
	Edge{"left_ankle", "left_big_toe", RGB{0, 255, 0}},
	Edge{"left_ankle", "left_small_toe", RGB{0, 255, 0}},
	Edge{"left_ankle", "left_heel", RGB{0, 255, 0}},
	Edge{"right_ankle", "right_big_toe", RGB{255, 128, 0}},
	Edge{"right_ankle", "right_small_toe", RGB{255, 128, 0}},
	Edge{"right_ankle", "right_heel", RGB{255, 128, 0}},
)

var goliathSkeleton = []Edge{
	{"left_ankle", "left_knee", RGB{0, 255, 0}},
	{"left_knee", "left_hip", RGB{0, 255, 0}},
	{"right_ankle", "right_knee", RGB{255, 128, 0}},
	{"right_knee", "right_hip", RGB{255, 128, 0}},
	{"left_hip", "right_hip", RGB{51, 153, 255}},
	{"left_shoulder", "left_hip", RGB{51, 153, 255}},
	{"right_shoulder", "right_hip", RGB{51, 153, 255}},
	{"left_shoulder", "right_shoulder", RGB{51, 153, 255}},
	{"left_shoulder", "left_elbow", RGB{0, 255, 0}},
	{"right_shoulder", "right_elbow", RGB{255, 128, 0}},
	{"left_elbow", "left_wrist", RGB{0, 255, 0}},
	{"right_elbow", "right_wrist", RGB{255, 128, 0}},
	{"left_eye", "right_eye", RGB{51, 153, 255}},
	{"nose", "left_eye", RGB{51, 153, 255}},
	{"nose", "right_eye", RGB{51, 153, 255}},
	{"left_eye", "left_ear", RGB{51, 153, 255}},
	{"right_eye", "right_ear", RGB{51, 153, 255}},
	{"left_ear", "left_shoulder", RGB{51, 153, 255}},
	{"right_ear", "right_shoulder", RGB{51, 153, 255}},
	{"left_ankle", "left_big_toe", RGB{0, 255, 0}},
	{"left_ankle", "left_small_toe", RGB{0, 255, 0}},
	{"left_ankle", "left_heel", RGB{0, 255, 0}},
	{"right_ankle", "right_big_toe", RGB{255, 128, 0}},
	{"right_ankle", "right_small_toe", RGB{255, 128, 0}},
	{"right_ankle", "right_heel", RGB{255, 128, 0}},
	{"left_wrist", "left_thumb_third_joint", RGB{255, 128, 0}},
	{"left_thumb_third_joint", "left_thumb2", RGB{255, 128, 0}},
	{"left_thumb2", "left_thumb3", RGB{255, 128, 0}},
	{"left_thumb3", "left_thumb4", RGB{255, 128, 0}},
	{"left_wrist", "left_forefinger_third_joint", RGB{255, 153, 255}},
	{"left_forefinger_third_joint", "left_forefinger2", RGB{255, 153, 255}},
	{"left_forefinger2", "left_forefinger3", RGB{255, 153, 255}},
	{"left_forefinger3", "left_forefinger4", RGB{255, 153, 255}},
	{"left_wrist", "left_middle_finger_third_joint", RGB{102, 178, 255}},
	{"left_middle_finger_third_joint", "left_middle_finger2", RGB{102, 178, 255}},
	{"left_middle_finger2", "left_middle_finger3", RGB{102, 178, 255}},
	{"left_middle_finger3", "left_middle_finger4", RGB{102, 178, 255}},
	{"left_wrist", "left_ring_finger_third_joint", RGB{255, 51, 51}},
	{"left_ring_finger_third_joint", "left_ring_finger2", RGB{255, 51, 51}},
	{"left_ring_finger2", "left_ring_finger3", RGB{255, 51, 51}},
	{"left_ring_finger3", "left_ring_finger4", RGB{255, 51, 51}},
	{"left_wrist", "left_pinky_finger_third_joint", RGB{0, 255, 0}},
	{"left_pinky_finger_third_joint", "left_pinky_finger2", RGB{0, 255, 0}},
	{"left_pinky_finger2", "left_pinky_finger3", RGB{0, 255, 0}},
	{"left_pinky_finger3", "left_pinky_finger4", RGB{0, 255, 0}},
	{"right_wrist", "right_thumb_third_joint", RGB{255, 128, 0}},
	{"right_thumb_third_joint", "right_thumb2", RGB{255, 128, 0}},
	{"right_thumb2", "right_thumb3", RGB{255, 128, 0}},
	{"right_thumb3", "right_thumb4", RGB{255, 128, 0}},
	{"right_wrist", "right_forefinger_third_joint", RGB{255, 153, 255}},
	{"right_forefinger_third_joint", "right_forefinger2", RGB{255, 153, 255}},
	{"right_forefinger2", "right_forefinger3", RGB{255, 153, 255}},
	{"right_forefinger3", "right_forefinger4", RGB{255, 153, 255}},
	{"right_wrist", "right_middle_finger_third_joint", RGB{102, 178, 255}},
	{"right_middle_finger_third_joint", "right_middle_finger2", RGB{102, 178, 255}},
	{"right_middle_finger2", "right_middle_finger3", RGB{102, 178, 255}},
	{"right_middle_finger3", "right_middle_finger4", RGB{102, 178, 255}},
	{"right_wrist", "right_ring_finger_third_joint", RGB{255, 51, 51}},
	{"right_ring_finger_third_joint", "right_ring_finger2", RGB{255, 51, 51}},
	{"right_ring_finger2", "right_ring_finger3", RGB{255, 51, 51}},
	{"right_ring_finger3", "right_ring_finger4", RGB{255, 51, 51}},
	{"right_wrist", "right_pinky_finger_third_joint", RGB{0, 255, 0}},
	{"right_pinky_finger_third_joint", "right_pinky_finger2", RGB{0, 255, 0}},
	{"right_pinky_finger2", "right_pinky_finger3", RGB{0, 255, 0}},
	{"right_pinky_finger3", "right_pinky_finger4", RGB{0, 255, 0}},
}

var skeletons = map[pose.Format][]Edge{
	pose.FormatCOCO:          cocoSkeleton,
	pose.FormatCOCOWholeBody: cocoWholeBodySkeleton,
	pose.FormatGoliath:       goliathSkeleton,
}

// Edges returns the skeleton connectivity table for the given keypoint
// format, or nil for an unknown format. The returned slice must not be
// modified.
func Edges(f pose.Format) []Edge {
	return skeletons[f]
}
