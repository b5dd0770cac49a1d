package render

// RGB is a color triplet with channel values in [0, 255], ordered to match
// the packed RGB24 frame layout.
type RGB struct {
	R, G, B uint8
}

// Visual styling constants for annotation rendering. These are deliberately
// not configurable through the environment: skeleton rendering carries a
// large table of per-joint colors and connectivity that is hardcoded, and
// letting a few scalar knobs (radius, alpha) vary while those stay fixed
// would make an inconsistent configuration surface. Everything visual lives
// here as process-wide immutable constants.
var (
	// BBoxColor outlines the person detection box.
	BBoxColor = RGB{0, 255, 0}

	// KeypointColor fills keypoint circles.
	KeypointColor = RGB{0, 0, 255}

	// ConfidenceFontColor renders confidence score text.
	ConfidenceFontColor = RGB{255, 255, 255}
)

const (
	// KeypointRadius is the radius in pixels of keypoint circles.
	KeypointRadius = 4

	// KeypointFilled is the thickness value that makes circles filled.
	KeypointFilled = -1

	// KeypointAlpha is the opacity of the pose overlay when composited
	// against the original frame.
	KeypointAlpha = 0.8

	// LineThickness applies to skeleton lines and bounding boxes.
	LineThickness = 2

	// ConfidenceFontScale sizes the confidence score text.
	ConfidenceFontScale = 0.4

	// ConfidenceFontThickness is the stroke width of confidence text.
	ConfidenceFontThickness = 1

	// BlendWeight is the scalar added per pixel during blending. Always
	// zero; no additional brightness shift.
	BlendWeight = 0.0
)
