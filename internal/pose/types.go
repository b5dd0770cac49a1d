package pose

// BBox is a person bounding box in (x1, y1, x2, y2) pixel coordinates,
// where (x1, y1) is the top-left corner and (x2, y2) the bottom-right.
// Upstream detection clamps coordinates into the frame and guarantees
// x2 > x1 and y2 > y1.
type BBox struct {
	X1 int `json:"x1" msgpack:"x1"`
	Y1 int `json:"y1" msgpack:"y1"`
	X2 int `json:"x2" msgpack:"x2"`
	Y2 int `json:"y2" msgpack:"y2"`
}

// Keypoint is a single 2D keypoint in original image pixel space with a
// detection confidence in [0, 1].
type Keypoint struct {
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	Confidence float64 `json:"confidence" msgpack:"confidence"`
}

// KeypointMap maps semantic keypoint names (e.g. "nose", "left_elbow") to
// keypoints. The set of keys depends on the pose model's output format.
type KeypointMap map[string]Keypoint

// EstimationResult is the pose estimation output for a single frame.
// BBox is nil when no person was detected; Keypoints may be empty when
// estimation failed or no keypoints were visible.
type EstimationResult struct {
	BBox      *BBox       `json:"bbox" msgpack:"bbox"`
	Keypoints KeypointMap `json:"keypoints" msgpack:"keypoints"`
}

// Format identifies a keypoint schema: which anatomical points a pose model
// emits and how they connect into a skeleton.
type Format string

const (
	// FormatCOCO is the 17-keypoint body format from the COCO dataset.
	FormatCOCO Format = "coco"
	// FormatCOCOWholeBody extends COCO with feet, face and hand points.
	FormatCOCOWholeBody Format = "coco_wholebody"
	// FormatGoliath is the body format used by Meta's Sapiens pose models.
	FormatGoliath Format = "goliath"
)

// Valid reports whether f names a known keypoint format.
func (f Format) Valid() bool {
	switch f {
	case FormatCOCO, FormatCOCOWholeBody, FormatGoliath:
		return true
	}
	return false
}

// Frame is one uncompressed video frame: packed 24-bit RGB, 8 bits per
// channel, row-major, so len(Data) == Width*Height*3. Producers hand over
// ownership of Data with each frame; no frame is retained after being
// yielded.
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// Clone returns a frame with a copied pixel buffer.
func (f Frame) Clone() Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return Frame{Data: data, Width: f.Width, Height: f.Height}
}
