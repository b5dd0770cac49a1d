// Package render composites geometric pose annotations onto raw RGB24
// frames. It performs no I/O and is safe to call concurrently on
// independent frames.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"pose-pipeline/internal/pose"
)

// Options selects which annotation elements to draw.
type Options struct {
	ShowBBox       bool
	ShowKeypoints  bool
	ShowConfidence bool
	ShowSkeleton   bool
	Format         pose.Format
}

// Annotate returns a new frame of identical shape with the requested
// elements rendered. When nothing is requested or available to draw, it
// returns an unmodified copy of the input.
//
// The bounding box is drawn directly on the working copy. Keypoint and
// skeleton elements are drawn on the same copy, and if any of them were
// drawn the copy is alpha-composited against the original frame with weight
// KeypointAlpha. The box therefore also ends up blended whenever pose
// elements are requested, while a box-only call returns it fully opaque.
// Downstream consumers rely on this draw-then-blend-once ordering, so do
// not split the box onto its own compositing pass.
func Annotate(frame pose.Frame, bbox *pose.BBox, keypoints pose.KeypointMap, opts Options) (pose.Frame, error) {
	hasBBox := opts.ShowBBox && bbox != nil
	hasPose := (opts.ShowKeypoints || opts.ShowSkeleton) && len(keypoints) > 0

	if !hasBBox && !hasPose {
		return frame.Clone(), nil
	}

	overlay, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return pose.Frame{}, fmt.Errorf("overlay mat: %w", err)
	}
	defer overlay.Close()

	if hasBBox {
		gocv.Rectangle(&overlay,
			image.Rect(bbox.X1, bbox.Y1, bbox.X2, bbox.Y2),
			drawColor(BBoxColor), LineThickness)
	}

	if !hasPose {
		return pose.Frame{Data: overlay.ToBytes(), Width: frame.Width, Height: frame.Height}, nil
	}

	if opts.ShowKeypoints {
		drawKeypoints(&overlay, keypoints, opts.ShowConfidence)
	}
	if opts.ShowSkeleton {
		drawSkeleton(&overlay, keypoints, Edges(opts.Format))
	}

	base, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return pose.Frame{}, fmt.Errorf("base mat: %w", err)
	}
	defer base.Close()

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(overlay, KeypointAlpha, base, 1-KeypointAlpha, BlendWeight, &blended)

	return pose.Frame{Data: blended.ToBytes(), Width: frame.Width, Height: frame.Height}, nil
}

// drawKeypoints renders each keypoint as a filled circle at rounded pixel
// coordinates, with an optional confidence label offset from the point. The
// label goes on the same overlay as the circles, so it is semi-transparent
// after blending.
func drawKeypoints(overlay *gocv.Mat, keypoints pose.KeypointMap, drawConfidence bool) {
	for _, kp := range keypoints {
		x := int(math.Round(kp.X))
		y := int(math.Round(kp.Y))

		gocv.Circle(overlay, image.Pt(x, y), KeypointRadius, drawColor(KeypointColor), KeypointFilled)

		if drawConfidence {
			gocv.PutText(overlay,
				fmt.Sprintf("%.2f", kp.Confidence),
				image.Pt(x+5, y+5),
				gocv.FontHersheySimplex,
				ConfidenceFontScale,
				drawColor(ConfidenceFontColor),
				ConfidenceFontThickness)
		}
	}
}

// drawSkeleton connects keypoint pairs from the edge table. An edge is drawn
// only when both of its endpoints are present in the keypoint map.
func drawSkeleton(overlay *gocv.Mat, keypoints pose.KeypointMap, edges []Edge) {
	for _, edge := range visibleEdges(keypoints, edges) {
		start := keypoints[edge.Start]
		end := keypoints[edge.End]
		gocv.Line(overlay,
			image.Pt(int(math.Round(start.X)), int(math.Round(start.Y))),
			image.Pt(int(math.Round(end.X)), int(math.Round(end.Y))),
			drawColor(edge.Color), LineThickness)
	}
}

// visibleEdges filters the edge table down to edges whose both endpoints
// exist in the keypoint map.
func visibleEdges(keypoints pose.KeypointMap, edges []Edge) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		if _, ok := keypoints[edge.Start]; !ok {
			continue
		}
		if _, ok := keypoints[edge.End]; !ok {
			continue
		}
		out = append(out, edge)
	}
	return out
}

// drawColor converts an RGB triplet into the color gocv expects. gocv maps
// color.RGBA onto an OpenCV BGR scalar, and our mats hold RGB-ordered
// planes, so R and B swap places to land the values in the right channels.
func drawColor(c RGB) color.RGBA {
	return color.RGBA{R: c.B, G: c.G, B: c.R, A: 0}
}
