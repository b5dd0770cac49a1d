package api

import (
	"context"
	"time"

	"pose-pipeline/internal/pose"
	"pose-pipeline/internal/render"
	"pose-pipeline/internal/storage"
	"pose-pipeline/internal/video"
)

// ffmpegPipeline chains decode, annotate and encode through external ffmpeg
// subprocesses, pulling one frame at a time so memory stays O(1) in video
// length.
type ffmpegPipeline struct {
	store      storage.ObjectStore
	presignTTL time.Duration
}

// NewPipeline returns the production render pipeline over the given store.
func NewPipeline(store storage.ObjectStore, presignTTL time.Duration) Pipeline {
	return &ffmpegPipeline{store: store, presignTTL: presignTTL}
}

// Render implements Pipeline. Frames flow decoder -> compositor -> encoder
// in strict arrival order; the decode subprocess is always joined, even when
// the encoder stops pulling early.
func (p *ffmpegPipeline) Render(ctx context.Context, job RenderJob) error {
	stream, err := video.OpenFrameStream(ctx, p.store, storage.InputVideoKey(job.VideoID), p.presignTTL, job.FPS)
	if err != nil {
		return err
	}
	defer stream.Close()

	src := &annotatedSource{
		frames:      stream,
		estimations: job.Estimations,
		opts: render.Options{
			ShowBBox:       job.Options.ShowBBox,
			ShowKeypoints:  job.Options.ShowKeypoints,
			ShowConfidence: job.Options.ShowConfidence,
			ShowSkeleton:   job.Options.ShowSkeleton,
			Format:         job.Options.Format,
		},
	}

	geo := stream.Geometry()
	return video.EncodeAndUpload(ctx, p.store, src,
		storage.OutputVideoKey(job.VideoID),
		geo.Width, geo.Height, job.FPS, job.CRF)
}

// annotatedSource pairs decoded frames 1:1 by position with estimation
// results and yields annotated frames. Zip semantics: the sequence ends as
// soon as either side runs out, and a length mismatch is not an error.
type annotatedSource struct {
	frames      video.FrameSource
	estimations []pose.EstimationResult
	opts        render.Options
	next        int
}

func (s *annotatedSource) Next() (*pose.Frame, error) {
	if s.next >= len(s.estimations) {
		return nil, nil
	}

	frame, err := s.frames.Next()
	if err != nil || frame == nil {
		return nil, err
	}

	result := s.estimations[s.next]
	s.next++

	annotated, err := render.Annotate(*frame, result.BBox, result.Keypoints, s.opts)
	if err != nil {
		return nil, err
	}
	return &annotated, nil
}
