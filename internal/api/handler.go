package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pose-pipeline/internal/analysis"
	"pose-pipeline/internal/platform/metrics"
	"pose-pipeline/internal/pose"
	"pose-pipeline/internal/video"
)

const videoContentType = "video/mp4"

// Default render parameters, applied when the request omits them.
const (
	defaultFPS = 30.0
	defaultCRF = 22
)

// Accepted render parameter ranges.
const (
	minFPS = 1.0
	maxFPS = 120.0
)

// Handler exposes the pipeline HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and
// optional Metrics. Metrics may be nil to disable metric recording (e.g. in
// tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes mounts all endpoints on a fresh chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/storage/v1", func(r chi.Router) {
		r.Post("/video/upload", h.UploadVideo)
		r.Get("/video/{video_id}/download", h.DownloadVideo)
		r.Put("/estimations/{video_id}", h.PutEstimations)
		r.Get("/analysis/{video_id}/download", h.DownloadAnalysis)
		r.Delete("/artifacts/{video_id}", h.DeleteArtifacts)
	})
	r.Route("/ml/v1", func(r chi.Router) {
		r.Post("/render-video", h.RenderVideo)
		r.Post("/analyze", h.AnalyzeVideo)
	})
	return r
}

// UploadVideo handles POST /storage/v1/video/upload. Body: multipart form
// with a "file" part whose filename has a video extension.
func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.log.Debug("invalid upload form", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "request must contain a video file part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "uploaded file must have a filename")
		return
	}

	videoID, err := h.svc.UploadVideo(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		if errors.Is(err, ErrUnsupportedMedia) {
			writeError(w, http.StatusBadRequest, "file must be a video (mp4, avi, mov, webm)")
			return
		}
		h.log.Error("upload failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to upload video to storage")
		return
	}

	h.log.Info("video uploaded",
		slog.String("video_id", videoID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Video uploaded successfully",
		"video_id": videoID,
	})
	if h.metrics != nil {
		h.metrics.IncUploads()
	}
}

// DownloadVideo handles GET /storage/v1/video/{video_id}/download. It relays
// the annotated output video from storage in fixed-size chunks.
func (h *Handler) DownloadVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if videoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	relay, err := h.svc.OpenDownload(r.Context(), videoID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOutputNotFound):
			writeError(w, http.StatusNotFound, "output video not found")
		default:
			var relayErr *video.RelayError
			if errors.As(err, &relayErr) {
				h.log.Error("relay failed", slog.String("video_id", videoID), slog.String("error", err.Error()))
				writeError(w, http.StatusBadGateway, "storage access error")
				return
			}
			h.log.Error("download failed", slog.String("video_id", videoID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to open download")
		}
		return
	}
	defer relay.Close()

	w.Header().Set("Content-Type", videoContentType)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for {
		chunk, err := relay.Next()
		if err != nil {
			// Headers are sent; the most we can do is drop the
			// connection so the client sees a truncated body.
			h.log.Error("relay interrupted", slog.String("video_id", videoID), slog.String("error", err.Error()))
			return
		}
		if chunk == nil {
			return
		}
		if _, err := w.Write(chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// estimationsRequest is the body of PUT /storage/v1/estimations/{video_id},
// delivered by the external pose estimation worker.
type estimationsRequest struct {
	Results []pose.EstimationResult `json:"results"`
}

// PutEstimations handles PUT /storage/v1/estimations/{video_id}.
func (h *Handler) PutEstimations(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if videoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req estimationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid estimations body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid estimation results body")
		return
	}

	if err := h.svc.SaveEstimations(r.Context(), videoID, req.Results); err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			writeError(w, http.StatusNotFound, "input video not found")
			return
		}
		h.log.Error("save estimations failed", slog.String("video_id", videoID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to save estimation results")
		return
	}

	h.log.Info("estimations stored",
		slog.String("video_id", videoID),
		slog.Int("frames", len(req.Results)))
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Estimation results stored successfully",
		"video_id": videoID,
	})
}

// renderRequest is the body of POST /ml/v1/render-video. Omitted toggles
// default to box, keypoints and skeleton on, confidence text off.
type renderRequest struct {
	VideoID        string      `json:"video_id"`
	FPS            *float64    `json:"fps"`
	CRF            *int        `json:"crf"`
	ShowBBox       *bool       `json:"show_bbox"`
	ShowKeypoints  *bool       `json:"show_keypoints"`
	ShowConfidence *bool       `json:"show_confidence"`
	ShowSkeleton   *bool       `json:"show_skeleton"`
	KeypointFormat pose.Format `json:"keypoint_format"`
}

// RenderVideo handles POST /ml/v1/render-video.
func (h *Handler) RenderVideo(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid render body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid render request body")
		return
	}
	if req.VideoID == "" {
		writeError(w, http.StatusBadRequest, "video_id is required")
		return
	}

	fps := defaultFPS
	if req.FPS != nil {
		fps = *req.FPS
	}
	crf := defaultCRF
	if req.CRF != nil {
		crf = *req.CRF
	}
	if fps < minFPS || fps > maxFPS {
		writeError(w, http.StatusBadRequest, "fps must be in [1, 120]")
		return
	}
	if crf < 0 || crf > 51 {
		writeError(w, http.StatusBadRequest, "crf must be in [0, 51]")
		return
	}
	format := req.KeypointFormat
	if format == "" {
		format = pose.FormatCOCO
	}
	if !format.Valid() {
		writeError(w, http.StatusBadRequest, "unknown keypoint_format")
		return
	}

	opts := RenderOptions{
		ShowBBox:       boolOr(req.ShowBBox, true),
		ShowKeypoints:  boolOr(req.ShowKeypoints, true),
		ShowConfidence: boolOr(req.ShowConfidence, false),
		ShowSkeleton:   boolOr(req.ShowSkeleton, true),
		Format:         format,
	}

	if h.metrics != nil {
		h.metrics.RenderStarted()
		defer h.metrics.RenderFinished()
	}

	if err := h.svc.RenderVideo(r.Context(), req.VideoID, fps, crf, opts); err != nil {
		switch {
		case errors.Is(err, ErrVideoNotFound):
			writeError(w, http.StatusNotFound, "input video not found")
		case errors.Is(err, ErrEstimationsNotFound):
			writeError(w, http.StatusNotFound, "pose estimation results not found")
		default:
			h.log.Error("render failed", slog.String("video_id", req.VideoID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to render or encode annotated video")
		}
		return
	}

	h.log.Info("video rendered", slog.String("video_id", req.VideoID))
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Annotated video rendered and saved successfully",
		"video_id": req.VideoID,
	})
	if h.metrics != nil {
		h.metrics.IncRenders()
	}
}

// analyzeRequest is the body of POST /ml/v1/analyze.
type analyzeRequest struct {
	VideoID string        `json:"video_id"`
	Side    analysis.Side `json:"side"`
}

// AnalyzeVideo handles POST /ml/v1/analyze.
func (h *Handler) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid analyze body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid analyze request body")
		return
	}
	if req.VideoID == "" {
		writeError(w, http.StatusBadRequest, "video_id is required")
		return
	}
	side := req.Side
	if side == "" {
		side = analysis.SideRight
	}
	if !side.Valid() {
		writeError(w, http.StatusBadRequest, "side must be 'left' or 'right'")
		return
	}

	if _, err := h.svc.Analyze(r.Context(), req.VideoID, side); err != nil {
		if errors.Is(err, ErrEstimationsNotFound) {
			writeError(w, http.StatusNotFound, "pose estimation results not found")
			return
		}
		h.log.Error("analysis failed", slog.String("video_id", req.VideoID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "running analysis failed")
		return
	}

	h.log.Info("analysis computed", slog.String("video_id", req.VideoID), slog.String("side", string(side)))
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Running analysis completed successfully",
		"video_id": req.VideoID,
	})
	if h.metrics != nil {
		h.metrics.IncAnalyses()
	}
}

// DownloadAnalysis handles GET /storage/v1/analysis/{video_id}/download.
func (h *Handler) DownloadAnalysis(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if videoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	a, err := h.svc.GetAnalysis(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, ErrAnalysisNotFound) {
			writeError(w, http.StatusNotFound, "analysis results not found")
			return
		}
		h.log.Error("analysis download failed", slog.String("video_id", videoID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load analysis results")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// DeleteArtifacts handles DELETE /storage/v1/artifacts/{video_id}.
func (h *Handler) DeleteArtifacts(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if videoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteArtifacts(r.Context(), videoID); err != nil {
		h.log.Error("delete artifacts failed", slog.String("video_id", videoID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to delete video artifacts")
		return
	}

	h.log.Info("artifacts deleted", slog.String("video_id", videoID))
	w.WriteHeader(http.StatusNoContent)
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
