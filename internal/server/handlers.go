package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/cv-generator/internal/document"
	"github.com/jonathan/cv-generator/internal/pipeline"
	"github.com/jonathan/cv-generator/internal/render"
	"github.com/jonathan/cv-generator/internal/types"
)

// GenerateRequest represents the request body for /generate
type GenerateRequest struct {
	Intent string `json:"intent,omitempty"` // download | preview
	Source string `json:"source,omitempty"`
	Locale string `json:"locale,omitempty"`
	Theme  string `json:"theme,omitempty"`
}

// StatusResponse represents the response for /status
type StatusResponse struct {
	State     string `json:"state"`
	LastError string `json:"last_error,omitempty"`
}

// parseGenerateRequest decodes and validates the request body, applying
// defaults for anything omitted.
func (s *Server) parseGenerateRequest(r *http.Request) (pipeline.Request, error) {
	var req GenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return pipeline.Request{}, fmt.Errorf("invalid request body: %w", err)
		}
	}

	intent := types.GenerationIntent(req.Intent)
	switch intent {
	case "":
		intent = types.IntentDownload
	case types.IntentDownload, types.IntentPreview:
	default:
		return pipeline.Request{}, fmt.Errorf("unknown intent %q", req.Intent)
	}

	if req.Theme != "" && !document.ValidTheme(types.Theme(req.Theme)) {
		return pipeline.Request{}, fmt.Errorf("unknown theme %q", req.Theme)
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	return pipeline.Request{
		Intent: intent,
		Source: source,
		Locale: req.Locale,
		Theme:  types.Theme(req.Theme),
	}, nil
}

// handleGenerate runs one generation lifecycle and answers with the PDF
// itself: attachment disposition for downloads, inline for previews.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenerateRequest(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.orch.Generate(r.Context(), req)
	if err != nil {
		s.generationError(w, err)
		return
	}

	w.Header().Set("Content-Type", render.PDFMIMEType)
	if req.Intent == types.IntentPreview {
		w.Header().Set("Content-Disposition", "inline")
	} else {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", result.Artifact.Filename))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifact.Bytes); err != nil {
		s.logger.Error("writing artifact response failed", zap.Error(err))
	}
}

// handleStatus reports the orchestrator's state machine position.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{State: string(s.orch.Status())}
	if err := s.orch.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateStream runs a generation and streams progress via SSE,
// finishing with a complete or error event. The artifact is not embedded
// in the stream; clients fetch it with a follow-up /generate call or use
// the non-streaming endpoint.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenerateRequest(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := newEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	events, unsubscribe := s.broker.Subscribe()
	defer unsubscribe()

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.orch.Generate(r.Context(), req)
		done <- outcome{result: result, err: err}
	}()

	for {
		select {
		case event := <-events:
			if err := stream.send("step", event); err != nil {
				s.logger.Warn("writing SSE event failed", zap.Error(err))
			}
		case out := <-done:
			// Drain events published before the run finished.
			for {
				select {
				case event := <-events:
					stream.send("step", event) //nolint:errcheck
					continue
				default:
				}
				break
			}
			if out.err != nil {
				stream.fail(out.err.Error())
				return
			}
			stream.complete(out.result.RunID.String(), "completed")
			return
		case <-r.Context().Done():
			return
		}
	}
}

// generationError maps pipeline failures to HTTP statuses.
func (s *Server) generationError(w http.ResponseWriter, err error) {
	var invalidModel *pipeline.InvalidModelError
	var blocked *pipeline.ValidationBlockedError

	switch {
	case errors.Is(err, pipeline.ErrAlreadyInProgress):
		s.errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, pipeline.ErrRenderTimeout):
		s.errorResponse(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &invalidModel):
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"report": invalidModel.Report,
		})
	case errors.As(err, &blocked):
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"report": blocked.Report,
		})
	default:
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}
