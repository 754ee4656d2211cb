package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"helix-hq/warden/pkg/approval"
	"helix-hq/warden/pkg/audit"
	"helix-hq/warden/pkg/controlplane"
	"helix-hq/warden/pkg/intake"
	"helix-hq/warden/pkg/pipeline"
)

// errorResponse is the JSON envelope for error replies.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Type: errType, Message: message}})
}

// mapError translates domain errors onto HTTP status codes. Unknown
// errors become a 500 without exposing internal details.
func mapError(w http.ResponseWriter, err error) {
	var (
		verr *intake.ValidationError
		nerr *audit.NotFoundError
		derr *approval.DecisionInvalidError
		rerr *controlplane.NotResumableError
		serr *pipeline.StepError
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.As(err, &derr):
		writeError(w, http.StatusBadRequest, "invalid_decision", derr.Error())
	case errors.As(err, &nerr):
		writeError(w, http.StatusNotFound, "not_found", nerr.Error())
	case errors.As(err, &rerr):
		writeError(w, http.StatusConflict, "not_resumable", rerr.Error())
	case errors.As(err, &serr):
		writeError(w, http.StatusBadGateway, "pipeline_failed", serr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
	}
}

// decodeBody decodes a JSON request body into dst, enforcing the
// configured body size limit. Returns false if a response was written.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "invalid_request", "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON: "+err.Error())
		return false
	}
	return true
}

// handleRun submits an intake request through the full governance
// flow. The HTTP status reflects the transport outcome; gate outcomes
// (blocked, needs_approval) are regular 200 responses with the status
// in the body.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req intake.Request
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.orchestrator.Run(r.Context(), req)
	if err != nil {
		var serr *pipeline.StepError
		if errors.As(err, &serr) && result != nil {
			// The failure was audited; include the record.
			writeJSON(w, http.StatusBadGateway, result)
			return
		}
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// approveRequest is the payload for POST /v1/approve.
type approveRequest struct {
	AuditID    string `json:"audit_id"`
	Decision   string `json:"decision"`
	ApprovedBy string `json:"approved_by"`
	Reason     string `json:"reason"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.AuditID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "audit_id is required")
		return
	}

	record, err := s.orchestrator.Approve(r.Context(), req.AuditID, approval.Decision(req.Decision), req.ApprovedBy, req.Reason)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// auditRefRequest is the payload for replay and resume requests.
type auditRefRequest struct {
	AuditID string `json:"audit_id"`
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req auditRefRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.AuditID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "audit_id is required")
		return
	}

	result, err := s.orchestrator.Replay(r.Context(), req.AuditID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var req auditRefRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.AuditID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "audit_id is required")
		return
	}

	result, err := s.orchestrator.Resume(r.Context(), req.AuditID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAuditGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	record, err := s.orchestrator.FindAudit(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
