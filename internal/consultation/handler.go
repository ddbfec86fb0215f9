package consultation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthmate/internal/report"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

type ConversationRequest struct {
	SessionID   string `json:"session_id"`
	UserMessage string `json:"user_message"`
}

type DiagnosticAnswerRequest struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	started := h.svc.StartSession(r.Context())
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": started.SessionID.String(),
		"message":    started.Greeting,
	})
}

func (h *Handler) Converse(w http.ResponseWriter, r *http.Request) {
	var req ConversationRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid session_id")
		return
	}
	res, err := h.svc.Converse(r.Context(), id, req.UserMessage)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) TriageResult(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.TriageResult(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) NextDiagnosticQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	q, err := h.svc.NextDiagnosticQuestion(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) SubmitDiagnosticAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req DiagnosticAnswerRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		h.writeError(w, http.StatusBadRequest, "answer is required")
		return
	}

	n, err := h.svc.SubmitDiagnosticAnswer(r.Context(), id, req.Answer)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":    id.String(),
		"answers_count": n,
	})
}

func (h *Handler) DiagnosticAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.DiagnosticAssessment(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Analyze(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) AnalysisReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.AnalysisReport(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	data, err := h.svc.ReportPDF(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="triage_`+id.String()+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSession(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) EmergencyProtocols(w http.ResponseWriter, _ *http.Request) {
	docs := h.svc.EmergencyProtocols()
	writeJSON(w, http.StatusOK, map[string]any{
		"protocols": docs,
		"count":     len(docs),
	})
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		h.writeError(w, status, "internal server error")
		return
	}
	h.writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrAnalysisUnavailable),
		errors.Is(err, ErrAssessmentUnavailable):
		return http.StatusNotFound
	case errors.Is(err, ErrTriageIncomplete), errors.Is(err, ErrSessionEmergency):
		return http.StatusConflict
	case errors.Is(err, ErrNoSymptom):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrFontUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, StatusCode: status})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterRoutes mounts the triage API on r. The caller decides the prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/session/start", h.StartSession)
	r.Delete("/session/{id}", h.DeleteSession)
	r.Post("/conversation", h.Converse)
	r.Get("/triage-result/{id}", h.TriageResult)
	r.Post("/diagnostic-question/{id}", h.NextDiagnosticQuestion)
	r.Post("/diagnostic-answer/{id}", h.SubmitDiagnosticAnswer)
	r.Get("/diagnostic-assessment/{id}", h.DiagnosticAssessment)
	r.Post("/advanced-analysis/{id}", h.Analyze)
	r.Get("/analysis-report/{id}", h.AnalysisReport)
	r.Get("/report/{id}.pdf", h.ReportPDF)
	r.Get("/emergency-protocols", h.EmergencyProtocols)
}
