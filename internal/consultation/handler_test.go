package consultation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*fixture, http.Handler) {
	t.Helper()
	f := newFixture(t)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, NewHandler(f.svc, nil))
	})
	return f, r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/session/start", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	return body["session_id"]
}

func TestHandler_StartSession(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/session/start", nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody[map[string]string](t, rec)
	_, err := uuid.Parse(body["session_id"])
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(body["message"], "Hello. I'm HealthMate"))
}

func TestHandler_ConversationErrors(t *testing.T) {
	_, h := newTestRouter(t)

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"malformed body", "{not json", http.StatusBadRequest, "invalid request body"},
		{"bad session id", ConversationRequest{SessionID: "abc", UserMessage: "hi"}, http.StatusBadRequest, "invalid session_id"},
		{"unknown session", ConversationRequest{SessionID: uuid.NewString(), UserMessage: "hi"}, http.StatusNotFound, "session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/conversation", tt.body)

			require.Equal(t, tt.status, rec.Code)
			body := decodeBody[errorResponse](t, rec)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.status, body.StatusCode)
		})
	}
}

func TestHandler_BlankMessageAdvancesStage(t *testing.T) {
	_, h := newTestRouter(t)
	id := startSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/conversation", ConversationRequest{SessionID: id, UserMessage: "   "})

	require.Equal(t, http.StatusOK, rec.Code)
	turn := decodeBody[TurnResult](t, rec)
	assert.True(t, turn.ShouldContinue)
	assert.False(t, turn.IsEmergency)
	assert.Equal(t, "basic_info", turn.Stage)
}

func TestHandler_FullTriage(t *testing.T) {
	f, h := newTestRouter(t)
	id := startSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/triage-result/"+id, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var turn TurnResult
	for _, msg := range completeScript {
		rec := doJSON(t, h, http.MethodPost, "/api/conversation", ConversationRequest{SessionID: id, UserMessage: msg})
		require.Equal(t, http.StatusOK, rec.Code)
		turn = decodeBody[TurnResult](t, rec)
	}
	f.svc.Wait()
	assert.False(t, turn.ShouldContinue)
	assert.Equal(t, "complete", turn.Stage)

	rec = doJSON(t, h, http.MethodGet, "/api/triage-result/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Risk struct {
			OverallScore float64 `json:"overall_score"`
			UrgencyLevel string  `json:"urgency_level"`
		} `json:"risk_assessment"`
		UrgencyLabel string         `json:"urgency_label"`
		Profile      map[string]any `json:"patient_profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "GREEN", result.Risk.UrgencyLevel)
	assert.Equal(t, "mild", result.UrgencyLabel)
	assert.Equal(t, "Female", result.Profile["gender"])

	rec = doJSON(t, h, http.MethodGet, "/api/analysis-report/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/advanced-analysis/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	analysis := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "local", analysis["model"])

	rec = doJSON(t, h, http.MethodGet, "/api/analysis-report/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Diagnostics(t *testing.T) {
	_, h := newTestRouter(t)
	id := startSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/diagnostic-question/"+id, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrNoSymptom.Error(), decodeBody[errorResponse](t, rec).Error)

	for _, msg := range []string{"hi", "30 male", "stomach cramps"} {
		rec := doJSON(t, h, http.MethodPost, "/api/conversation", ConversationRequest{SessionID: id, UserMessage: msg})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/diagnostic-question/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decodeBody[DiagnosticQuestion](t, rec)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, 8, q.Total)
	assert.True(t, strings.HasPrefix(q.Question, "Which region?"))

	rec = doJSON(t, h, http.MethodPost, "/api/diagnostic-answer/"+id, DiagnosticAnswerRequest{Answer: ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/diagnostic-answer/"+id, DiagnosticAnswerRequest{Answer: "lower right, cramps"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody[map[string]any](t, rec)["answers_count"])

	rec = doJSON(t, h, http.MethodGet, "/api/diagnostic-assessment/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SessionIDValidation(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/triage-result/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid session id", decodeBody[errorResponse](t, rec).Error)
}

func TestHandler_ReportPDFWithoutFont(t *testing.T) {
	_, h := newTestRouter(t)
	id := startSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/report/"+id+".pdf", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandler_DeleteSession(t *testing.T) {
	_, h := newTestRouter(t)
	id := startSession(t, h)

	rec := doJSON(t, h, http.MethodDelete, "/api/session/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/session/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusConflict, statusFor(ErrTriageIncomplete))
}

func TestHandler_EmergencyProtocols(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/emergency-protocols", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count     int `json:"count"`
		Protocols []struct {
			Category string `json:"category"`
		} `json:"protocols"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(body.Protocols), body.Count)
	require.NotEmpty(t, body.Protocols)
	for _, p := range body.Protocols {
		assert.Equal(t, "Emergency", p.Category)
	}
}
