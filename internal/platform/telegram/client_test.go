package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendMessage(t *testing.T) {
	var got sendMessageReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient("TOKEN", srv.URL+"/")
	require.NoError(t, c.SendMessage(context.Background(), 42, "EMERGENCY: chest_pain"))

	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "EMERGENCY: chest_pain", got.Text)
}

func TestClient_SendDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendDocument", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		assert.Equal(t, "7", r.FormValue("chat_id"))
		assert.Equal(t, "triage report", r.FormValue("caption"))

		f, hdr, err := r.FormFile("document")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)

		assert.Equal(t, "report.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-fake", string(data))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("TOKEN", srv.URL)
	require.NoError(t, c.SendDocument(context.Background(), 7, []byte("%PDF-fake"), "report.pdf", "triage report"))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusBadRequest, `{"ok":false,"description":"Bad Request: chat not found"}`},
		{"not ok envelope", http.StatusOK, `{"ok":false,"description":"Forbidden"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient("TOKEN", srv.URL).SendMessage(context.Background(), 1, "hi")
			assert.Error(t, err)
		})
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("TOKEN", "")
	assert.Equal(t, "https://api.telegram.org/botTOKEN/sendMessage", c.methodURL("sendMessage"))
}
