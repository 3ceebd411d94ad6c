package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sladkolapy/Mishka/pkg/api"
)

func TestLegalHandler_Get(t *testing.T) {
	h := NewLegalHandler(setupTestLogger())

	tests := []struct {
		docType   string
		wantTitle string
	}{
		{docType: "terms", wantTitle: "Terms of Service"},
		{docType: "privacy", wantTitle: "Privacy Policy"},
	}

	for _, tt := range tests {
		t.Run(tt.docType, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/legal/"+tt.docType, nil)
			req = mux.SetURLVars(req, map[string]string{"type": tt.docType})
			w := httptest.NewRecorder()

			h.Get(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var resp api.LegalResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantTitle, resp.Title)
			assert.NotEmpty(t, resp.Content)
		})
	}
}

func TestLegalHandler_UnknownDocument(t *testing.T) {
	h := NewLegalHandler(setupTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/legal/license", nil)
	req = mux.SetURLVars(req, map[string]string{"type": "license"})
	w := httptest.NewRecorder()

	h.Get(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "document not found", decodeError(t, w))
}
