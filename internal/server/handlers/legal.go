package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Sladkolapy/Mishka/pkg/api"
)

// LegalHandler отдает юридические документы
type LegalHandler struct {
	logger *slog.Logger
}

// NewLegalHandler создает новый handler для юридических документов
func NewLegalHandler(logger *slog.Logger) *LegalHandler {
	return &LegalHandler{logger: logger}
}

var legalDocuments = map[string]api.LegalResponse{
	"terms": {
		Title: "Terms of Service",
		Content: "By using this service you agree to pay for assistant messages " +
			"with account tokens, to upload only documents you have the right to " +
			"process, and to accept that generated documents are provided as-is.",
	},
	"privacy": {
		Title: "Privacy Policy",
		Content: "Uploaded documents and chat messages are stored to provide the " +
			"service and are never shared with third parties. Delete a chat to " +
			"remove its messages and files.",
	},
}

// Get обрабатывает GET /api/legal/{type}
func (h *LegalHandler) Get(w http.ResponseWriter, r *http.Request) {
	docType := mux.Vars(r)["type"]

	doc, ok := legalDocuments[docType]
	if !ok {
		sendError(h.logger, w, "document not found", http.StatusNotFound)
		return
	}

	sendJSON(h.logger, w, doc, http.StatusOK)
}
