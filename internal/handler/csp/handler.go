package csp

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aidejuridic/chatgate/backend/pkg/utils"
)

const maxReportBytes = 64 << 10

// Handler receives browser content-security-policy violation reports.
type Handler struct {
	verbose bool
	logger  *zap.Logger
}

// New creates the report handler. Reports are only logged when verbose is set.
func New(verbose bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{verbose: verbose, logger: logger}
}

// RegisterRoutes mounts the report endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/csp-report", h.handleReport)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondMethodNotAllowed(w)
		return
	}

	var report any
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxReportBytes))
	if err := decoder.Decode(&report); err != nil {
		h.logger.Warn("error processing csp report", zap.Error(err))
		utils.RespondError(w, http.StatusBadRequest, "Invalid report")
		return
	}

	if h.verbose {
		h.logger.Info("csp violation",
			zap.String("reportId", uuid.NewString()),
			zap.Any("report", report))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
