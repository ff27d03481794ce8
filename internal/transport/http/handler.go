// Package httptransport is the thin HTTP layer over the reconciliation
// service. Handlers delegate to the service and keep transport concerns
// isolated.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cohortcompare/internal/domain"
	pkgerrors "cohortcompare/pkg/errors"
)

// RunService defines the reconciliation operations the transport needs.
type RunService interface {
	RunFromFiles(ctx context.Context, caasPath, bssPath string) (domain.Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (domain.Run, error)
	LatestRun(ctx context.Context) (domain.Run, error)
	Discrepancies(ctx context.Context, runID uuid.UUID, source domain.Source) ([]domain.Discrepancy, error)
}

// ExtractPaths are the default extract locations used when a trigger
// request does not name its own.
type ExtractPaths struct {
	CAAS string
	BSS  string
}

// Handler serves the run API.
type Handler struct {
	service  RunService
	defaults ExtractPaths
	logger   *slog.Logger
}

// NewHandler builds the Handler.
func NewHandler(service RunService, defaults ExtractPaths, logger *slog.Logger) *Handler {
	return &Handler{service: service, defaults: defaults, logger: logger}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type triggerRunRequest struct {
	CAASPath string `json:"caas_path"`
	BSSPath  string `json:"bss_path"`
}

func (h *Handler) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	var req triggerRunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(r.Context(), w, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, "decode run request"))
			return
		}
	}
	if req.CAASPath == "" {
		req.CAASPath = h.defaults.CAAS
	}
	if req.BSSPath == "" {
		req.BSSPath = h.defaults.BSS
	}
	if req.CAASPath == "" || req.BSSPath == "" {
		h.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeBadRequest, "both caas_path and bss_path are required"))
		return
	}

	run, err := h.service.RunFromFiles(r.Context(), req.CAASPath, req.BSSPath)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (h *Handler) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.LatestRun(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		h.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid run id"))
		return
	}

	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// discrepancyResponse augments the stored record with the description
// derived from its category id.
type discrepancyResponse struct {
	domain.Discrepancy
	CategoryDescription string `json:"discrepancy_category_description"`
}

func (h *Handler) handleDiscrepancies(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		h.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid run id"))
		return
	}

	source := domain.Source(r.URL.Query().Get("source"))
	switch source {
	case "", domain.SourceCAAS, domain.SourceBSS:
	default:
		h.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeBadRequest, "source must be CAAS or BSS"))
		return
	}

	discrepancies, err := h.service.Discrepancies(r.Context(), id, source)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	out := make([]discrepancyResponse, 0, len(discrepancies))
	for _, d := range discrepancies {
		out = append(out, discrepancyResponse{
			Discrepancy:         d,
			CategoryDescription: d.Category.Description(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeError translates domain and coded errors into the JSON error
// envelope.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := pkgerrors.ToHTTPStatus(pkgerrors.CodeOf(err))

	var invalid *domain.InvalidRecordError
	if errors.As(err, &invalid) {
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
