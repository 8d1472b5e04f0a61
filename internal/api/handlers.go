package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/services/report"
	"github.com/ahmadnadir/gasnadir/internal/services/summary"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

const maxHistoryLimit = 500

type handler struct {
	svc          Services
	historyLimit int
	log          *logger.Logger
}

type queryRequest struct {
	Query string `json:"query"`
}

type policyResponse struct {
	Response string `json:"response"`
	Matched  bool   `json:"matched"`
}

func (h *handler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.svc.Analyst.ProcessQuery(r.Context(), req.Query, nil)
	if err != nil {
		h.log.Warnw("Query failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	limit, err := h.limit(r)
	if err != nil {
		writeError(w, err)
		return
	}

	msgs, err := h.svc.Analyst.History(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	if h.svc.Exporter == nil {
		writeError(w, errors.NewDomainError("EXPORT_DISABLED", "report export is not configured", errors.ErrUnavailable))
		return
	}

	limit, err := h.limit(r)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := h.svc.Exporter.Export(r.Context(), limit)
	if err != nil {
		h.log.Errorw("Report export failed", "error", err)
		writeError(w, err)
		return
	}

	name := fmt.Sprintf("analyst-report-%s.docx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) customerInsights(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.Customers.Insights(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *handler) customerInsight(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, errors.NewValidationError("id", "must be a positive integer", r.PathValue("id")))
		return
	}

	card, err := h.svc.Customers.ForCustomer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *handler) volumeSummary(w http.ResponseWriter, r *http.Request) {
	dim, err := summary.ParseDimension(r.URL.Query().Get("dimension"))
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.svc.Summaries.Summary(r.Context(), dim)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) policy(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, errors.ErrEmptyQuery)
		return
	}

	out := h.svc.Policy.Respond(req.Query, nil, nil)
	writeJSON(w, http.StatusOK, policyResponse{Response: out, Matched: out != ""})
}

// limit reads ?limit=, defaulting to the configured history size
func (h *handler) limit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.historyLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > maxHistoryLimit {
		return 0, errors.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", maxHistoryLimit), raw)
	}
	return n, nil
}
