package handlers

import (
	"net/http"
	"time"

	"github.com/arunkumar2699/kirana-erp/internal/httpx"
	"github.com/arunkumar2699/kirana-erp/internal/services"
)

type ReportsHandler struct {
	Svc *services.ReportService
}

func NewReportsHandler(svc *services.ReportService) *ReportsHandler {
	return &ReportsHandler{Svc: svc}
}

// DailySales: GET /api/v1/reports/daily-sales?date=2026-08-29 (default today)
func (h *ReportsHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		ts, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
			return
		}
		day = ts
	}
	report, err := h.Svc.DailySales(day)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// GSTSummary: GET /api/v1/reports/gst-summary?from=&to=
func (h *ReportsHandler) GSTSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_from_date", nil)
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_to_date", nil)
		return
	}
	summary, err := h.Svc.GSTSummary(from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// ItemWise: GET /api/v1/reports/item-wise?from=&to=&category=
func (h *ReportsHandler) ItemWise(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_from_date", nil)
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_to_date", nil)
		return
	}
	rows, err := h.Svc.ItemWiseSales(from, to.Add(24*time.Hour-time.Nanosecond), q.Get("category"))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
