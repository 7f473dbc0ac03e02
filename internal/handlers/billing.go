package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arunkumar2699/kirana-erp/internal/httpx"
	"github.com/arunkumar2699/kirana-erp/internal/models"
	"github.com/arunkumar2699/kirana-erp/internal/services"
)

// BillingHandler exposes the billing engine over JSON. Authentication is the
// upstream proxy's job; the acting user arrives in the X-User-ID header.
type BillingHandler struct {
	Svc *services.BillingService
}

func NewBillingHandler(svc *services.BillingService) *BillingHandler {
	return &BillingHandler{Svc: svc}
}

func actorID(r *http.Request) uint {
	if v := r.Header.Get("X-User-ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return uint(n)
		}
	}
	return 0
}

// Create: POST /api/v1/billing/create
func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.BillInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	bill, err := h.Svc.CreateBill(in, actorID(r))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	view, err := h.Svc.GetBillView(bill.ID)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

// Retrieve: GET /api/v1/billing/retrieve?number=INV2600001 (or ?id=)
func (h *BillingHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	if number := r.URL.Query().Get("number"); number != "" {
		view, err := h.Svc.GetBillViewByNumber(number)
		if err != nil {
			httpx.DomainError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_number_or_id", nil)
		return
	}
	view, err := h.Svc.GetBillView(uint(id))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// Update: PUT /api/v1/billing/update?id=...
func (h *BillingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var patch services.BillPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	view, err := h.Svc.UpdateBill(uint(id), patch)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// Hold: POST /api/v1/billing/hold?id=...
func (h *BillingHandler) Hold(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.HoldBill(uint(id)); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "bill held", "bill_id": id})
}

// Pending: GET /api/v1/billing/pending
func (h *BillingHandler) Pending(w http.ResponseWriter, r *http.Request) {
	views, err := h.Svc.PendingBills()
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

// Search: GET /api/v1/billing/search?q=&bill_type=&from=&to=&customer_id=&limit=&offset=
func (h *BillingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.BillFilter{
		Query:    q.Get("q"),
		BillType: models.BillType(q.Get("bill_type")),
	}
	if v := q.Get("from"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			filter.FromDate = &ts
		}
	}
	if v := q.Get("to"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			end := ts.Add(24*time.Hour - time.Nanosecond)
			filter.ToDate = &end
		}
	}
	if v := q.Get("customer_id"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			id := uint(n)
			filter.CustomerID = &id
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}
	views, err := h.Svc.SearchBills(filter)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

// Formats: GET /api/v1/billing/formats
func (h *BillingHandler) Formats(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"formats": []map[string]string{
			{"value": string(models.BillTypeSaleChallan), "label": "Sale Challan"},
			{"value": string(models.BillTypeGSTInvoice), "label": "GST Invoice"},
			{"value": string(models.BillTypeQuotation), "label": "Quotation"},
			{"value": string(models.BillTypePurchase), "label": "Purchase Bill"},
		},
	})
}
