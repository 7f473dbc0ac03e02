package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arunkumar2699/kirana-erp/internal/httpx"
	"github.com/arunkumar2699/kirana-erp/internal/models"
	"github.com/arunkumar2699/kirana-erp/internal/services"
)

type AccountsHandler struct {
	Parties *services.PartyService
	Ledgers *services.LedgerService
}

func NewAccountsHandler(parties *services.PartyService, ledgers *services.LedgerService) *AccountsHandler {
	return &AccountsHandler{Parties: parties, Ledgers: ledgers}
}

// ListCustomers: GET /api/v1/accounts/customers?search=&limit=&offset=
func (h *AccountsHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	customers, err := h.Parties.ListCustomers(q.Get("search"), limit, offset)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

// CreateCustomer: POST /api/v1/accounts/customers
func (h *AccountsHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in services.PartyInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	customer, err := h.Parties.CreateCustomer(in)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

// GetCustomer: GET /api/v1/accounts/customers/get?id=...
func (h *AccountsHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	customer, err := h.Parties.GetCustomer(uint(id))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

// UpdateCustomer: PUT /api/v1/accounts/customers/update?id=...
func (h *AccountsHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var patch services.PartyPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	customer, err := h.Parties.UpdateCustomer(uint(id), patch)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

// ListSuppliers: GET /api/v1/accounts/suppliers?search=&limit=&offset=
func (h *AccountsHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	suppliers, err := h.Parties.ListSuppliers(q.Get("search"), limit, offset)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

// CreateSupplier: POST /api/v1/accounts/suppliers
func (h *AccountsHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in services.PartyInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	supplier, err := h.Parties.CreateSupplier(in)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, supplier)
}

// GetSupplier: GET /api/v1/accounts/suppliers/get?id=...
func (h *AccountsHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	supplier, err := h.Parties.GetSupplier(uint(id))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

// UpdateSupplier: PUT /api/v1/accounts/suppliers/update?id=...
func (h *AccountsHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var patch services.PartyPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	supplier, err := h.Parties.UpdateSupplier(uint(id), patch)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

// ListLedgers: GET /api/v1/accounts/ledgers?type=customer
func (h *AccountsHandler) ListLedgers(w http.ResponseWriter, r *http.Request) {
	ledgers, err := h.Ledgers.ListLedgers(models.LedgerType(r.URL.Query().Get("type")))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ledgers)
}

// GetLedger: GET /api/v1/accounts/ledgers/get?id=&from=&to=
func (h *AccountsHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := strconv.Atoi(q.Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var from, to *time.Time
	if v := q.Get("from"); v != "" {
		if ts, perr := time.Parse("2006-01-02", v); perr == nil {
			from = &ts
		}
	}
	if v := q.Get("to"); v != "" {
		if ts, perr := time.Parse("2006-01-02", v); perr == nil {
			end := ts.Add(24*time.Hour - time.Nanosecond)
			to = &end
		}
	}
	ledger, err := h.Ledgers.GetLedger(uint(id), from, to)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ledger)
}
