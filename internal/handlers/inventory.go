package handlers

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/arunkumar2699/kirana-erp/internal/httpx"
	"github.com/arunkumar2699/kirana-erp/internal/services"
)

type InventoryHandler struct {
	Svc *services.InventoryService
}

func NewInventoryHandler(svc *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{Svc: svc}
}

// List: GET /api/v1/inventory/items?category=&in_stock=&limit=&offset=
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	inStock := q.Get("in_stock") == "true" || q.Get("in_stock") == "1"
	items, err := h.Svc.ListItems(q.Get("category"), inStock, limit, offset)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Create: POST /api/v1/inventory/items
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ItemInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	item, err := h.Svc.CreateItem(in)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Get: GET /api/v1/inventory/items/get?id=...
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	item, err := h.Svc.GetItem(uint(id))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Update: PUT /api/v1/inventory/items/update?id=...
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var patch services.ItemPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	item, err := h.Svc.UpdateItem(uint(id), patch)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Delete: DELETE /api/v1/inventory/items/delete?id=... (soft deactivation)
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.DeactivateItem(uint(id)); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "item deactivated"})
}

// Search: POST /api/v1/inventory/items/search
func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query       string `json:"query"`
		Category    string `json:"category"`
		InStockOnly bool   `json:"in_stock_only"`
		Limit       int    `json:"limit"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	items, err := h.Svc.SearchItems(in.Query, in.Category, in.InStockOnly, in.Limit)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// AdjustStock: PUT /api/v1/inventory/stock/update
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemID         uint            `json:"item_id"`
		QuantityChange decimal.Decimal `json:"quantity_change"`
		Reason         string          `json:"reason"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	item, err := h.Svc.AdjustStock(in.ItemID, in.QuantityChange, in.Reason)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":   "stock updated",
		"new_stock": item.CurrentStock,
	})
}

// LowStock: GET /api/v1/inventory/low-stock-alerts
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.LowStockAlerts()
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// ExpiryAlerts: GET /api/v1/inventory/expiry-alerts?days=30
func (h *InventoryHandler) ExpiryAlerts(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			days = n
		}
	}
	items, err := h.Svc.ExpiringWithin(days)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// StockValue: GET /api/v1/inventory/stock-value
func (h *InventoryHandler) StockValue(w http.ResponseWriter, r *http.Request) {
	valuation, err := h.Svc.GetStockValuation()
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, valuation)
}

// Categories: GET /api/v1/inventory/categories
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.Categories()
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cats)
}
