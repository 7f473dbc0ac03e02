package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/config"
	"github.com/arunkumar2699/kirana-erp/internal/handlers"
	"github.com/arunkumar2699/kirana-erp/internal/httpx"
	"github.com/arunkumar2699/kirana-erp/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
	log *logrus.Logger
}

// NewApp wires the service graph and registers every route.
func NewApp(db *gorm.DB) *App {
	app := &App{
		mux: http.NewServeMux(),
		db:  db,
		log: config.GetLogger(),
	}

	ledgers := services.NewLedgerService(db)
	inventory := services.NewInventoryService(db, app.log)
	billing := services.NewBillingService(db, inventory, ledgers, app.log)
	parties := services.NewPartyService(db, ledgers)
	reports := services.NewReportService(db)

	app.setupRoutes(
		handlers.NewInventoryHandler(inventory),
		handlers.NewBillingHandler(billing),
		handlers.NewAccountsHandler(parties, ledgers),
		handlers.NewReportsHandler(reports),
	)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.withRecover(a.withLogging(a.mux)).ServeHTTP(w, r)
}

func (a *App) setupRoutes(ih *handlers.InventoryHandler, bh *handlers.BillingHandler, ah *handlers.AccountsHandler, rh *handlers.ReportsHandler) {
	// Health
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.health)

	// Inventory
	a.mux.HandleFunc("GET /api/v1/inventory/items", ih.List)
	a.mux.HandleFunc("POST /api/v1/inventory/items", ih.Create)
	a.mux.HandleFunc("GET /api/v1/inventory/items/get", ih.Get)
	a.mux.HandleFunc("PUT /api/v1/inventory/items/update", ih.Update)
	a.mux.HandleFunc("DELETE /api/v1/inventory/items/delete", ih.Delete)
	a.mux.HandleFunc("POST /api/v1/inventory/items/search", ih.Search)
	a.mux.HandleFunc("PUT /api/v1/inventory/stock/update", ih.AdjustStock)
	a.mux.HandleFunc("GET /api/v1/inventory/low-stock-alerts", ih.LowStock)
	a.mux.HandleFunc("GET /api/v1/inventory/expiry-alerts", ih.ExpiryAlerts)
	a.mux.HandleFunc("GET /api/v1/inventory/stock-value", ih.StockValue)
	a.mux.HandleFunc("GET /api/v1/inventory/categories", ih.Categories)

	// Billing
	a.mux.HandleFunc("POST /api/v1/billing/create", bh.Create)
	a.mux.HandleFunc("GET /api/v1/billing/retrieve", bh.Retrieve)
	a.mux.HandleFunc("PUT /api/v1/billing/update", bh.Update)
	a.mux.HandleFunc("POST /api/v1/billing/hold", bh.Hold)
	a.mux.HandleFunc("GET /api/v1/billing/pending", bh.Pending)
	a.mux.HandleFunc("GET /api/v1/billing/search", bh.Search)
	a.mux.HandleFunc("GET /api/v1/billing/formats", bh.Formats)

	// Accounts
	a.mux.HandleFunc("GET /api/v1/accounts/customers", ah.ListCustomers)
	a.mux.HandleFunc("POST /api/v1/accounts/customers", ah.CreateCustomer)
	a.mux.HandleFunc("GET /api/v1/accounts/customers/get", ah.GetCustomer)
	a.mux.HandleFunc("PUT /api/v1/accounts/customers/update", ah.UpdateCustomer)
	a.mux.HandleFunc("GET /api/v1/accounts/suppliers", ah.ListSuppliers)
	a.mux.HandleFunc("POST /api/v1/accounts/suppliers", ah.CreateSupplier)
	a.mux.HandleFunc("GET /api/v1/accounts/suppliers/get", ah.GetSupplier)
	a.mux.HandleFunc("PUT /api/v1/accounts/suppliers/update", ah.UpdateSupplier)
	a.mux.HandleFunc("GET /api/v1/accounts/ledgers", ah.ListLedgers)
	a.mux.HandleFunc("GET /api/v1/accounts/ledgers/get", ah.GetLedger)

	// Reports
	a.mux.HandleFunc("GET /api/v1/reports/daily-sales", rh.DailySales)
	a.mux.HandleFunc("GET /api/v1/reports/gst-summary", rh.GSTSummary)
	a.mux.HandleFunc("GET /api/v1/reports/item-wise", rh.ItemWise)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(rec, r)
		a.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

func (a *App) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log.WithField("panic", rec).Error("request panicked")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
