package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

// numberingAttempts bounds the transparent retries when two concurrent
// creations race for the same bill number. The unique index on bill_number
// rejects the loser at commit; we redo the whole transaction with a fresh
// sequence before surfacing ErrNumberingConflict.
const numberingAttempts = 3

type BillingService struct {
	DB        *gorm.DB
	Inventory *InventoryService
	Ledgers   *LedgerService
	Log       *logrus.Logger
}

func NewBillingService(db *gorm.DB, inv *InventoryService, ledgers *LedgerService, log *logrus.Logger) *BillingService {
	return &BillingService{DB: db, Inventory: inv, Ledgers: ledgers, Log: log}
}

type BillLineInput struct {
	ItemCode string           `json:"item_code" validate:"required"`
	Quantity decimal.Decimal  `json:"quantity"`
	Rate     *decimal.Decimal `json:"rate"`
	MRP      *decimal.Decimal `json:"mrp"`
}

type BillInput struct {
	BillType       models.BillType      `json:"bill_type" validate:"required,oneof=sale_challan gst_invoice quotation purchase"`
	CustomerID     *uint                `json:"customer_id"`
	SupplierID     *uint                `json:"supplier_id"`
	Lines          []BillLineInput      `json:"lines" validate:"required,min=1,dive"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	PaymentMethod  string               `json:"payment_method"`
	PaymentStatus  models.PaymentStatus `json:"payment_status" validate:"omitempty,oneof=paid pending partial"`
}

// CreateBill validates the request, resolves every line against the catalog,
// computes per-line and bill totals, allocates a bill number, applies stock
// deltas and posts the ledger movement — all inside one transaction. Any
// failure rolls the whole thing back; no partial bill or stock change is
// ever visible.
func (s *BillingService) CreateBill(in BillInput, actorID uint) (*models.Bill, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Field: "bill", Reason: err.Error()}
	}
	if in.BillType == models.BillTypePurchase && in.SupplierID == nil {
		return nil, &ValidationError{Field: "supplier_id", Reason: "required_for_purchase"}
	}
	if in.DiscountAmount.IsNegative() {
		return nil, &ValidationError{Field: "discount_amount", Reason: "must_not_be_negative"}
	}
	for _, line := range in.Lines {
		if !line.Quantity.Round(3).IsPositive() {
			return nil, &ValidationError{Field: "quantity", Reason: "must_be_positive"}
		}
		if line.Rate != nil && line.Rate.IsNegative() {
			return nil, &ValidationError{Field: "rate", Reason: "must_not_be_negative"}
		}
	}

	for attempt := 1; attempt <= numberingAttempts; attempt++ {
		var bill *models.Bill
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			bill, txErr = s.createBill(tx, in, actorID)
			return txErr
		})
		if err == nil {
			return bill, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.Log.WithFields(logrus.Fields{
				"bill_type": in.BillType,
				"attempt":   attempt,
			}).Warn("bill number collision, retrying")
			continue
		}
		return nil, err
	}
	return nil, ErrNumberingConflict
}

func (s *BillingService) createBill(tx *gorm.DB, in BillInput, actorID uint) (*models.Bill, error) {
	if in.CustomerID != nil {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", *in.CustomerID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrCustomerNotFound
		}
	}
	if in.SupplierID != nil {
		var count int64
		if err := tx.Model(&models.Supplier{}).Where("id = ?", *in.SupplierID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrSupplierNotFound
		}
	}

	// Resolve lines and compute totals in request order.
	type resolved struct {
		item models.Item
		line models.BillLine
	}
	lines := make([]resolved, 0, len(in.Lines))
	totalAmount := decimal.Zero
	totalGST := decimal.Zero
	for _, lr := range in.Lines {
		var item models.Item
		err := tx.Where("item_code = ? AND is_active = ?", lr.ItemCode, true).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ItemNotFoundError{ItemCode: lr.ItemCode}
			}
			return nil, err
		}

		qty := lr.Quantity.Round(3)
		rate := item.SellingPrice
		if lr.Rate != nil {
			rate = lr.Rate.Round(2)
		}
		mrp := item.MRP
		if lr.MRP != nil {
			mrp = lr.MRP.Round(2)
		}
		preTax := qty.Mul(rate).Round(2)
		gst := preTax.Mul(item.GSTPercentage).Div(decimal.NewFromInt(100)).Round(2)

		lines = append(lines, resolved{
			item: item,
			line: models.BillLine{
				ItemID:        item.ID,
				ItemCode:      item.ItemCode,
				ItemName:      item.Name,
				ItemSize:      item.Size,
				Quantity:      qty,
				Rate:          rate,
				MRP:           mrp,
				GSTPercentage: item.GSTPercentage,
				GSTAmount:     gst,
				TotalAmount:   preTax.Add(gst),
			},
		})
		totalAmount = totalAmount.Add(preTax)
		totalGST = totalGST.Add(gst)
	}

	number, err := nextBillNumber(tx, in.BillType, time.Now())
	if err != nil {
		return nil, err
	}

	// Stock deltas: negative for sales, positive for purchases, none for
	// quotations. Each failure aborts the enclosing transaction.
	if sign, moves := in.BillType.MovesStock(); moves {
		reason := "Sale: " + number
		if sign > 0 {
			reason = "Purchase: " + number
		}
		for _, r := range lines {
			delta := r.line.Quantity
			if sign < 0 {
				delta = delta.Neg()
			}
			if _, err := s.Inventory.adjustStock(tx, r.item.ID, delta, reason); err != nil {
				return nil, err
			}
		}
	}

	discount := in.DiscountAmount.Round(2)
	method := in.PaymentMethod
	if method == "" {
		method = "cash"
	}
	status := in.PaymentStatus
	if status == "" {
		status = models.PaymentPaid
	}

	bill := models.Bill{
		BillNumber:     number,
		BillType:       in.BillType,
		CustomerID:     in.CustomerID,
		SupplierID:     in.SupplierID,
		TotalAmount:    totalAmount,
		GSTAmount:      totalGST,
		DiscountAmount: discount,
		NetAmount:      totalAmount.Add(totalGST).Sub(discount),
		PaymentMethod:  method,
		PaymentStatus:  status,
		CreatedBy:      actorID,
	}
	for _, r := range lines {
		bill.Lines = append(bill.Lines, r.line)
	}
	if err := tx.Create(&bill).Error; err != nil {
		return nil, err
	}

	if err := s.postToLedger(tx, &bill); err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"bill_number": bill.BillNumber,
		"bill_type":   bill.BillType,
		"net_amount":  bill.NetAmount.String(),
		"lines":       len(bill.Lines),
	}).Info("bill created")
	return &bill, nil
}

// postToLedger records the party balance movement tied to the bill. Paid
// bills settle on the spot and leave no receivable; pending and partial ones
// post the full net amount against the party's ledger.
func (s *BillingService) postToLedger(tx *gorm.DB, bill *models.Bill) error {
	if bill.PaymentStatus == models.PaymentPaid {
		return nil
	}
	switch bill.BillType {
	case models.BillTypeSaleChallan, models.BillTypeGSTInvoice:
		if bill.CustomerID == nil {
			return nil
		}
		var customer models.Customer
		if err := tx.First(&customer, *bill.CustomerID).Error; err != nil {
			return err
		}
		if _, err := s.Ledgers.PostEntry(tx, customer.LedgerID, models.EntryDebit,
			bill.NetAmount, "Bill "+bill.BillNumber, "bill", bill.ID); err != nil {
			return err
		}
		return tx.Model(&customer).
			Update("outstanding_balance", customer.OutstandingBalance.Add(bill.NetAmount)).Error
	case models.BillTypePurchase:
		var supplier models.Supplier
		if err := tx.First(&supplier, *bill.SupplierID).Error; err != nil {
			return err
		}
		if _, err := s.Ledgers.PostEntry(tx, supplier.LedgerID, models.EntryCredit,
			bill.NetAmount, "Bill "+bill.BillNumber, "bill", bill.ID); err != nil {
			return err
		}
		return tx.Model(&supplier).
			Update("outstanding_balance", supplier.OutstandingBalance.Add(bill.NetAmount)).Error
	}
	return nil
}

type BillLineView struct {
	ID            uint            `json:"id"`
	ItemID        uint            `json:"item_id"`
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	Size          string          `json:"size,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	MRP           decimal.Decimal `json:"mrp"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type BillView struct {
	ID             uint                 `json:"id"`
	BillNumber     string               `json:"bill_number"`
	BillType       models.BillType      `json:"bill_type"`
	CustomerID     *uint                `json:"customer_id"`
	CustomerName   string               `json:"customer_name,omitempty"`
	SupplierID     *uint                `json:"supplier_id"`
	SupplierName   string               `json:"supplier_name,omitempty"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	GSTAmount      decimal.Decimal      `json:"gst_amount"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	NetAmount      decimal.Decimal      `json:"net_amount"`
	PaymentMethod  string               `json:"payment_method"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	CreatedBy      uint                 `json:"created_by"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Lines          []BillLineView       `json:"lines"`
}

// GetBillView reassembles a stored bill for presentation. Line display
// fields come from the snapshots taken at creation, never from a live
// catalog join; totals are trusted as stored.
func (s *BillingService) GetBillView(billID uint) (*BillView, error) {
	var bill models.Bill
	err := s.DB.Preload("Lines").Preload("Customer").Preload("Supplier").First(&bill, billID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return projectBill(&bill), nil
}

func (s *BillingService) GetBillViewByNumber(billNumber string) (*BillView, error) {
	var bill models.Bill
	err := s.DB.Preload("Lines").Preload("Customer").Preload("Supplier").
		Where("bill_number = ?", billNumber).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return projectBill(&bill), nil
}

func projectBill(bill *models.Bill) *BillView {
	view := BillView{
		ID:             bill.ID,
		BillNumber:     bill.BillNumber,
		BillType:       bill.BillType,
		CustomerID:     bill.CustomerID,
		SupplierID:     bill.SupplierID,
		TotalAmount:    bill.TotalAmount,
		GSTAmount:      bill.GSTAmount,
		DiscountAmount: bill.DiscountAmount,
		NetAmount:      bill.NetAmount,
		PaymentMethod:  bill.PaymentMethod,
		PaymentStatus:  bill.PaymentStatus,
		CreatedBy:      bill.CreatedBy,
		CreatedAt:      bill.CreatedAt,
		UpdatedAt:      bill.UpdatedAt,
	}
	if bill.Customer != nil {
		view.CustomerName = bill.Customer.Name
	}
	if bill.Supplier != nil {
		view.SupplierName = bill.Supplier.Name
	}
	view.Lines = make([]BillLineView, 0, len(bill.Lines))
	for _, line := range bill.Lines {
		view.Lines = append(view.Lines, BillLineView{
			ID:            line.ID,
			ItemID:        line.ItemID,
			ItemCode:      line.ItemCode,
			ItemName:      line.ItemName,
			Size:          line.ItemSize,
			Quantity:      line.Quantity,
			Rate:          line.Rate,
			MRP:           line.MRP,
			GSTPercentage: line.GSTPercentage,
			GSTAmount:     line.GSTAmount,
			TotalAmount:   line.TotalAmount,
		})
	}
	return &view
}

// BillPatch is the restricted post-creation update set. Lines and stock are
// immutable once the bill exists; a discount change recomputes net_amount so
// the stored identity net = total + gst - discount keeps holding.
type BillPatch struct {
	CustomerID     *uint                 `json:"customer_id"`
	SupplierID     *uint                 `json:"supplier_id"`
	DiscountAmount *decimal.Decimal      `json:"discount_amount"`
	PaymentMethod  *string               `json:"payment_method"`
	PaymentStatus  *models.PaymentStatus `json:"payment_status"`
}

func (s *BillingService) UpdateBill(billID uint, patch BillPatch) (*BillView, error) {
	var bill models.Bill
	if err := s.DB.First(&bill, billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	if patch.CustomerID != nil {
		bill.CustomerID = patch.CustomerID
	}
	if patch.SupplierID != nil {
		bill.SupplierID = patch.SupplierID
	}
	if patch.DiscountAmount != nil {
		if patch.DiscountAmount.IsNegative() {
			return nil, &ValidationError{Field: "discount_amount", Reason: "must_not_be_negative"}
		}
		bill.DiscountAmount = patch.DiscountAmount.Round(2)
		bill.NetAmount = bill.TotalAmount.Add(bill.GSTAmount).Sub(bill.DiscountAmount)
	}
	if patch.PaymentMethod != nil {
		bill.PaymentMethod = *patch.PaymentMethod
	}
	if patch.PaymentStatus != nil {
		switch *patch.PaymentStatus {
		case models.PaymentPaid, models.PaymentPending, models.PaymentPartial:
		default:
			return nil, &ValidationError{Field: "payment_status", Reason: "unknown_status"}
		}
		bill.PaymentStatus = *patch.PaymentStatus
	}
	if bill.BillType == models.BillTypePurchase && bill.SupplierID == nil {
		return nil, &ValidationError{Field: "supplier_id", Reason: "required_for_purchase"}
	}
	if err := s.DB.Save(&bill).Error; err != nil {
		return nil, err
	}
	return s.GetBillView(bill.ID)
}

// HoldBill parks a bill for later retrieval by flipping it to pending.
func (s *BillingService) HoldBill(billID uint) error {
	res := s.DB.Model(&models.Bill{}).Where("id = ?", billID).
		Update("payment_status", models.PaymentPending)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBillNotFound
	}
	return nil
}

type BillFilter struct {
	Query      string
	BillType   models.BillType
	FromDate   *time.Time
	ToDate     *time.Time
	CustomerID *uint
	Limit      int
	Offset     int
}

func (s *BillingService) SearchBills(filter BillFilter) ([]BillView, error) {
	dbq := s.DB.Model(&models.Bill{}).Preload("Lines").Preload("Customer").Preload("Supplier")
	if filter.Query != "" {
		dbq = dbq.Where("bill_number LIKE ?", "%"+filter.Query+"%")
	}
	if filter.BillType != "" {
		dbq = dbq.Where("bill_type = ?", filter.BillType)
	}
	if filter.FromDate != nil {
		dbq = dbq.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		dbq = dbq.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.CustomerID != nil {
		dbq = dbq.Where("customer_id = ?", *filter.CustomerID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var bills []models.Bill
	if err := dbq.Order("id desc").Limit(limit).Offset(filter.Offset).Find(&bills).Error; err != nil {
		return nil, err
	}
	views := make([]BillView, 0, len(bills))
	for i := range bills {
		views = append(views, *projectBill(&bills[i]))
	}
	return views, nil
}

func (s *BillingService) PendingBills() ([]BillView, error) {
	var bills []models.Bill
	err := s.DB.Preload("Lines").Preload("Customer").Preload("Supplier").
		Where("payment_status = ?", models.PaymentPending).Order("id desc").Find(&bills).Error
	if err != nil {
		return nil, err
	}
	views := make([]BillView, 0, len(bills))
	for i := range bills {
		views = append(views, *projectBill(&bills[i]))
	}
	return views, nil
}
