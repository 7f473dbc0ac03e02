package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

type InventoryService struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

func NewInventoryService(db *gorm.DB, log *logrus.Logger) *InventoryService {
	return &InventoryService{DB: db, Log: log}
}

type ItemInput struct {
	ItemCode      string          `json:"item_code" validate:"required,max=50"`
	Barcode       string          `json:"barcode" validate:"max=100"`
	Name          string          `json:"name" validate:"required,max=200"`
	Category      string          `json:"category" validate:"max=100"`
	Size          string          `json:"size" validate:"max=50"`
	Unit          string          `json:"unit" validate:"max=20"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MRP           decimal.Decimal `json:"mrp"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockAlert decimal.Decimal `json:"min_stock_alert"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
}

// ItemPatch applies only the fields the caller provided. Explicit per-field
// merge keeps catalog updates typed and auditable.
type ItemPatch struct {
	Barcode       *string          `json:"barcode"`
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	Size          *string          `json:"size"`
	Unit          *string          `json:"unit"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	MRP           *decimal.Decimal `json:"mrp"`
	GSTPercentage *decimal.Decimal `json:"gst_percentage"`
	MinStockAlert *decimal.Decimal `json:"min_stock_alert"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	IsActive      *bool            `json:"is_active"`
}

func (s *InventoryService) CreateItem(in ItemInput) (*models.Item, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Field: "item", Reason: err.Error()}
	}
	if in.SellingPrice.IsNegative() || in.PurchasePrice.IsNegative() {
		return nil, &ValidationError{Field: "price", Reason: "must_not_be_negative"}
	}
	if in.MRP.IsPositive() && in.SellingPrice.GreaterThan(in.MRP) {
		return nil, &ValidationError{Field: "selling_price", Reason: "exceeds_mrp"}
	}
	if in.CurrentStock.IsNegative() {
		return nil, &ValidationError{Field: "current_stock", Reason: "must_not_be_negative"}
	}
	if in.GSTPercentage.IsNegative() || in.GSTPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, &ValidationError{Field: "gst_percentage", Reason: "out_of_range"}
	}

	item := models.Item{
		ItemCode:      strings.TrimSpace(in.ItemCode),
		Barcode:       in.Barcode,
		Name:          in.Name,
		Category:      in.Category,
		Size:          in.Size,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice.Round(2),
		SellingPrice:  in.SellingPrice.Round(2),
		MRP:           in.MRP.Round(2),
		GSTPercentage: in.GSTPercentage.Round(2),
		CurrentStock:  in.CurrentStock.Round(3),
		MinStockAlert: in.MinStockAlert.Round(3),
		ExpiryDate:    in.ExpiryDate,
		IsActive:      true,
	}
	if err := s.DB.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrItemCodeExists
		}
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) UpdateItem(itemID uint, patch ItemPatch) (*models.Item, error) {
	var item models.Item
	if err := s.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ItemNotFoundError{ItemCode: strconv.Itoa(int(itemID))}
		}
		return nil, err
	}
	if patch.Barcode != nil {
		item.Barcode = *patch.Barcode
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Size != nil {
		item.Size = *patch.Size
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}
	if patch.PurchasePrice != nil {
		if patch.PurchasePrice.IsNegative() {
			return nil, &ValidationError{Field: "purchase_price", Reason: "must_not_be_negative"}
		}
		item.PurchasePrice = patch.PurchasePrice.Round(2)
	}
	if patch.SellingPrice != nil {
		if patch.SellingPrice.IsNegative() {
			return nil, &ValidationError{Field: "selling_price", Reason: "must_not_be_negative"}
		}
		item.SellingPrice = patch.SellingPrice.Round(2)
	}
	if patch.MRP != nil {
		item.MRP = patch.MRP.Round(2)
	}
	if patch.GSTPercentage != nil {
		if patch.GSTPercentage.IsNegative() || patch.GSTPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return nil, &ValidationError{Field: "gst_percentage", Reason: "out_of_range"}
		}
		item.GSTPercentage = patch.GSTPercentage.Round(2)
	}
	if patch.MinStockAlert != nil {
		item.MinStockAlert = patch.MinStockAlert.Round(3)
	}
	if patch.ExpiryDate != nil {
		item.ExpiryDate = patch.ExpiryDate
	}
	if patch.IsActive != nil {
		item.IsActive = *patch.IsActive
	}
	if err := s.DB.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeactivateItem soft-deletes: the row stays so historical bills keep a
// valid item reference.
func (s *InventoryService) DeactivateItem(itemID uint) error {
	res := s.DB.Model(&models.Item{}).Where("id = ?", itemID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ItemNotFoundError{ItemCode: strconv.Itoa(int(itemID))}
	}
	return nil
}

func (s *InventoryService) GetItem(itemID uint) (*models.Item, error) {
	var item models.Item
	if err := s.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ItemNotFoundError{ItemCode: strconv.Itoa(int(itemID))}
		}
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) ListItems(category string, inStockOnly bool, limit, offset int) ([]models.Item, error) {
	dbq := s.DB.Model(&models.Item{})
	if category != "" {
		dbq = dbq.Where("category = ?", category)
	}
	if inStockOnly {
		dbq = dbq.Where("current_stock > 0")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var items []models.Item
	if err := dbq.Order("item_code").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchItems matches the query as a case-insensitive substring of item
// code, name or barcode. Exact code matches rank first, then exact barcode
// matches, then lexicographic name.
func (s *InventoryService) SearchItems(query, category string, inStockOnly bool, limit int) ([]models.Item, error) {
	dbq := s.DB.Model(&models.Item{}).Where("is_active = ?", true)
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(item_code) LIKE ? OR lower(name) LIKE ? OR lower(barcode) LIKE ?", like, like, like)
	}
	if category != "" {
		dbq = dbq.Where("category = ?", category)
	}
	if inStockOnly {
		dbq = dbq.Where("current_stock > 0")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	order := clause.OrderBy{Expression: clause.Expr{
		SQL:                "CASE WHEN item_code = ? THEN 0 ELSE 1 END, CASE WHEN barcode = ? THEN 0 ELSE 1 END, name",
		Vars:               []interface{}{query, query},
		WithoutParentheses: true,
	}}
	var items []models.Item
	if err := dbq.Clauses(order).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryService) Categories() ([]string, error) {
	var cats []string
	if err := s.DB.Model(&models.Item{}).Where("category <> ''").Distinct("category").Order("category").Pluck("category", &cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// AdjustStock applies a signed stock delta in its own transaction. The
// Billing Engine uses adjustStock directly so the delta commits or rolls
// back with the rest of the bill.
func (s *InventoryService) AdjustStock(itemID uint, delta decimal.Decimal, reason string) (*models.Item, error) {
	var item *models.Item
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, txErr = s.adjustStock(tx, itemID, delta, reason)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) adjustStock(tx *gorm.DB, itemID uint, delta decimal.Decimal, reason string) (*models.Item, error) {
	var item models.Item
	if err := tx.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ItemNotFoundError{ItemCode: strconv.Itoa(int(itemID))}
		}
		return nil, err
	}

	delta = delta.Round(3)
	// Guarded in-place arithmetic so concurrent adjustments to the same item
	// serialize on the row itself instead of racing a stale read. The decimal
	// is rendered as a literal: String() emits only digits, '-' and '.'.
	expr := fmt.Sprintf("current_stock + (%s)", delta.String())
	dbq := tx.Model(&models.Item{}).Where("id = ?", itemID)
	if delta.IsNegative() {
		dbq = dbq.Where(expr + " >= 0")
	}
	res := dbq.Updates(map[string]interface{}{
		"current_stock": gorm.Expr(expr),
		"updated_at":    time.Now(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &InsufficientStockError{
			ItemCode:  item.ItemCode,
			Requested: delta.Neg(),
			Available: item.CurrentStock,
		}
	}

	movement := models.StockMovement{
		ItemID:    itemID,
		Delta:     delta,
		Reason:    reason,
		Reference: uuid.NewString(),
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	if err := tx.First(&item, itemID).Error; err != nil {
		return nil, err
	}
	s.Log.WithFields(logrus.Fields{
		"item_code": item.ItemCode,
		"delta":     delta.String(),
		"stock":     item.CurrentStock.String(),
		"reason":    reason,
		"reference": movement.Reference,
	}).Info("stock adjusted")
	return &item, nil
}

type StockValuation struct {
	TotalItems         int             `json:"total_items"`
	TotalPurchaseValue decimal.Decimal `json:"total_purchase_value"`
	TotalSellingValue  decimal.Decimal `json:"total_selling_value"`
	PotentialProfit    decimal.Decimal `json:"potential_profit"`
}

// GetStockValuation sums stock x price over all active items.
func (s *InventoryService) GetStockValuation() (*StockValuation, error) {
	var items []models.Item
	if err := s.DB.Where("is_active = ?", true).Find(&items).Error; err != nil {
		return nil, err
	}
	v := StockValuation{TotalItems: len(items)}
	for _, it := range items {
		v.TotalPurchaseValue = v.TotalPurchaseValue.Add(it.CurrentStock.Mul(it.PurchasePrice))
		v.TotalSellingValue = v.TotalSellingValue.Add(it.CurrentStock.Mul(it.SellingPrice))
	}
	v.TotalPurchaseValue = v.TotalPurchaseValue.Round(2)
	v.TotalSellingValue = v.TotalSellingValue.Round(2)
	v.PotentialProfit = v.TotalSellingValue.Sub(v.TotalPurchaseValue)
	return &v, nil
}

func (s *InventoryService) LowStockAlerts() ([]models.Item, error) {
	var items []models.Item
	if err := s.DB.Where("is_active = ? AND current_stock <= min_stock_alert", true).
		Order("item_code").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ExpiringWithin returns active items whose expiry date falls inside
// [today, today+days], both bounds inclusive.
func (s *InventoryService) ExpiringWithin(days int) ([]models.Item, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	until := today.AddDate(0, 0, days).Add(24*time.Hour - time.Nanosecond)
	var items []models.Item
	if err := s.DB.Where("is_active = ? AND expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?",
		true, today, until).Order("expiry_date").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
