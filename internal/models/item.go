package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog models. Items are never physically deleted: billing history keeps
// referencing them, so removal is a soft deactivation via IsActive.
type Item struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ItemCode      string          `gorm:"size:50;uniqueIndex;not null" json:"item_code"`
	Barcode       string          `gorm:"size:100;index" json:"barcode"`
	Name          string          `gorm:"size:200;not null;index" json:"name"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Size          string          `gorm:"size:50" json:"size"`
	Unit          string          `gorm:"size:20" json:"unit"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"selling_price"`
	MRP           decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"mrp"`
	GSTPercentage decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"gst_percentage"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"current_stock"`
	MinStockAlert decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"min_stock_alert"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockMovement is an append-only audit trail of every stock delta, with the
// free-form reason supplied by the caller (e.g. "Sale: INV2600001").
type StockMovement struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ItemID    uint            `gorm:"not null;index" json:"item_id"`
	Item      Item            `gorm:"foreignKey:ItemID" json:"-"`
	Delta     decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"delta"`
	Reason    string          `gorm:"size:200" json:"reason"`
	Reference string          `gorm:"size:36;index" json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}
