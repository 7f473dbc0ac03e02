package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillType string

const (
	BillTypeSaleChallan BillType = "sale_challan"
	BillTypeGSTInvoice  BillType = "gst_invoice"
	BillTypeQuotation   BillType = "quotation"
	BillTypePurchase    BillType = "purchase"
)

// MovesStock reports whether this bill type adjusts inventory, and in which
// direction. Quotations are non-binding and never touch stock.
func (t BillType) MovesStock() (sign int, moves bool) {
	switch t {
	case BillTypeSaleChallan, BillTypeGSTInvoice:
		return -1, true
	case BillTypePurchase:
		return +1, true
	default:
		return 0, false
	}
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
)

type Bill struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	BillNumber     string          `gorm:"size:20;uniqueIndex;not null" json:"bill_number"`
	BillType       BillType        `gorm:"size:20;not null;index" json:"bill_type"`
	CustomerID     *uint           `json:"customer_id"`
	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"-"`
	SupplierID     *uint           `json:"supplier_id"`
	Supplier       *Supplier       `gorm:"foreignKey:SupplierID" json:"-"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_amount"`
	GSTAmount      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"gst_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	NetAmount      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"net_amount"`
	PaymentMethod  string          `gorm:"size:50;default:cash" json:"payment_method"`
	PaymentStatus  PaymentStatus   `gorm:"size:20;default:paid" json:"payment_status"`
	CreatedBy      uint            `json:"created_by"`
	Lines          []BillLine      `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BillLine snapshots the item's code, name, size, rate, MRP and GST rate at
// bill-creation time. Catalog edits after the fact must never rewrite a
// historical bill, so the projection reads these columns, not the item row.
type BillLine struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BillID        uint            `gorm:"not null;index" json:"bill_id"`
	ItemID        uint            `gorm:"not null" json:"item_id"`
	Item          Item            `gorm:"foreignKey:ItemID" json:"-"`
	ItemCode      string          `gorm:"size:50;not null" json:"item_code"`
	ItemName      string          `gorm:"size:200;not null" json:"item_name"`
	ItemSize      string          `gorm:"size:50" json:"item_size"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Rate          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"rate"`
	MRP           decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"mrp"`
	GSTPercentage decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"gst_percentage"`
	GSTAmount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"gst_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
}
