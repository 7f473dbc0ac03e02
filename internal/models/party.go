package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer and Supplier each own a companion Ledger, created alongside the
// party so balance movements always have somewhere to post.
type Customer struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"size:200;not null;index" json:"name"`
	Phone              string          `gorm:"size:15" json:"phone"`
	Email              string          `gorm:"size:100" json:"email"`
	Address            string          `gorm:"type:text" json:"address"`
	GSTNumber          string          `gorm:"size:20" json:"gst_number"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"outstanding_balance"`
	LedgerID           uint            `json:"ledger_id"`
	CreatedAt          time.Time       `json:"created_at"`
}

type Supplier struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"size:200;not null;index" json:"name"`
	Phone              string          `gorm:"size:15" json:"phone"`
	Email              string          `gorm:"size:100" json:"email"`
	Address            string          `gorm:"type:text" json:"address"`
	GSTNumber          string          `gorm:"size:20" json:"gst_number"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"outstanding_balance"`
	LedgerID           uint            `json:"ledger_id"`
	CreatedAt          time.Time       `json:"created_at"`
}
