package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerType string

const (
	LedgerCustomer LedgerType = "customer"
	LedgerSupplier LedgerType = "supplier"
	LedgerExpense  LedgerType = "expense"
	LedgerIncome   LedgerType = "income"
)

type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

type Ledger struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"size:200;not null;index" json:"name"`
	Type           LedgerType      `gorm:"size:50" json:"type"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"opening_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"current_balance"`
	Entries        []LedgerEntry   `gorm:"foreignKey:LedgerID" json:"entries,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LedgerEntry rows are append-only. Balance records the ledger's running
// balance as of this entry; nothing ever updates an entry after creation.
type LedgerEntry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	LedgerID      uint            `gorm:"not null;index" json:"ledger_id"`
	EntryType     EntryType       `gorm:"size:10;not null" json:"entry_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description   string          `gorm:"size:500" json:"description"`
	ReferenceType string          `gorm:"size:50" json:"reference_type"`
	ReferenceID   uint            `json:"reference_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(10,2)" json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}
