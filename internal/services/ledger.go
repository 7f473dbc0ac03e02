package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

func (s *LedgerService) CreateLedger(tx *gorm.DB, name string, ledgerType models.LedgerType, opening decimal.Decimal) (*models.Ledger, error) {
	ledger := models.Ledger{
		Name:           name,
		Type:           ledgerType,
		OpeningBalance: opening.Round(2),
		CurrentBalance: opening.Round(2),
	}
	if err := tx.Create(&ledger).Error; err != nil {
		return nil, err
	}
	return &ledger, nil
}

// PostEntry appends an immutable movement and advances the ledger's running
// balance. Debits increase the balance (amount owed to us), credits decrease
// it. Must run inside the caller's transaction so a bill and its ledger
// posting commit as one unit.
func (s *LedgerService) PostEntry(tx *gorm.DB, ledgerID uint, entryType models.EntryType, amount decimal.Decimal, description, refType string, refID uint) (*models.LedgerEntry, error) {
	if amount.IsNegative() {
		return nil, &ValidationError{Field: "amount", Reason: "must_not_be_negative"}
	}
	var ledger models.Ledger
	if err := tx.First(&ledger, ledgerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}

	amount = amount.Round(2)
	balance := ledger.CurrentBalance
	if entryType == models.EntryDebit {
		balance = balance.Add(amount)
	} else {
		balance = balance.Sub(amount)
	}

	entry := models.LedgerEntry{
		LedgerID:      ledgerID,
		EntryType:     entryType,
		Amount:        amount,
		Description:   description,
		ReferenceType: refType,
		ReferenceID:   refID,
		Balance:       balance,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Ledger{}).Where("id = ?", ledgerID).
		Update("current_balance", balance).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetLedger returns the ledger with its entries, newest first, optionally
// bounded by [from, to].
func (s *LedgerService) GetLedger(ledgerID uint, from, to *time.Time) (*models.Ledger, error) {
	var ledger models.Ledger
	if err := s.DB.First(&ledger, ledgerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}
	dbq := s.DB.Where("ledger_id = ?", ledgerID)
	if from != nil {
		dbq = dbq.Where("created_at >= ?", *from)
	}
	if to != nil {
		dbq = dbq.Where("created_at <= ?", *to)
	}
	if err := dbq.Order("created_at desc").Find(&ledger.Entries).Error; err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (s *LedgerService) ListLedgers(ledgerType models.LedgerType) ([]models.Ledger, error) {
	dbq := s.DB.Model(&models.Ledger{})
	if ledgerType != "" {
		dbq = dbq.Where("type = ?", ledgerType)
	}
	var ledgers []models.Ledger
	if err := dbq.Order("name").Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}
