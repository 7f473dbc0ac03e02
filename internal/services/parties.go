package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

// PartyService manages customers and suppliers. Every party gets a companion
// ledger at creation time so bill postings always have an account to hit.
type PartyService struct {
	DB      *gorm.DB
	Ledgers *LedgerService
}

func NewPartyService(db *gorm.DB, ledgers *LedgerService) *PartyService {
	return &PartyService{DB: db, Ledgers: ledgers}
}

type PartyInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Phone     string `json:"phone" validate:"max=15"`
	Email     string `json:"email" validate:"omitempty,email,max=100"`
	Address   string `json:"address"`
	GSTNumber string `json:"gst_number" validate:"max=20"`
}

type PartyPatch struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	GSTNumber *string `json:"gst_number"`
}

func (s *PartyService) CreateCustomer(in PartyInput) (*models.Customer, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Field: "customer", Reason: err.Error()}
	}
	var customer models.Customer
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ledger, err := s.Ledgers.CreateLedger(tx, "Customer - "+in.Name, models.LedgerCustomer, decimal.Zero)
		if err != nil {
			return err
		}
		customer = models.Customer{
			Name:      in.Name,
			Phone:     in.Phone,
			Email:     in.Email,
			Address:   in.Address,
			GSTNumber: in.GSTNumber,
			LedgerID:  ledger.ID,
		}
		return tx.Create(&customer).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *PartyService) CreateSupplier(in PartyInput) (*models.Supplier, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Field: "supplier", Reason: err.Error()}
	}
	var supplier models.Supplier
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ledger, err := s.Ledgers.CreateLedger(tx, "Supplier - "+in.Name, models.LedgerSupplier, decimal.Zero)
		if err != nil {
			return err
		}
		supplier = models.Supplier{
			Name:      in.Name,
			Phone:     in.Phone,
			Email:     in.Email,
			Address:   in.Address,
			GSTNumber: in.GSTNumber,
			LedgerID:  ledger.ID,
		}
		return tx.Create(&supplier).Error
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (s *PartyService) GetCustomer(id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.DB.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PartyService) GetSupplier(id uint) (*models.Supplier, error) {
	var sp models.Supplier
	if err := s.DB.First(&sp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func (s *PartyService) ListCustomers(search string, limit, offset int) ([]models.Customer, error) {
	dbq := s.DB.Model(&models.Customer{})
	if search != "" {
		dbq = dbq.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var customers []models.Customer
	if err := dbq.Order("name").Limit(limit).Offset(offset).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *PartyService) ListSuppliers(search string, limit, offset int) ([]models.Supplier, error) {
	dbq := s.DB.Model(&models.Supplier{})
	if search != "" {
		dbq = dbq.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var suppliers []models.Supplier
	if err := dbq.Order("name").Limit(limit).Offset(offset).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *PartyService) UpdateCustomer(id uint, patch PartyPatch) (*models.Customer, error) {
	c, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	applyPartyPatch(patch, &c.Name, &c.Phone, &c.Email, &c.Address, &c.GSTNumber)
	if err := s.DB.Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PartyService) UpdateSupplier(id uint, patch PartyPatch) (*models.Supplier, error) {
	sp, err := s.GetSupplier(id)
	if err != nil {
		return nil, err
	}
	applyPartyPatch(patch, &sp.Name, &sp.Phone, &sp.Email, &sp.Address, &sp.GSTNumber)
	if err := s.DB.Save(sp).Error; err != nil {
		return nil, err
	}
	return sp, nil
}

func applyPartyPatch(patch PartyPatch, name, phone, email, address, gst *string) {
	if patch.Name != nil {
		*name = *patch.Name
	}
	if patch.Phone != nil {
		*phone = *patch.Phone
	}
	if patch.Email != nil {
		*email = *patch.Email
	}
	if patch.Address != nil {
		*address = *patch.Address
	}
	if patch.GSTNumber != nil {
		*gst = *patch.GSTNumber
	}
}
