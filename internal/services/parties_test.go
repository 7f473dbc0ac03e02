package services

import (
	"errors"
	"testing"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

func newPartyService(t *testing.T) *PartyService {
	t.Helper()
	dbi := setupDB(t)
	return NewPartyService(dbi, NewLedgerService(dbi))
}

func TestCreateCustomerOpensLedger(t *testing.T) {
	svc := newPartyService(t)
	customer, err := svc.CreateCustomer(PartyInput{Name: "Sharma General", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if customer.LedgerID == 0 {
		t.Fatal("customer has no ledger")
	}
	var ledger models.Ledger
	if err := svc.DB.First(&ledger, customer.LedgerID).Error; err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if ledger.Name != "Customer - Sharma General" {
		t.Errorf("ledger name = %q", ledger.Name)
	}
	if ledger.Type != models.LedgerCustomer {
		t.Errorf("ledger type = %s", ledger.Type)
	}
}

func TestCreateSupplierOpensLedger(t *testing.T) {
	svc := newPartyService(t)
	supplier, err := svc.CreateSupplier(PartyInput{Name: "Ration Traders"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var ledger models.Ledger
	if err := svc.DB.First(&ledger, supplier.LedgerID).Error; err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if ledger.Name != "Supplier - Ration Traders" || ledger.Type != models.LedgerSupplier {
		t.Errorf("ledger = %q/%s", ledger.Name, ledger.Type)
	}
}

func TestCreatePartyValidation(t *testing.T) {
	svc := newPartyService(t)
	cases := []PartyInput{
		{},
		{Name: "Sharma", Email: "not-an-email"},
	}
	for _, in := range cases {
		if _, err := svc.CreateCustomer(in); err == nil {
			t.Errorf("accepted %+v", in)
		}
	}
	// A rejected create must not leave an orphan ledger behind.
	var count int64
	svc.DB.Model(&models.Ledger{}).Count(&count)
	if count != 0 {
		t.Errorf("ledgers = %d, want 0", count)
	}
}

func TestUpdateCustomerPatch(t *testing.T) {
	svc := newPartyService(t)
	customer, err := svc.CreateCustomer(PartyInput{Name: "Sharma General", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	phone := "9000000000"
	updated, err := svc.UpdateCustomer(customer.ID, PartyPatch{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone {
		t.Errorf("phone = %s", updated.Phone)
	}
	if updated.Name != "Sharma General" {
		t.Errorf("name clobbered: %s", updated.Name)
	}
	if _, err := svc.UpdateCustomer(9999, PartyPatch{Phone: &phone}); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestListCustomersSearch(t *testing.T) {
	svc := newPartyService(t)
	for _, name := range []string{"Sharma General", "Gupta Stores", "Sharma Dairy"} {
		if _, err := svc.CreateCustomer(PartyInput{Name: name}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	matches, err := svc.ListCustomers("sharma", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("matches = %d, want 2", len(matches))
	}
	all, err := svc.ListCustomers("", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all = %d, want 3", len(all))
	}
}

func TestGetSupplierNotFound(t *testing.T) {
	svc := newPartyService(t)
	if _, err := svc.GetSupplier(42); !errors.Is(err, ErrSupplierNotFound) {
		t.Errorf("err = %v, want ErrSupplierNotFound", err)
	}
}
