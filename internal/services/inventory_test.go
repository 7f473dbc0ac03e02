package services

import (
	"errors"
	"testing"
	"time"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

func newInventoryService(t *testing.T) *InventoryService {
	t.Helper()
	dbi := setupDB(t)
	return NewInventoryService(dbi, testLogger())
}

func TestCreateItemValidation(t *testing.T) {
	svc := newInventoryService(t)

	cases := []struct {
		name string
		in   ItemInput
	}{
		{"missing code", ItemInput{Name: "Milk", SellingPrice: dec("25")}},
		{"missing name", ItemInput{ItemCode: "MLK001", SellingPrice: dec("25")}},
		{"negative price", ItemInput{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("-1")}},
		{"negative stock", ItemInput{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25"), CurrentStock: dec("-5")}},
		{"selling above mrp", ItemInput{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("30"), MRP: dec("26")}},
		{"gst out of range", ItemInput{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25"), GSTPercentage: dec("101")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateItem(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateItemDuplicateCode(t *testing.T) {
	svc := newInventoryService(t)
	in := ItemInput{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25")}
	if _, err := svc.CreateItem(in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateItem(in); !errors.Is(err, ErrItemCodeExists) {
		t.Fatalf("err = %v, want ErrItemCodeExists", err)
	}
}

func TestUpdateItemPatch(t *testing.T) {
	svc := newInventoryService(t)
	item, err := svc.CreateItem(ItemInput{
		ItemCode: "MLK001", Name: "Milk", Category: "Dairy",
		SellingPrice: dec("25"), MRP: dec("26"), CurrentStock: dec("10"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := dec("24.5")
	updated, err := svc.UpdateItem(item.ID, ItemPatch{SellingPrice: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.SellingPrice.Equal(dec("24.5")) {
		t.Errorf("price = %s, want 24.5", updated.SellingPrice)
	}
	// Untouched fields survive the patch.
	if updated.Name != "Milk" || updated.Category != "Dairy" {
		t.Errorf("patch clobbered other fields: %+v", updated)
	}
	if !updated.CurrentStock.Equal(dec("10")) {
		t.Errorf("stock changed by patch: %s", updated.CurrentStock)
	}

	bad := dec("-3")
	if _, err := svc.UpdateItem(item.ID, ItemPatch{SellingPrice: &bad}); err == nil {
		t.Error("negative price accepted")
	}
	if _, err := svc.UpdateItem(9999, ItemPatch{SellingPrice: &newPrice}); err == nil {
		t.Error("update of missing item succeeded")
	}
}

func TestDeactivateItem(t *testing.T) {
	svc := newInventoryService(t)
	item, err := svc.CreateItem(ItemInput{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeactivateItem(item.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	reloaded, err := svc.GetItem(item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.IsActive {
		t.Error("item still active")
	}
	var notFound *ItemNotFoundError
	if err := svc.DeactivateItem(9999); !errors.As(err, &notFound) {
		t.Errorf("err = %v, want ItemNotFoundError", err)
	}
}

func TestAdjustStockGuards(t *testing.T) {
	svc := newInventoryService(t)
	item, err := svc.CreateItem(ItemInput{
		ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25"), CurrentStock: dec("5"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.AdjustStock(item.ID, dec("-3"), "Damage")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !updated.CurrentStock.Equal(dec("2")) {
		t.Errorf("stock = %s, want 2", updated.CurrentStock)
	}

	_, err = svc.AdjustStock(item.ID, dec("-3"), "Damage")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if !stockErr.Available.Equal(dec("2")) {
		t.Errorf("available = %s, want 2", stockErr.Available)
	}

	// The failed adjustment must not leave a movement behind.
	var count int64
	svc.DB.Model(&models.StockMovement{}).Count(&count)
	if count != 1 {
		t.Errorf("movements = %d, want 1", count)
	}

	// Restock takes it back up and quantities keep three decimals.
	updated, err = svc.AdjustStock(item.ID, dec("0.125"), "Loose sale return")
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if !updated.CurrentStock.Equal(dec("2.125")) {
		t.Errorf("stock = %s, want 2.125", updated.CurrentStock)
	}
}

func TestSearchItemsOrdering(t *testing.T) {
	svc := newInventoryService(t)
	seed := []ItemInput{
		{ItemCode: "MLK", Name: "Zebra Milk Drink", SellingPrice: dec("30"), CurrentStock: dec("5")},
		{ItemCode: "CHO001", Name: "Milk Chocolate", SellingPrice: dec("40"), CurrentStock: dec("5")},
		{ItemCode: "BIS001", Name: "Milk Biscuit", Barcode: "MLK", SellingPrice: dec("10"), CurrentStock: dec("5")},
	}
	for _, in := range seed {
		if _, err := svc.CreateItem(in); err != nil {
			t.Fatalf("seed %s: %v", in.ItemCode, err)
		}
	}

	items, err := svc.SearchItems("MLK", "", false, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("results = %d, want 3", len(items))
	}
	// Exact code first, exact barcode second, then by name.
	if items[0].ItemCode != "MLK" {
		t.Errorf("first = %s, want exact code match MLK", items[0].ItemCode)
	}
	if items[1].ItemCode != "BIS001" {
		t.Errorf("second = %s, want barcode match BIS001", items[1].ItemCode)
	}
	if items[2].ItemCode != "CHO001" {
		t.Errorf("third = %s, want CHO001", items[2].ItemCode)
	}
}

func TestSearchItemsCaseInsensitive(t *testing.T) {
	svc := newInventoryService(t)
	if _, err := svc.CreateItem(ItemInput{ItemCode: "MLK001", Name: "Amul Milk", SellingPrice: dec("25")}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	items, err := svc.SearchItems("amul", "", false, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("results = %d, want 1", len(items))
	}
}

func TestSearchItemsExcludesInactive(t *testing.T) {
	svc := newInventoryService(t)
	item, err := svc.CreateItem(ItemInput{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25")})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.DeactivateItem(item.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	items, err := svc.SearchItems("MLK", "", false, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("results = %d, want 0", len(items))
	}
}

func TestStockValuation(t *testing.T) {
	svc := newInventoryService(t)
	seed := []ItemInput{
		{ItemCode: "MLK001", Name: "Milk", PurchasePrice: dec("22"), SellingPrice: dec("25"), CurrentStock: dec("100")},
		{ItemCode: "RIC001", Name: "Rice", PurchasePrice: dec("50"), SellingPrice: dec("60"), CurrentStock: dec("10")},
	}
	for _, in := range seed {
		if _, err := svc.CreateItem(in); err != nil {
			t.Fatalf("seed %s: %v", in.ItemCode, err)
		}
	}

	v, err := svc.GetStockValuation()
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	if v.TotalItems != 2 {
		t.Errorf("items = %d, want 2", v.TotalItems)
	}
	// 100x22 + 10x50 = 2700 purchase; 100x25 + 10x60 = 3100 selling
	if !v.TotalPurchaseValue.Equal(dec("2700")) {
		t.Errorf("purchase value = %s, want 2700", v.TotalPurchaseValue)
	}
	if !v.TotalSellingValue.Equal(dec("3100")) {
		t.Errorf("selling value = %s, want 3100", v.TotalSellingValue)
	}
	if !v.PotentialProfit.Equal(dec("400")) {
		t.Errorf("profit = %s, want 400", v.PotentialProfit)
	}
}

func TestLowStockAlerts(t *testing.T) {
	svc := newInventoryService(t)
	seed := []ItemInput{
		{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25"), CurrentStock: dec("5"), MinStockAlert: dec("10")},
		{ItemCode: "RIC001", Name: "Rice", SellingPrice: dec("60"), CurrentStock: dec("50"), MinStockAlert: dec("10")},
	}
	for _, in := range seed {
		if _, err := svc.CreateItem(in); err != nil {
			t.Fatalf("seed %s: %v", in.ItemCode, err)
		}
	}
	items, err := svc.LowStockAlerts()
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(items) != 1 || items[0].ItemCode != "MLK001" {
		t.Fatalf("alerts = %+v, want just MLK001", items)
	}
}

func TestExpiryWindow(t *testing.T) {
	svc := newInventoryService(t)
	now := time.Now()
	// Just past local midnight, so the window starts on the local day.
	earlyToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 1, 0, 0, now.Location())
	inWindow := now.AddDate(0, 0, 7)
	outside := now.AddDate(0, 0, 45)
	past := now.AddDate(0, 0, -1)
	seed := []ItemInput{
		{ItemCode: "BRD001", Name: "Bread", SellingPrice: dec("40"), ExpiryDate: &earlyToday},
		{ItemCode: "MLK001", Name: "Milk", SellingPrice: dec("25"), ExpiryDate: &inWindow},
		{ItemCode: "RIC001", Name: "Rice", SellingPrice: dec("60"), ExpiryDate: &outside},
		{ItemCode: "CUR001", Name: "Curd", SellingPrice: dec("20"), ExpiryDate: &past},
		{ItemCode: "SOP001", Name: "Soap", SellingPrice: dec("35")},
	}
	for _, in := range seed {
		if _, err := svc.CreateItem(in); err != nil {
			t.Fatalf("seed %s: %v", in.ItemCode, err)
		}
	}
	items, err := svc.ExpiringWithin(30)
	if err != nil {
		t.Fatalf("expiring: %v", err)
	}
	if len(items) != 2 || items[0].ItemCode != "BRD001" || items[1].ItemCode != "MLK001" {
		t.Fatalf("expiring = %+v, want BRD001 then MLK001", items)
	}
}

func TestListItemsFilters(t *testing.T) {
	svc := newInventoryService(t)
	seed := []ItemInput{
		{ItemCode: "MLK001", Name: "Milk", Category: "Dairy", SellingPrice: dec("25"), CurrentStock: dec("5")},
		{ItemCode: "CUR001", Name: "Curd", Category: "Dairy", SellingPrice: dec("20")},
		{ItemCode: "SOP001", Name: "Soap", Category: "Toiletries", SellingPrice: dec("35"), CurrentStock: dec("8")},
	}
	for _, in := range seed {
		if _, err := svc.CreateItem(in); err != nil {
			t.Fatalf("seed %s: %v", in.ItemCode, err)
		}
	}

	dairy, err := svc.ListItems("Dairy", false, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dairy) != 2 {
		t.Errorf("dairy = %d, want 2", len(dairy))
	}
	inStock, err := svc.ListItems("Dairy", true, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(inStock) != 1 || inStock[0].ItemCode != "MLK001" {
		t.Errorf("in stock = %+v, want just MLK001", inStock)
	}

	cats, err := svc.Categories()
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Dairy" || cats[1] != "Toiletries" {
		t.Errorf("categories = %v", cats)
	}
}

func TestQuantityRounding(t *testing.T) {
	svc := newInventoryService(t)
	item, err := svc.CreateItem(ItemInput{
		ItemCode: "RIC001", Name: "Loose Rice", SellingPrice: dec("60"),
		CurrentStock: dec("10.1234"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.CurrentStock.Equal(dec("10.123")) {
		t.Errorf("stock = %s, want rounded to 10.123", item.CurrentStock)
	}
}
