package services

import (
	"testing"
	"time"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

func TestDailySalesReport(t *testing.T) {
	dbi := setupDB(t)
	billing := newBillingService(dbi)
	reports := NewReportService(dbi)
	seedMilk(t, dbi)
	supplier := seedSupplier(t, dbi, "Ration Traders")

	// Two sales, one by card, plus a purchase and a quotation that must not
	// count as sales.
	if _, err := billing.CreateBill(BillInput{
		BillType: models.BillTypeGSTInvoice,
		Lines:    []BillLineInput{{ItemCode: "MLK001", Quantity: dec("2")}},
	}, 1); err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if _, err := billing.CreateBill(BillInput{
		BillType:      models.BillTypeSaleChallan,
		PaymentMethod: "card",
		Lines:         []BillLineInput{{ItemCode: "MLK001", Quantity: dec("4")}},
	}, 1); err != nil {
		t.Fatalf("challan: %v", err)
	}
	if _, err := billing.CreateBill(BillInput{
		BillType:   models.BillTypePurchase,
		SupplierID: &supplier.ID,
		Lines:      []BillLineInput{{ItemCode: "MLK001", Quantity: dec("50")}},
	}, 1); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := billing.CreateBill(BillInput{
		BillType: models.BillTypeQuotation,
		Lines:    []BillLineInput{{ItemCode: "MLK001", Quantity: dec("10")}},
	}, 1); err != nil {
		t.Fatalf("quotation: %v", err)
	}

	report, err := reports.DailySales(time.Now())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalBills != 2 {
		t.Errorf("bills = %d, want 2 (sales only)", report.TotalBills)
	}
	// 2x25 + 4x25 = 150 pretax, 7.5 gst
	if !report.TotalAmount.Equal(dec("150")) {
		t.Errorf("total = %s, want 150", report.TotalAmount)
	}
	if !report.TotalGST.Equal(dec("7.5")) {
		t.Errorf("gst = %s, want 7.5", report.TotalGST)
	}
	if !report.NetAmount.Equal(dec("157.5")) {
		t.Errorf("net = %s, want 157.5", report.NetAmount)
	}

	cash := report.PaymentMethods["cash"]
	card := report.PaymentMethods["card"]
	if cash.Count != 1 || !cash.Amount.Equal(dec("52.5")) {
		t.Errorf("cash = %+v", cash)
	}
	if card.Count != 1 || !card.Amount.Equal(dec("105")) {
		t.Errorf("card = %+v", card)
	}

	if len(report.TopSellingItems) != 1 {
		t.Fatalf("top items = %d, want 1", len(report.TopSellingItems))
	}
	top := report.TopSellingItems[0]
	if top.ItemCode != "MLK001" {
		t.Errorf("top item = %s", top.ItemCode)
	}
	if !top.Quantity.Equal(dec("6")) {
		t.Errorf("top quantity = %s, want 6", top.Quantity)
	}
}

func TestDailySalesEmptyDay(t *testing.T) {
	dbi := setupDB(t)
	reports := NewReportService(dbi)
	report, err := reports.DailySales(time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalBills != 0 || !report.TotalAmount.IsZero() {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestGSTSummaryReport(t *testing.T) {
	dbi := setupDB(t)
	billing := newBillingService(dbi)
	reports := NewReportService(dbi)
	seedMilk(t, dbi)
	soap := models.Item{
		ItemCode: "SOP001", Name: "Bath Soap", Category: "Toiletries",
		SellingPrice: dec("35"), GSTPercentage: dec("18"), CurrentStock: dec("50"), IsActive: true,
	}
	if err := dbi.Create(&soap).Error; err != nil {
		t.Fatalf("seed soap: %v", err)
	}

	if _, err := billing.CreateBill(BillInput{
		BillType: models.BillTypeGSTInvoice,
		Lines: []BillLineInput{
			{ItemCode: "MLK001", Quantity: dec("2")},
			{ItemCode: "SOP001", Quantity: dec("1")},
		},
	}, 1); err != nil {
		t.Fatalf("invoice: %v", err)
	}
	// Challans carry no tax liability and must stay out of the summary.
	if _, err := billing.CreateBill(BillInput{
		BillType: models.BillTypeSaleChallan,
		Lines:    []BillLineInput{{ItemCode: "MLK001", Quantity: dec("10")}},
	}, 1); err != nil {
		t.Fatalf("challan: %v", err)
	}

	from := time.Now().AddDate(0, 0, -1)
	to := time.Now().AddDate(0, 0, 1)
	summary, err := reports.GSTSummary(from, to)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Rates) != 2 {
		t.Fatalf("rates = %d, want 2", len(summary.Rates))
	}
	// Ordered by rate: 5% milk, then 18% soap.
	if !summary.Rates[0].GSTPercentage.Equal(dec("5")) ||
		!summary.Rates[0].TaxableAmount.Equal(dec("50")) ||
		!summary.Rates[0].GSTAmount.Equal(dec("2.5")) {
		t.Errorf("5%% row = %+v", summary.Rates[0])
	}
	if !summary.Rates[1].GSTPercentage.Equal(dec("18")) ||
		!summary.Rates[1].TaxableAmount.Equal(dec("35")) ||
		!summary.Rates[1].GSTAmount.Equal(dec("6.3")) {
		t.Errorf("18%% row = %+v", summary.Rates[1])
	}
	if !summary.TotalTaxable.Equal(dec("85")) {
		t.Errorf("taxable = %s, want 85", summary.TotalTaxable)
	}
	if !summary.TotalGST.Equal(dec("8.8")) {
		t.Errorf("gst = %s, want 8.8", summary.TotalGST)
	}
}

func TestItemWiseSales(t *testing.T) {
	dbi := setupDB(t)
	billing := newBillingService(dbi)
	reports := NewReportService(dbi)
	seedMilk(t, dbi)
	soap := models.Item{
		ItemCode: "SOP001", Name: "Bath Soap", Category: "Toiletries",
		SellingPrice: dec("35"), GSTPercentage: dec("18"), CurrentStock: dec("50"), IsActive: true,
	}
	if err := dbi.Create(&soap).Error; err != nil {
		t.Fatalf("seed soap: %v", err)
	}

	if _, err := billing.CreateBill(BillInput{
		BillType: models.BillTypeGSTInvoice,
		Lines: []BillLineInput{
			{ItemCode: "MLK001", Quantity: dec("2")},
			{ItemCode: "SOP001", Quantity: dec("1")},
		},
	}, 1); err != nil {
		t.Fatalf("bill: %v", err)
	}

	from := time.Now().AddDate(0, 0, -1)
	to := time.Now().AddDate(0, 0, 1)
	rows, err := reports.ItemWiseSales(from, to, "")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	dairyOnly, err := reports.ItemWiseSales(from, to, "Dairy")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(dairyOnly) != 1 || dairyOnly[0].ItemCode != "MLK001" {
		t.Fatalf("dairy rows = %+v", dairyOnly)
	}
	if !dairyOnly[0].QuantitySold.Equal(dec("2")) {
		t.Errorf("quantity = %s, want 2", dairyOnly[0].QuantitySold)
	}
	if !dairyOnly[0].TotalAmount.Equal(dec("50")) {
		t.Errorf("pretax = %s, want 50", dairyOnly[0].TotalAmount)
	}
	if !dairyOnly[0].GSTAmount.Equal(dec("2.5")) {
		t.Errorf("gst = %s, want 2.5", dairyOnly[0].GSTAmount)
	}
	if dairyOnly[0].TransactionCount != 1 {
		t.Errorf("transactions = %d, want 1", dairyOnly[0].TransactionCount)
	}
}
