package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

// ReportService runs read-only rollups over persisted bills and lines.
// Stored totals are trusted; nothing here recomputes or mutates.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

var saleBillTypes = []models.BillType{models.BillTypeSaleChallan, models.BillTypeGSTInvoice}

type PaymentBreakdown struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type TopSellingItem struct {
	ItemCode string          `json:"item_code"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

type DailySalesReport struct {
	Date            string                      `json:"date"`
	TotalBills      int                         `json:"total_bills"`
	TotalAmount     decimal.Decimal             `json:"total_amount"`
	TotalGST        decimal.Decimal             `json:"total_gst"`
	TotalDiscount   decimal.Decimal             `json:"total_discount"`
	NetAmount       decimal.Decimal             `json:"net_amount"`
	PaymentMethods  map[string]PaymentBreakdown `json:"payment_methods"`
	TopSellingItems []TopSellingItem            `json:"top_selling_items"`
}

func (s *ReportService) DailySales(day time.Time) (*DailySalesReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	var bills []models.Bill
	if err := s.DB.Where("bill_type IN ? AND created_at BETWEEN ? AND ?", saleBillTypes, start, end).
		Find(&bills).Error; err != nil {
		return nil, err
	}

	report := DailySalesReport{
		Date:           start.Format("2006-01-02"),
		TotalBills:     len(bills),
		PaymentMethods: map[string]PaymentBreakdown{},
	}
	for _, bill := range bills {
		report.TotalAmount = report.TotalAmount.Add(bill.TotalAmount)
		report.TotalGST = report.TotalGST.Add(bill.GSTAmount)
		report.TotalDiscount = report.TotalDiscount.Add(bill.DiscountAmount)
		report.NetAmount = report.NetAmount.Add(bill.NetAmount)

		method := bill.PaymentMethod
		if method == "" {
			method = "cash"
		}
		pb := report.PaymentMethods[method]
		pb.Count++
		pb.Amount = pb.Amount.Add(bill.NetAmount)
		report.PaymentMethods[method] = pb
	}

	// Per-item rollup reads the snapshot columns on the lines so renamed
	// catalog entries keep their historical identity.
	err := s.DB.Model(&models.BillLine{}).
		Select("bill_lines.item_code AS item_code, bill_lines.item_name AS name, "+
			"SUM(bill_lines.quantity) AS quantity, SUM(bill_lines.total_amount) AS amount").
		Joins("JOIN bills ON bills.id = bill_lines.bill_id").
		Where("bills.bill_type IN ? AND bills.created_at BETWEEN ? AND ?", saleBillTypes, start, end).
		Group("bill_lines.item_code, bill_lines.item_name").
		Order("SUM(bill_lines.total_amount) DESC").
		Limit(10).
		Scan(&report.TopSellingItems).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

type GSTRateRow struct {
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
}

type GSTSummary struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Rates        []GSTRateRow    `json:"rates"`
	TotalTaxable decimal.Decimal `json:"total_taxable"`
	TotalGST     decimal.Decimal `json:"total_gst"`
}

// GSTSummary groups line snapshots of tax invoices by GST rate. Challans
// and quotations carry no tax liability and are excluded.
func (s *ReportService) GSTSummary(from, to time.Time) (*GSTSummary, error) {
	var rows []GSTRateRow
	err := s.DB.Model(&models.BillLine{}).
		Select("bill_lines.gst_percentage AS gst_percentage, " +
			"SUM(bill_lines.total_amount - bill_lines.gst_amount) AS taxable_amount, " +
			"SUM(bill_lines.gst_amount) AS gst_amount").
		Joins("JOIN bills ON bills.id = bill_lines.bill_id").
		Where("bills.bill_type = ? AND bills.created_at BETWEEN ? AND ?", models.BillTypeGSTInvoice, from, to).
		Group("bill_lines.gst_percentage").
		Order("bill_lines.gst_percentage").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := GSTSummary{
		From:  from.Format("2006-01-02"),
		To:    to.Format("2006-01-02"),
		Rates: rows,
	}
	for _, row := range rows {
		summary.TotalTaxable = summary.TotalTaxable.Add(row.TaxableAmount)
		summary.TotalGST = summary.TotalGST.Add(row.GSTAmount)
	}
	return &summary, nil
}

type ItemSalesRow struct {
	ItemCode         string          `json:"item_code"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	QuantitySold     decimal.Decimal `json:"quantity_sold"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	GSTAmount        decimal.Decimal `json:"gst_amount"`
	TransactionCount int             `json:"transaction_count"`
}

func (s *ReportService) ItemWiseSales(from, to time.Time, category string) ([]ItemSalesRow, error) {
	dbq := s.DB.Model(&models.BillLine{}).
		Select("bill_lines.item_code AS item_code, bill_lines.item_name AS name, items.category AS category, "+
			"SUM(bill_lines.quantity) AS quantity_sold, "+
			"SUM(bill_lines.total_amount - bill_lines.gst_amount) AS total_amount, "+
			"SUM(bill_lines.gst_amount) AS gst_amount, "+
			"COUNT(bill_lines.id) AS transaction_count").
		Joins("JOIN bills ON bills.id = bill_lines.bill_id").
		Joins("JOIN items ON items.id = bill_lines.item_id").
		Where("bills.bill_type IN ? AND bills.created_at BETWEEN ? AND ?", saleBillTypes, from, to)
	if category != "" {
		dbq = dbq.Where("items.category = ?", category)
	}
	var rows []ItemSalesRow
	err := dbq.Group("bill_lines.item_code, bill_lines.item_name, items.category").
		Order("SUM(bill_lines.total_amount) DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
