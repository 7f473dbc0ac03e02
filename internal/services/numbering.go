package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

// Bill numbers follow {PREFIX}{YY}{SEQ:05d}, e.g. INV2600042. Sequences are
// per bill type per two-digit year and never recycle, even when a bill is
// later edited or voided.
var billPrefixes = map[models.BillType]string{
	models.BillTypeSaleChallan: "SC",
	models.BillTypeGSTInvoice:  "INV",
	models.BillTypeQuotation:   "QT",
	models.BillTypePurchase:    "PUR",
}

func billPrefix(t models.BillType) string {
	if p, ok := billPrefixes[t]; ok {
		return p
	}
	return "BILL"
}

// nextBillNumber computes the next number for (type, year) by reading the
// highest existing one. The lookup-then-increment is not atomic on its own:
// callers must run it inside the bill transaction and rely on the unique
// index on bill_number to catch a concurrent allocation, retrying the whole
// transaction on a duplicate-key error.
func nextBillNumber(tx *gorm.DB, billType models.BillType, now time.Time) (string, error) {
	prefix := billPrefix(billType) + now.Format("06")

	var last models.Bill
	err := tx.Where("bill_type = ? AND bill_number LIKE ?", billType, prefix+"%").
		Order("id desc").First(&last).Error
	seq := 1
	switch {
	case err == nil:
		tail := strings.TrimPrefix(last.BillNumber, prefix)
		n, perr := strconv.Atoi(tail)
		if perr != nil {
			return "", fmt.Errorf("parse bill number %q: %w", last.BillNumber, perr)
		}
		seq = n + 1
	case err == gorm.ErrRecordNotFound:
		// first bill of this type for the year
	default:
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, seq), nil
}
