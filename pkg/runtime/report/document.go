package report

import (
	"fmt"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
)

const GrandTotalLabel = "Grand Total"

var Headers = []string{"Merchant ID", "Sub-Merchant ID", "Chargeback Count", "Total Amount"}

// Document is the tabular content of one chargeback report: the data rows in
// query order followed by a blank separator and the grand total.
type Document struct {
	Rows  []domain.AggregateRow
	Total domain.AggregateRow
}

// NewDocument sums counts and amounts across rows independently of the store's
// aggregation. Amounts are added as float64 in row order, so the total carries
// ordinary binary float rounding.
func NewDocument(rows []domain.AggregateRow) Document {
	var (
		count  int64
		amount float64
	)
	for _, r := range rows {
		count += r.ChargebackCount
		amount += r.TotalAmount
	}

	return Document{
		Rows: rows,
		Total: domain.AggregateRow{
			MerchantID:      GrandTotalLabel,
			SubMerchantID:   "",
			ChargebackCount: count,
			TotalAmount:     amount,
		},
	}
}

// Records lays the document out row by row. The separator row is nil.
func (d Document) Records() [][]interface{} {
	records := make([][]interface{}, 0, len(d.Rows)+3)

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	records = append(records, header)

	for _, r := range d.Rows {
		records = append(records, record(r))
	}
	records = append(records, nil)
	records = append(records, record(d.Total))

	return records
}

func record(r domain.AggregateRow) []interface{} {
	return []interface{}{r.MerchantID, r.SubMerchantID, r.ChargebackCount, r.TotalAmount}
}

// FileName derives the report file name from the period.
func FileName(period domain.Period) string {
	return fmt.Sprintf("Chargeback_%s.xlsx", period.Label())
}
