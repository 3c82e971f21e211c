package domain

import "time"

// AggregateRow is one (merchant, sub-merchant) group of chargebacks
type AggregateRow struct {
	MerchantID      string
	SubMerchantID   string
	ChargebackCount int64
	TotalAmount     float64
}

// ExportSummary describes the outcome of one export run
type ExportSummary struct {
	Period          Period
	Rows            int
	ChargebackCount int64
	TotalAmount     float64
	FilePath        string
	StartedAt       time.Time
	FinishedAt      time.Time
}

func (s ExportSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
