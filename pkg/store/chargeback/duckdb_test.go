package chargeback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/store/warehouse"
)

type transaction struct {
	mid    string
	sid    string
	amount float64
	at     time.Time
}

func setupDuckDBStore(t *testing.T, txns []transaction) Store {
	wh, err := warehouse.Open(context.Background(), warehouse.Settings{
		Driver: warehouse.DriverDuckDB,
		Table:  "CHARGEBACK_NEW",
		DuckDB: warehouse.DuckDBSettings{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		wh.Close()
	})
	wh.DB.SetMaxOpenConns(1)

	for _, txn := range txns {
		_, err := wh.DB.Exec(
			`INSERT INTO CHARGEBACK_NEW (MID, SID, Adjamount, TxnDate) VALUES (?, ?, ?, ?)`,
			txn.mid, txn.sid, txn.amount, txn.at,
		)
		require.NoError(t, err)
	}

	s, err := NewStore(wh)
	require.NoError(t, err)
	return s
}

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestDuckDB_ComputeChargebacks(t *testing.T) {
	s := setupDuckDBStore(t, []transaction{
		{"A", "1", 100.00, at(2025, 3, 1, 0)},
		{"A", "1", 30.00, at(2025, 3, 15, 12)},
		{"A", "1", 20.00, at(2025, 3, 31, 23)},
		{"B", "2", 50.00, at(2025, 3, 10, 9)},
		{"A", "2", 75.25, at(2025, 3, 11, 9)},
		{"A", "1", 999.00, at(2025, 2, 28, 23)},
		{"B", "2", 999.00, at(2025, 4, 1, 0)},
	})
	ctx := context.Background()

	t.Run("month groups and orders by amount", func(t *testing.T) {
		rows, err := s.ComputeChargebacks(ctx, domain.Period{Month: "2025-03"})

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, domain.AggregateRow{MerchantID: "A", SubMerchantID: "1", ChargebackCount: 3, TotalAmount: 150.0}, rows[0])
		assert.Equal(t, domain.AggregateRow{MerchantID: "A", SubMerchantID: "2", ChargebackCount: 1, TotalAmount: 75.25}, rows[1])
		assert.Equal(t, domain.AggregateRow{MerchantID: "B", SubMerchantID: "2", ChargebackCount: 1, TotalAmount: 50.0}, rows[2])
	})

	t.Run("range is inclusive of both days", func(t *testing.T) {
		rows, err := s.ComputeChargebacks(ctx, domain.Period{StartDate: "2025-03-15", EndDate: "2025-03-31"})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "A", rows[0].MerchantID)
		assert.Equal(t, int64(2), rows[0].ChargebackCount)
		assert.InDelta(t, 50.0, rows[0].TotalAmount, 1e-9)
	})

	t.Run("range spanning months", func(t *testing.T) {
		rows, err := s.ComputeChargebacks(ctx, domain.Period{StartDate: "2025-02-28", EndDate: "2025-04-01"})

		require.NoError(t, err)
		var count int64
		var amount float64
		for _, r := range rows {
			count += r.ChargebackCount
			amount += r.TotalAmount
		}
		assert.Equal(t, int64(7), count)
		assert.InDelta(t, 2273.25, amount, 1e-9)
	})

	t.Run("empty month", func(t *testing.T) {
		rows, err := s.ComputeChargebacks(ctx, domain.Period{Month: "2024-01"})

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
