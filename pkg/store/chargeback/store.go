package chargeback

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/store/warehouse"
)

const (
	merchantColumn    = "MID"
	subMerchantColumn = "SID"
	amountColumn      = "Adjamount"
	timestampColumn   = "TxnDate"
)

// Store aggregates chargeback transactions per merchant and sub-merchant
type Store interface {
	ComputeChargebacks(ctx context.Context, period domain.Period) ([]domain.AggregateRow, error)
}

type chargebackStore struct {
	db      *sql.DB
	dialect warehouse.Dialect
	table   string
}

func NewStore(wh *warehouse.Warehouse) (Store, error) {
	if wh == nil || wh.DB == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if err := warehouse.ValidateIdentifier(wh.Table); err != nil {
		return nil, err
	}
	return &chargebackStore{
		db:      wh.DB,
		dialect: wh.Dialect,
		table:   wh.Table,
	}, nil
}

// BuildQuery renders the aggregation query for a period. Period values are
// returned as bound arguments and never spliced into the query text.
func BuildQuery(dialect warehouse.Dialect, table string, period domain.Period) (string, []interface{}, error) {
	if err := period.Validate(); err != nil {
		return "", nil, err
	}
	if err := warehouse.ValidateIdentifier(table); err != nil {
		return "", nil, err
	}

	var (
		filter string
		args   []interface{}
	)
	if period.IsMonth() {
		filter = dialect.YearMonth(timestampColumn) + " = ?"
		args = []interface{}{period.Month}
	} else {
		if _, _, err := period.Range(); err != nil {
			return "", nil, domain.NewConfigurationError(period.Label(), err.Error())
		}
		// Bounds are bound as YYYY-MM-DD and cast by the engine, so no timezone is attached.
		filter = dialect.Date(timestampColumn) + " BETWEEN " + dialect.Date("?") + " AND " + dialect.Date("?")
		args = []interface{}{period.StartDate, period.EndDate}
	}

	query := strings.Join([]string{
		"SELECT",
		"\t" + dialect.String(merchantColumn) + " AS MID,",
		"\t" + dialect.String(subMerchantColumn) + " AS SID,",
		"\t" + dialect.Count + " AS CB_COUNT,",
		"\tSUM(" + dialect.Float(amountColumn) + ") AS total_amount",
		"FROM " + table,
		"WHERE " + filter,
		"GROUP BY " + merchantColumn + ", " + subMerchantColumn,
		"ORDER BY total_amount DESC",
	}, "\n")

	return query, args, nil
}

func (s *chargebackStore) ComputeChargebacks(ctx context.Context, period domain.Period) ([]domain.AggregateRow, error) {
	logger := zerolog.Ctx(ctx).With().Str("period", period.Label()).Logger()

	query, args, err := BuildQuery(s.dialect, s.table, period)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("query", query).Interface("args", args).Msg("executing chargeback aggregation")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewDataSourceError(period.Label(), "chargeback query failed", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close chargeback query rows")
		}
	}(rows)

	records := make([]domain.AggregateRow, 0)
	for rows.Next() {
		var (
			mid, sid string
			count    int64
			amount   sql.NullFloat64
		)
		if err := rows.Scan(&mid, &sid, &count, &amount); err != nil {
			return nil, domain.NewDataSourceError(period.Label(), "scan chargeback row", err)
		}

		logger.Debug().
			Str("mid", mid).
			Str("sid", sid).
			Int64("cb_count", count).
			Float64("total_amount", amount.Float64).
			Msg("chargeback group")

		records = append(records, domain.AggregateRow{
			MerchantID:      mid,
			SubMerchantID:   sid,
			ChargebackCount: count,
			TotalAmount:     amount.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewDataSourceError(period.Label(), "iterate chargeback rows", err)
	}

	logger.Info().Int("rows", len(records)).Msg("chargeback aggregation complete")
	return records, nil
}
