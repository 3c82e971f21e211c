package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/runtime/report"
	"github.com/sumedhd1118/chargback-export/pkg/store/chargeback"
)

// Renderer persists aggregate rows and returns the written file path.
type Renderer interface {
	Render(ctx context.Context, rows []domain.AggregateRow, period domain.Period) (string, error)
}

// Exporter runs one export cycle: aggregate, then render.
type Exporter interface {
	Run(ctx context.Context, period domain.Period) (domain.ExportSummary, error)
}

type exporter struct {
	store    chargeback.Store
	renderer Renderer
	now      func() time.Time
}

func NewExporter(store chargeback.Store, renderer Renderer) (Exporter, error) {
	if store == nil {
		return nil, fmt.Errorf("chargeback store is nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("report renderer is nil")
	}
	return &exporter{
		store:    store,
		renderer: renderer,
		now:      time.Now,
	}, nil
}

func (e *exporter) Run(ctx context.Context, period domain.Period) (domain.ExportSummary, error) {
	logger := zerolog.Ctx(ctx).With().Str("period", period.Label()).Logger()
	ctx = logger.WithContext(ctx)

	summary := domain.ExportSummary{Period: period, StartedAt: e.now()}
	logger.Info().Msg("exporting chargebacks")

	rows, err := e.store.ComputeChargebacks(ctx, period)
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute chargebacks")
		return summary, err
	}

	path, err := e.renderer.Render(ctx, rows, period)
	if err != nil {
		logger.Error().Err(err).Msg("failed to render chargeback report")
		return summary, err
	}

	doc := report.NewDocument(rows)
	summary.Rows = len(rows)
	summary.ChargebackCount = doc.Total.ChargebackCount
	summary.TotalAmount = doc.Total.TotalAmount
	summary.FilePath = path
	summary.FinishedAt = e.now()

	logger.Info().
		Str("file", path).
		Int("rows", summary.Rows).
		Int64("cb_count", summary.ChargebackCount).
		Float64("total_amount", summary.TotalAmount).
		Dur("duration", summary.Duration()).
		Msg("chargeback report exported")

	return summary, nil
}

type timeoutExporter struct {
	next    Exporter
	timeout time.Duration
}

// WithTimeout bounds every run of next by timeout.
func WithTimeout(next Exporter, timeout time.Duration) Exporter {
	if timeout <= 0 {
		return next
	}
	return &timeoutExporter{next: next, timeout: timeout}
}

func (t *timeoutExporter) Run(ctx context.Context, period domain.Period) (domain.ExportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Run(ctx, period)
}
