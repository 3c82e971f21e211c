package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		start     string
		end       string
		wantLabel string
		wantErr   bool
	}{
		{name: "month", month: "2025-03", wantLabel: "2025-03"},
		{name: "range", start: "2025-01-01", end: "2025-01-31", wantLabel: "2025-01-01_to_2025-01-31"},
		{name: "single day range", start: "2025-01-15", end: "2025-01-15", wantLabel: "2025-01-15_to_2025-01-15"},
		{name: "nothing", wantErr: true},
		{name: "start only", start: "2025-01-01", wantErr: true},
		{name: "end only", end: "2025-01-31", wantErr: true},
		{name: "month and range", month: "2025-03", start: "2025-01-01", end: "2025-01-31", wantErr: true},
		{name: "bad month", month: "2025-13", wantErr: true},
		{name: "injected month", month: "2025-03' OR 1=1 --", wantErr: true},
		{name: "bad start", start: "01/01/2025", end: "2025-01-31", wantErr: true},
		{name: "bad end", start: "2025-01-01", end: "2025-02-30", wantErr: true},
		{name: "reversed range", start: "2025-02-01", end: "2025-01-31", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePeriod(tt.month, tt.start, tt.end)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigurationError(err), "expected ConfigurationError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, p.Label())
		})
	}
}

func TestResolvePeriod_EmptyMessage(t *testing.T) {
	_, err := ResolvePeriod("", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide either month OR startDate & endDate")
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), "2025-03"},
		{time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), "2024-12"},
		{time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC), "2025-02"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-02"},
	}

	for _, tt := range tests {
		t.Run(tt.now.Format(time.RFC3339), func(t *testing.T) {
			p := PreviousMonth(tt.now)
			assert.True(t, p.IsMonth())
			assert.Equal(t, tt.want, p.Month)
		})
	}
}

func TestPeriod_Range(t *testing.T) {
	p := Period{StartDate: "2025-01-01", EndDate: "2025-01-31"}

	start, end, err := p.Range()

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), end)

	_, _, err = Period{Month: "2025-01"}.Range()
	assert.Error(t, err)
}

func TestErrors_Unwrap(t *testing.T) {
	cause := assert.AnError

	ds := NewDataSourceError("2025-03", "query chargebacks", cause)
	assert.ErrorIs(t, ds, cause)
	assert.True(t, IsDataSourceError(ds))
	assert.False(t, IsWriteError(ds))
	assert.Contains(t, ds.Error(), "2025-03")

	we := NewWriteError("2025-03", "/tmp/x.xlsx", cause)
	assert.ErrorIs(t, we, cause)
	assert.True(t, IsWriteError(we))
	assert.Contains(t, we.Error(), "/tmp/x.xlsx")
}
