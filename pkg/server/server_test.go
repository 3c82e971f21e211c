package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sumedhd1118/chargback-export/pkg/models/api"
	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/services/schedule"
)

type mockStatusProvider struct {
	mock.Mock
}

func (m *mockStatusProvider) Status() schedule.Status {
	args := m.Called()
	return args.Get(0).(schedule.Status)
}

func TestStatusServer_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	next := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	started := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		path           string
		status         schedule.Status
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:           "Health",
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, "ok", string(body))
			},
		},
		{
			name:           "ScheduleBeforeFirstRun",
			path:           "/api/v1/schedule",
			status:         schedule.Status{Spec: "0 10 1 * *", NextRun: next},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got api.ScheduleStatus
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, api.ScheduleStatus{Spec: "0 10 1 * *", NextRun: next}, got)
			},
		},
		{
			name: "ScheduleAfterFailedRun",
			path: "/api/v1/schedule",
			status: schedule.Status{
				Spec:    "0 10 1 * *",
				NextRun: next,
				LastRun: &schedule.RunRecord{
					Period:     domain.Period{Month: "2025-03"},
					StartedAt:  started,
					FinishedAt: started.Add(time.Second),
					Err:        errors.New("connection refused"),
				},
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got api.ScheduleStatus
				require.NoError(t, json.Unmarshal(body, &got))
				require.NotNil(t, got.LastRun)
				assert.Equal(t, "2025-03", got.LastRun.Period)
				assert.Equal(t, "connection refused", got.LastRun.Error)
				assert.Empty(t, got.LastRun.File)
			},
		},
		{
			name:           "UnknownRoute",
			path:           "/api/v1/export",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(mockStatusProvider)
			provider.On("Status").Return(tt.status).Maybe()

			router := ConfigureRouter(logger, Config{Dependencies: Dependencies{Schedule: provider}})
			ts := httptest.NewServer(router)
			defer ts.Close()

			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}
