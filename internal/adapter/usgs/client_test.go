package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/env-context-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func series(code string, values ...string) string {
	readings := ""
	for i, v := range values {
		if i > 0 {
			readings += ","
		}
		readings += fmt.Sprintf(`{"value":%q,"dateTime":"2025-10-01T12:%02d:00.000-04:00"}`, v, i*15)
	}
	return fmt.Sprintf(`{"variable":{"variableCode":[{"value":%q}]},"values":[{"value":[%s]}]}`, code, readings)
}

func usgsServer(t *testing.T, timeSeries ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "01101500", q.Get("sites"))
		assert.Equal(t, "00060,00065", q.Get("parameterCd"))
		assert.Equal(t, "json", q.Get("format"))

		body := `{"value":{"timeSeries":[`
		for i, ts := range timeSeries {
			if i > 0 {
				body += ","
			}
			body += ts
		}
		body += `]}}`
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(body))
	}))
}

func TestRiver_LatestReadings(t *testing.T) {
	srv := usgsServer(t,
		series(paramDischarge, "80", "85.5"),
		series(paramGaugeHeight, "3.1", "3.12"),
	)
	defer srv.Close()

	r, err := testClient(srv.URL).River(context.Background())
	require.NoError(t, err)

	require.NotNil(t, r.FlowCFS)
	assert.Equal(t, 85.5, *r.FlowCFS)
	require.NotNil(t, r.WaterLevelFt)
	assert.Equal(t, 3.12, *r.WaterLevelFt)
	assert.Equal(t, domain.RiverNormal, r.Status)
	assert.Equal(t, domain.RiverGaugeName, r.Gauge)
}

func TestRiver_SentinelIgnored(t *testing.T) {
	srv := usgsServer(t,
		series(paramDischarge, "12", "-999999"),
		series(paramGaugeHeight, "2.5"),
	)
	defer srv.Close()

	r, err := testClient(srv.URL).River(context.Background())
	require.NoError(t, err)
	assert.Nil(t, r.FlowCFS)
	assert.Equal(t, domain.RiverUnknown, r.Status)
	require.NotNil(t, r.WaterLevelFt)
	assert.Equal(t, 2.5, *r.WaterLevelFt)
}

func TestRiver_NoReadings(t *testing.T) {
	srv := usgsServer(t, series(paramDischarge), series(paramGaugeHeight, "-999999"))
	defer srv.Close()

	_, err := testClient(srv.URL).River(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestRiver_EmptyTimeSeries(t *testing.T) {
	srv := usgsServer(t)
	defer srv.Close()

	_, err := testClient(srv.URL).River(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestRiver_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).River(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usgs API error: status 502")
}
