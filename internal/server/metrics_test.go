package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordRoutesAndAuthFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	h := NewHandler(Options{Store: NewMemoryStore(), AdminToken: testToken, Metrics: m})

	do(t, h, "GET", "/status", "", false)
	do(t, h, "GET", "/status/", "", false)
	do(t, h, "POST", "/status", `{}`, false)
	do(t, h, "GET", "/nope", "", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("status.list", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("status.upsert", "POST", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("not_found", "GET", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailures.WithLabelValues("status.upsert")))
}

func TestMetricsHandlerExposesText(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	h := NewHandler(Options{Store: NewMemoryStore(), AdminToken: testToken, Metrics: m})
	do(t, h, "GET", "/logs", "", false)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `activity_http_requests_total{code="200",method="GET",route="logs.list"} 1`), text)
	assert.Contains(t, text, "activity_http_request_duration_seconds_bucket")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe("info", "GET", 200, 0)
		m.authFailure("info")
	})
}
