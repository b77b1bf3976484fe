package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GateSentry/GateSentry/internal/common/clock"
	"github.com/GateSentry/GateSentry/internal/common/middleware"
	"github.com/GateSentry/GateSentry/internal/gatelog"
	"github.com/GateSentry/GateSentry/internal/registry"
)

func newTestServer(t *testing.T) (http.Handler, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+30*60)))

	registryService := registry.NewService(registry.NewMemoryRepo(), clk)
	gateService := gatelog.NewService(gatelog.NewMemoryRepo(), registryService, clk, nil, gatelog.DefaultConfig())

	breaker := middleware.NewCircuitBreaker("session-store", 5, 30*time.Second)
	h := NewHandler(gateService, registryService, breaker, nil)
	return NewRouter(h, nil, nil, "gate-service-test"), clk
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCheckEntryNormalizesPlate(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": "  ab12 "})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp entryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AB12", resp.PlateNumber)
	assert.False(t, resp.IsRegistered)
	assert.False(t, resp.IsSuspicious)
	assert.Equal(t, "UNREGISTERED VEHICLE", resp.Message)
	assert.Empty(t, resp.PastEntries)
}

func TestCheckEntryRegisteredVehicle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/vehicles", map[string]string{
		"plate_number": "ka01ab1234",
		"owner_name":   "Asha Rao",
		"vehicle_type": "Car",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": "KA01AB1234"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp entryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsRegistered)
	assert.Equal(t, "REGISTERED VEHICLE", resp.Message)
}

func TestCheckExitFlow(t *testing.T) {
	srv, clk := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": "AB12"})
	require.Equal(t, http.StatusOK, rec.Code)

	clk.Advance(25 * time.Minute)
	rec = doJSON(t, srv, http.MethodPost, "/api/check-exit", map[string]string{"plate_number": "AB12"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp exitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AB12", resp.PlateNumber)
	assert.InDelta(t, 25, resp.DurationMinutes, 0.001)
	assert.Equal(t, "25min", resp.DurationFormatted)
	assert.True(t, resp.IsSuspicious)
}

func TestCheckExitMetricTriggerLabels(t *testing.T) {
	srv, clk := newTestServer(t)
	durationCounter := suspiciousTotal.WithLabelValues("duration")

	// frequency-only suspicion: two quick visits, both exits well under
	// the stay threshold, must not count as a duration trigger
	doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": "AB12"})
	clk.Advance(2 * time.Minute)
	doJSON(t, srv, http.MethodPost, "/api/check-exit", map[string]string{"plate_number": "AB12"})
	clk.Advance(5 * time.Minute)
	doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": "AB12"})
	clk.Advance(2 * time.Minute)

	before := testutil.ToFloat64(durationCounter)
	rec := doJSON(t, srv, http.MethodPost, "/api/check-exit", map[string]string{"plate_number": "AB12"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp exitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsSuspicious)
	assert.Equal(t, before, testutil.ToFloat64(durationCounter))

	// an overlong stay does count
	doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": "CD34"})
	clk.Advance(25 * time.Minute)
	rec = doJSON(t, srv, http.MethodPost, "/api/check-exit", map[string]string{"plate_number": "CD34"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(durationCounter))
}

func TestCheckExitWithoutEntry(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/check-exit", map[string]string{"plate_number": "GHOST1"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No active entry found for this vehicle", resp.Detail)
}

func TestCreateVehicleDuplicate(t *testing.T) {
	srv, _ := newTestServer(t)
	body := map[string]string{"plate_number": "KA01AB1234", "owner_name": "Asha Rao"}

	rec := doJSON(t, srv, http.MethodPost, "/api/vehicles", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/vehicles", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteVehicleNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/vehicles/GHOST1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	srv, clk := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": "AB12"})
	clk.Advance(5 * time.Minute)
	doJSON(t, srv, http.MethodPost, "/api/check-exit", map[string]string{"plate_number": "AB12"})

	rec := doJSON(t, srv, http.MethodGet, "/api/history/ab12", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PlateNumber string                   `json:"plate_number"`
		Entries     []gatelog.SessionSummary `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AB12", resp.PlateNumber)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "5min", resp.Entries[0].DurationFormatted)
}

func TestLogsLimit(t *testing.T) {
	srv, clk := newTestServer(t)

	for _, p := range []string{"AB12", "CD34", "EF56"} {
		doJSON(t, srv, http.MethodPost, "/api/check-entry", map[string]string{"plate_number": p})
		clk.Advance(time.Minute)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/logs?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var logs []gatelog.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	assert.Len(t, logs, 2)
}

func TestLogsInvalidLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/logs?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
