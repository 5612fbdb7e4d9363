package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_dashboard/internal/energy"
	"energy_dashboard/internal/model"
)

func testRouter(t *testing.T) (http.Handler, *energy.Model) {
	t.Helper()

	noon := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	m := energy.NewModel(energy.Config{
		Now:  func() time.Time { return noon },
		Rand: rand.New(rand.NewSource(1)),
	})
	m.Generate()

	ws := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	return NewServer(m, nil).Router(ws, []string{"*"}), m
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router, _ := testRouter(t)
	rec := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Snapshot(t *testing.T) {
	router, m := testRouter(t)
	rec := get(t, router, "/api/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, m.CurrentData().Generation, snap.Generation)
	assert.Positive(t, snap.Generation.TotalKW)
}

func TestRouter_Households(t *testing.T) {
	router, _ := testRouter(t)
	rec := get(t, router, "/api/households")
	require.Equal(t, http.StatusOK, rec.Code)

	var households []model.Household
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &households))
	assert.Len(t, households, 2)
}

func TestRouter_Report(t *testing.T) {
	router, _ := testRouter(t)
	rec := get(t, router, "/api/report/24h")
	require.Equal(t, http.StatusOK, rec.Code)

	var report model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, model.Period24h, report.Period)
	assert.Len(t, report.Data.GenerationKW, 1)
}

func TestRouter_ReportUnknownPeriod(t *testing.T) {
	router, _ := testRouter(t)
	rec := get(t, router, "/api/report/yearly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ExportHeaders(t *testing.T) {
	router, _ := testRouter(t)
	rec := get(t, router, "/api/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	var exp model.Export
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	assert.Len(t, exp.Reports, 3)
}
