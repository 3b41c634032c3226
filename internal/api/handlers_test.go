package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"godiv/app"
	"godiv/domain/core"
	"godiv/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryStore is an in-memory ports.FitStore for handler tests.
type memoryStore struct {
	mu      sync.Mutex
	reports map[core.FitID]*app.Report
	order   []core.FitID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{reports: make(map[core.FitID]*app.Report)}
}

func (m *memoryStore) SaveReport(_ context.Context, r *app.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.reports[r.ID] = r
	return nil
}

func (m *memoryStore) GetReport(_ context.Context, id core.FitID) (*app.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, fmt.Errorf("report %s not found", id)
	}
	return r, nil
}

func (m *memoryStore) ListReports(_ context.Context, limit int) ([]*app.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*app.Report, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.reports[m.order[i]])
	}
	return out, nil
}

func testRouter(store ports.FitStore) *gin.Engine {
	return NewServer(app.NewDiversityService(nil), store, nil).Router()
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRarefy(t *testing.T) {
	w := postJSON(t, testRouter(nil), "/api/rarefy", gin.H{"counts": []int{10, 1, 1, 1, 1}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Abundance   int       `json:"abundance"`
		Richness    int       `json:"richness"`
		Coverage    float64   `json:"coverage"`
		Rarefaction []float64 `json:"rarefaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 14, resp.Abundance)
	assert.Equal(t, 5, resp.Richness)
	assert.InDelta(t, 10.0/14.0, resp.Coverage, 1e-9)
	require.Len(t, resp.Rarefaction, 14)
	assert.InDelta(t, 1.0, resp.Rarefaction[0], 1e-9)
	assert.InDelta(t, 5.0, resp.Rarefaction[13], 1e-9)
}

func TestHandleRarefy_InvalidCounts(t *testing.T) {
	w := postJSON(t, testRouter(nil), "/api/rarefy", gin.H{"counts": []int{0, 0}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"invalid_input"`)
}

func TestHandleRarefy_MissingBody(t *testing.T) {
	w := postJSON(t, testRouter(nil), "/api/rarefy", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFitSSM(t *testing.T) {
	w := postJSON(t, testRouter(nil), "/api/fit/ssm", gin.H{
		"counts":  []int{10, 5, 4, 3, 2, 1, 1, 1},
		"variant": "DP",
		"samples": 50,
		"seed":    7,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Variant         string    `json:"variant"`
		Alpha           float64   `json:"alpha"`
		Sigma           float64   `json:"sigma"`
		CoverageMean    float64   `json:"coverage_mean"`
		CoverageSamples []float64 `json:"coverage_samples"`
		GiniSamples     []float64 `json:"gini_samples"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DP", resp.Variant)
	assert.Greater(t, resp.Alpha, 0.0)
	assert.Zero(t, resp.Sigma)
	assert.Greater(t, resp.CoverageMean, 0.0)
	assert.Len(t, resp.CoverageSamples, 50)
	assert.Len(t, resp.GiniSamples, 50)
}

func TestHandleFitSSM_UnknownVariant(t *testing.T) {
	w := postJSON(t, testRouter(nil), "/api/fit/ssm", gin.H{
		"counts":  []int{3, 2, 1},
		"variant": "GEM",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unsupported_model"`)
}

func TestHandleFitSDM(t *testing.T) {
	w := postJSON(t, testRouter(nil), "/api/fit/sdm", gin.H{
		"counts": []int{10, 8, 5, 4, 3, 2, 2, 1, 1, 1},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Variant       string    `json:"variant"`
		Theta         []float64 `json:"theta"`
		AsymptoteMean float64   `json:"asymptote_mean"`
		Saturation    float64   `json:"saturation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LL3", resp.Variant)
	assert.Len(t, resp.Theta, 3)
	assert.GreaterOrEqual(t, resp.AsymptoteMean, 10.0)
	assert.Greater(t, resp.Saturation, 0.0)
	assert.LessOrEqual(t, resp.Saturation, 1.0)
}

func TestHandleAnalyze_PersistsAndReads(t *testing.T) {
	store := newMemoryStore()
	router := testRouter(store)

	w := postJSON(t, router, "/api/analyze", gin.H{
		"counts": []int{10, 8, 5, 4, 3, 2, 2, 1, 1, 1},
		"label":  "survey",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var report app.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "survey", report.Label)
	require.NotEmpty(t, report.ID.String())

	get := httptest.NewRequest(http.MethodGet, "/api/reports/"+report.ID.String(), nil)
	gw := httptest.NewRecorder()
	router.ServeHTTP(gw, get)
	require.Equal(t, http.StatusOK, gw.Code)
	assert.Contains(t, gw.Body.String(), "survey")

	list := httptest.NewRequest(http.MethodGet, "/api/reports?limit=5", nil)
	lw := httptest.NewRecorder()
	router.ServeHTTP(lw, list)
	require.Equal(t, http.StatusOK, lw.Code)
	assert.Contains(t, lw.Body.String(), `"count":1`)
}

func TestReportRoutesDisabledWithoutStore(t *testing.T) {
	router := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
