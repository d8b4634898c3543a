package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/recommendations"
	"github.com/aristath/optionsentry/internal/modules/scoring"
	"github.com/aristath/optionsentry/internal/modules/snapshots"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRouter(t *testing.T, csvData string) chi.Router {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := snapshots.NewRepository(db, logger)
	require.NoError(t, repo.InitSchema())

	path := filepath.Join(t.TempDir(), "portfolio.csv")
	if csvData != "" {
		require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))
	}

	analyzer := recommendations.NewAnalyzer(
		portfolio.NewService(path, logger),
		scoring.NewEngine(logger),
		logger,
	)
	handler := NewHandler(snapshots.NewService(analyzer, repo, 10, logger), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

const testCSV = "Symbol,Quantity,Price Paid $,Last Price $,Day's Gain $,Total Gain $,Total Gain %,Value $\n" +
	"AAPL,100,150.00,185.92,152.00,3592.00,23.9,18592.00\n" +
	"\"NVDA Jun 20 '26 $900 Call\",-2,10.00,3.00,30.00,1400.00,70.0,-600.00\n"

func TestCaptureListGet(t *testing.T) {
	router := newTestRouter(t, testCSV)

	// Capture
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/snapshots", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["uuid"]
	require.NotEmpty(t, id)

	// List
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/snapshots", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.EqualValues(t, 1, list["count"])

	// Get
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/snapshots/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, id, snapshot["uuid"])
	assert.EqualValues(t, 1, snapshot["option_count"])
	assert.Contains(t, snapshot, "report")
}

func TestCaptureNoData(t *testing.T) {
	router := newTestRouter(t, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/snapshots", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUnknownSnapshot(t *testing.T) {
	router := newTestRouter(t, testCSV)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/snapshots/bogus", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBadLimit(t *testing.T) {
	router := newTestRouter(t, testCSV)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/snapshots?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
