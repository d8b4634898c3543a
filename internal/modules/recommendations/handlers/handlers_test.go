package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/recommendations"
	"github.com/aristath/optionsentry/internal/modules/scoring"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, csvData string) chi.Router {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	path := filepath.Join(t.TempDir(), "portfolio.csv")
	if csvData != "" {
		require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))
	}

	analyzer := recommendations.NewAnalyzer(
		portfolio.NewService(path, logger),
		scoring.NewEngine(logger),
		logger,
	)
	handler := NewHandler(analyzer, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

const testCSV = "Symbol,Quantity,Price Paid $,Last Price $,Day's Gain $,Total Gain $,Total Gain %,Value $\n" +
	"AAPL,100,150.00,185.92,152.00,3592.00,23.9,18592.00\n" +
	"\"NVDA Jun 20 '26 $900 Call\",-2,10.00,3.00,30.00,1400.00,70.0,-600.00\n"

func TestHandleGetReport(t *testing.T) {
	router := newTestRouter(t, testCSV)

	req := httptest.NewRequest("GET", "/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Contains(t, response, "totals")
	assert.Contains(t, response, "categories")
	assert.EqualValues(t, 1, response["option_count"])

	categories := response["categories"].(map[string]interface{})
	assert.Contains(t, categories, "profit_taking_opportunities")
	assert.Contains(t, categories, "all_positions_by_priority")
}

func TestHandleGetReportNoData(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest("GET", "/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "no portfolio data", response["error"])
}

func TestHandleGetView(t *testing.T) {
	router := newTestRouter(t, testCSV)

	tests := []struct {
		name           string
		view           string
		expectedStatus int
		expectedLen    int
	}{
		{name: "profit taking", view: "profit_taking_opportunities", expectedStatus: http.StatusOK, expectedLen: 1},
		{name: "urgent losses empty", view: "urgent_losses", expectedStatus: http.StatusOK, expectedLen: 0},
		{name: "all by priority", view: "all_positions_by_priority", expectedStatus: http.StatusOK, expectedLen: 1},
		{name: "unknown view", view: "bogus", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/recommendations/"+tt.view, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.view, response["view"])

			positions, _ := response["positions"].([]interface{})
			assert.Len(t, positions, tt.expectedLen)
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t, testCSV)
	assert.NotEmpty(t, router.Routes(), "Routes should be registered")
}
