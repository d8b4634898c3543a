package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGetPortfolio(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	path := filepath.Join(t.TempDir(), "portfolio.csv")
	csvData := "Symbol,Quantity,Price Paid $,Last Price $,Day's Gain $,Total Gain $,Total Gain %,Value $\n" +
		"AAPL,100,150.00,185.92,152.00,3592.00,23.9,18592.00\n" +
		"\"MSFT Feb 14 '25 $400 Put\",1,14.00,11.00,-50.00,-300.00,-20.0,1100.00\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))

	handler := NewHandler(portfolio.NewService(path, logger), logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	req := httptest.NewRequest("GET", "/portfolio", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	stocks := response["stocks"].(map[string]interface{})
	assert.EqualValues(t, 100, stocks["AAPL"])

	options := response["options"].([]interface{})
	require.Len(t, options, 1)
	first := options[0].(map[string]interface{})
	assert.Equal(t, "MSFT Feb 14 '25 $400 Put", first["symbol"])
	assert.Equal(t, "MSFT", first["underlying_symbol"])
}

func TestHandleGetPortfolioNoData(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(portfolio.NewService(filepath.Join(t.TempDir(), "nope.csv"), logger), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	req := httptest.NewRequest("GET", "/portfolio", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
