package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/scoring"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) FindEvent(title string, date time.Time) (string, error) {
	args := m.Called(title, date)
	return args.String(0), args.Error(1)
}

func (m *mockClient) CreateEvent(event *Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *mockClient) UpdateEvent(eventID string, event *Event) error {
	args := m.Called(eventID, event)
	return args.Error(0)
}

const syncCSV = "Symbol,Quantity,Price Paid $,Last Price $,Day's Gain $,Total Gain $,Total Gain %,Value $\n" +
	"\"MSFT Feb 14 '25 $400 Put\",1,14.00,11.00,-50.00,-300.00,-20.0,1100.00\n" +
	"\"NVDA Jun 20 '25 $900 Call\",-2,10.00,3.00,30.00,1400.00,70.0,-600.00\n"

func newSyncService(t *testing.T, client Client, csvData string) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	if csvData != "" {
		require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))
	}

	logger := zerolog.Nop()
	return NewService(portfolio.NewService(path, logger), scoring.NewEngine(logger), client, logger)
}

func TestSyncCreateAll(t *testing.T) {
	client := new(mockClient)
	client.On("FindEvent", mock.Anything, mock.Anything).Return("", nil)
	client.On("CreateEvent", mock.Anything).Return(nil)

	service := newSyncService(t, client, syncCSV)
	result, err := service.Sync(Options{CreateAll: true}, time.Date(2025, time.February, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)
	client.AssertNumberOfCalls(t, "CreateEvent", 2)
}

func TestSyncCreateAllSkipsExisting(t *testing.T) {
	client := new(mockClient)
	client.On("FindEvent", "\U0001F4CA MSFT $400 Put expires (Long)", mock.Anything).Return("evt-1", nil)
	client.On("FindEvent", "\U0001F4CA NVDA $900 Call expires (Short)", mock.Anything).Return("", nil)
	client.On("CreateEvent", mock.Anything).Return(nil)

	service := newSyncService(t, client, syncCSV)
	result, err := service.Sync(Options{CreateAll: true}, time.Date(2025, time.February, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	client.AssertNumberOfCalls(t, "CreateEvent", 1)
}

func TestSyncUpdateAll(t *testing.T) {
	client := new(mockClient)
	client.On("FindEvent", mock.Anything, mock.Anything).Return("evt-1", nil)
	client.On("UpdateEvent", "evt-1", mock.Anything).Return(nil)

	service := newSyncService(t, client, syncCSV)
	result, err := service.Sync(Options{UpdateAll: true}, time.Date(2025, time.February, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	client.AssertNumberOfCalls(t, "UpdateEvent", 2)
}

func TestSyncUpdateAllSkipsMissing(t *testing.T) {
	client := new(mockClient)
	client.On("FindEvent", mock.Anything, mock.Anything).Return("", nil)

	service := newSyncService(t, client, syncCSV)
	result, err := service.Sync(Options{UpdateAll: true}, time.Date(2025, time.February, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 2, result.Skipped)
}

func TestSyncDryRunTouchesNothing(t *testing.T) {
	client := new(mockClient)

	service := newSyncService(t, client, syncCSV)
	result, err := service.Sync(Options{CreateAll: true, DryRun: true}, time.Date(2025, time.February, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	client.AssertNotCalled(t, "FindEvent", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CreateEvent", mock.Anything)
}

func TestSyncLookupFailureSkips(t *testing.T) {
	client := new(mockClient)
	client.On("FindEvent", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	service := newSyncService(t, client, syncCSV)
	result, err := service.Sync(Options{CreateAll: true}, time.Date(2025, time.February, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
}

func TestSyncRequiresMode(t *testing.T) {
	service := newSyncService(t, new(mockClient), syncCSV)

	_, err := service.Sync(Options{}, time.Now())
	assert.Error(t, err)
}

func TestSyncMissingPortfolio(t *testing.T) {
	service := newSyncService(t, new(mockClient), "")

	_, err := service.Sync(Options{CreateAll: true}, time.Now())
	assert.ErrorIs(t, err, portfolio.ErrNoData)
}
