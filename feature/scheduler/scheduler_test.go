package scheduler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"antenna-scraper/core/database"
	"antenna-scraper/core/model"
	"antenna-scraper/core/txn"
	"antenna-scraper/feature/catalog"
	"antenna-scraper/feature/register"
	"antenna-scraper/feature/scheduler"
	"antenna-scraper/feature/station"
	"antenna-scraper/feature/synclog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staticProviders struct{}

func (staticProviders) GetProviders(_ context.Context) ([]catalog.ProviderData, error) {
	return []catalog.ProviderData{
		{ID: model.ProviderKPN, Name: "KPN"},
		{ID: model.ProviderOdido, Name: "Odido"},
		{ID: model.ProviderVodafone, Name: "VodafoneZiggo"},
	}, nil
}

const registerStations = `{
  "type": "FeatureCollection",
  "features": [
    {
      "geometry": {"type": "Point", "coordinates": [4.89, 52.37]},
      "properties": {"ID": 1, "ANT_IDS": "101", "WOONPLAATSNAAM": "Amsterdam"}
    }
  ]
}`

const registerAntennas = `{
  "type": "FeatureCollection",
  "features": [
    {
      "geometry": {"type": "Point", "coordinates": [4.89, 52.37]},
      "properties": {"ID": 101, "FREQUENTIE": "773 MHz", "HOOGTE": 30}
    }
  ]
}`

func newCycle(t *testing.T, registerBroken bool) (*scheduler.Cycle, *gorm.DB) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if registerBroken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.URL.Query().Get("typeName") {
		case "Antennes":
			fmt.Fprint(w, registerStations)
		case "Antennes_Groepen":
			fmt.Fprint(w, registerAntennas)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := zap.NewNop()
	runner := txn.NewRunner(db, log)

	cycle := scheduler.NewCycle(
		catalog.NewService(runner, staticProviders{}, log),
		register.NewClient(register.Config{BaseURL: srv.URL, PageSize: 100, TimeoutSeconds: 5}, log),
		station.NewService(runner, log),
		synclog.NewService(runner, log),
		log,
	)
	return cycle, db
}

func TestCycleRunsEndToEnd(t *testing.T) {
	cycle, db := newCycle(t, false)

	require.NoError(t, cycle.Run(context.Background()))

	var stationCount, antennaCount int64
	require.NoError(t, db.Model(&model.BaseStation{}).Count(&stationCount).Error)
	require.NoError(t, db.Model(&model.Antenna{}).Count(&antennaCount).Error)
	assert.Equal(t, int64(1), stationCount)
	assert.Equal(t, int64(1), antennaCount)

	// The station resolved to KPN via the 768-778 MHz carrier
	var stored model.BaseStation
	require.NoError(t, db.Preload("Provider").First(&stored).Error)
	require.NotNil(t, stored.Provider)
	assert.Equal(t, model.ProviderKPN, stored.Provider.ExternalID)

	var logs []model.SyncLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].IsSuccessful)
}

func TestCycleRecordsFailure(t *testing.T) {
	cycle, db := newCycle(t, true)

	require.Error(t, cycle.Run(context.Background()))

	var logs []model.SyncLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].IsSuccessful)
}
