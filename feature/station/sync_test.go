package station_test

import (
	"context"
	"testing"

	"antenna-scraper/core/database"
	"antenna-scraper/core/model"
	"antenna-scraper/core/txn"
	"antenna-scraper/feature/register"
	"antenna-scraper/feature/station"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedCatalog inserts the three providers, one band and the 700 MHz carriers.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	providers := []model.Provider{
		{SyncEntity: model.SyncEntity{ExternalID: model.ProviderKPN}, Name: "KPN"},
		{SyncEntity: model.SyncEntity{ExternalID: model.ProviderOdido}, Name: "Odido"},
		{SyncEntity: model.SyncEntity{ExternalID: model.ProviderVodafone}, Name: "VodafoneZiggo"},
	}
	require.NoError(t, db.Create(&providers).Error)

	band := model.Band{SyncEntity: model.SyncEntity{ExternalID: 2}, Name: "700MHz band 28"}
	require.NoError(t, db.Create(&band).Error)

	byExternal := make(map[int64]int, len(providers))
	for _, p := range providers {
		byExternal[p.ExternalID] = p.ID
	}

	carriers := []model.Carrier{
		{SyncEntity: model.SyncEntity{ExternalID: 694200}, FrequencyLow: 758_000_000, FrequencyHigh: 768_000_000, ProviderID: byExternal[model.ProviderVodafone], BandID: band.ID},
		{SyncEntity: model.SyncEntity{ExternalID: 694201}, FrequencyLow: 768_000_000, FrequencyHigh: 778_000_000, ProviderID: byExternal[model.ProviderKPN], BandID: band.ID},
		{SyncEntity: model.SyncEntity{ExternalID: 694202}, FrequencyLow: 778_000_000, FrequencyHigh: 788_000_000, ProviderID: byExternal[model.ProviderOdido], BandID: band.ID},
	}
	require.NoError(t, db.Create(&carriers).Error)
}

func TestSyncBaseStationsPersistsResolvableStation(t *testing.T) {
	db := setupStore(t)
	seedCatalog(t, db)
	svc := station.NewService(txn.NewRunner(db, zap.NewNop()), zap.NewNop())

	stations := []register.BaseStation{
		{ID: 1, AntennaIDs: []int64{101, 102}, Longitude: 4.89, Latitude: 52.37, City: "Amsterdam"},
	}
	antennas := map[int64][]register.Antenna{
		1: {
			{ID: 101, Frequency: "773 MHz", Height: 30},
			{ID: 102, Frequency: "9999 MHz", Height: 25},
		},
	}

	res, err := svc.SyncBaseStations(context.Background(), stations, antennas)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.BaseStations.Added)
	assert.Equal(t, int64(1), res.Antennas.Added)

	var stored model.BaseStation
	require.NoError(t, db.Preload("Antennas").Where("external_id = ?", int64(1)).First(&stored).Error)
	assert.Equal(t, "Amsterdam", stored.City)

	// Only the antenna with a matching carrier survived
	require.Len(t, stored.Antennas, 1)
	assert.Equal(t, int64(101), stored.Antennas[0].ExternalID)
	assert.Equal(t, int64(773_000_000), stored.Antennas[0].Frequency)
	assert.Equal(t, stored.ID, stored.Antennas[0].BaseStationID)
	assert.NotZero(t, stored.Antennas[0].CarrierID)
}

func TestSyncBaseStationsSkipsAmbiguousStation(t *testing.T) {
	db := setupStore(t)
	seedCatalog(t, db)
	svc := station.NewService(txn.NewRunner(db, zap.NewNop()), zap.NewNop())

	stations := []register.BaseStation{
		{ID: 1, AntennaIDs: []int64{101}},
		{ID: 2, AntennaIDs: []int64{201, 202}},
	}
	antennas := map[int64][]register.Antenna{
		1: {{ID: 101, Frequency: "773 MHz"}},
		// KPN and Odido on one station, no shared-infrastructure pattern
		2: {
			{ID: 201, Frequency: "773 MHz"},
			{ID: 202, Frequency: "783 MHz"},
		},
	}

	res, err := svc.SyncBaseStations(context.Background(), stations, antennas)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.BaseStations.Added)

	var count int64
	require.NoError(t, db.Model(&model.BaseStation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSyncBaseStationsSkipsStationWithoutAntennas(t *testing.T) {
	db := setupStore(t)
	seedCatalog(t, db)
	svc := station.NewService(txn.NewRunner(db, zap.NewNop()), zap.NewNop())

	res, err := svc.SyncBaseStations(context.Background(),
		[]register.BaseStation{{ID: 1}}, nil)
	require.NoError(t, err)

	assert.Zero(t, res.BaseStations.Added)
}

func TestSyncBaseStationsDeletesVanishedStations(t *testing.T) {
	db := setupStore(t)
	seedCatalog(t, db)
	svc := station.NewService(txn.NewRunner(db, zap.NewNop()), zap.NewNop())

	stations := []register.BaseStation{
		{ID: 1, AntennaIDs: []int64{101}},
		{ID: 2, AntennaIDs: []int64{201}},
	}
	antennas := map[int64][]register.Antenna{
		1: {{ID: 101, Frequency: "773 MHz"}},
		2: {{ID: 201, Frequency: "783 MHz"}},
	}
	_, err := svc.SyncBaseStations(context.Background(), stations, antennas)
	require.NoError(t, err)

	res, err := svc.SyncBaseStations(context.Background(),
		stations[:1], map[int64][]register.Antenna{1: antennas[1]})
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.BaseStations.Deleted)
	assert.Equal(t, int64(1), res.Antennas.Deleted)

	var count int64
	require.NoError(t, db.Model(&model.BaseStation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSyncBaseStationsFailsWithoutCarriers(t *testing.T) {
	db := setupStore(t)
	svc := station.NewService(txn.NewRunner(db, zap.NewNop()), zap.NewNop())

	_, err := svc.SyncBaseStations(context.Background(),
		[]register.BaseStation{{ID: 1, AntennaIDs: []int64{101}}},
		map[int64][]register.Antenna{1: {{ID: 101, Frequency: "773 MHz"}}})

	require.Error(t, err)
	assert.ErrorIs(t, err, station.ErrNoCarriers)
}

func TestSyncBaseStationsUpdatesChangedStation(t *testing.T) {
	db := setupStore(t)
	seedCatalog(t, db)
	svc := station.NewService(txn.NewRunner(db, zap.NewNop()), zap.NewNop())

	stations := []register.BaseStation{{ID: 1, AntennaIDs: []int64{101}, City: "Utrecht"}}
	antennas := map[int64][]register.Antenna{1: {{ID: 101, Frequency: "773 MHz"}}}

	_, err := svc.SyncBaseStations(context.Background(), stations, antennas)
	require.NoError(t, err)

	stations[0].City = "Amersfoort"
	res, err := svc.SyncBaseStations(context.Background(), stations, antennas)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.BaseStations.Updated)
	assert.Zero(t, res.Antennas.Updated)

	var stored model.BaseStation
	require.NoError(t, db.Where("external_id = ?", int64(1)).First(&stored).Error)
	assert.Equal(t, "Amersfoort", stored.City)
	assert.Equal(t, uint(1), stored.RowVersion)
}
