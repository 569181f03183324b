package catalog_test

import (
	"context"
	"testing"

	"antenna-scraper/core/database"
	"antenna-scraper/core/model"
	"antenna-scraper/core/txn"
	"antenna-scraper/feature/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staticProviders struct {
	providers []catalog.ProviderData
}

func (s *staticProviders) GetProviders(_ context.Context) ([]catalog.ProviderData, error) {
	return s.providers, nil
}

func allProviders() *staticProviders {
	return &staticProviders{providers: []catalog.ProviderData{
		{ID: model.ProviderKPN, Name: "KPN"},
		{ID: 2, Name: "Some MVNO"}, // not a macro network operator
		{ID: model.ProviderOdido, Name: "Odido"},
		{ID: model.ProviderVodafone, Name: "VodafoneZiggo"},
	}}
}

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

func TestSyncCatalogPopulatesEverything(t *testing.T) {
	db := setupStore(t)
	svc := catalog.NewService(txn.NewRunner(db, zap.NewNop()), allProviders(), zap.NewNop())

	res, err := svc.SyncCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Providers.Added)
	assert.Equal(t, int64(len(catalog.Bands())), res.Bands.Added)
	assert.Equal(t, int64(len(catalog.Carriers())), res.Carriers.Added)

	// The MVNO was filtered out
	var count int64
	require.NoError(t, db.Model(&model.Provider{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	// Carriers point at real provider and band rows
	var dangling int64
	require.NoError(t, db.Model(&model.Carrier{}).
		Where("provider_id NOT IN (?)", db.Model(&model.Provider{}).Select("id")).
		Count(&dangling).Error)
	assert.Zero(t, dangling)
}

func TestSyncCatalogIsIdempotent(t *testing.T) {
	db := setupStore(t)
	svc := catalog.NewService(txn.NewRunner(db, zap.NewNop()), allProviders(), zap.NewNop())

	_, err := svc.SyncCatalog(context.Background())
	require.NoError(t, err)

	res, err := svc.SyncCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Providers.Added+res.Providers.Updated+res.Providers.Deleted)
	assert.Equal(t, int64(0), res.Bands.Added+res.Bands.Updated+res.Bands.Deleted)
	assert.Equal(t, int64(0), res.Carriers.Added+res.Carriers.Updated+res.Carriers.Deleted)
}

func TestSyncCatalogFailsOnMissingProvider(t *testing.T) {
	db := setupStore(t)

	// Only KPN is reported, leaving Odido and Vodafone carriers dangling
	src := &staticProviders{providers: []catalog.ProviderData{
		{ID: model.ProviderKPN, Name: "KPN"},
	}}
	svc := catalog.NewService(txn.NewRunner(db, zap.NewNop()), src, zap.NewNop())

	_, err := svc.SyncCatalog(context.Background())
	require.Error(t, err)

	// The transaction rolled back: nothing was persisted
	var count int64
	require.NoError(t, db.Model(&model.Provider{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSyncCatalogSkipsNamelessProvider(t *testing.T) {
	db := setupStore(t)

	src := allProviders()
	src.providers[0].Name = ""
	svc := catalog.NewService(txn.NewRunner(db, zap.NewNop()), src, zap.NewNop())

	// KPN lost its name and is skipped, so its carriers dangle
	_, err := svc.SyncCatalog(context.Background())
	require.Error(t, err)
}
