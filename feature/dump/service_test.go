package dump_test

import (
	"context"
	"os"
	"testing"

	"antenna-scraper/core/database"
	"antenna-scraper/core/model"
	"antenna-scraper/core/storage/mocks"
	"antenna-scraper/core/txn"
	"antenna-scraper/feature/dump"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seededStore(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	provider := model.Provider{SyncEntity: model.SyncEntity{ExternalID: 1}, Name: "KPN"}
	require.NoError(t, db.Create(&provider).Error)

	band := model.Band{SyncEntity: model.SyncEntity{ExternalID: 2}, Name: "700MHz band 28"}
	require.NoError(t, db.Create(&band).Error)

	carrier := model.Carrier{
		SyncEntity:    model.SyncEntity{ExternalID: 694201},
		FrequencyLow:  768_000_000,
		FrequencyHigh: 778_000_000,
		ProviderID:    provider.ID,
		BandID:        band.ID,
	}
	require.NoError(t, db.Create(&carrier).Error)

	return db
}

func TestCreateDumpProducesReadableSQLite(t *testing.T) {
	db := seededStore(t)
	svc := dump.NewService(txn.NewRunner(db, zap.NewNop()), nil, "", dump.Config{}, zap.NewNop())

	path, err := svc.CreateDump(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	dumped, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   path,
	})
	require.NoError(t, err)

	var providers []model.Provider
	require.NoError(t, dumped.Find(&providers).Error)
	require.Len(t, providers, 1)
	assert.Equal(t, "KPN", providers[0].Name)

	var carriers []model.Carrier
	require.NoError(t, dumped.Find(&carriers).Error)
	require.Len(t, carriers, 1)
	assert.Equal(t, int64(694201), carriers[0].ExternalID)
	assert.Equal(t, providers[0].ID, carriers[0].ProviderID)
}

func TestPublishUploadsToBucket(t *testing.T) {
	db := seededStore(t)

	store := new(mocks.Client)
	store.On("BucketExists", mock.Anything, "antenna-dumps").Return(false, nil)
	store.On("MakeBucket", mock.Anything, "antenna-dumps", mock.Anything).Return(nil)
	store.On("PutObject", mock.Anything, "antenna-dumps", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := dump.NewService(txn.NewRunner(db, zap.NewNop()), store, "antenna-dumps", dump.Config{}, zap.NewNop())

	path, err := svc.CreateDump(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	object, err := svc.Publish(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, object, "antenna-dump-")

	store.AssertExpectations(t)
}

func TestPublishWithoutStorageFails(t *testing.T) {
	db := seededStore(t)
	svc := dump.NewService(txn.NewRunner(db, zap.NewNop()), nil, "", dump.Config{}, zap.NewNop())

	_, err := svc.Publish(context.Background(), "/tmp/nonexistent.sqlite")
	require.Error(t, err)
}
