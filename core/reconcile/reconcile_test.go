package reconcile_test

import (
	"testing"

	"antenna-scraper/core/database"
	"antenna-scraper/core/model"
	"antenna-scraper/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Provider{}))
	return db
}

func provider(externalID int64, name string) *model.Provider {
	return &model.Provider{
		SyncEntity: model.SyncEntity{ExternalID: externalID},
		Name:       name,
	}
}

func nameColumn() []reconcile.Column[*model.Provider] {
	return []reconcile.Column[*model.Provider]{
		{Name: "name", Value: func(p *model.Provider) any { return p.Name }},
	}
}

func TestSyncInsertsNewEntities(t *testing.T) {
	db := setupDB(t)

	incoming := []*model.Provider{
		provider(1, "KPN"),
		provider(3, "Odido"),
		provider(4, "VodafoneZiggo"),
	}
	res, err := reconcile.Sync[model.Provider](db, incoming, nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Added)
	assert.Equal(t, int64(0), res.Updated)
	assert.Equal(t, int64(0), res.Deleted)

	var count int64
	require.NoError(t, db.Model(&model.Provider{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	// Inserted entities received their internal ids
	for _, p := range incoming {
		assert.NotZero(t, p.ID)
	}
}

func TestSyncUpdatesOnlyChangedEntities(t *testing.T) {
	db := setupDB(t)

	_, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "KPN"), provider(3, "Odido")},
		nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	res, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "KPN"), provider(3, "T-Mobile")},
		nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Added)
	assert.Equal(t, int64(1), res.Updated)
	assert.Equal(t, int64(0), res.Deleted)

	var stored model.Provider
	require.NoError(t, db.Where("external_id = ?", int64(3)).First(&stored).Error)
	assert.Equal(t, "T-Mobile", stored.Name)
	assert.Equal(t, uint(1), stored.RowVersion)

	// The untouched row keeps its original stamp. A fresh destination struct
	// avoids GORM reusing stored's primary key as an extra query condition.
	var untouched model.Provider
	require.NoError(t, db.Where("external_id = ?", int64(1)).First(&untouched).Error)
	assert.Equal(t, uint(0), untouched.RowVersion)
}

func TestSyncIsIdempotent(t *testing.T) {
	db := setupDB(t)

	incoming := []*model.Provider{provider(1, "KPN")}
	_, err := reconcile.Sync[model.Provider](db, incoming, nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	res, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "KPN")}, nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, reconcile.Result{}, res)
}

func TestSyncDeletesStaleEntities(t *testing.T) {
	db := setupDB(t)

	_, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "KPN"), provider(3, "Odido"), provider(4, "VodafoneZiggo")},
		nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	res, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(3, "Odido")}, nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Deleted)

	var remaining []model.Provider
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(3), remaining[0].ExternalID)
}

func TestSyncEmptySnapshotDeletesEverything(t *testing.T) {
	db := setupDB(t)

	_, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "KPN"), provider(3, "Odido")},
		nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	res, err := reconcile.Sync[model.Provider](db, nil, nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Deleted)

	var count int64
	require.NoError(t, db.Model(&model.Provider{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSyncKeepsFirstDuplicate(t *testing.T) {
	db := setupDB(t)

	res, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "first"), provider(1, "second")},
		nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Added)

	var stored model.Provider
	require.NoError(t, db.Where("external_id = ?", int64(1)).First(&stored).Error)
	assert.Equal(t, "first", stored.Name)
}

func TestSyncWithoutColumnsNeverRewrites(t *testing.T) {
	db := setupDB(t)

	_, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "KPN")}, nil, nil, zap.NewNop())
	require.NoError(t, err)

	incoming := provider(1, "renamed")
	res, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{incoming}, nil, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Updated)
	// The existing identity is still adopted
	assert.NotZero(t, incoming.ID)

	var stored model.Provider
	require.NoError(t, db.Where("external_id = ?", int64(1)).First(&stored).Error)
	assert.Equal(t, "KPN", stored.Name)
}

func TestSyncDeleteScopeRestrictsDeletion(t *testing.T) {
	db := setupDB(t)

	_, err := reconcile.Sync[model.Provider](db,
		[]*model.Provider{provider(1, "KPN"), provider(3, "Odido")},
		nameColumn(), nil, zap.NewNop())
	require.NoError(t, err)

	scope := func(q *gorm.DB) *gorm.DB { return q.Where("name = ?", "Odido") }
	res, err := reconcile.Sync[model.Provider](db, nil, nameColumn(), scope, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Deleted)

	var remaining []model.Provider
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "KPN", remaining[0].Name)
}
