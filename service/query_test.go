package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/solana-archiver/block-syncer/cache"
	"github.com/solana-archiver/block-syncer/config"
	"github.com/solana-archiver/block-syncer/db"
	"github.com/solana-archiver/block-syncer/types"
)

type fakeChainReader struct {
	head      uint64
	blockhash string
	err       error
}

func (f *fakeChainReader) GetSlot(_ context.Context) (uint64, error) {
	return f.head, f.err
}

func (f *fakeChainReader) GetLatestBlockhash(_ context.Context) (string, error) {
	return f.blockhash, f.err
}

func newTestService(t *testing.T, name string, reader ChainReader) (Query, db.BlockDao) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db.InitTables(database)
	dao := db.NewBlockSvcDB(database)

	localCache, err := cache.NewLocalCache(cache.DefaultCacheSize)
	require.NoError(t, err)
	return NewQueryService(dao, reader, localCache, &config.Config{}), dao
}

func storedBlock(slot uint64) *types.NormalizedBlock {
	return &types.NormalizedBlock{
		Slot:      slot,
		Blockhash: fmt.Sprintf("hash-%d", slot),
	}
}

func TestRunQueryReturnsRows(t *testing.T) {
	svc, dao := newTestService(t, "service_run_query", &fakeChainReader{})
	require.NoError(t, dao.SaveBlock(storedBlock(100)))

	result, svcErr := svc.RunQuery("SELECT slot FROM blocks")
	require.Nil(t, svcErr)
	assert.Equal(t, []string{"slot"}, result.Columns)
	assert.Equal(t, 1, result.RowCount)
}

func TestRunQueryCachesResults(t *testing.T) {
	svc, dao := newTestService(t, "service_query_cache", &fakeChainReader{})
	require.NoError(t, dao.SaveBlock(storedBlock(100)))

	first, svcErr := svc.RunQuery("SELECT slot FROM blocks")
	require.Nil(t, svcErr)
	require.Equal(t, 1, first.RowCount)

	// New rows do not invalidate an already cached result for the same SQL.
	require.NoError(t, dao.SaveBlock(storedBlock(101)))
	second, svcErr := svc.RunQuery("SELECT slot FROM blocks")
	require.Nil(t, svcErr)
	assert.Equal(t, 1, second.RowCount)
}

func TestRunQueryEmptySQL(t *testing.T) {
	svc, _ := newTestService(t, "service_query_empty", &fakeChainReader{})
	_, svcErr := svc.RunQuery("")
	require.NotNil(t, svcErr)
	assert.Equal(t, int64(400), svcErr.Code)
}

func TestRunQueryBadSQL(t *testing.T) {
	svc, _ := newTestService(t, "service_query_bad", &fakeChainReader{})
	_, svcErr := svc.RunQuery("SELECT * FROM no_such_table")
	require.NotNil(t, svcErr)
	assert.Equal(t, int64(400), svcErr.Code)
	assert.NotEmpty(t, svcErr.Message)
}

func TestGetSyncStatus(t *testing.T) {
	reader := &fakeChainReader{head: 254000000, blockhash: "headhash"}
	svc, dao := newTestService(t, "service_status", reader)
	require.NoError(t, dao.SaveBlock(storedBlock(100)))

	status, svcErr := svc.GetSyncStatus()
	require.Nil(t, svcErr)
	assert.Equal(t, uint64(100), status.Frontier)
	assert.Equal(t, uint64(254000000), status.ChainHead)
	assert.Equal(t, "headhash", status.LatestBlockhash)
	assert.Equal(t, int64(1), status.TableCounts["blocks"])
}

func TestGetSyncStatusEndpointDown(t *testing.T) {
	reader := &fakeChainReader{err: errors.New("connection refused")}
	svc, dao := newTestService(t, "service_status_down", reader)
	require.NoError(t, dao.SaveBlock(storedBlock(100)))

	status, svcErr := svc.GetSyncStatus()
	require.Nil(t, svcErr)
	assert.Equal(t, uint64(100), status.Frontier)
	assert.Zero(t, status.ChainHead)
	assert.Empty(t, status.LatestBlockhash)
}
