package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBlockAbsent(t *testing.T) {
	dao := newTestDB(t, "dao_block_absent")
	block, err := dao.GetBlock(42)
	require.NoError(t, err)
	assert.Zero(t, block.Id)
}

func TestGetHighestSlot(t *testing.T) {
	dao := newTestDB(t, "dao_highest_slot")

	frontier, err := dao.GetHighestSlot()
	require.NoError(t, err)
	assert.Zero(t, frontier)

	for _, slot := range []uint64{100, 103, 101} {
		block := sampleBlock()
		block.Slot = slot
		block.Blockhash = fmt.Sprintf("hash-%d", slot)
		block.Transactions = nil
		require.NoError(t, dao.SaveBlock(block))
	}

	frontier, err = dao.GetHighestSlot()
	require.NoError(t, err)
	assert.Equal(t, uint64(103), frontier)
}

func TestTryAcquireLockFreshBlocks(t *testing.T) {
	dao := newTestDB(t, "dao_lock_fresh")

	acquired, err := dao.TryAcquireLock("auto_fetch", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = dao.TryAcquireLock("auto_fetch", 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, dao.ReleaseLock("auto_fetch"))
	acquired, err = dao.TryAcquireLock("auto_fetch", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestTryAcquireLockStaleReplaced(t *testing.T) {
	dao := newTestDB(t, "dao_lock_stale")

	stale := &SyncLock{Name: "auto_fetch", CreatedTime: time.Now().Add(-11 * time.Minute).Unix()}
	require.NoError(t, dao.db.Create(stale).Error)

	acquired, err := dao.TryAcquireLock("auto_fetch", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	var locks []SyncLock
	require.NoError(t, dao.db.Where("name = ?", "auto_fetch").Find(&locks).Error)
	require.Len(t, locks, 1)
	assert.NotEqual(t, stale.Id, locks[0].Id)
}

func TestLockNamesAreIndependent(t *testing.T) {
	dao := newTestDB(t, "dao_lock_names")

	acquired, err := dao.TryAcquireLock("auto_fetch", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = dao.TryAcquireLock("backfill", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRunQuery(t *testing.T) {
	dao := newTestDB(t, "dao_run_query")
	require.NoError(t, dao.SaveBlock(sampleBlock()))

	result, err := dao.RunQuery("SELECT slot, blockhash FROM blocks ORDER BY slot")
	require.NoError(t, err)
	assert.Equal(t, []string{"slot", "blockhash"}, result.Columns)
	require.Equal(t, 1, result.RowCount)
	assert.Equal(t, "100", result.Rows[0][0])
	assert.Equal(t, "abc", result.Rows[0][1])
}

func TestRunQueryBadSQL(t *testing.T) {
	dao := newTestDB(t, "dao_run_query_bad")
	_, err := dao.RunQuery("SELECT * FROM no_such_table")
	assert.Error(t, err)
}

func TestTableCounts(t *testing.T) {
	dao := newTestDB(t, "dao_table_counts")
	require.NoError(t, dao.SaveBlock(sampleBlock()))

	counts, err := dao.TableCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["blocks"])
	assert.Equal(t, int64(2), counts["accounts"])
	assert.Equal(t, int64(1), counts["transactions"])
	assert.Equal(t, int64(2), counts["transaction_accounts"])
	assert.Equal(t, int64(1), counts["instructions"])
	assert.Equal(t, int64(1), counts["instruction_accounts"])
}
