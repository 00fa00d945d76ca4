package db

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/solana-archiver/block-syncer/types"
)

// newTestDB opens a private in-memory store with foreign keys enforced. The
// single connection keeps the memory database alive for the whole test.
func newTestDB(t *testing.T, name string) *BlockSvcDB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	InitTables(database)
	return &BlockSvcDB{db: database}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

// sampleBlock is a minimal two-account block: one signed transaction whose
// single instruction runs program B against account A.
func sampleBlock() *types.NormalizedBlock {
	return &types.NormalizedBlock{
		Slot:              100,
		BlockHeight:       int64Ptr(90),
		BlockTime:         int64Ptr(1700000000),
		Blockhash:         "abc",
		ParentSlot:        uint64Ptr(99),
		PreviousBlockhash: "abb",
		Transactions: []*types.NormalizedTransaction{
			{
				Signature:            "sig1",
				Fee:                  5000,
				ComputeUnitsConsumed: 150,
				AccountKeys:          []string{"A", "B"},
				Header: types.MessageHeader{
					NumRequiredSignatures:       1,
					NumReadonlySignedAccounts:   0,
					NumReadonlyUnsignedAccounts: 0,
				},
				Instructions: []*types.NormalizedInstruction{
					{
						ProgramIDIndex: 1,
						Accounts:       []int{0},
						Data:           []byte("x"),
					},
				},
			},
		},
	}
}
