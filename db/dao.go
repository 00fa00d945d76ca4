package db

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/solana-archiver/block-syncer/entity"
	"github.com/solana-archiver/block-syncer/types"
)

type BlockDao interface {
	BlockDB
	LockDB
	QueryDB
	SaveBlock(block *types.NormalizedBlock) error
}

type BlockSvcDB struct {
	db *gorm.DB
}

func NewBlockSvcDB(db *gorm.DB) BlockDao {
	return &BlockSvcDB{
		db,
	}
}

type BlockDB interface {
	GetBlock(slot uint64) (*Block, error)
	GetHighestSlot() (uint64, error)
	GetTransactionBySignature(signature string) (*Transaction, error)
}

// GetBlock fetches the block row for a slot; a zero Id means no row exists.
func (d *BlockSvcDB) GetBlock(slot uint64) (*Block, error) {
	block := Block{}
	err := d.db.Model(Block{}).Where("slot = ?", slot).Take(&block).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &block, nil
}

// GetHighestSlot returns the storage frontier, 0 when the store is empty.
func (d *BlockSvcDB) GetHighestSlot() (uint64, error) {
	block := Block{}
	err := d.db.Model(Block{}).Order("slot desc").Take(&block).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return 0, err
	}
	return block.Slot, nil
}

func (d *BlockSvcDB) GetTransactionBySignature(signature string) (*Transaction, error) {
	tx := Transaction{}
	err := d.db.Model(Transaction{}).Where("signature = ?", signature).Take(&tx).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &tx, nil
}

type LockDB interface {
	TryAcquireLock(name string, staleness time.Duration) (bool, error)
	ReleaseLock(name string) error
}

// TryAcquireLock takes the named lock unless a record younger than the
// staleness threshold exists. An older record is presumed abandoned by a dead
// run and is replaced.
func (d *BlockSvcDB) TryAcquireLock(name string, staleness time.Duration) (bool, error) {
	acquired := false
	err := d.db.Transaction(func(dbTx *gorm.DB) error {
		lock := SyncLock{}
		err := dbTx.Model(SyncLock{}).Where("name = ?", name).Take(&lock).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		now := time.Now().Unix()
		if lock.Id != 0 {
			if now-lock.CreatedTime < int64(staleness.Seconds()) {
				return nil
			}
			if err = dbTx.Delete(&SyncLock{}, lock.Id).Error; err != nil {
				return err
			}
		}
		if err = dbTx.Create(&SyncLock{Name: name, CreatedTime: now}).Error; err != nil {
			return err
		}
		acquired = true
		return nil
	})
	return acquired, err
}

func (d *BlockSvcDB) ReleaseLock(name string) error {
	return d.db.Where("name = ?", name).Delete(&SyncLock{}).Error
}

type QueryDB interface {
	RunQuery(query string) (*entity.QueryResult, error)
	TableCounts() (map[string]int64, error)
}

// RunQuery executes ad hoc read-only SQL and returns columns, rows and the
// row count. Callers are trusted operators; errors come back as values, never
// as panics.
func (d *BlockSvcDB) RunQuery(query string) (*entity.QueryResult, error) {
	rows, err := d.db.Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &entity.QueryResult{
		Columns: columns,
		Rows:    make([][]interface{}, 0),
	}
	for rows.Next() {
		raw := make([]sql.RawBytes, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range raw {
			scanArgs[i] = &raw[i]
		}
		if err = rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		row := make([]interface{}, len(columns))
		for i, cell := range raw {
			if cell == nil {
				row[i] = nil
				continue
			}
			row[i] = string(cell)
		}
		result.Rows = append(result.Rows, row)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

func (d *BlockSvcDB) TableCounts() (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, model := range []interface{}{
		&Block{}, &Account{}, &Transaction{},
		&TransactionAccount{}, &Instruction{}, &InstructionAccount{},
	} {
		var count int64
		tabler := model.(interface{ TableName() string })
		if err := d.db.Model(model).Count(&count).Error; err != nil {
			return nil, err
		}
		counts[tabler.TableName()] = count
	}
	return counts, nil
}
