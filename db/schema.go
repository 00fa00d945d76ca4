package db

import (
	"gorm.io/gorm"
)

// InitTables creates the six chain tables plus the scheduler lock table.
// AutoMigrate uses IF NOT EXISTS semantics, so the call is idempotent and safe
// to issue concurrently from many workers. A failure here is fatal: nothing
// can proceed without a schema.
func InitTables(db *gorm.DB) {
	var err error
	if err = db.AutoMigrate(&Block{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&Account{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&Transaction{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&TransactionAccount{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&Instruction{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&InstructionAccount{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&SyncLock{}); err != nil {
		panic(err)
	}
}
