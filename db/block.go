package db

// Block is one ingested block. Slot and blockhash are both unique; re-running
// ingestion for a slot updates the row in place instead of erroring.
type Block struct {
	Id                int64
	Slot              uint64  `gorm:"NOT NULL;uniqueIndex:idx_block_slot"`
	BlockHeight       *int64  `gorm:"column:block_height"`
	BlockTime         *int64  `gorm:"column:block_time;index:idx_block_time"`
	Blockhash         string  `gorm:"NOT NULL;uniqueIndex:idx_block_blockhash;size:64"`
	ParentSlot        *uint64 `gorm:"index:idx_block_parent_slot"`
	PreviousBlockhash string  `gorm:"size:64"`

	Transactions []Transaction `gorm:"foreignKey:BlockId;constraint:OnDelete:CASCADE"`
}

func (*Block) TableName() string {
	return "blocks"
}
