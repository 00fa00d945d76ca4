package db

// Transaction belongs to exactly one block; the signature is the natural
// idempotency key and is unique across all blocks.
type Transaction struct {
	Id                   int64
	BlockId              int64   `gorm:"NOT NULL;index:idx_transaction_block_id"`
	Signature            string  `gorm:"NOT NULL;uniqueIndex:idx_transaction_signature;size:96"`
	Fee                  uint64  `gorm:"NOT NULL"`
	ComputeUnitsConsumed uint64  `gorm:"NOT NULL;default:0"`
	ErrorMessage         *string `gorm:"type:text"`

	Accounts     []TransactionAccount `gorm:"foreignKey:TransactionId;constraint:OnDelete:CASCADE"`
	Instructions []Instruction        `gorm:"foreignKey:TransactionId;constraint:OnDelete:CASCADE"`
}

func (*Transaction) TableName() string {
	return "transactions"
}

// TransactionAccount records one position of the transaction's ordered account
// list. The same account can appear at one position only per transaction.
type TransactionAccount struct {
	TransactionId int64 `gorm:"primaryKey;autoIncrement:false"`
	AccountId     int64 `gorm:"primaryKey;autoIncrement:false;index:idx_tx_account_account_id"`
	Position      int   `gorm:"primaryKey;autoIncrement:false"`
	IsSigner      bool  `gorm:"NOT NULL;default:false"`
	IsWritable    bool  `gorm:"NOT NULL;default:false"`
}

func (*TransactionAccount) TableName() string {
	return "transaction_accounts"
}
