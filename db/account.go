package db

// Account is the global pubkey dictionary. Rows are created the first time a
// key is seen in any block and are never updated or deleted individually.
type Account struct {
	Id     int64
	Pubkey string `gorm:"NOT NULL;uniqueIndex:idx_account_pubkey;size:64"`

	TransactionAccounts []TransactionAccount `gorm:"foreignKey:AccountId"`
	Instructions        []Instruction        `gorm:"foreignKey:ProgramAccountId"`
	InstructionAccounts []InstructionAccount `gorm:"foreignKey:AccountId"`
}

func (*Account) TableName() string {
	return "accounts"
}
