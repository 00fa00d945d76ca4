package db

// Instruction is one operation inside a transaction. ProgramIndex is the
// position within the transaction's instruction list and keeps the original
// ordering stable; together with TransactionId it forms the idempotency key.
type Instruction struct {
	Id               int64
	TransactionId    int64  `gorm:"NOT NULL;uniqueIndex:idx_instruction_tx_index,priority:1;index:idx_instruction_transaction_id"`
	ProgramAccountId int64  `gorm:"NOT NULL;index:idx_instruction_program_id"`
	ProgramIndex     int    `gorm:"NOT NULL;uniqueIndex:idx_instruction_tx_index,priority:2"`
	Data             []byte `gorm:"type:blob"`

	Accounts []InstructionAccount `gorm:"foreignKey:InstructionId;constraint:OnDelete:CASCADE"`
}

func (*Instruction) TableName() string {
	return "instructions"
}

// InstructionAccount lists which accounts an instruction references, in order.
type InstructionAccount struct {
	InstructionId int64 `gorm:"primaryKey;autoIncrement:false"`
	AccountId     int64 `gorm:"primaryKey;autoIncrement:false;index:idx_instr_account_account_id"`
	Position      int   `gorm:"primaryKey;autoIncrement:false"`
}

func (*InstructionAccount) TableName() string {
	return "instruction_accounts"
}
