package db

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solana-archiver/block-syncer/types"
)

var (
	// ErrConsistency marks a slot/id mismatch after an upsert or the final
	// read-back. It indicates corrupted prior state or a defect in the upsert
	// logic, never a transient condition, and must not be retried.
	ErrConsistency = errors.New("block consistency violation")

	// ErrAccountResolution is returned when a block references accounts but
	// none of them could be resolved to ids after the dictionary upsert.
	ErrAccountResolution = errors.New("failed to resolve account ids")
)

// SaveBlock persists one normalized block as a single atomic unit of work:
// block upsert, account dictionary upsert, transactions with their account
// positions, instructions with their account references, then a read-back
// verification of the block row. On any error the whole block rolls back, so
// partial blocks are never visible to readers. Re-running for the same slot
// converges to the same stored state.
func (d *BlockSvcDB) SaveBlock(block *types.NormalizedBlock) error {
	return d.db.Transaction(func(dbTx *gorm.DB) error {
		blockId, err := upsertBlock(dbTx, block)
		if err != nil {
			return err
		}

		pubkeys := collectPubkeys(block)
		idByPubkey, err := upsertAccounts(dbTx, pubkeys)
		if err != nil {
			return err
		}
		if len(pubkeys) > 0 && len(idByPubkey) == 0 {
			return fmt.Errorf("%w: slot %d references %d accounts", ErrAccountResolution, block.Slot, len(pubkeys))
		}

		for _, tx := range block.Transactions {
			if err = saveTransaction(dbTx, blockId, tx, idByPubkey); err != nil {
				return err
			}
		}

		// Read-back verification: the row must still resolve to the same id.
		verify := Block{}
		if err = dbTx.Model(Block{}).Where("slot = ?", block.Slot).Take(&verify).Error; err != nil {
			return err
		}
		if verify.Id != blockId {
			return fmt.Errorf("%w: slot %d resolved id %d but read back %d", ErrConsistency, block.Slot, blockId, verify.Id)
		}
		return nil
	})
}

// upsertBlock inserts the block row or refreshes it in place when the slot
// already exists, then resolves the storage id by the slot's natural key. The
// canonical lookup also settles the race where a concurrent worker inserted
// the same slot first.
func upsertBlock(dbTx *gorm.DB, block *types.NormalizedBlock) (int64, error) {
	row := &Block{
		Slot:              block.Slot,
		BlockHeight:       block.BlockHeight,
		BlockTime:         block.BlockTime,
		Blockhash:         block.Blockhash,
		ParentSlot:        block.ParentSlot,
		PreviousBlockhash: block.PreviousBlockhash,
	}
	err := dbTx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"block_height", "block_time", "blockhash", "parent_slot", "previous_blockhash",
		}),
	}).Create(row).Error
	if err != nil {
		return 0, err
	}

	resolved := Block{}
	if err = dbTx.Model(Block{}).Where("slot = ?", block.Slot).Take(&resolved).Error; err != nil {
		return 0, err
	}
	if resolved.Slot != block.Slot {
		return 0, fmt.Errorf("%w: wanted slot %d, resolved row holds slot %d", ErrConsistency, block.Slot, resolved.Slot)
	}
	return resolved.Id, nil
}

// collectPubkeys gathers every distinct account key referenced anywhere in the
// block: the full account list of each transaction plus each instruction's
// program key resolved by its index. Sorted for deterministic writes.
func collectPubkeys(block *types.NormalizedBlock) []string {
	seen := make(map[string]struct{})
	for _, tx := range block.Transactions {
		for _, key := range tx.AccountKeys {
			seen[key] = struct{}{}
		}
		for _, ins := range tx.Instructions {
			if ins.ProgramIDIndex >= 0 && ins.ProgramIDIndex < len(tx.AccountKeys) {
				seen[tx.AccountKeys[ins.ProgramIDIndex]] = struct{}{}
			}
		}
	}
	pubkeys := make([]string, 0, len(seen))
	for key := range seen {
		pubkeys = append(pubkeys, key)
	}
	sort.Strings(pubkeys)
	return pubkeys
}

// upsertAccounts inserts missing dictionary rows and maps every pubkey to its
// id. Uniqueness is enforced by the store, so the insert-then-lookup sequence
// is safe under concurrent writers.
func upsertAccounts(dbTx *gorm.DB, pubkeys []string) (map[string]int64, error) {
	idByPubkey := make(map[string]int64, len(pubkeys))
	if len(pubkeys) == 0 {
		return idByPubkey, nil
	}
	accounts := make([]*Account, 0, len(pubkeys))
	for _, key := range pubkeys {
		accounts = append(accounts, &Account{Pubkey: key})
	}
	err := dbTx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pubkey"}},
		DoNothing: true,
	}).Create(&accounts).Error
	if err != nil {
		return nil, err
	}

	rows := make([]*Account, 0, len(pubkeys))
	if err = dbTx.Where("pubkey IN ?", pubkeys).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, account := range rows {
		idByPubkey[account.Pubkey] = account.Id
	}
	return idByPubkey, nil
}

func saveTransaction(dbTx *gorm.DB, blockId int64, tx *types.NormalizedTransaction, idByPubkey map[string]int64) error {
	// A transaction without any signature cannot be keyed; skip it rather
	// than failing the whole block.
	if tx.Signature == "" {
		return nil
	}

	txId, err := upsertTransaction(dbTx, blockId, tx)
	if err != nil {
		return err
	}

	if err = saveTransactionAccounts(dbTx, txId, tx, idByPubkey); err != nil {
		return err
	}
	return saveInstructions(dbTx, txId, tx, idByPubkey)
}

func upsertTransaction(dbTx *gorm.DB, blockId int64, tx *types.NormalizedTransaction) (int64, error) {
	var errorMessage *string
	if tx.ErrJSON != "" {
		errorMessage = &tx.ErrJSON
	}
	row := &Transaction{
		BlockId:              blockId,
		Signature:            tx.Signature,
		Fee:                  tx.Fee,
		ComputeUnitsConsumed: tx.ComputeUnitsConsumed,
		ErrorMessage:         errorMessage,
	}
	err := dbTx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "signature"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return 0, err
	}
	// Attempt insert, then canonical lookup by the unique key: the id cannot
	// be trusted from the insert when the row already existed.
	resolved := Transaction{}
	if err = dbTx.Model(Transaction{}).Where("signature = ?", tx.Signature).Take(&resolved).Error; err != nil {
		return 0, err
	}
	return resolved.Id, nil
}

func saveTransactionAccounts(dbTx *gorm.DB, txId int64, tx *types.NormalizedTransaction, idByPubkey map[string]int64) error {
	header := tx.Header
	total := len(tx.AccountKeys)
	for position, pubkey := range tx.AccountKeys {
		accountId, ok := idByPubkey[pubkey]
		if !ok {
			continue
		}
		isSigner := position < header.NumRequiredSignatures
		// Read-only accounts sit at the tail of the signed and unsigned
		// ranges respectively; everything before those tails is writable.
		var isWritable bool
		if isSigner {
			isWritable = position < header.NumRequiredSignatures-header.NumReadonlySignedAccounts
		} else {
			isWritable = position < total-header.NumReadonlyUnsignedAccounts
		}
		row := &TransactionAccount{
			TransactionId: txId,
			AccountId:     accountId,
			Position:      position,
			IsSigner:      isSigner,
			IsWritable:    isWritable,
		}
		if err := dbTx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

func saveInstructions(dbTx *gorm.DB, txId int64, tx *types.NormalizedTransaction, idByPubkey map[string]int64) error {
	for position, ins := range tx.Instructions {
		// A program index outside the account list, or a program key that
		// did not resolve, drops the instruction. A production endpoint is
		// not expected to emit either.
		if ins.ProgramIDIndex < 0 || ins.ProgramIDIndex >= len(tx.AccountKeys) {
			continue
		}
		programAccountId, ok := idByPubkey[tx.AccountKeys[ins.ProgramIDIndex]]
		if !ok {
			continue
		}

		insId, err := upsertInstruction(dbTx, txId, position, programAccountId, ins.Data)
		if err != nil {
			return err
		}
		if insId == 0 {
			continue
		}

		for accountPosition, keyIndex := range ins.Accounts {
			if keyIndex < 0 || keyIndex >= len(tx.AccountKeys) {
				continue
			}
			accountId, ok := idByPubkey[tx.AccountKeys[keyIndex]]
			if !ok {
				continue
			}
			row := &InstructionAccount{
				InstructionId: insId,
				AccountId:     accountId,
				Position:      accountPosition,
			}
			if err = dbTx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// upsertInstruction inserts the instruction or, when the row already exists,
// re-fetches its id by the same key tuple. Returns 0 when the existing row
// does not match the tuple, in which case the instruction is dropped.
func upsertInstruction(dbTx *gorm.DB, txId int64, position int, programAccountId int64, data []byte) (int64, error) {
	row := &Instruction{
		TransactionId:    txId,
		ProgramAccountId: programAccountId,
		ProgramIndex:     position,
		Data:             data,
	}
	err := dbTx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}, {Name: "program_index"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return 0, err
	}
	resolved := Instruction{}
	err = dbTx.Model(Instruction{}).
		Where("transaction_id = ? AND program_index = ? AND program_account_id = ? AND data = ?",
			txId, position, programAccountId, data).
		Take(&resolved).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return resolved.Id, nil
}
