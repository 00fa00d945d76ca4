package syncer

import (
	"encoding/json"
	"errors"

	"github.com/solana-archiver/block-syncer/types"
	"github.com/solana-archiver/block-syncer/util"
)

var (
	// ErrMissingBlockhash means the raw payload cannot be normalized; the
	// slot is treated as currently unavailable, the same as an absent block.
	ErrMissingBlockhash = errors.New("raw block is missing its blockhash")
)

// ToNormalizedBlock strips a raw block down to the fields the schema needs and
// annotates it with the slot it was requested at. Transaction metadata keeps
// only fee, compute units and the serialized error; a missing meta is coerced
// to an empty one. Version and recentBlockhash are dropped on the way.
func ToNormalizedBlock(slot uint64, raw *types.RawBlock) (*types.NormalizedBlock, error) {
	if raw == nil || raw.Blockhash == "" {
		return nil, ErrMissingBlockhash
	}

	block := &types.NormalizedBlock{
		Slot:              slot,
		BlockHeight:       raw.BlockHeight,
		BlockTime:         raw.BlockTime,
		Blockhash:         raw.Blockhash,
		ParentSlot:        raw.ParentSlot,
		PreviousBlockhash: raw.PreviousBlockhash,
		Transactions:      make([]*types.NormalizedTransaction, 0, len(raw.Transactions)),
	}

	for _, envelope := range raw.Transactions {
		if envelope == nil || envelope.Transaction == nil {
			continue
		}
		block.Transactions = append(block.Transactions, toNormalizedTransaction(envelope))
	}
	return block, nil
}

func toNormalizedTransaction(envelope *types.RawTransactionWithMeta) *types.NormalizedTransaction {
	tx := &types.NormalizedTransaction{}

	if meta := envelope.Meta; meta != nil {
		tx.Fee = meta.Fee
		tx.ComputeUnitsConsumed = meta.ComputeUnitsConsumed
		tx.ErrJSON = serializeTxError(meta.Err)
	}

	raw := envelope.Transaction
	if len(raw.Signatures) > 0 {
		tx.Signature = raw.Signatures[0]
	}
	if message := raw.Message; message != nil {
		tx.AccountKeys = message.AccountKeys
		tx.Header = message.Header
		tx.Instructions = make([]*types.NormalizedInstruction, 0, len(message.Instructions))
		for _, ins := range message.Instructions {
			if ins == nil {
				continue
			}
			tx.Instructions = append(tx.Instructions, &types.NormalizedInstruction{
				ProgramIDIndex: ins.ProgramIDIndex,
				Accounts:       ins.Accounts,
				Data:           util.DecodeInstructionData(ins.Data),
			})
		}
	}
	return tx
}

// serializeTxError keeps the error indicator as its JSON form; a null or
// absent error means the transaction succeeded and is stored as empty.
func serializeTxError(err json.RawMessage) string {
	if len(err) == 0 || string(err) == "null" {
		return ""
	}
	return string(err)
}
