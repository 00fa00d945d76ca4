package types

import (
	"encoding/json"
)

// RawBlock is the result payload of a getBlock JSON-RPC call, with transaction
// details requested in full and rewards omitted.
type RawBlock struct {
	BlockHeight       *int64                    `json:"blockHeight"`
	BlockTime         *int64                    `json:"blockTime"`
	Blockhash         string                    `json:"blockhash"`
	ParentSlot        *uint64                   `json:"parentSlot"`
	PreviousBlockhash string                    `json:"previousBlockhash"`
	Transactions      []*RawTransactionWithMeta `json:"transactions"`
}

type RawTransactionWithMeta struct {
	Meta        *RawTransactionMeta `json:"meta"`
	Transaction *RawTransaction     `json:"transaction"`
	Version     json.RawMessage     `json:"version,omitempty"`
}

type RawTransactionMeta struct {
	Fee                  uint64          `json:"fee"`
	ComputeUnitsConsumed uint64          `json:"computeUnitsConsumed"`
	Err                  json.RawMessage `json:"err"`
}

type RawTransaction struct {
	Signatures []string    `json:"signatures"`
	Message    *RawMessage `json:"message"`
}

type RawMessage struct {
	AccountKeys     []string          `json:"accountKeys"`
	Header          MessageHeader     `json:"header"`
	RecentBlockhash string            `json:"recentBlockhash"`
	Instructions    []*RawInstruction `json:"instructions"`
}

// MessageHeader carries the signer/read-only account counts that determine
// is_signer and is_writable for every position in the account key list.
type MessageHeader struct {
	NumRequiredSignatures       int `json:"numRequiredSignatures"`
	NumReadonlySignedAccounts   int `json:"numReadonlySignedAccounts"`
	NumReadonlyUnsignedAccounts int `json:"numReadonlyUnsignedAccounts"`
}

type RawInstruction struct {
	ProgramIDIndex int    `json:"programIdIndex"`
	Accounts       []int  `json:"accounts"`
	Data           string `json:"data"`
}

// NormalizedBlock is a raw block stripped down to the fields the store keeps,
// annotated with the slot it was requested at.
type NormalizedBlock struct {
	Slot              uint64
	BlockHeight       *int64
	BlockTime         *int64
	Blockhash         string
	ParentSlot        *uint64
	PreviousBlockhash string
	Transactions      []*NormalizedTransaction
}

// NormalizedTransaction keeps only fee, compute units and the serialized error
// from the transaction meta. Signature is the first signature of the envelope
// and is empty when the envelope carries none.
type NormalizedTransaction struct {
	Signature            string
	Fee                  uint64
	ComputeUnitsConsumed uint64
	ErrJSON              string
	AccountKeys          []string
	Header               MessageHeader
	Instructions         []*NormalizedInstruction
}

type NormalizedInstruction struct {
	ProgramIDIndex int
	Accounts       []int
	Data           []byte
}
