package entity

// QueryResult is the row-returning shape handed to reporting and bot front
// ends; rows hold driver values converted to plain strings/numbers.
type QueryResult struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
}

// SyncStatus describes how far the store lags the chain.
type SyncStatus struct {
	Frontier        uint64           `json:"frontier"`
	ChainHead       uint64           `json:"chain_head"`
	LatestBlockhash string           `json:"latest_blockhash,omitempty"`
	TableCounts     map[string]int64 `json:"table_counts"`
}

type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"error"`
}
