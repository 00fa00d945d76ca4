package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, handler func(method string, params []interface{}) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handler(req.Method, req.Params)))
	}))
}

func TestGetBlock(t *testing.T) {
	server := rpcServer(t, func(method string, params []interface{}) string {
		assert.Equal(t, methodGetBlock, method)
		require.Len(t, params, 2)
		assert.Equal(t, float64(150), params[0])
		options := params[1].(map[string]interface{})
		assert.Equal(t, "json", options["encoding"])
		assert.Equal(t, "full", options["transactionDetails"])
		assert.Equal(t, false, options["rewards"])
		return `{"jsonrpc":"2.0","id":1,"result":{
			"blockHeight":140,"blockTime":1700000000,"blockhash":"abc",
			"parentSlot":149,"previousBlockhash":"abb",
			"transactions":[{
				"meta":{"fee":5000,"computeUnitsConsumed":150,"err":null},
				"transaction":{
					"signatures":["sig1"],
					"message":{
						"accountKeys":["A","B"],
						"header":{"numRequiredSignatures":1,"numReadonlySignedAccounts":0,"numReadonlyUnsignedAccounts":0},
						"recentBlockhash":"abb",
						"instructions":[{"programIdIndex":1,"accounts":[0],"data":"eA=="}]
					}
				}
			}]
		}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	block, err := client.GetBlock(context.Background(), 150)
	require.NoError(t, err)

	assert.Equal(t, "abc", block.Blockhash)
	assert.Equal(t, int64(140), *block.BlockHeight)
	assert.Equal(t, uint64(149), *block.ParentSlot)
	require.Len(t, block.Transactions, 1)
	tx := block.Transactions[0]
	assert.Equal(t, uint64(5000), tx.Meta.Fee)
	assert.Equal(t, []string{"sig1"}, tx.Transaction.Signatures)
	assert.Equal(t, []string{"A", "B"}, tx.Transaction.Message.AccountKeys)
	require.Len(t, tx.Transaction.Message.Instructions, 1)
	assert.Equal(t, 1, tx.Transaction.Message.Instructions[0].ProgramIDIndex)
}

func TestGetBlockNullResult(t *testing.T) {
	server := rpcServer(t, func(string, []interface{}) string {
		return `{"jsonrpc":"2.0","id":1,"result":null}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetBlock(context.Background(), 150)
	assert.ErrorIs(t, err, ErrBlockNotAvailable)
}

func TestGetBlockErrorEnvelope(t *testing.T) {
	server := rpcServer(t, func(string, []interface{}) string {
		return `{"jsonrpc":"2.0","id":1,"error":{"code":-32007,"message":"Slot 150 was skipped"}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetBlock(context.Background(), 150)
	assert.ErrorIs(t, err, ErrBlockNotAvailable)
	assert.Contains(t, err.Error(), "Slot 150 was skipped")
}

func TestGetBlockEndpointDown(t *testing.T) {
	server := rpcServer(t, func(string, []interface{}) string { return "{}" })
	server.Close()

	client := NewClient(server.URL)
	_, err := client.GetBlock(context.Background(), 150)
	assert.ErrorIs(t, err, ErrBlockNotAvailable)
}

func TestGetSlot(t *testing.T) {
	server := rpcServer(t, func(method string, _ []interface{}) string {
		assert.Equal(t, methodGetSlot, method)
		return `{"jsonrpc":"2.0","id":1,"result":254000000}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	slot, err := client.GetSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(254000000), slot)
}

func TestGetLatestBlockhash(t *testing.T) {
	server := rpcServer(t, func(method string, _ []interface{}) string {
		assert.Equal(t, methodGetLatestBlockhash, method)
		return `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":254000000},"value":{"blockhash":"abc","lastValidBlockHeight":253000000}}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	blockhash, err := client.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", blockhash)
}
