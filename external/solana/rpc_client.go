package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solana-archiver/block-syncer/types"
)

var (
	// ErrBlockNotAvailable means the endpoint has no data for the requested
	// slot right now: an error envelope, an empty result, or a transport
	// failure. Callers treat it as "not currently available", never as fatal.
	ErrBlockNotAvailable = errors.New("the block is not available from the rpc endpoint")
)

const (
	methodGetBlock           = "getBlock"
	methodGetSlot            = "getSlot"
	methodGetLatestBlockhash = "getLatestBlockhash"
)

type Client struct {
	hc       *http.Client
	endpoint string
}

// NewClient returns a JSON-RPC client for a Solana endpoint.
func NewClient(endpoint string) *Client {
	transport := &http.Transport{
		DisableCompression:  true,
		MaxIdleConnsPerHost: 1000,
		MaxConnsPerHost:     1000,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{
		Timeout:   10 * time.Minute,
		Transport: transport,
	}
	return &Client{hc: client, endpoint: endpoint}
}

type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	Id      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call posts one JSON-RPC request and returns the raw result member. An error
// member in the envelope is reported as an error value, not a panic.
func (c *Client) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(&rpcRequest{
		Jsonrpc: "2.0",
		Id:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	r, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = r.Body.Close()
	}()
	respBz, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading http response body %s", err)
	}
	if r.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK response status: %s", r.Status)
	}
	envelope := rpcEnvelope{}
	if err = json.Unmarshal(respBz, &envelope); err != nil {
		return nil, err
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	return envelope.Result, nil
}

// GetBlock fetches one block with full transaction details and no rewards.
// Any failure to produce a structured block maps to ErrBlockNotAvailable.
func (c *Client) GetBlock(ctx context.Context, slot uint64) (*types.RawBlock, error) {
	params := []interface{}{
		slot,
		map[string]interface{}{
			"encoding":                       "json",
			"transactionDetails":             "full",
			"rewards":                        false,
			"maxSupportedTransactionVersion": 0,
		},
	}
	result, err := c.call(ctx, methodGetBlock, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotAvailable, err.Error())
	}
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, ErrBlockNotAvailable
	}
	block := types.RawBlock{}
	if err = json.Unmarshal(result, &block); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotAvailable, err.Error())
	}
	return &block, nil
}

// GetSlot returns the current chain head slot.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, methodGetSlot, []interface{}{})
	if err != nil {
		return 0, err
	}
	var slot uint64
	if err = json.Unmarshal(result, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}

type latestBlockhashValue struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

type latestBlockhashResult struct {
	Value latestBlockhashValue `json:"value"`
}

// GetLatestBlockhash returns the most recent blockhash known to the endpoint.
func (c *Client) GetLatestBlockhash(ctx context.Context) (string, error) {
	result, err := c.call(ctx, methodGetLatestBlockhash, []interface{}{})
	if err != nil {
		return "", err
	}
	parsed := latestBlockhashResult{}
	if err = json.Unmarshal(result, &parsed); err != nil {
		return "", err
	}
	return parsed.Value.Blockhash, nil
}
