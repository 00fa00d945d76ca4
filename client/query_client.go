package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solana-archiver/block-syncer/entity"
)

// QueryClient talks to the block-syncer query API.
type QueryClient struct {
	hc       *http.Client
	endpoint string
}

func NewQueryClient(endpoint string) *QueryClient {
	transport := &http.Transport{
		DisableCompression:  true,
		MaxIdleConnsPerHost: 1000,
		TLSHandshakeTimeout: 100 * time.Second,
	}
	client := &http.Client{
		Timeout:   10 * time.Minute,
		Transport: transport,
	}
	return &QueryClient{
		hc:       client,
		endpoint: endpoint,
	}
}

func (c *QueryClient) RunQuery(ctx context.Context, sql string) (*entity.QueryResult, error) {
	body, err := json.Marshal(map[string]string{"sql": sql})
	if err != nil {
		return nil, err
	}
	var result entity.QueryResult
	if err := c.doRequest(ctx, http.MethodPost, "/query", bytes.NewReader(body), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *QueryClient) GetSyncStatus(ctx context.Context) (*entity.SyncStatus, error) {
	var status entity.SyncStatus
	if err := c.doRequest(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *QueryClient) doRequest(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr entity.Error
		if err := json.Unmarshal(bz, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("query api error, code=%d, message=%s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("query api returned status %d", resp.StatusCode)
	}
	return json.Unmarshal(bz, out)
}
