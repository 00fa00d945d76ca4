package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solana-archiver/block-syncer/entity"
)

type fakeQuery struct {
	result *entity.QueryResult
	status *entity.SyncStatus
	err    *entity.Error
}

func (f *fakeQuery) RunQuery(string) (*entity.QueryResult, *entity.Error) {
	return f.result, f.err
}

func (f *fakeQuery) GetSyncStatus() (*entity.SyncStatus, *entity.Error) {
	return f.status, f.err
}

func TestHandleQuery(t *testing.T) {
	svc := &fakeQuery{result: &entity.QueryResult{
		Columns:  []string{"slot"},
		Rows:     [][]interface{}{{"100"}},
		RowCount: 1,
	}}
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"sql":"SELECT slot FROM blocks"}`))

	HandleQuery(svc)(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var result entity.QueryResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	assert.Equal(t, []string{"slot"}, result.Columns)
	assert.Equal(t, 1, result.RowCount)
}

func TestHandleQueryInvalidBody(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{"))

	HandleQuery(&fakeQuery{})(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleQueryServiceError(t *testing.T) {
	svc := &fakeQuery{err: &entity.Error{Code: 400, Message: "no such table: nope"}}
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"sql":"SELECT * FROM nope"}`))

	HandleQuery(svc)(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var apiErr entity.Error
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
	assert.Equal(t, "no such table: nope", apiErr.Message)
}

func TestHandleStatus(t *testing.T) {
	svc := &fakeQuery{status: &entity.SyncStatus{
		Frontier:  100,
		ChainHead: 254000000,
		TableCounts: map[string]int64{
			"blocks": 1,
		},
	}}
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/status", nil)

	HandleStatus(svc)(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var status entity.SyncStatus
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Equal(t, uint64(100), status.Frontier)
	assert.Equal(t, int64(1), status.TableCounts["blocks"])
}
