package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/solana-archiver/block-syncer/entity"
	"github.com/solana-archiver/block-syncer/logging"
	"github.com/solana-archiver/block-syncer/service"
)

// QueryRequest is the body of the POST /query endpoint.
type QueryRequest struct {
	SQL string `json:"sql"`
}

func HandleQuery(querySvc service.Query) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, &entity.Error{Code: 400, Message: "invalid request body"})
			return
		}
		result, svcErr := querySvc.RunQuery(req.SQL)
		if svcErr != nil {
			writeError(w, int(svcErr.Code), svcErr)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func HandleStatus(querySvc service.Query) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, svcErr := querySvc.GetSyncStatus()
		if svcErr != nil {
			writeError(w, int(svcErr.Code), svcErr)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.Errorf("failed to encode response, err=%s", err.Error())
	}
}

func writeError(w http.ResponseWriter, code int, payload *entity.Error) {
	if code < http.StatusBadRequest || code > 599 {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, payload)
}
