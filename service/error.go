package service

import (
	"fmt"

	"github.com/solana-archiver/block-syncer/entity"
)

// Verify Interface Compliance
var _ error = (*Err)(nil)

// Err defines service errors.
type Err struct {
	Code    int64  `json:"code"`
	Message string `json:"error"`
}

func (e Err) Enrich(message string) Err {
	return Err{
		Code:    e.Code,
		Message: fmt.Sprintf("%s: %s", e.Message, message),
	}
}

func (e Err) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

var (
	InternalErr   = Err{Code: 500, Message: "internal server error"}
	BadRequestErr = Err{Code: 400, Message: "bad request"}
)

func InternalErrorWithError(err error) *entity.Error {
	e := InternalErr.Enrich(err.Error())
	return &entity.Error{
		Code:    e.Code,
		Message: e.Message,
	}
}

func BadRequestWithError(err error) *entity.Error {
	e := BadRequestErr.Enrich(err.Error())
	return &entity.Error{
		Code:    e.Code,
		Message: e.Message,
	}
}
