package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	MysqlErrDuplicateEntry      = 1062
	MysqlErrForeignKeyViolation = 1452
)

func MysqlErrCode(err error) int {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return 0
	}
	return int(mysqlErr.Number)
}

// IsRetryable reports whether a write failure is symptomatic of a race with a
// concurrent writer (foreign key violation, busy/locked store) rather than a
// permanent defect. Such failures are worth re-running the whole per-block
// write for.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if MysqlErrCode(err) == MysqlErrForeignKeyViolation {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
			return true
		case sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked:
			return true
		}
	}
	return false
}
