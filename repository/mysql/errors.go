package mysql

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL server error numbers that abort a transaction without it being at fault.
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// IsDuplicateKey reports whether err is a unique-index violation. GORM
// translates it to gorm.ErrDuplicatedKey when TranslateError is on; the
// message check covers handles opened without it.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsRetryableTx reports whether err aborted the transaction because of a lock
// conflict with another one. The whole transaction may be run again.
func IsRetryableTx(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errDeadlock || myErr.Number == errLockWaitTimeout
	}
	return strings.Contains(err.Error(), "Deadlock found")
}
