package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes we react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err carries a unique_violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err carries a foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// ConstraintName returns the violated constraint, or "" for non-pg errors.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// WrapWrite turns a constraint violation into common.Conflict, picking the
// message by constraint name from msgs, and wraps any other error as a
// db error. A nil err stays nil.
func WrapWrite(err error, msgs map[string]string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) || IsForeignKeyViolation(err) {
		if msg, ok := msgs[ConstraintName(err)]; ok {
			return common.Conflict(msg)
		}
		if IsUniqueViolation(err) {
			return common.Conflict("Already exists")
		}
		return common.Conflict("Referenced row is missing or still in use")
	}
	return fmt.Errorf("db error: %w", err)
}
