package dbx

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains turns s into an ILIKE pattern matching s as a literal substring.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Where accumulates AND-ed conditions with numbered placeholders.
type Where struct {
	conds []string
	args  []any
}

// Add appends a condition; "?" in cond is replaced by the next $n.
func (w *Where) Add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1))
}

// SQL renders " WHERE a AND b", or "" when there are no conditions.
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Args returns the collected arguments.
func (w *Where) Args() []any { return w.args }

// Paginate appends LIMIT/OFFSET placeholders after the collected arguments
// and returns the clause together with the full argument list.
func (w *Where) Paginate(limit, offset int) (string, []any) {
	n := len(w.args)
	clause := " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	return clause, append(append([]any{}, w.args...), limit, offset)
}

// ExpectAffected returns common.ErrNotFound when res touched no rows.
func ExpectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
