package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Queryable is satisfied by both *sqlx.DB and *sqlx.Tx, allowing
// stores to be agnostic of whether they're running inside of a transaction.
type Queryable interface {
	sqlx.Ext

	Get(dest any, query string, args ...any) error
	Select(dest any, query string, args ...any) error
	NamedExec(query string, arg any) (sql.Result, error)
}
