package mysql

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"barzinhos/internal/domain"
)

const (
	errDuplicateEntry = 1062
	errNoReferenced   = 1452 // foreign key parent row missing
	errCheckViolated  = 3819
)

// translate maps driver errors onto the domain taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDuplicateEntry:
			return domain.ErrConflict
		case errNoReferenced:
			return domain.Invalid("", "referenced record does not exist")
		case errCheckViolated:
			return domain.Invalid("", "value violates a constraint")
		}
	}
	return err
}
