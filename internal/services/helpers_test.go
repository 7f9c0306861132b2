package service_test

import "database/sql"

func sqlNoRows() error {
	return sql.ErrNoRows
}
