package warehouse

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const chargebackTableSchema = `
	CREATE TABLE IF NOT EXISTS %s (
		MID VARCHAR NOT NULL,
		SID VARCHAR NOT NULL,
		Adjamount DOUBLE NOT NULL,
		TxnDate TIMESTAMP NOT NULL
	);
`

func bootQueries(table string) []string {
	return []string{
		fmt.Sprintf(chargebackTableSchema, table),
	}
}

func openDuckDB(settings Settings) (*sql.DB, error) {
	path := settings.DuckDB.Path
	if path == "" {
		path = ":memory:"
	}

	queries := bootQueries(settings.Table)
	c, err := duckdb.NewConnector(path, func(exec sqldriver.ExecerContext) error {
		for _, query := range queries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
