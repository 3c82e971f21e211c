package warehouse

import (
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
)

func openSnowflake(settings Settings) (*sql.DB, error) {
	s := settings.Snowflake
	dsn, err := sf.DSN(&sf.Config{
		Account:   s.Account,
		User:      s.User,
		Password:  s.Password,
		Database:  s.Database,
		Schema:    s.Schema,
		Warehouse: s.Warehouse,
		Role:      s.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	return sql.Open("snowflake", dsn)
}
