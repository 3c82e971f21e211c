package warehouse

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/databricks/databricks-sql-go"
)

func databricksDSN(s DatabricksSettings) string {
	dsn := fmt.Sprintf("token:%s@%s%s", s.Token, s.Host, s.HTTPPath)

	params := url.Values{}
	if s.Catalog != "" {
		params.Set("catalog", s.Catalog)
	}
	if s.Schema != "" {
		params.Set("schema", s.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn
}

func openDatabricks(settings Settings) (*sql.DB, error) {
	if settings.Databricks.Host == "" || settings.Databricks.HTTPPath == "" {
		return nil, fmt.Errorf("databricks host and http path are required")
	}
	return sql.Open("databricks", databricksDSN(settings.Databricks))
}
