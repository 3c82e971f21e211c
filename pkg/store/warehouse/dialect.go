package warehouse

import "fmt"

// Dialect renders the engine specific expressions of the chargeback query.
type Dialect struct {
	Name string

	// YearMonth formats a timestamp column as YYYY-MM.
	YearMonth func(column string) string
	// Date truncates a timestamp column to its calendar day.
	Date func(column string) string
	// Float coerces a numeric column to a double.
	Float func(column string) string
	// String casts an identifier column to text.
	String func(column string) string
	// Count is the row count aggregate, typed as a signed integer.
	Count string
}

var ClickHouse = Dialect{
	Name:      DriverClickHouse,
	YearMonth: func(c string) string { return fmt.Sprintf("formatDateTime(%s, '%%Y-%%m')", c) },
	Date:      func(c string) string { return fmt.Sprintf("toDate(%s)", c) },
	Float:     func(c string) string { return fmt.Sprintf("toFloat64(%s)", c) },
	String:    func(c string) string { return fmt.Sprintf("toString(%s)", c) },
	Count:     "toInt64(count())",
}

var DuckDB = Dialect{
	Name:      DriverDuckDB,
	YearMonth: func(c string) string { return fmt.Sprintf("strftime(%s, '%%Y-%%m')", c) },
	Date:      func(c string) string { return fmt.Sprintf("CAST(%s AS DATE)", c) },
	Float:     func(c string) string { return fmt.Sprintf("CAST(%s AS DOUBLE)", c) },
	String:    func(c string) string { return fmt.Sprintf("CAST(%s AS VARCHAR)", c) },
	Count:     "CAST(COUNT(*) AS BIGINT)",
}

var Snowflake = Dialect{
	Name:      DriverSnowflake,
	YearMonth: func(c string) string { return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM')", c) },
	Date:      func(c string) string { return fmt.Sprintf("TO_DATE(%s)", c) },
	Float:     func(c string) string { return fmt.Sprintf("CAST(%s AS DOUBLE)", c) },
	String:    func(c string) string { return fmt.Sprintf("TO_VARCHAR(%s)", c) },
	Count:     "COUNT(*)",
}

var Databricks = Dialect{
	Name:      DriverDatabricks,
	YearMonth: func(c string) string { return fmt.Sprintf("date_format(%s, 'yyyy-MM')", c) },
	Date:      func(c string) string { return fmt.Sprintf("to_date(%s)", c) },
	Float:     func(c string) string { return fmt.Sprintf("CAST(%s AS DOUBLE)", c) },
	String:    func(c string) string { return fmt.Sprintf("CAST(%s AS STRING)", c) },
	Count:     "CAST(COUNT(*) AS BIGINT)",
}
