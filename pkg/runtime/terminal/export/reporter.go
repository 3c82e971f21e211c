package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
)

type TableConfig struct {
	NameWidth  int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  20,
		ValueWidth: 60,
	}
}

// Reporter prints the outcome of an export run as a small console table
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(summary domain.ExportSummary) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value interface{}) string {
			return fmt.Sprintf("| %-*s | %-*v |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"amount": func(v float64) string {
			return decimal.NewFromFloat(v).StringFixed(2)
		},
	}

	tmpl := `
Chargeback Report {{.Period.Label}}

{{separator}}
{{formatRow "File" .FilePath}}
{{formatRow "Groups" .Rows}}
{{formatRow "Chargeback Count" .ChargebackCount}}
{{formatRow "Total Amount" (amount .TotalAmount)}}
{{formatRow "Duration" .Duration}}
{{separator}}
`

	t, err := template.New("summary").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary)
}
