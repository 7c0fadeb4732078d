package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// rateColumns are the government rate columns; a usable reference
// dataset carries at least one of them.
var rateColumns = []string{"cghs_rate", "cghs_max_private", "pmjay_package_rate"}

// ValidateSchema checks that the Parquet schema contains the required
// procedure_name column and at least one rate column.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	if !columns["procedure_name"] {
		return fmt.Errorf("missing required column: procedure_name")
	}

	hasRate := false
	for _, col := range rateColumns {
		if columns[col] {
			hasRate = true
			break
		}
	}
	if !hasRate {
		return fmt.Errorf("no rate columns found; need at least one of: %s",
			strings.Join(rateColumns, ", "))
	}

	return nil
}
