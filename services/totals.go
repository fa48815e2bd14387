package services

import "github.com/shopspring/decimal"

// TotalLabel is placed in the first column of a totals row.
const TotalLabel = "TOTAL"

// ComputeTotals builds the totals row for a table: the sum of every number
// and currency column, "TOTAL" in the first column when that column is not
// summed, and "" elsewhere. It returns nil when no column is numeric. rows
// are only read.
func ComputeTotals(rows []Row, columns []Column) Row {
	hasNumeric := false
	for _, c := range columns {
		if c.columnType().IsNumeric() {
			hasNumeric = true
			break
		}
	}
	if !hasNumeric {
		return nil
	}

	totals := make(Row, len(columns))
	for i, c := range columns {
		if c.columnType().IsNumeric() {
			sum := decimal.Zero
			for _, r := range rows {
				sum = sum.Add(decimal.NewFromFloat(CoerceNumber(r[c.Key])))
			}
			total, _ := sum.Float64()
			totals[c.Key] = total
			continue
		}
		if i == 0 {
			totals[c.Key] = TotalLabel
			continue
		}
		totals[c.Key] = ""
	}
	return totals
}
