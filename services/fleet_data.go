package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// BuildFleetRequest reads every record of the table's collection and turns
// it into an export request. Date fields that were never set, and optional
// number fields left at zero, become nil so they render empty.
func BuildFleetRequest(app core.App, table FleetTable, format Format) (ExportRequest, error) {
	col, err := app.FindCollectionByNameOrId(table.Collection)
	if err != nil {
		return ExportRequest{}, fmt.Errorf("collection %q not found: %w", table.Collection, err)
	}

	records, err := app.FindRecordsByFilter(col, "id != ''", table.Sort, 0, 0)
	if err != nil {
		return ExportRequest{}, fmt.Errorf("list %s: %w", table.Collection, err)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, fleetRow(rec, table.Columns))
	}

	return ExportRequest{
		Title:   table.Title,
		Rows:    rows,
		Columns: table.Columns,
		Format:  format,
	}, nil
}

func fleetRow(rec *core.Record, columns []Column) Row {
	r := make(Row, len(columns))
	for _, c := range columns {
		switch c.columnType() {
		case ColumnDate:
			dt := rec.GetDateTime(c.Key)
			if dt.IsZero() {
				r[c.Key] = nil
				continue
			}
			r[c.Key] = dt.Time()
		case ColumnNumber, ColumnCurrency:
			n := rec.GetFloat(c.Key)
			if n == 0 && optionalNumber(rec, c.Key) {
				r[c.Key] = nil
				continue
			}
			r[c.Key] = n
		default:
			r[c.Key] = rec.Get(c.Key)
		}
	}
	return r
}

// optionalNumber reports a non-required number field. pocketbase stores an
// unset number as 0 and treats 0 as blank for its required check.
func optionalNumber(rec *core.Record, key string) bool {
	f, ok := rec.Collection().Fields.GetByName(key).(*core.NumberField)
	return ok && !f.Required
}
