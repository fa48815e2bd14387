package services

import "strings"

// utf8BOM lets spreadsheet applications detect the encoding of the file.
const utf8BOM = "\uFEFF"

// GenerateCSV renders the header and every row as comma-separated lines
// joined by "\n", with no trailing newline and no totals row. Cells use the
// same display strings as the other renderers.
func GenerateCSV(req ExportRequest, opts RenderOptions) ([]byte, error) {
	if len(req.Columns) == 0 {
		return nil, errNoColumns
	}

	var b strings.Builder
	if opts.ByteOrderMark {
		b.WriteString(utf8BOM)
	}

	for i, c := range req.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quoteField(c.Label))
	}

	for _, r := range req.Rows {
		b.WriteByte('\n')
		for i, c := range req.Columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteField(FormatCell(r[c.Key], c.columnType()).Display))
		}
	}
	return []byte(b.String()), nil
}

// quoteField wraps a field in double quotes only when it contains a comma,
// a quote or a line break; inner quotes are doubled.
func quoteField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
