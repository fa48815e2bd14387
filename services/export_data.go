package services

import (
	"fmt"
	"strings"
)

// ColumnType is the semantic type of a report column. It drives value
// formatting, alignment and layout.
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnNumber   ColumnType = "number"
	ColumnDate     ColumnType = "date"
	ColumnCurrency ColumnType = "currency"
	ColumnStatus   ColumnType = "status"
)

// IsNumeric reports whether the column takes part in totals.
func (t ColumnType) IsNumeric() bool {
	return t == ColumnNumber || t == ColumnCurrency
}

// Column describes one field of every row in a report table.
type Column struct {
	Key   string     `json:"key" validate:"required"`
	Label string     `json:"label"`
	Type  ColumnType `json:"type" validate:"omitempty,oneof=text number date currency status"`
}

// columnType returns the declared type, defaulting to text.
func (c Column) columnType() ColumnType {
	if c.Type == "" {
		return ColumnText
	}
	return c.Type
}

// Row maps column keys to raw values: string, any numeric kind, bool,
// time.Time or nil. Keys absent from a row render as empty.
type Row map[string]any

// Format is the requested output format of an export.
type Format string

const (
	FormatDocument    Format = "pdf"
	FormatSpreadsheet Format = "xlsx"
	FormatDelimited   Format = "csv"
)

// Extension returns the canonical file extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatDocument:
		return "application/pdf"
	case FormatSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDelimited:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// ParseFormat resolves a format name or one of its aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "document":
		return FormatDocument, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatSpreadsheet, nil
	case "csv", "delimited-text", "delimited":
		return FormatDelimited, nil
	}
	return "", &ValidationError{Field: "format", Message: fmt.Sprintf("unsupported export format %q", s)}
}

// UnmarshalText accepts a format name or one of its aliases and stores the
// canonical format. Unknown names are kept as given so that validation
// reports them against the "format" field.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		*f = Format(text)
		return nil
	}
	*f = parsed
	return nil
}

// ExportRequest is an immutable snapshot of a table to export.
type ExportRequest struct {
	Title   string   `json:"title"`
	Rows    []Row    `json:"rows" validate:"required,min=1"`
	Columns []Column `json:"columns" validate:"required,min=1,unique=Key,dive"`
	Format  Format   `json:"format" validate:"required,oneof=pdf xlsx csv"`
}

// ExportFile is a rendered, named payload ready to be offered to the user.
type ExportFile struct {
	ID          string
	Name        string
	Format      Format
	ContentType string
	Data        []byte
	Rows        int
	Pages       int // only known for documents
}
