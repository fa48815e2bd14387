package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
)

// NotAvailable is the marker domain tables use for values they do not have.
const NotAvailable = "N/A"

// DisplayDateLayout is the Chilean short date, DD-MM-YYYY.
const DisplayDateLayout = "02-01-2006"

// Alignment is the horizontal placement of a cell, shared by every renderer.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// AlignmentFor derives cell alignment from the column type.
func AlignmentFor(t ColumnType) Alignment {
	switch t {
	case ColumnNumber, ColumnCurrency:
		return AlignRight
	case ColumnDate:
		return AlignCenter
	}
	return AlignLeft
}

// FormattedCell is a display-ready cell. Raw keeps the original value so the
// spreadsheet can store numbers as numbers.
type FormattedCell struct {
	Display   string
	Raw       any
	Alignment Alignment
}

// FormatCell renders a raw value for the given column type using the
// es-CL conventions. It is pure: the same input always yields the same cell.
func FormatCell(value any, t ColumnType) FormattedCell {
	cell := FormattedCell{Raw: value, Alignment: AlignmentFor(t)}

	switch t {
	case ColumnCurrency:
		if isBlank(value) {
			return cell
		}
		cell.Display = FormatCLP(CoerceNumber(value))
	case ColumnNumber:
		if isBlank(value) {
			return cell
		}
		cell.Display = FormatNumber(CoerceNumber(value))
	case ColumnDate:
		cell.Display = formatDate(value)
	default:
		cell.Display = textValue(value)
	}
	return cell
}

// FormatCLP formats an amount as Chilean pesos: "$" prefix, "." thousands
// grouping and no decimals (e.g. $1.234.567, -$500).
func FormatCLP(amount float64) string {
	rounded := math.Round(amount)
	if rounded == 0 {
		return "$0"
	}
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + "$" + humanize.FormatFloat("#.###,", rounded)
}

// FormatNumber formats a number with "." thousands grouping and up to three
// decimals after a "," separator; trailing zeros are dropped.
func FormatNumber(n float64) string {
	rounded := math.Round(n*1000) / 1000
	if rounded == math.Trunc(rounded) {
		if rounded == 0 {
			return "0"
		}
		return humanize.FormatFloat("#.###,", rounded)
	}
	s := humanize.FormatFloat("#.###,###", rounded)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ",")
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// CoerceNumber converts a loosely typed value to a float64. Text is stripped
// of everything except digits, signs and dots before its numeric prefix is
// parsed. Anything that cannot be read as a finite number yields 0.
func CoerceNumber(value any) float64 {
	var n float64
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		n = parseLooseNumber(v)
	case time.Time:
		return 0
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0
		}
		n = f
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func parseLooseNumber(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			b.WriteRune(r)
		}
	}
	prefix := numericPrefix.FindString(b.String())
	if prefix == "" {
		return 0
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseDate reads a calendar date from a time.Time or a string in one of the
// layouts the fleet data uses.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, NotAvailable) {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if t, err := cast.ToTimeE(s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05.000Z07:00",
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
}

func formatDate(value any) string {
	if t, ok := ParseDate(value); ok {
		return t.Format(DisplayDateLayout)
	}
	if s, ok := value.(string); ok && strings.EqualFold(strings.TrimSpace(s), NotAvailable) {
		return ""
	}
	return textValue(value)
}

func textValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(DisplayDateLayout)
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return s
}

// isBlank reports values a numeric column renders as an empty cell.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(v)
		return s == "" || strings.EqualFold(s, NotAvailable)
	}
	return false
}
