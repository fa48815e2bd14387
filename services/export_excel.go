package services

import (
	"bytes"
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet in every workbook.
const SheetName = "Datos"

// Spreadsheet layout: rows are 1-based.
const (
	sheetTitleRow    = 1
	sheetSubtitleRow = 2
	sheetHeaderRow   = 4
	sheetFirstRow    = 5

	sheetWidthMargin   = 2.0
	sheetWideFloor     = 14.0
	sheetDefaultFloor  = 10.0
	sheetCurrencyFmt   = `"$"#,##0;-"$"#,##0`
	sheetIntegerFmt    = `#,##0`
	sheetFractionalFmt = `#,##0.###`
	sheetDateFmt       = `dd-mm-yyyy`
)

// GenerateExcel renders the table into a workbook with a single "Datos"
// sheet. Number and currency cells keep their numeric value and carry a
// display format, so the sheet stays usable for recalculation.
func GenerateExcel(req ExportRequest, totals Row, opts RenderOptions) ([]byte, error) {
	if len(req.Columns) == 0 {
		return nil, errNoColumns
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	styles := newSheetStyles(f)
	lastCol, err := excelize.ColumnNumberToName(len(req.Columns))
	if err != nil {
		return nil, fmt.Errorf("last column name: %w", err)
	}

	// ── Title block ─────────────────────────────────────────────────────

	titleStyle, err := styles.title()
	if err != nil {
		return nil, err
	}
	subtitleStyle, err := styles.subtitle()
	if err != nil {
		return nil, err
	}
	titleCell := fmt.Sprintf("A%d", sheetTitleRow)
	subtitleCell := fmt.Sprintf("A%d", sheetSubtitleRow)
	if len(req.Columns) > 1 {
		if err := f.MergeCell(SheetName, titleCell, fmt.Sprintf("%s%d", lastCol, sheetTitleRow)); err != nil {
			return nil, fmt.Errorf("merge title: %w", err)
		}
		if err := f.MergeCell(SheetName, subtitleCell, fmt.Sprintf("%s%d", lastCol, sheetSubtitleRow)); err != nil {
			return nil, fmt.Errorf("merge subtitle: %w", err)
		}
	}
	f.SetCellStr(SheetName, titleCell, req.Title)
	f.SetCellStyle(SheetName, titleCell, titleCell, titleStyle)
	f.SetCellValue(SheetName, subtitleCell, fmt.Sprintf("%s %s", generatedOnLabel, opts.GeneratedAt.Format(generatedLayout)))
	f.SetCellStyle(SheetName, subtitleCell, subtitleCell, subtitleStyle)

	// ── Column headers ──────────────────────────────────────────────────

	headerStyle, err := styles.header()
	if err != nil {
		return nil, err
	}
	for i, c := range req.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, sheetHeaderRow)
		f.SetCellStr(SheetName, cell, c.Label)
	}
	f.SetCellStyle(SheetName, fmt.Sprintf("A%d", sheetHeaderRow), fmt.Sprintf("%s%d", lastCol, sheetHeaderRow), headerStyle)

	// ── Data rows ───────────────────────────────────────────────────────

	widths := make([]float64, len(req.Columns))
	for i, c := range req.Columns {
		widths[i] = float64(runewidth.StringWidth(c.Label))
	}

	for rowIdx, r := range req.Rows {
		rowNum := sheetFirstRow + rowIdx
		zebra := rowIdx%2 == 1
		for colIdx, c := range req.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			formatted := FormatCell(r[c.Key], c.columnType())

			value, fractional := sheetValue(formatted, c.columnType())
			if err := setSheetCell(f, cell, value); err != nil {
				return nil, err
			}

			style, err := styles.body(c.columnType(), zebra, fractional)
			if err != nil {
				return nil, err
			}
			f.SetCellStyle(SheetName, cell, cell, style)

			if w := float64(runewidth.StringWidth(formatted.Display)); w > widths[colIdx] {
				widths[colIdx] = w
			}
		}
	}
	lastDataRow := sheetFirstRow + len(req.Rows) - 1

	// ── Totals ──────────────────────────────────────────────────────────

	if totals != nil {
		rowNum := lastDataRow + 1
		for colIdx, c := range req.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			var fractional bool
			if c.columnType().IsNumeric() {
				total := CoerceNumber(totals[c.Key])
				fractional = total != math.Trunc(total)
				f.SetCellValue(SheetName, cell, total)
			} else if label := textValue(totals[c.Key]); label != "" {
				f.SetCellStr(SheetName, cell, label)
			}
			style, err := styles.totals(c.columnType(), fractional)
			if err != nil {
				return nil, err
			}
			f.SetCellStyle(SheetName, cell, cell, style)
		}
	}

	// ── Column widths, frozen header, filter ────────────────────────────

	for i, c := range req.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, name, name, sheetColumnWidth(c.columnType(), widths[i])); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      sheetHeaderRow,
		TopLeftCell: fmt.Sprintf("A%d", sheetFirstRow),
		ActivePane:  "bottomLeft",
	})
	if err := f.AutoFilter(SheetName, fmt.Sprintf("A%d:%s%d", sheetHeaderRow, lastCol, lastDataRow), nil); err != nil {
		return nil, fmt.Errorf("auto filter: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   req.Title,
		Creator: opts.Branding,
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetValue picks the typed value stored in a data cell. Numeric columns
// store numbers, parsed dates store dates, everything else its display text
// unchanged. A nil value leaves the cell empty.
func sheetValue(cell FormattedCell, t ColumnType) (any, bool) {
	if cell.Display == "" {
		return nil, false
	}
	switch t {
	case ColumnNumber, ColumnCurrency:
		n := CoerceNumber(cell.Raw)
		return n, n != math.Trunc(n)
	case ColumnDate:
		if d, ok := ParseDate(cell.Raw); ok {
			return d, false
		}
		return cell.Display, false
	}
	return cell.Display, false
}

// setSheetCell writes a typed value. Text goes in as a shared string, which
// Excel never evaluates as a formula.
func setSheetCell(f *excelize.File, cell string, value any) error {
	var err error
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		err = f.SetCellStr(SheetName, cell, v)
	default:
		err = f.SetCellValue(SheetName, cell, v)
	}
	if err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}

// sheetColumnWidth applies the margin and the per-type floor.
func sheetColumnWidth(t ColumnType, longest float64) float64 {
	floor := sheetDefaultFloor
	if t == ColumnCurrency || t == ColumnDate {
		floor = sheetWideFloor
	}
	return math.Max(longest+sheetWidthMargin, floor)
}

type sheetStyleKey struct {
	kind       string
	colType    ColumnType
	zebra      bool
	fractional bool
}

// sheetStyles creates each distinct cell style once per workbook.
type sheetStyles struct {
	f     *excelize.File
	cache map[sheetStyleKey]int
}

func newSheetStyles(f *excelize.File) *sheetStyles {
	return &sheetStyles{f: f, cache: make(map[sheetStyleKey]int)}
}

func (s *sheetStyles) get(key sheetStyleKey, build func() *excelize.Style) (int, error) {
	if id, ok := s.cache[key]; ok {
		return id, nil
	}
	id, err := s.f.NewStyle(build())
	if err != nil {
		return 0, fmt.Errorf("create %s style: %w", key.kind, err)
	}
	s.cache[key] = id
	return id, nil
}

func (s *sheetStyles) title() (int, error) {
	return s.get(sheetStyleKey{kind: "title"}, func() *excelize.Style {
		return &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: sheetTitleFontSize, Color: colorBanner.hex()},
		}
	})
}

func (s *sheetStyles) subtitle() (int, error) {
	return s.get(sheetStyleKey{kind: "subtitle"}, func() *excelize.Style {
		return &excelize.Style{
			Font: &excelize.Font{Size: sheetSubtitleFontSize, Color: colorMuted.hex()},
		}
	})
}

// header: bold white text on the header fill, centered.
func (s *sheetStyles) header() (int, error) {
	return s.get(sheetStyleKey{kind: "header"}, func() *excelize.Style {
		return &excelize.Style{
			Font: &excelize.Font{Bold: true, Color: colorHeaderText.hex(), Size: sheetHeaderFontSize},
			Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeader.hex()}, Pattern: 1},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
				WrapText:   true,
			},
			Border: thinBorders(colorBorder.hex()),
		}
	})
}

func (s *sheetStyles) body(t ColumnType, zebra, fractional bool) (int, error) {
	key := sheetStyleKey{kind: "body", colType: t, zebra: zebra, fractional: fractional}
	return s.get(key, func() *excelize.Style {
		style := &excelize.Style{
			Font:      &excelize.Font{Size: sheetBodyFontSize},
			Alignment: &excelize.Alignment{Horizontal: AlignmentFor(t).excel(), Vertical: "center"},
			Border:    thinBorders(colorBorder.hex()),
		}
		if zebra {
			style.Fill = excelize.Fill{Type: "pattern", Color: []string{colorZebra.hex()}, Pattern: 1}
		}
		style.CustomNumFmt = numberFormatFor(t, fractional)
		return style
	})
}

func (s *sheetStyles) totals(t ColumnType, fractional bool) (int, error) {
	key := sheetStyleKey{kind: "totals", colType: t, fractional: fractional}
	return s.get(key, func() *excelize.Style {
		horizontal := AlignLeft
		if t.IsNumeric() {
			horizontal = AlignRight
		}
		return &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: sheetHeaderFontSize},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{colorTotals.hex()}, Pattern: 1},
			Alignment:    &excelize.Alignment{Horizontal: horizontal.excel(), Vertical: "center"},
			Border:       thinBorders(colorBorder.hex()),
			CustomNumFmt: numberFormatFor(t, fractional),
		}
	})
}

func numberFormatFor(t ColumnType, fractional bool) *string {
	var format string
	switch t {
	case ColumnCurrency:
		format = sheetCurrencyFmt
	case ColumnNumber:
		format = sheetIntegerFmt
		if fractional {
			format = sheetFractionalFmt
		}
	case ColumnDate:
		format = sheetDateFmt
	default:
		return nil
	}
	return &format
}
