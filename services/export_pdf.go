package services

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Page geometry in millimetres.
const (
	a4LongSide   = 297.0
	a4ShortSide  = 210.0
	pageMargin   = 10.0
	pdfGridSize  = 1000
	bannerHeight = 16.0
	headerHeight = 8.0
	bodyHeight   = 7.0
	footerHeight = 6.0
)

// errNoColumns guards against building a document without a table.
var errNoColumns = errors.New("table has no columns")

// DocumentWidth returns the printable width of an A4 page.
func DocumentWidth(landscape bool) float64 {
	if landscape {
		return a4LongSide - 2*pageMargin
	}
	return a4ShortSide - 2*pageMargin
}

// GeneratePDF renders the table as a paginated A4 document. The banner and
// column header are registered as the page header so they repeat on every
// page; the footer carries the row count, branding and page numbering.
func GeneratePDF(req ExportRequest, totals Row, opts RenderOptions) ([]byte, error) {
	if len(req.Columns) == 0 {
		return nil, errNoColumns
	}

	pageOrientation := orientation.Vertical
	if opts.Landscape {
		pageOrientation = orientation.Horizontal
	}

	cfg := config.NewBuilder().
		WithOrientation(pageOrientation).
		WithPageSize(pagesize.A4).
		WithLeftMargin(pageMargin).
		WithTopMargin(pageMargin).
		WithRightMargin(pageMargin).
		WithMaxGridSize(pdfGridSize).
		WithTitle(req.Title, true).
		WithAuthor(opts.Branding, true).
		WithCreationDate(opts.GeneratedAt).
		WithPageNumber(props.PageNumber{
			Pattern: pageNumberFormat,
			Place:   props.RightBottom,
			Size:    footerFontSize,
			Color:   colorMuted.pdf(),
		}).
		Build()

	m := maroto.New(cfg)

	spans := PlanColumns(req.Columns, DocumentWidth(opts.Landscape)).GridSpans(pdfGridSize)

	if err := m.RegisterHeader(documentBanner(req, opts), row.New(3), tableHeaderRow(req.Columns, spans)); err != nil {
		return nil, fmt.Errorf("register header: %w", err)
	}
	if err := m.RegisterFooter(documentFooter(len(req.Rows), opts)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	for i, r := range req.Rows {
		m.AddRows(tableBodyRow(req.Columns, spans, r, i%2 == 1))
	}
	if totals != nil {
		m.AddRows(tableTotalsRow(req.Columns, spans, totals))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// documentBanner is the filled title band with the generation timestamp.
func documentBanner(req ExportRequest, opts RenderOptions) core.Row {
	bannerCell := &props.Cell{BackgroundColor: colorBanner.pdf()}
	return row.New(bannerHeight).Add(
		col.New(pdfGridSize).Add(
			text.New(req.Title, props.Text{
				Top:   2,
				Left:  3,
				Size:  titleFontSize,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: colorBannerText.pdf(),
			}),
			text.New(fmt.Sprintf("%s %s", generatedOnLabel, opts.GeneratedAt.Format(generatedLayout)), props.Text{
				Top:   10,
				Left:  3,
				Size:  subtitleFontSize,
				Align: align.Left,
				Color: colorBannerText.pdf(),
			}),
		).WithStyle(bannerCell),
	)
}

// tableHeaderRow renders the column labels on the header fill.
func tableHeaderRow(columns []Column, spans []int) core.Row {
	headerCell := &props.Cell{BackgroundColor: colorHeader.pdf()}
	cols := make([]core.Col, len(columns))
	for i, c := range columns {
		cols[i] = col.New(spans[i]).Add(
			text.New(c.Label, props.Text{
				Top:   2,
				Left:  1,
				Right: 1,
				Size:  headerFontSize,
				Style: fontstyle.Bold,
				Align: AlignmentFor(c.columnType()).pdf(),
				Color: colorHeaderText.pdf(),
			}),
		).WithStyle(headerCell)
	}
	return row.New(headerHeight).Add(cols...)
}

// tableBodyRow renders one data row; zebra rows get the alternate fill.
func tableBodyRow(columns []Column, spans []int, r Row, zebra bool) core.Row {
	var cellStyle *props.Cell
	if zebra {
		cellStyle = &props.Cell{BackgroundColor: colorZebra.pdf()}
	}

	cols := make([]core.Col, len(columns))
	for i, c := range columns {
		cell := FormatCell(r[c.Key], c.columnType())
		column := col.New(spans[i]).Add(
			text.New(cell.Display, props.Text{
				Top:   1.5,
				Left:  1,
				Right: 1,
				Size:  bodyFontSize,
				Align: cell.Alignment.pdf(),
			}),
		)
		if cellStyle != nil {
			column = column.WithStyle(cellStyle)
		}
		cols[i] = column
	}
	return row.New(bodyHeight).Add(cols...)
}

// tableTotalsRow renders the aggregate row: darker fill and bold text.
func tableTotalsRow(columns []Column, spans []int, totals Row) core.Row {
	totalsCell := &props.Cell{BackgroundColor: colorTotals.pdf()}
	cols := make([]core.Col, len(columns))
	for i, c := range columns {
		var display string
		alignment := AlignLeft
		if c.columnType().IsNumeric() {
			cell := FormatCell(totals[c.Key], c.columnType())
			display, alignment = cell.Display, AlignRight
		} else {
			display = textValue(totals[c.Key])
		}
		cols[i] = col.New(spans[i]).Add(
			text.New(display, props.Text{
				Top:   1.5,
				Left:  1,
				Right: 1,
				Size:  headerFontSize,
				Style: fontstyle.Bold,
				Align: alignment.pdf(),
			}),
		).WithStyle(totalsCell)
	}
	return row.New(headerHeight).Add(cols...)
}

// documentFooter carries the row count and branding; maroto adds the page
// number on the right.
func documentFooter(rowCount int, opts RenderOptions) core.Row {
	footerText := props.Text{
		Top:   2,
		Size:  footerFontSize,
		Color: colorMuted.pdf(),
	}
	countText := footerText
	countText.Align = align.Left
	brandText := footerText
	brandText.Align = align.Center

	return row.New(footerHeight).Add(
		col.New(333).Add(text.New(fmt.Sprintf("%s: %d", rowCountLabel, rowCount), countText)),
		col.New(334).Add(text.New(opts.Branding, brandText)),
		col.New(333),
	)
}

var disablePDFConfigDir sync.Once

// countPages reads the page count back from a rendered document.
func countPages(doc []byte) (int, error) {
	disablePDFConfigDir.Do(api.DisableConfigDir)
	return api.PageCount(bytes.NewReader(doc), nil)
}
