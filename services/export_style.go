package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/xuri/excelize/v2"
)

// rgb is a brand color usable by both the PDF and the spreadsheet renderer.
type rgb struct {
	r, g, b int
}

func (c rgb) pdf() *props.Color {
	return &props.Color{Red: c.r, Green: c.g, Blue: c.b}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}

// Report palette. Every renderer reads its colors from here.
var (
	colorBanner     = rgb{27, 94, 32}    // deep field green
	colorBannerText = rgb{255, 255, 255}
	colorHeader     = rgb{46, 125, 50}
	colorHeaderText = rgb{255, 255, 255}
	colorZebra      = rgb{241, 248, 233}
	colorTotals     = rgb{197, 225, 165}
	colorBorder     = rgb{189, 189, 189}
	colorMuted      = rgb{117, 117, 117}
)

// Font sizes in points.
const (
	titleFontSize    = 16.0
	subtitleFontSize = 9.0
	headerFontSize   = 8.0
	bodyFontSize     = 7.0
	footerFontSize   = 7.0

	sheetTitleFontSize    = 16.0
	sheetSubtitleFontSize = 10.0
	sheetHeaderFontSize   = 11.0
	sheetBodyFontSize     = 10.0
)

const (
	generatedOnLabel = "Generado el"
	rowCountLabel    = "Total de registros"
	pageNumberFormat = "Página {current} de {total}"
	generatedLayout  = "02-01-2006 15:04"
)

func (a Alignment) pdf() align.Type {
	switch a {
	case AlignRight:
		return align.Right
	case AlignCenter:
		return align.Center
	}
	return align.Left
}

func (a Alignment) excel() string {
	return string(a)
}

// thinBorders returns thin borders on all four sides in the given color.
func thinBorders(color string) []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: color,
			Style: 1, // thin
		}
	}
	return borders
}
