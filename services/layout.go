package services

import (
	"math"
	"regexp"
	"sort"
	"unicode/utf8"
)

// Heuristic column widths in millimetres, before normalization.
const (
	numericColumnWidth = 24.0
	dateColumnWidth    = 22.0
	idColumnWidth      = 16.0
	statusColumnWidth  = 24.0

	longTextPerRune = 3.2
	longTextFloor   = 40.0
	defaultPerRune  = 2.4
	defaultFloor    = 22.0
)

var (
	// id as a whole word, snake_case or camelCase token, so "fluid" or
	// "valid" stay default width.
	idKeyPattern       = regexp.MustCompile(`(?i:^id$|^id_|_id$|_id_|code|codigo|patente)|^[iI]d[A-Z0-9]|[a-z0-9]I[dD]($|[A-Z0-9_])`)
	statusKeyPattern   = regexp.MustCompile(`(?i)(status|estado|priority|prioridad)`)
	longTextKeyPattern = regexp.MustCompile(`(?i)(description|descripcion|name|nombre|field|campo|observ)`)
)

// ColumnLayout holds one width per column, in the same order as the columns
// it was planned for.
type ColumnLayout struct {
	Widths []float64
}

// Total returns the sum of all column widths.
func (l ColumnLayout) Total() float64 {
	var sum float64
	for _, w := range l.Widths {
		sum += w
	}
	return sum
}

// PlanColumns assigns each column a heuristic width from its type, key and
// label, then scales every width so the columns exactly fill availableWidth.
func PlanColumns(columns []Column, availableWidth float64) ColumnLayout {
	widths := make([]float64, len(columns))
	var sum float64
	for i, c := range columns {
		widths[i] = heuristicWidth(c)
		sum += widths[i]
	}
	if sum <= 0 || availableWidth <= 0 {
		return ColumnLayout{Widths: widths}
	}

	scale := availableWidth / sum
	for i := range widths {
		widths[i] *= scale
	}
	return ColumnLayout{Widths: widths}
}

func heuristicWidth(c Column) float64 {
	switch c.columnType() {
	case ColumnNumber, ColumnCurrency:
		return numericColumnWidth
	case ColumnDate:
		return dateColumnWidth
	}

	labelRunes := float64(utf8.RuneCountInString(c.Label))
	switch {
	case idKeyPattern.MatchString(c.Key):
		return idColumnWidth
	case statusKeyPattern.MatchString(c.Key):
		return statusColumnWidth
	case longTextKeyPattern.MatchString(c.Key):
		return math.Max(labelRunes*longTextPerRune, longTextFloor)
	}
	return math.Max(labelRunes*defaultPerRune, defaultFloor)
}

// GridSpans converts the widths into integer spans of a grid with total
// cells, distributing rounding remainders to the largest fractions first so
// the spans always add up to total. Every column gets at least one cell when
// total allows it.
func (l ColumnLayout) GridSpans(total int) []int {
	spans := make([]int, len(l.Widths))
	sum := l.Total()
	if len(spans) == 0 || sum <= 0 || total <= 0 {
		return spans
	}

	type remainder struct {
		index int
		frac  float64
	}
	rems := make([]remainder, len(spans))
	used := 0
	for i, w := range l.Widths {
		exact := w / sum * float64(total)
		spans[i] = int(math.Floor(exact))
		rems[i] = remainder{index: i, frac: exact - float64(spans[i])}
		used += spans[i]
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; used < total; i = (i + 1) % len(rems) {
		spans[rems[i].index]++
		used++
	}

	// Columns rounded down to nothing borrow a cell from the widest one.
	for i := range spans {
		if spans[i] > 0 || total < len(spans) {
			continue
		}
		widest := 0
		for j := range spans {
			if spans[j] > spans[widest] {
				widest = j
			}
		}
		spans[widest]--
		spans[i]++
	}
	return spans
}
