package services

import (
	"bytes"
	"fmt"
	"time"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

var testGeneratedAt = time.Date(2024, time.April, 30, 17, 45, 0, 0, time.UTC)

func testRenderOptions() RenderOptions {
	return RenderOptions{
		GeneratedAt: testGeneratedAt,
		Branding:    "AgroTrack - Gestión de Flota",
		Landscape:   true,
	}
}

// fuelLoadRequest builds a fuel_loads style table with n rows.
func fuelLoadRequest(n int, format Format) ExportRequest {
	table := fleetTables["fuel_loads"]
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		litros := 50 + float64(i%7)*12.5
		rows = append(rows, Row{
			"fecha":        time.Date(2024, time.March, 1+i%28, 0, 0, 0, 0, time.UTC),
			"maquina":      fmt.Sprintf("BBCL-%02d", i%40),
			"operador":     "Juan Pérez",
			"litros":       litros,
			"precio_litro": 1085,
			"total":        litros * 1085,
		})
	}
	return ExportRequest{Title: table.Title, Rows: rows, Columns: table.Columns, Format: format}
}
