// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agrotrack/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	if err := collections.Setup(app); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// CreateTestMachine creates a machinery record with the given plate and
// purchase value and returns it.
func CreateTestMachine(t *testing.T, app core.App, patente string, valorCompra float64) *core.Record {
	t.Helper()

	return saveRecord(t, app, "machinery", map[string]any{
		"patente":           patente,
		"nombre":            "Tractor " + patente,
		"tipo":              "Tractor",
		"marca":             "John Deere",
		"anio":              2020,
		"horometro":         1250.5,
		"estado":            "Operativa",
		"valor_compra":      valorCompra,
		"fecha_adquisicion": time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
}

// CreateTestFuelLoad creates a fuel_loads record for a machine and returns it.
func CreateTestFuelLoad(t *testing.T, app core.App, maquina string, litros, precioLitro float64) *core.Record {
	t.Helper()

	return saveRecord(t, app, "fuel_loads", map[string]any{
		"fecha":        time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
		"maquina":      maquina,
		"operador":     "Operador de prueba",
		"litros":       litros,
		"precio_litro": precioLitro,
		"total":        litros * precioLitro,
	})
}

// CreateTestWorkOrder creates a work order without a start date and returns it.
func CreateTestWorkOrder(t *testing.T, app core.App, codigo, descripcion string, costo float64) *core.Record {
	t.Helper()

	return saveRecord(t, app, "work_orders", map[string]any{
		"codigo":      codigo,
		"descripcion": descripcion,
		"estado":      "Pendiente",
		"costo":       costo,
	})
}

func saveRecord(t *testing.T, app core.App, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}

	return record
}
