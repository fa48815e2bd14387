package collections

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type machineDef struct {
	patente     string
	nombre      string
	tipo        string
	marca       string
	anio        int
	horometro   float64
	estado      string
	valorCompra float64
	adquirida   time.Time
}

type workOrderDef struct {
	codigo      string
	descripcion string
	campo       string
	maquina     string
	prioridad   string
	estado      string
	inicio      time.Time
	horas       float64
	costo       float64
}

type fuelLoadDef struct {
	fecha       time.Time
	maquina     string
	operador    string
	litros      float64
	precioLitro float64
}

type maintenanceDef struct {
	fecha       time.Time
	maquina     string
	tipo        string
	descripcion string
	estado      string
	costo       float64
	proxima     time.Time
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

var seedMachines = []machineDef{
	{"BBCL-21", "Tractor John Deere 6110J", "Tractor", "John Deere", 2019, 4820.5, "Operativa", 58900000, day(2019, time.March, 12)},
	{"CDFT-45", "Tractor New Holland T6.180", "Tractor", "New Holland", 2021, 2310, "Operativa", 72450000, day(2021, time.August, 3)},
	{"GHKL-08", "Cosechadora Case IH 7150", "Cosechadora", "Case IH", 2017, 6125.25, "En mantención", 215000000, day(2017, time.January, 20)},
	{"JKPR-73", "Pulverizador Jacto Uniport 2530", "Pulverizador", "Jacto", 2020, 1890, "Operativa", 98300000, day(2020, time.October, 5)},
	{"LMNS-19", "Camión Mercedes-Benz Atego 1726", "Camión", "Mercedes-Benz", 2018, 0, "Fuera de servicio", 64900000, day(2018, time.June, 18)},
	{"RSTV-62", "Rastra offset Baldan", "Implemento", "Baldan", 2022, 0, "Operativa", 12800000, day(2022, time.May, 9)},
}

var seedWorkOrders = []workOrderDef{
	{"OT-2024-001", "Preparación de suelo, rastraje cruzado", "Potrero El Olivo", "BBCL-21", "Alta", "Completada", day(2024, time.March, 4), 14.5, 385000},
	{"OT-2024-002", "Siembra de maíz grano", "Potrero El Olivo", "CDFT-45", "Alta", "Completada", day(2024, time.March, 18), 22, 612000},
	{"OT-2024-003", "Aplicación herbicida pre-emergente", "Parcela Norte", "JKPR-73", "Media", "En progreso", day(2024, time.April, 2), 9.25, 248500},
	{"OT-2024-004", "Cosecha de trigo", "Parcela Sur", "GHKL-08", "Alta", "Pendiente", day(2024, time.April, 15), 0, 0},
	{"OT-2024-005", "Traslado de insumos a bodega, sector \"La Quebrada\"", "Bodega central", "LMNS-19", "Baja", "Pendiente", day(2024, time.April, 22), 3, 95000},
}

var seedFuelLoads = []fuelLoadDef{
	{day(2024, time.March, 4), "BBCL-21", "Juan Pérez", 120, 1085},
	{day(2024, time.March, 11), "BBCL-21", "Juan Pérez", 95.5, 1085},
	{day(2024, time.March, 18), "CDFT-45", "María González", 180, 1092},
	{day(2024, time.March, 25), "CDFT-45", "María González", 160.25, 1092},
	{day(2024, time.April, 2), "JKPR-73", "Pedro Soto", 75, 1101},
	{day(2024, time.April, 9), "GHKL-08", "Luis Rojas", 310, 1101},
	{day(2024, time.April, 16), "LMNS-19", "Ana Muñoz", 140, 1098},
}

var seedMaintenance = []maintenanceDef{
	{day(2024, time.February, 10), "BBCL-21", "Preventiva", "Cambio de aceite y filtros, 4.500 horas", "Realizada", 420000, day(2024, time.August, 10)},
	{day(2024, time.March, 28), "GHKL-08", "Correctiva", "Reparación de cilindro del cabezal", "Programada", 1850000, time.Time{}},
	{day(2024, time.April, 5), "JKPR-73", "Preventiva", "Calibración de boquillas", "Realizada", 135000, day(2024, time.October, 5)},
	{day(2024, time.April, 19), "LMNS-19", "Correctiva", "Cambio de embrague", "Programada", 960000, time.Time{}},
}

// Seed populates the fleet collections with sample data. It is safe to call
// on every startup because it returns early if any machinery records already
// exist.
func Seed(app core.App) error {
	// ── idempotency: skip if machinery already exists ────────────────
	machineryCol, err := app.FindCollectionByNameOrId("machinery")
	if err != nil {
		return fmt.Errorf("seed: could not find machinery collection: %w", err)
	}
	existing, err := app.FindAllRecords(machineryCol)
	if err != nil {
		return fmt.Errorf("seed: could not query machinery: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	slog.Info("seed: machinery collection is empty, inserting seed data")

	workOrdersCol, err := app.FindCollectionByNameOrId("work_orders")
	if err != nil {
		return fmt.Errorf("seed: could not find work_orders collection: %w", err)
	}
	fuelLoadsCol, err := app.FindCollectionByNameOrId("fuel_loads")
	if err != nil {
		return fmt.Errorf("seed: could not find fuel_loads collection: %w", err)
	}
	maintenanceCol, err := app.FindCollectionByNameOrId("maintenance")
	if err != nil {
		return fmt.Errorf("seed: could not find maintenance collection: %w", err)
	}

	for _, d := range seedMachines {
		r := core.NewRecord(machineryCol)
		r.Set("patente", d.patente)
		r.Set("nombre", d.nombre)
		r.Set("tipo", d.tipo)
		r.Set("marca", d.marca)
		r.Set("anio", d.anio)
		r.Set("horometro", d.horometro)
		r.Set("estado", d.estado)
		r.Set("valor_compra", d.valorCompra)
		r.Set("fecha_adquisicion", d.adquirida)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: machine %s: %w", d.patente, err)
		}
	}

	for _, d := range seedWorkOrders {
		r := core.NewRecord(workOrdersCol)
		r.Set("codigo", d.codigo)
		r.Set("descripcion", d.descripcion)
		r.Set("campo", d.campo)
		r.Set("maquina", d.maquina)
		r.Set("prioridad", d.prioridad)
		r.Set("estado", d.estado)
		r.Set("fecha_inicio", d.inicio)
		r.Set("horas", d.horas)
		r.Set("costo", d.costo)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: work order %s: %w", d.codigo, err)
		}
	}

	for _, d := range seedFuelLoads {
		r := core.NewRecord(fuelLoadsCol)
		r.Set("fecha", d.fecha)
		r.Set("maquina", d.maquina)
		r.Set("operador", d.operador)
		r.Set("litros", d.litros)
		r.Set("precio_litro", d.precioLitro)
		r.Set("total", math.Round(d.litros*d.precioLitro))
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: fuel load %s %s: %w", d.maquina, d.fecha.Format(time.DateOnly), err)
		}
	}

	for _, d := range seedMaintenance {
		r := core.NewRecord(maintenanceCol)
		r.Set("fecha", d.fecha)
		r.Set("maquina", d.maquina)
		r.Set("tipo", d.tipo)
		r.Set("descripcion", d.descripcion)
		r.Set("estado", d.estado)
		r.Set("costo", d.costo)
		if !d.proxima.IsZero() {
			r.Set("proxima_fecha", d.proxima)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: maintenance %s: %w", d.maquina, err)
		}
	}

	slog.Info("seed: fleet data inserted",
		slog.Int("machinery", len(seedMachines)),
		slog.Int("work_orders", len(seedWorkOrders)),
		slog.Int("fuel_loads", len(seedFuelLoads)),
		slog.Int("maintenance", len(seedMaintenance)),
	)
	return nil
}
