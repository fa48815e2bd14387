package collections

import (
	"fmt"
	"log/slog"

	"github.com/pocketbase/pocketbase/core"
)

// Select values of the fleet collections.
var (
	MachineTypes      = []string{"Tractor", "Cosechadora", "Pulverizador", "Camión", "Implemento"}
	MachineStates     = []string{"Operativa", "En mantención", "Fuera de servicio"}
	WorkOrderPriority = []string{"Alta", "Media", "Baja"}
	WorkOrderStates   = []string{"Pendiente", "En progreso", "Completada"}
	MaintenanceTypes  = []string{"Preventiva", "Correctiva"}
	MaintenanceStates = []string{"Programada", "Realizada"}
)

// Setup programmatically creates/ensures the machinery, work_orders,
// fuel_loads and maintenance collections exist.
func Setup(app core.App) error {
	if _, err := ensureCollection(app, "machinery", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "patente", Required: true})
		c.Fields.Add(&core.TextField{Name: "nombre", Required: true})
		c.Fields.Add(&core.SelectField{Name: "tipo", Values: MachineTypes, MaxSelect: 1})
		c.Fields.Add(&core.TextField{Name: "marca"})
		c.Fields.Add(&core.NumberField{Name: "anio", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "horometro"})
		c.Fields.Add(&core.SelectField{Name: "estado", Required: true, Values: MachineStates, MaxSelect: 1})
		c.Fields.Add(&core.NumberField{Name: "valor_compra"})
		c.Fields.Add(&core.DateField{Name: "fecha_adquisicion"})
		addTimestamps(c)
	}); err != nil {
		return err
	}

	if _, err := ensureCollection(app, "work_orders", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "codigo", Required: true})
		c.Fields.Add(&core.TextField{Name: "descripcion", Required: true})
		c.Fields.Add(&core.TextField{Name: "campo"})
		c.Fields.Add(&core.TextField{Name: "maquina"})
		c.Fields.Add(&core.SelectField{Name: "prioridad", Values: WorkOrderPriority, MaxSelect: 1})
		c.Fields.Add(&core.SelectField{Name: "estado", Required: true, Values: WorkOrderStates, MaxSelect: 1})
		c.Fields.Add(&core.DateField{Name: "fecha_inicio"})
		c.Fields.Add(&core.NumberField{Name: "horas"})
		c.Fields.Add(&core.NumberField{Name: "costo"})
		addTimestamps(c)
	}); err != nil {
		return err
	}

	if _, err := ensureCollection(app, "fuel_loads", func(c *core.Collection) {
		c.Fields.Add(&core.DateField{Name: "fecha", Required: true})
		c.Fields.Add(&core.TextField{Name: "maquina", Required: true})
		c.Fields.Add(&core.TextField{Name: "operador"})
		c.Fields.Add(&core.NumberField{Name: "litros", Required: true})
		c.Fields.Add(&core.NumberField{Name: "precio_litro"})
		c.Fields.Add(&core.NumberField{Name: "total"})
		addTimestamps(c)
	}); err != nil {
		return err
	}

	if _, err := ensureCollection(app, "maintenance", func(c *core.Collection) {
		c.Fields.Add(&core.DateField{Name: "fecha", Required: true})
		c.Fields.Add(&core.TextField{Name: "maquina", Required: true})
		c.Fields.Add(&core.SelectField{Name: "tipo", Values: MaintenanceTypes, MaxSelect: 1})
		c.Fields.Add(&core.TextField{Name: "descripcion"})
		c.Fields.Add(&core.SelectField{Name: "estado", Values: MaintenanceStates, MaxSelect: 1})
		c.Fields.Add(&core.NumberField{Name: "costo"})
		c.Fields.Add(&core.DateField{Name: "proxima_fecha"})
		addTimestamps(c)
	}); err != nil {
		return err
	}

	return nil
}

func addTimestamps(c *core.Collection) {
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		slog.Debug("collection already exists, skipping creation", slog.String("collection", name))
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("failed to create collection %q: %w", name, err)
	}

	slog.Info("created collection", slog.String("collection", name), slog.String("id", collection.Id))
	return collection, nil
}
