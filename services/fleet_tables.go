package services

import "sort"

// FleetTable describes a dashboard table backed by a fleet collection: the
// collection it reads, how its records are ordered and which columns the
// export shows.
type FleetTable struct {
	Name       string
	Collection string
	Title      string
	Sort       string
	Columns    []Column
}

var fleetTables = map[string]FleetTable{
	"machinery": {
		Name:       "machinery",
		Collection: "machinery",
		Title:      "Inventario de Maquinaria",
		Sort:       "patente",
		Columns: []Column{
			{Key: "patente", Label: "Patente", Type: ColumnText},
			{Key: "nombre", Label: "Nombre", Type: ColumnText},
			{Key: "tipo", Label: "Tipo", Type: ColumnText},
			{Key: "marca", Label: "Marca", Type: ColumnText},
			{Key: "anio", Label: "Año", Type: ColumnText},
			{Key: "horometro", Label: "Horómetro", Type: ColumnNumber},
			{Key: "estado", Label: "Estado", Type: ColumnStatus},
			{Key: "valor_compra", Label: "Valor de compra", Type: ColumnCurrency},
			{Key: "fecha_adquisicion", Label: "Fecha de adquisición", Type: ColumnDate},
		},
	},
	"work_orders": {
		Name:       "work_orders",
		Collection: "work_orders",
		Title:      "Órdenes de Trabajo",
		Sort:       "-fecha_inicio",
		Columns: []Column{
			{Key: "codigo", Label: "Código", Type: ColumnText},
			{Key: "descripcion", Label: "Descripción", Type: ColumnText},
			{Key: "campo", Label: "Campo", Type: ColumnText},
			{Key: "maquina", Label: "Máquina", Type: ColumnText},
			{Key: "prioridad", Label: "Prioridad", Type: ColumnStatus},
			{Key: "estado", Label: "Estado", Type: ColumnStatus},
			{Key: "fecha_inicio", Label: "Inicio", Type: ColumnDate},
			{Key: "horas", Label: "Horas", Type: ColumnNumber},
			{Key: "costo", Label: "Costo", Type: ColumnCurrency},
		},
	},
	"fuel_loads": {
		Name:       "fuel_loads",
		Collection: "fuel_loads",
		Title:      "Cargas de Combustible",
		Sort:       "-fecha",
		Columns: []Column{
			{Key: "fecha", Label: "Fecha", Type: ColumnDate},
			{Key: "maquina", Label: "Máquina", Type: ColumnText},
			{Key: "operador", Label: "Operador", Type: ColumnText},
			{Key: "litros", Label: "Litros", Type: ColumnNumber},
			{Key: "precio_litro", Label: "Precio por litro", Type: ColumnCurrency},
			{Key: "total", Label: "Total", Type: ColumnCurrency},
		},
	},
	"maintenance": {
		Name:       "maintenance",
		Collection: "maintenance",
		Title:      "Mantenimientos",
		Sort:       "-fecha",
		Columns: []Column{
			{Key: "fecha", Label: "Fecha", Type: ColumnDate},
			{Key: "maquina", Label: "Máquina", Type: ColumnText},
			{Key: "tipo", Label: "Tipo", Type: ColumnStatus},
			{Key: "descripcion", Label: "Descripción", Type: ColumnText},
			{Key: "estado", Label: "Estado", Type: ColumnStatus},
			{Key: "costo", Label: "Costo", Type: ColumnCurrency},
			{Key: "proxima_fecha", Label: "Próxima mantención", Type: ColumnDate},
		},
	},
}

// LookupFleetTable returns the table registered under name.
func LookupFleetTable(name string) (FleetTable, bool) {
	t, ok := fleetTables[name]
	return t, ok
}

// FleetTableNames lists the registered tables in alphabetical order.
func FleetTableNames() []string {
	names := make([]string, 0, len(fleetTables))
	for name := range fleetTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
