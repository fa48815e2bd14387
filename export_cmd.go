package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"agrotrack/collections"
	"agrotrack/services"
)

// newExportCommand builds "export": render a report from a JSON request file
// or from one of the fleet tables and write it to disk.
func newExportCommand(app core.App, exporter *services.Exporter, defaultDir string) *cobra.Command {
	var (
		input  string
		table  string
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a report table as PDF, XLSX or CSV",
		Example: `  agrotrack export --input informe.json --format xlsx
  agrotrack export --table fuel_loads --format pdf --out ./reportes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (input == "") == (table == "") {
				return errors.New("exactly one of --input or --table is required")
			}

			var req services.ExportRequest
			if input != "" {
				data, err := os.ReadFile(input)
				if err != nil {
					return fmt.Errorf("read request: %w", err)
				}
				if err := json.Unmarshal(data, &req); err != nil {
					return fmt.Errorf("parse request %s: %w", input, err)
				}
			}

			if format != "" || table != "" {
				f, err := services.ParseFormat(orDefault(format, string(services.FormatDocument)))
				if err != nil {
					return err
				}
				req.Format = f
			}

			if table != "" {
				t, ok := services.LookupFleetTable(table)
				if !ok {
					return fmt.Errorf("unknown table %q, expected one of %v", table, services.FleetTableNames())
				}
				if err := collections.Setup(app); err != nil {
					return err
				}
				built, err := services.BuildFleetRequest(app, t, req.Format)
				if err != nil {
					return err
				}
				req = built
			}

			disk := &services.DiskDeliverer{Dir: outDir}
			file, err := exporter.ExportTo(cmd.Context(), req, disk)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d filas, %d bytes)\n", disk.Path, file.Rows, len(file.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with the export request")
	cmd.Flags().StringVarP(&table, "table", "t", "", "fleet table to export")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: pdf, xlsx or csv (overrides the request)")
	cmd.Flags().StringVarP(&outDir, "out", "o", defaultDir, "output directory")

	return cmd
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
