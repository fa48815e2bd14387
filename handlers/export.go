package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"agrotrack/services"
)

// maxExportBody caps the JSON table accepted by HandleExport.
const maxExportBody = 32 << 20

// errDownloadInterrupted marks a delivery that failed after the attachment
// headers were sent; the response can no longer carry an error.
var errDownloadInterrupted = errors.New("download interrupted")

// downloadDeliverer offers an export as an attachment on the response.
type downloadDeliverer struct {
	e *core.RequestEvent
}

func (d downloadDeliverer) Deliver(_ context.Context, file *services.ExportFile) error {
	h := d.e.Response.Header()
	h.Set("Content-Type", file.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	h.Set("Content-Length", strconv.Itoa(len(file.Data)))
	h.Set("X-Export-Id", file.ID)
	if _, err := d.e.Response.Write(file.Data); err != nil {
		return fmt.Errorf("%w: %w", errDownloadInterrupted, err)
	}
	return nil
}

// HandleExport returns a handler that renders the JSON table in the request
// body and downloads the result.
func HandleExport(exporter *services.Exporter) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.ExportRequest
		body := http.MaxBytesReader(e.Response, e.Request.Body, maxExportBody)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			slog.Warn("export: invalid request body", slog.String("error", err.Error()))
			return ErrorToast(e, http.StatusBadRequest, "La solicitud de exportación no es válida")
		}

		if _, err := exporter.ExportTo(e.Request.Context(), req, downloadDeliverer{e: e}); err != nil {
			return exportError(e, err)
		}
		return nil
	}
}

// HandleFleetExport returns a handler that exports one of the fleet tables
// named by the {table} path value in the {format} path value.
func HandleFleetExport(app core.App, exporter *services.Exporter) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		table, ok := services.LookupFleetTable(e.Request.PathValue("table"))
		if !ok {
			return e.String(http.StatusNotFound, "Tabla no encontrada")
		}

		format, err := services.ParseFormat(e.Request.PathValue("format"))
		if err != nil {
			return exportError(e, err)
		}

		req, err := services.BuildFleetRequest(app, table, format)
		if err != nil {
			slog.Error("export: could not load fleet table",
				slog.String("table", table.Name),
				slog.String("error", err.Error()),
			)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudieron leer los datos")
		}

		if _, err := exporter.ExportTo(e.Request.Context(), req, downloadDeliverer{e: e}); err != nil {
			return exportError(e, err)
		}
		return nil
	}
}

// exportError maps export failures onto status codes and an error toast.
// An interrupted download is only logged and returned.
func exportError(e *core.RequestEvent, err error) error {
	if errors.Is(err, errDownloadInterrupted) {
		slog.Error("export: download interrupted", slog.String("error", err.Error()))
		return err
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return ErrorToast(e, http.StatusBadRequest, validationMessage(validationErr))
	}

	var renderErr *services.RenderError
	if errors.As(err, &renderErr) {
		return ErrorToast(e, http.StatusInternalServerError, "No se pudo generar el archivo")
	}

	slog.Error("export: delivery failed", slog.String("error", err.Error()))
	return ErrorToast(e, http.StatusInternalServerError, "No se pudo completar la exportación")
}

func validationMessage(err *services.ValidationError) string {
	switch err.Field {
	case "rows":
		return "No hay datos para exportar"
	case "columns":
		return "La tabla no tiene columnas"
	case "format":
		return "Formato de exportación no soportado"
	}
	return "La solicitud de exportación no es válida"
}
