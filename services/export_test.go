package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExporter(opts ExporterOptions) *Exporter {
	e := NewExporter(opts, nil)
	e.now = func() time.Time { return testGeneratedAt }
	return e
}

func scenarioRequest(format Format) ExportRequest {
	return ExportRequest{
		Title:   "Resumen de costos",
		Columns: scenarioColumns,
		Rows:    []Row{{"a": "X", "b": 100}, {"a": "Y", "b": 200}},
		Format:  format,
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestExport_Formats(t *testing.T) {
	tests := []struct {
		format      Format
		name        string
		contentType string
		magic       []byte
	}{
		{FormatDocument, "Resumen_de_costos.pdf", "application/pdf", []byte("%PDF-")},
		{FormatSpreadsheet, "Resumen_de_costos.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK")},
		{FormatDelimited, "Resumen_de_costos.csv", "text/csv; charset=utf-8", []byte("Name,Amount")},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			file, err := newTestExporter(ExporterOptions{}).Export(context.Background(), scenarioRequest(tt.format))
			require.NoError(t, err)

			assert.Equal(t, tt.name, file.Name)
			assert.Equal(t, tt.format, file.Format)
			assert.Equal(t, tt.contentType, file.ContentType)
			assert.Equal(t, 2, file.Rows)
			assert.NotEmpty(t, file.ID)
			assert.True(t, bytes.HasPrefix(file.Data, tt.magic), "unexpected payload prefix %q", file.Data[:min(len(file.Data), 8)])
			if tt.format == FormatDocument {
				assert.Equal(t, 1, file.Pages)
			} else {
				assert.Zero(t, file.Pages)
			}
		})
	}
}

func TestExport_CSVHasNoTotals(t *testing.T) {
	file, err := newTestExporter(ExporterOptions{}).Export(context.Background(), scenarioRequest(FormatDelimited))
	require.NoError(t, err)
	assert.Equal(t, "Name,Amount\nX,$100\nY,$200", string(file.Data))
}

func TestExport_ValidationErrors(t *testing.T) {
	valid := scenarioRequest(FormatDocument)

	tests := []struct {
		name  string
		edit  func(*ExportRequest)
		field string
	}{
		{"no columns", func(r *ExportRequest) { r.Columns = nil }, "columns"},
		{"empty columns", func(r *ExportRequest) { r.Columns = []Column{} }, "columns"},
		{"no rows", func(r *ExportRequest) { r.Rows = nil }, "rows"},
		{"empty rows", func(r *ExportRequest) { r.Rows = []Row{} }, "rows"},
		{"missing format", func(r *ExportRequest) { r.Format = "" }, "format"},
		{"unknown format", func(r *ExportRequest) { r.Format = "docx" }, "format"},
		{"duplicate keys", func(r *ExportRequest) {
			r.Columns = []Column{{Key: "a", Label: "A"}, {Key: "a", Label: "B"}}
		}, "columns"},
		{"blank key", func(r *ExportRequest) {
			r.Columns = []Column{{Key: "", Label: "A"}}
		}, "columns[0].key"},
		{"unknown column type", func(r *ExportRequest) {
			r.Columns = []Column{{Key: "a", Label: "A", Type: "money"}}
		}, "columns[0].type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.edit(&req)

			file, err := newTestExporter(ExporterOptions{}).Export(context.Background(), req)

			assert.Nil(t, file)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected *ValidationError, got %T: %v", err, err)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Contains(t, err.Error(), "invalid export request")
		})
	}
}

type recordingDeliverer struct {
	files []*ExportFile
	err   error
}

func (d *recordingDeliverer) Deliver(_ context.Context, file *ExportFile) error {
	d.files = append(d.files, file)
	return d.err
}

func TestExportTo_DeliversOnlyOnSuccess(t *testing.T) {
	exporter := newTestExporter(ExporterOptions{})
	d := &recordingDeliverer{}

	_, err := exporter.ExportTo(context.Background(), ExportRequest{Format: FormatDelimited}, d)
	require.Error(t, err)
	assert.Empty(t, d.files)

	file, err := exporter.ExportTo(context.Background(), scenarioRequest(FormatDelimited), d)
	require.NoError(t, err)
	require.Len(t, d.files, 1)
	assert.Same(t, file, d.files[0])
}

func TestExportTo_DeliveryFailure(t *testing.T) {
	d := &recordingDeliverer{err: errors.New("disk full")}

	file, err := newTestExporter(ExporterOptions{}).ExportTo(context.Background(), scenarioRequest(FormatDelimited), d)

	assert.Nil(t, file)
	assert.ErrorContains(t, err, "disk full")
	assert.ErrorContains(t, err, "Resumen_de_costos.csv")
}

func TestDiskDeliverer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reportes")
	d := &DiskDeliverer{Dir: dir}

	file, err := newTestExporter(ExporterOptions{}).ExportTo(context.Background(), scenarioRequest(FormatDelimited), d)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, file.Name), d.Path)
	data, err := os.ReadFile(d.Path)
	require.NoError(t, err)
	assert.Equal(t, file.Data, data)
}

func TestExport_WaitsForRenderSlot(t *testing.T) {
	exporter := newTestExporter(ExporterOptions{MaxConcurrentRenders: 1})
	require.NoError(t, exporter.renders.Acquire(context.Background(), 1))
	defer exporter.renders.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := exporter.Export(ctx, scenarioRequest(FormatDocument))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	var renderErr *RenderError
	assert.False(t, errors.As(err, &renderErr))

	// Delimited text does not take a render slot.
	_, err = exporter.Export(ctx, scenarioRequest(FormatDelimited))
	assert.NoError(t, err)
}

func TestExport_Options(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	exporter := newTestExporter(ExporterOptions{
		Branding:      "Fundo Los Robles",
		Location:      santiago,
		ByteOrderMark: true,
	})

	file, err := exporter.Export(context.Background(), scenarioRequest(FormatDelimited))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(file.Data), utf8BOM))
}

func TestExport_LogsAndCounts(t *testing.T) {
	var logs bytes.Buffer
	exporter := NewExporter(ExporterOptions{}, slog.New(slog.NewJSONHandler(&logs, nil)))

	success := exportsTotal.WithLabelValues("csv", outcomeSuccess)
	invalid := exportsTotal.WithLabelValues("unknown", outcomeInvalid)
	beforeSuccess, beforeInvalid := counterValue(t, success), counterValue(t, invalid)

	file, err := exporter.Export(context.Background(), scenarioRequest(FormatDelimited))
	require.NoError(t, err)
	_, err = exporter.Export(context.Background(), scenarioRequest("docx"))
	require.Error(t, err)

	assert.Equal(t, beforeSuccess+1, counterValue(t, success))
	assert.Equal(t, beforeInvalid+1, counterValue(t, invalid))
	assert.Contains(t, logs.String(), `"export_id":"`+file.ID+`"`)
	assert.Contains(t, logs.String(), `"msg":"export rejected"`)
}

func TestRenderError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&RenderError{Format: FormatDocument, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "render pdf: boom", err.Error())
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		format Format
		want   string
	}{
		{"spaces", "Resumen de costos", FormatDelimited, "Resumen_de_costos.csv"},
		{"whitespace runs", "  Cargas \t de\n combustible  ", FormatDocument, "Cargas_de_combustible.pdf"},
		{"forbidden characters", `Informe 2024/03: "Norte"`, FormatSpreadsheet, "Informe_2024-03-_-Norte-.xlsx"},
		{"accents kept", "Órdenes de Trabajo", FormatDocument, "Órdenes_de_Trabajo.pdf"},
		{"decomposed accents normalized", "Mantencio\u0301n", FormatDelimited, "Mantenci\u00f3n.csv"},
		{"control characters", "a\x00b", FormatDelimited, "a-b.csv"},
		{"empty", "", FormatDocument, "reporte.pdf"},
		{"only whitespace", "   ", FormatSpreadsheet, "reporte.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.title, tt.format))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatDocument, false},
		{"document", FormatDocument, false},
		{"XLSX", FormatSpreadsheet, false},
		{"excel", FormatSpreadsheet, false},
		{"spreadsheet", FormatSpreadsheet, false},
		{" csv ", FormatDelimited, false},
		{"delimited-text", FormatDelimited, false},
		{"docx", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				var validationErr *ValidationError
				assert.True(t, errors.As(err, &validationErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportRequest_DecodesFormatAliases(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"document", FormatDocument},
		{"spreadsheet", FormatSpreadsheet},
		{"delimited-text", FormatDelimited},
		{"Excel", FormatSpreadsheet},
		{"pdf", FormatDocument},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			body := `{"title":"Resumen de costos","format":"` + tt.in + `",
				"columns":[{"key":"a","label":"Name"},{"key":"b","label":"Amount","type":"currency"}],
				"rows":[{"a":"X","b":100}]}`

			var req ExportRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req))
			assert.Equal(t, tt.want, req.Format)

			file, err := newTestExporter(ExporterOptions{}).Export(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, "Resumen_de_costos."+tt.want.Extension(), file.Name)
		})
	}
}

func TestExportRequest_UnknownFormatFailsValidation(t *testing.T) {
	var req ExportRequest
	require.NoError(t, json.Unmarshal([]byte(`{"format":"docx","columns":[{"key":"a"}],"rows":[{"a":1}]}`), &req))
	assert.Equal(t, Format("docx"), req.Format)

	_, err := newTestExporter(ExporterOptions{}).Export(context.Background(), req)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "format", validationErr.Field)
}
