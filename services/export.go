package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/unicode/norm"
)

// defaultFileName is used when a title slugifies to nothing.
const defaultFileName = "reporte"

// RenderOptions carries the per-export settings every renderer reads.
type RenderOptions struct {
	GeneratedAt   time.Time
	Branding      string
	Landscape     bool
	ByteOrderMark bool
}

// ExporterOptions configures an Exporter.
type ExporterOptions struct {
	Branding      string
	Location      *time.Location
	Landscape     bool
	ByteOrderMark bool

	// MaxConcurrentRenders bounds simultaneous document and spreadsheet
	// renders. Zero or less means one.
	MaxConcurrentRenders int
}

// Exporter validates export requests, renders them in the requested format
// and names the resulting file.
type Exporter struct {
	opts     ExporterOptions
	logger   *slog.Logger
	validate *validator.Validate
	renders  *semaphore.Weighted
	now      func() time.Time
}

// NewExporter builds an Exporter. A nil logger discards log output.
func NewExporter(opts ExporterOptions, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxConcurrentRenders <= 0 {
		opts.MaxConcurrentRenders = 1
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Exporter{
		opts:     opts,
		logger:   logger.With(slog.String("component", "exporter")),
		validate: v,
		renders:  semaphore.NewWeighted(int64(opts.MaxConcurrentRenders)),
		now:      time.Now,
	}
}

// Validate checks that the request describes a non-empty, well-formed table
// in a supported format. Failures are *ValidationError.
func (e *Exporter) Validate(req ExportRequest) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Field:   strings.TrimPrefix(fe.Namespace(), "ExportRequest."),
		Message: validationMessage(fe),
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "unique":
		return "column keys must be unique"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

// Export validates and renders req. Nothing is rendered for an invalid
// request. ctx only bounds the wait for a render slot; a started render runs
// to completion.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	start := time.Now()
	id := uuid.NewString()
	log := e.logger.With(slog.String("export_id", id), slog.String("format", string(req.Format)))

	if err := e.Validate(req); err != nil {
		exportsTotal.WithLabelValues(metricFormat(req.Format), outcomeInvalid).Inc()
		log.WarnContext(ctx, "export rejected", slog.String("error", err.Error()))
		return nil, err
	}

	opts := RenderOptions{
		GeneratedAt:   e.now().In(e.opts.Location),
		Branding:      e.opts.Branding,
		Landscape:     e.opts.Landscape,
		ByteOrderMark: e.opts.ByteOrderMark,
	}

	file := &ExportFile{
		ID:          id,
		Name:        FileName(req.Title, req.Format),
		Format:      req.Format,
		ContentType: req.Format.ContentType(),
		Rows:        len(req.Rows),
	}

	data, err := e.render(ctx, req, opts)
	if err != nil {
		exportsTotal.WithLabelValues(metricFormat(req.Format), outcomeFailed).Inc()
		log.ErrorContext(ctx, "export failed", slog.String("error", err.Error()))
		return nil, err
	}
	file.Data = data

	if req.Format == FormatDocument {
		pages, err := countPages(data)
		if err != nil {
			log.WarnContext(ctx, "could not count document pages", slog.String("error", err.Error()))
		}
		file.Pages = pages
	}

	elapsed := time.Since(start)
	exportsTotal.WithLabelValues(metricFormat(req.Format), outcomeSuccess).Inc()
	exportDuration.WithLabelValues(metricFormat(req.Format)).Observe(elapsed.Seconds())
	log.InfoContext(ctx, "export rendered",
		slog.String("file", file.Name),
		slog.Int("rows", file.Rows),
		slog.Int("bytes", len(file.Data)),
		slog.Int("pages", file.Pages),
		slog.Duration("duration", elapsed),
	)
	return file, nil
}

// ExportTo renders req and hands the file to d. The deliverer is not called
// when validation or rendering fails.
func (e *Exporter) ExportTo(ctx context.Context, req ExportRequest, d Deliverer) (*ExportFile, error) {
	file, err := e.Export(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := d.Deliver(ctx, file); err != nil {
		return nil, fmt.Errorf("deliver %s: %w", file.Name, err)
	}
	return file, nil
}

func (e *Exporter) render(ctx context.Context, req ExportRequest, opts RenderOptions) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch req.Format {
	case FormatDelimited:
		data, err = GenerateCSV(req, opts)
	case FormatDocument, FormatSpreadsheet:
		if err := e.renders.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("wait for render slot: %w", err)
		}
		defer e.renders.Release(1)

		totals := ComputeTotals(req.Rows, req.Columns)
		if req.Format == FormatDocument {
			data, err = GeneratePDF(req, totals, opts)
		} else {
			data, err = GenerateExcel(req, totals, opts)
		}
	default:
		return nil, &ValidationError{Field: "format", Message: fmt.Sprintf("unsupported export format %q", req.Format)}
	}
	if err != nil {
		return nil, &RenderError{Format: req.Format, Err: err}
	}
	return data, nil
}

// metricFormat keeps the format label bounded to known values.
func metricFormat(f Format) string {
	switch f {
	case FormatDocument, FormatSpreadsheet, FormatDelimited:
		return string(f)
	}
	return "unknown"
}

// FileName slugifies title into a file name for the given format. Runs of
// whitespace become a single "_" and characters that are forbidden in file
// names on common platforms become "-". An empty result falls back to
// "reporte".
func FileName(title string, format Format) string {
	name := strings.Join(strings.Fields(norm.NFC.String(title)), "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if unicode.IsControl(r) {
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = defaultFileName
	}
	return name + "." + format.Extension()
}
