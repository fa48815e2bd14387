package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agrotrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "AgroTrack - Gestión de Flota", cfg.Export.Branding)
	assert.Equal(t, "America/Santiago", cfg.Export.Timezone)
	assert.Equal(t, "landscape", cfg.Export.Orientation)
	assert.Equal(t, 2, cfg.Export.MaxConcurrentRenders)
	assert.False(t, cfg.Export.CSVByteOrderMark)
	assert.Equal(t, "exports", cfg.Export.OutputDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Seed)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("AGROTRACK_EXPORT_BRANDING", "Fundo Los Robles")
	t.Setenv("AGROTRACK_EXPORT_ORIENTATION", "portrait")
	t.Setenv("AGROTRACK_EXPORT_MAX_CONCURRENT_RENDERS", "4")
	t.Setenv("AGROTRACK_EXPORT_CSV_BYTE_ORDER_MARK", "true")
	t.Setenv("AGROTRACK_LOGGING_FORMAT", "json")
	t.Setenv("AGROTRACK_SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Fundo Los Robles", cfg.Export.Branding)
	assert.Equal(t, "portrait", cfg.Export.Orientation)
	assert.Equal(t, 4, cfg.Export.MaxConcurrentRenders)
	assert.True(t, cfg.Export.CSVByteOrderMark)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Seed)
}

func TestLoad_FileOverridesEnv(t *testing.T) {
	path := writeConfigFile(t, `
export:
  branding: Agrícola Santa Rosa
  timezone: UTC
logging:
  level: debug
`)
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("AGROTRACK_EXPORT_BRANDING", "Desde el entorno")
	t.Setenv("AGROTRACK_EXPORT_OUTPUT_DIR", "/tmp/reportes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Agrícola Santa Rosa", cfg.Export.Branding)
	assert.Equal(t, "UTC", cfg.Export.Timezone)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Keys missing from the file keep the environment value.
	assert.Equal(t, "/tmp/reportes", cfg.Export.OutputDir)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to load config from file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"unknown timezone", map[string]string{"AGROTRACK_EXPORT_TIMEZONE": "Marte/Olympus"}, "Timezone"},
		{"unknown orientation", map[string]string{"AGROTRACK_EXPORT_ORIENTATION": "diagonal"}, "Orientation"},
		{"too many renders", map[string]string{"AGROTRACK_EXPORT_MAX_CONCURRENT_RENDERS": "100"}, "MaxConcurrentRenders"},
		{"unknown log level", map[string]string{"AGROTRACK_LOGGING_LEVEL": "verbose"}, "Level"},
		{"unknown log format", map[string]string{"AGROTRACK_LOGGING_FORMAT": "xml"}, "Format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigFileEnv, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestExportConfig_ExporterOptions(t *testing.T) {
	cfg := ExportConfig{
		Branding:             "Fundo Los Robles",
		Timezone:             "UTC",
		Orientation:          "portrait",
		MaxConcurrentRenders: 3,
		CSVByteOrderMark:     true,
	}

	opts := cfg.ExporterOptions()

	assert.Equal(t, "Fundo Los Robles", opts.Branding)
	assert.Equal(t, "UTC", opts.Location.String())
	assert.False(t, opts.Landscape)
	assert.True(t, opts.ByteOrderMark)
	assert.Equal(t, 3, opts.MaxConcurrentRenders)

	cfg.Orientation = "landscape"
	assert.True(t, cfg.ExporterOptions().Landscape)
}

func TestExportConfig_LocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, "UTC", ExportConfig{Timezone: "Marte/Olympus"}.Location().String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "table", "machinery")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"table":"machinery"`)

	buf.Reset()
	NewLogger(LoggingConfig{Level: "info", Format: "text"}, &buf).Info("listo")
	assert.True(t, strings.Contains(buf.String(), "msg=listo"), "got %q", buf.String())
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"INFO":    "INFO",
		"warning": "WARN",
		"error":   "ERROR",
		"":        "INFO",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in).String(), "level %q", in)
	}
}
