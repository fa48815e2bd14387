package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"agrotrack/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newTestExporter returns an exporter with fixed branding and no log output.
func newTestExporter(t *testing.T) *services.Exporter {
	t.Helper()
	return services.NewExporter(services.ExporterOptions{
		Branding:  "AgroTrack",
		Landscape: true,
	}, nil)
}
