package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// Toast types understood by the dashboard's toast component.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

const (
	toastEvent       = "showToast"
	flashToastName   = "flash_toast"
	flashToastMaxAge = 10
)

// SetToast queues a toast on the client through the HX-Trigger header,
// keeping any events already present in it. A short-lived flash cookie
// carries the same toast for plain downloads and redirects, where HTMX never
// sees the header.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{"message": message, "type": toastType}

	if trigger, err := mergeTrigger(e.Response.Header().Get("HX-Trigger"), payload); err != nil {
		slog.Warn("toast: failed to build HX-Trigger", slog.String("error", err.Error()))
	} else {
		e.Response.Header().Set("HX-Trigger", trigger)
	}

	cookieVal, err := json.Marshal(payload)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashToastName,
		Value:    url.QueryEscape(string(cookieVal)),
		Path:     "/",
		MaxAge:   flashToastMaxAge,
		HttpOnly: false, // read by the toast script
		SameSite: http.SameSiteLaxMode,
	})
}

// mergeTrigger adds the toast event to an existing HX-Trigger value. A value
// that is not a JSON object is replaced.
func mergeTrigger(existing string, payload map[string]string) (string, error) {
	events := map[string]any{}
	if existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			slog.Debug("toast: existing HX-Trigger is not valid JSON, overwriting", slog.String("value", existing))
			events = map[string]any{}
		}
	}
	events[toastEvent] = payload

	data, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, ToastError, message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
