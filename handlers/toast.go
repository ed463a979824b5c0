package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// Toast kinds understood by the client toast script.
const (
	ToastSuccess = "success"
	ToastInfo    = "info"
	ToastWarning = "warning"
	ToastError   = "error"
)

const flashCookie = "flash_toast"

// Toast is the payload of the showToast client event.
type Toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast queues a toast for the client. HTMX requests receive it through
// the HX-Trigger header, merged into any trigger already set; a short-lived
// flash cookie carries it across plain redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	toast := Toast{Message: message, Type: toastType}

	triggers := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &triggers); err != nil {
			zap.L().Warn("toast: existing HX-Trigger is not valid JSON, overwriting", zap.Error(err))
			triggers = map[string]any{}
		}
	}
	triggers["showToast"] = toast

	data, err := json.Marshal(triggers)
	if err != nil {
		zap.L().Error("toast: failed to marshal HX-Trigger JSON", zap.Error(err))
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	cookieVal, err := json.Marshal(toast)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(string(cookieVal)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read by the toast script
		SameSite: http.SameSiteLaxMode,
	})
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, ToastError, message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// internalError logs err and answers with the generic error toast.
func internalError(e *core.RequestEvent, where string, err error) error {
	zap.L().Error(where, zap.Error(err), zap.String("path", e.Request.URL.Path))
	return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
