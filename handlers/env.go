package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"restrobilling/config"
	"restrobilling/services"
)

// Env bundles what the handlers share: the app, the in-process registries and
// the loaded configuration.
type Env struct {
	App      *pocketbase.PocketBase
	Config   *config.Config
	Sessions *services.SessionRegistry
	Carts    *services.CartRegistry
	Orders   services.OrderSequence
	Now      func() time.Time
}

// NewEnv wires the registries and the persisted order counter for app.
func NewEnv(app *pocketbase.PocketBase, cfg *config.Config) *Env {
	return &Env{
		App:      app,
		Config:   cfg,
		Sessions: services.NewSessionRegistry(cfg.Settings(), cfg.Billing.SessionTTL),
		Carts:    services.NewCartRegistry(),
		Orders:   services.NewOrderCounter(app, services.OrderCounterName),
		Now:      time.Now,
	}
}

// isHTMX reports whether the request was issued by HTMX.
func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// redirect sends HTMX clients an HX-Redirect and everyone else a 302.
func redirect(e *core.RequestEvent, to string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", to)
		return e.NoContent(http.StatusOK)
	}
	return e.Redirect(http.StatusFound, to)
}
