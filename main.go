package main

import (
	"os"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"restrobilling/collections"
	"restrobilling/config"
	"restrobilling/handlers"
)

func main() {
	// The environment level covers config loading; the configured level
	// takes over once the file has been read.
	logger, level, err := newLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load("config.yaml")
	level.SetLevel(parseLevel(cfg.App.LogLevel))

	app := pocketbase.New()
	env := handlers.NewEnv(app, cfg)

	app.RootCmd.AddCommand(newInvoiceCommand(cfg))

	// Create collections and seed the menu on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			zap.L().Warn("seed data failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		app.Cron().MustAdd("billing_session_sweep", cfg.Billing.SweepSchedule, func() {
			if expired := env.Sessions.Sweep(); len(expired) > 0 {
				zap.L().Info("expired idle billing sessions", zap.Strings("sessions", expired))
			}
		})
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.CartMiddleware())

		// ── Menu & cart ──────────────────────────────────────────
		se.Router.GET("/", handlers.HandleMenu(env))
		se.Router.POST("/cart/items/{menuId}", handlers.HandleCartAdd(env))
		se.Router.POST("/cart/items/{menuId}/increment", handlers.HandleCartIncrement(env))
		se.Router.POST("/cart/items/{menuId}/decrement", handlers.HandleCartDecrement(env))
		se.Router.DELETE("/cart/items/{menuId}", handlers.HandleCartRemove(env))
		se.Router.DELETE("/cart", handlers.HandleCartClear(env))

		// ── Checkout ─────────────────────────────────────────────
		se.Router.POST("/checkout", handlers.HandleCheckout(env))

		// ── Billing session ──────────────────────────────────────
		se.Router.GET("/billing/{id}", handlers.HandleBillingView(env))
		se.Router.POST("/billing/{id}/items", handlers.HandleAddItem(env))
		se.Router.PATCH("/billing/{id}/items/{index}", handlers.HandleUpdateItem(env))
		se.Router.DELETE("/billing/{id}/items/{index}", handlers.HandleRemoveItem(env))
		se.Router.PATCH("/billing/{id}/draft", handlers.HandleDraftUpdate(env))
		se.Router.POST("/billing/{id}/discount", handlers.HandleSetDiscount(env))
		se.Router.POST("/billing/{id}/cashier", handlers.HandleSetCashier(env))

		// ── Print & export ───────────────────────────────────────
		se.Router.GET("/billing/{id}/print", handlers.HandleBillingPrint(env))
		se.Router.GET("/billing/{id}/export/pdf", handlers.HandleExportPDF(env))
		se.Router.GET("/billing/{id}/export/excel", handlers.HandleExportExcel(env))

		// ── Finalisation ─────────────────────────────────────────
		se.Router.POST("/billing/{id}/place-order", handlers.HandlePlaceOrder(env))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		zap.L().Fatal("app stopped", zap.Error(err))
	}
}

// newLogger builds a JSON zap logger at the given level (default info). The
// returned AtomicLevel adjusts it after construction.
func newLogger(level string) (*zap.Logger, zap.AtomicLevel, error) {
	atom := zap.NewAtomicLevelAt(parseLevel(level))

	cfg := zap.NewProductionConfig()
	cfg.Level = atom
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	return logger, atom, err
}

func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
