package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gate "github.com/goliatone/go-auth-gate"
	"github.com/goliatone/go-auth-gate/metrics"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config   ServerConfig
	options  *gate.Options
	db       *bun.DB
	users    gate.Users
	tokens   *gate.TokenService
	resolver *gate.Resolver
	gate     *gate.AdminGate
	metrics  *metrics.Metrics
	srv      router.Server[*fiber.App]
	logger   gate.Logger
}

func main() {
	logger := gate.DefaultLogger()

	cfg, err := LoadServerConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.WeakSigningKey() {
		logger.Error("refusing to start with an example signing key", "env", "GATE_SIGNING_KEY")
		os.Exit(1)
	}

	opts := cfg.Options()
	if err := opts.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded", "options", print.MaybePrettyJSON(redacted(*opts)))

	app := &App{config: cfg, options: opts, logger: logger, metrics: metrics.New(nil)}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		logger.Error("persistence setup failed", "error", err)
		os.Exit(1)
	}
	defer app.db.Close()

	closeValidator, err := WithGate(ctx, app)
	if err != nil {
		logger.Error("gate setup failed", "error", err)
		os.Exit(1)
	}
	defer closeValidator()

	if err := WithHTTPServer(app); err != nil {
		logger.Error("http setup failed", "error", err)
		os.Exit(1)
	}

	if err := Seed(ctx, app); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	go ServeMetrics(app, cfg.MetricsAddr)

	logger.Info("listening", "addr", cfg.Addr)
	app.srv.Serve(cfg.Addr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	app.db = bun.NewDB(sqldb, sqlitedialect.New())

	if err := gate.Migrate(ctx, app.db); err != nil {
		return err
	}

	app.users = gate.NewUsersRepository(app.db)
	return nil
}

func WithGate(_ context.Context, app *App) (func(), error) {
	validator, closeValidator, err := gate.NewTokenValidator(app.options, app.logger)
	if err != nil {
		return nil, err
	}

	if app.options.GetSigningKey() != "" {
		tokens, err := gate.NewTokenService(app.options, app.config.TokenTTL, app.logger)
		if err != nil {
			closeValidator()
			return nil, err
		}
		app.tokens = tokens
	}

	finder := gate.NewUserProviderFromRepository(app.users).WithLogger(app.logger)

	app.resolver = gate.NewResolver(app.options, validator, finder).
		WithLogger(app.logger).
		WithMetrics(app.metrics)
	app.gate = gate.New(app.options).
		WithLogger(app.logger).
		WithMetrics(app.metrics)

	return closeValidator, nil
}

func WithHTTPServer(app *App) error {
	views, err := NewViews()
	if err != nil {
		return err
	}

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             views,
		}))
	})

	r := srv.Router()

	r.Get("/health", func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Get(gate.LoginPath, LoginShow(app))

	protected := app.gate.Middleware(app.resolver)
	r.Get("/admin", AdminDashboard(app), protected)

	app.srv = srv
	return nil
}

// ServeMetrics exposes the Prometheus registry on its own listener
func ServeMetrics(app *App, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	app.logger.Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		app.logger.Error("metrics server stopped", "error", err)
	}
}

// LoginShow is a placeholder for the login page owned by the auth provider
func LoginShow(app *App) router.HandlerFunc {
	return func(ctx router.Context) error {
		brand := app.gate.Brand()
		return ctx.Render("login", router.ViewContext{
			"title": brand.Title(),
			"brand": brand,
		})
	}
}

// AdminDashboard is the protected content
func AdminDashboard(app *App) router.HandlerFunc {
	return func(ctx router.Context) error {
		user, ok := gate.UserFromRouter(ctx)
		if !ok {
			return ctx.Status(http.StatusInternalServerError).SendString("missing admin user")
		}
		return ctx.JSON(http.StatusOK, map[string]any{
			"dashboard": app.gate.Brand().Name,
			"user":      user.Username,
		})
	}
}

// Seed creates an admin and an editor and logs a token for each
func Seed(ctx context.Context, app *App) error {
	for _, u := range []*gate.User{
		{Username: "admin", Email: "admin@example.com", Role: gate.AdminRoleName},
		{Username: "editor", Email: "editor@example.com", Role: "editor"},
	} {
		if existing, err := app.users.GetByIdentifier(ctx, u.Email); err == nil {
			u = existing
		} else if !gate.IsUserNotFound(err) {
			return err
		} else if u, err = app.users.Create(ctx, u); err != nil {
			return err
		}

		if app.tokens == nil {
			continue
		}

		token, err := app.tokens.Generate(u)
		if err != nil {
			return err
		}
		app.logger.Info("demo token", "user", u.Username, "role", u.Role, "token", token)
	}
	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

func redacted(o gate.Options) gate.Options {
	if o.SigningKey != "" {
		o.SigningKey = "***"
	}
	return o
}
