package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MacroPull/internal/handler/api"
	"MacroPull/internal/handler/stream"
	"MacroPull/internal/scheduler"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/usecase"
	pkgch "MacroPull/pkg/clickhouse"
	"MacroPull/pkg/config"
	xhttp "MacroPull/pkg/http"
	"MacroPull/pkg/http/middleware"
	applogger "MacroPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle: the warm-up pass,
// the three refresh loops, the HTTP surface and graceful shutdown.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	values     *usecase.ValueRefresher
	history    *usecase.HistoryRefresher
	composite  *usecase.CompositeRefresher
	resolver   *usecase.Resolver
	recorder   *usecase.ObservationRecorder
	handler    *api.IndicatorsEchoHandler
	hub        *stream.Hub
	valueCache *icache.ValueCache
	chClient   *pkgch.Client
	sched      *scheduler.Scheduler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	values *usecase.ValueRefresher,
	history *usecase.HistoryRefresher,
	composite *usecase.CompositeRefresher,
	resolver *usecase.Resolver,
	recorder *usecase.ObservationRecorder,
	handler *api.IndicatorsEchoHandler,
	hub *stream.Hub,
	valueCache *icache.ValueCache,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		values:     values,
		history:    history,
		composite:  composite,
		resolver:   resolver,
		recorder:   recorder,
		handler:    handler,
		hub:        hub,
		valueCache: valueCache,
		chClient:   chClient,
		sched:      scheduler.New(log),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Warm up synchronously so the first request never sees an empty
	// cache: one full value pass, then the composite.
	a.log.Info("warming up value cache")
	a.values.RefreshOnce(ctx)
	a.composite.RefreshOnce()
	a.log.Info("warm-up done", applogger.Int("cached_keys", a.valueCache.Len()))

	// History is larger and not needed to answer value requests, so its
	// first pass runs in the background.
	go a.history.RefreshOnce(ctx)

	// Push the full indicator set to stream subscribers after every
	// value tick.
	a.values.OnTick(func() {
		a.composite.RefreshOnce()
		a.hub.Broadcast(a.resolver.ResolveAll())
	})

	if err := a.registerJobs(ctx); err != nil {
		return err
	}
	a.sched.Start()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	)
	if a.cfg.Metrics.Enabled {
		a.httpServer.Echo().Use(echo.WrapMiddleware(middleware.Metrics(a.log, time.Second)))
	}
	a.hub.RegisterRoutes(a.httpServer.Echo())
	a.registerHealth(a.httpServer.Echo())

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("serving", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) registerJobs(ctx context.Context) error {
	jobs := []struct {
		name     string
		schedule string
		run      func() error
	}{
		{"values", "@every " + a.cfg.Refresh.Values.String(), func() error {
			a.values.RefreshOnce(ctx)
			return nil
		}},
		{"history", "@every " + a.cfg.Refresh.History.String(), func() error {
			a.history.RefreshOnce(ctx)
			return nil
		}},
		{"composite", "@every " + a.cfg.Refresh.Composite.String(), func() error {
			a.composite.RefreshOnce()
			return nil
		}},
	}
	for _, j := range jobs {
		if err := a.sched.AddJob(j.schedule, scheduler.FuncJob{JobName: j.name, Fn: j.run}); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) registerHealth(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		body := map[string]interface{}{
			"status":      "ok",
			"cached_keys": a.valueCache.Len(),
			"subscribers": a.hub.Clients(),
		}
		if a.chClient != nil {
			if err := a.chClient.Health(c.Request().Context()); err != nil {
				body["status"] = "degraded"
				body["clickhouse"] = err.Error()
				return c.JSON(http.StatusServiceUnavailable, body)
			}
		}
		return c.JSON(http.StatusOK, body)
	})
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
