package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/hashtagchobi/chobi-site/internal/domain"
	"github.com/hashtagchobi/chobi-site/internal/infra/database"
	"github.com/hashtagchobi/chobi-site/internal/infra/repository"
	"github.com/hashtagchobi/chobi-site/internal/loader"
	"github.com/hashtagchobi/chobi-site/internal/present/rest"
	restmw "github.com/hashtagchobi/chobi-site/internal/present/rest/middleware"
	"github.com/hashtagchobi/chobi-site/internal/service"
	"github.com/hashtagchobi/chobi-site/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the content API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg := appConfig

	if cfg.Server.EnableTrace {
		shutdown, err := setupTracing(ctx, cfg.Server.TraceEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				slog.Warn("Failed to flush traces", slog.String("error", err.Error()), slog.String("module", "main"))
			}
		}()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var enquiryRepo usecase.EnquiryRepository
	if cfg.Server.PostgresDsn != "" {
		db, err := database.NewPostgres(ctx, cfg.Server.PostgresDsn)
		if err != nil {
			return err
		}
		if err := database.MigratePostgres(db); err != nil {
			return err
		}
		enquiryRepo = repository.NewEnquiryRepository(db)
	} else {
		slog.Info("No postgresDsn configured, enquiries are not stored", slog.String("module", "main"))
	}
	enquiry := usecase.NewEnquiryUsecase(enquiryRepo, cfg.Site)

	signal := service.NewSignalService(a.rdb)
	a.content.SetPublisher(signal)

	warmer := service.NewWarmer()
	service.Warm(warmer, loader.New("home", a.content.HomePage))
	service.Warm(warmer, loader.New("gallery", a.content.GalleryPage))
	service.Warm(warmer, loader.New("about", a.content.About))
	service.Warm(warmer, loader.New("videos", a.content.Videos))
	service.Warm(warmer, loader.New("website", a.content.AllWebsiteData))
	go warmer.Run(ctx, cfg.Cache.RefreshDuration())

	if a.rdb != nil {
		go func() {
			err := signal.Listen(ctx, func(ctx context.Context, event domain.Event) {
				if err := a.content.Evict(ctx, event.Key); err != nil {
					slog.WarnContext(ctx, "Failed to apply remote invalidation", slog.String("error", err.Error()), slog.String("module", "main"))
				}
				warmer.Trigger()
			})
			if err != nil {
				slog.Error("Invalidation listener stopped", slog.String("error", err.Error()), slog.String("module", "main"))
			}
		}()
	}

	if a.memory != nil && cfg.Store.Watch {
		go func() {
			err := a.memory.Watch(ctx, cfg.Store.SeedFile, func() {
				if err := a.content.InvalidateAll(ctx); err != nil {
					slog.WarnContext(ctx, "Failed to clear cache after reload", slog.String("error", err.Error()), slog.String("module", "main"))
				}
				warmer.Trigger()
			})
			if err != nil {
				slog.Error("Seed watcher stopped", slog.String("error", err.Error()), slog.String("module", "main"))
			}
		}()
	}

	auth := service.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash)
	if !auth.Enabled() {
		slog.Info("Admin credentials not configured, cache endpoints are locked", slog.String("module", "main"))
	}
	authMiddleware := restmw.NewAuthMiddleware(auth, cfg.Site)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if cfg.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName))
	}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler := rest.NewHandler(cfg.Site, a.content, enquiry, signal, authMiddleware, warmer)
	handler.RegisterRoutes(e)
	rest.RegisterStatic(e, cfg.Site.StaticDir)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", slog.String("addr", cfg.Server.Listen), slog.String("module", "main"))
		if err := e.Start(cfg.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down", slog.String("module", "main"))
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
