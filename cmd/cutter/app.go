package main

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/sklirg/cutter/internal/devstack"
	"github.com/sklirg/cutter/internal/domain"
	"github.com/sklirg/cutter/internal/service"
	"github.com/sklirg/cutter/internal/settings"
	"net/http"
	"time"
)

type App struct {
	cfg     *settings.Config
	gallery *service.GalleryService
	mux     *chi.Mux
	stack   *devstack.Stack

	srv *http.Server
}

func NewApp(cfg *settings.Config, gallery *service.GalleryService, mux *chi.Mux, stack *devstack.Stack) App {
	return App{
		cfg:     cfg,
		gallery: gallery,
		mux:     mux,
		stack:   stack,
	}
}

// Run executes the crop pipeline once and returns its report.
func (app *App) Run(ctx context.Context) (domain.Report, error) {
	return app.gallery.Run(ctx)
}

// StartStack brings up the local containers when -local is set.
func (app *App) StartStack(ctx context.Context) error {
	if !app.cfg.IsLocal {
		return nil
	}

	return app.stack.Start(ctx)
}

// Start serves the preview endpoints in the background.
func (app *App) Start() error {
	app.srv = &http.Server{
		Addr:    app.cfg.PreviewAddr(),
		Handler: app.mux,
	}

	go func() {
		logger.Infof("Serving gallery preview on %s", app.cfg.PreviewAddr())

		err := app.srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("Unable to serve: %v", err)
		}
	}()

	return nil
}

// Shutdown stops the preview server and the local stack.
func (app *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if app.srv != nil {
		if err := app.srv.Shutdown(ctx); err != nil {
			logger.Errorf("Unable to shut down server: %v", err)
			return err
		}
	}

	if app.cfg.IsLocal {
		if err := app.stack.Shutdown(ctx); err != nil {
			logger.Errorf("Unable to shut down local stack: %v", err)
			return err
		}
	}

	return nil
}
