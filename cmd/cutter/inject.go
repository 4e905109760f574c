//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/sklirg/cutter/internal/devstack"
	"github.com/sklirg/cutter/internal/http"
	"github.com/sklirg/cutter/internal/service"
	"github.com/sklirg/cutter/internal/settings"
	"github.com/sklirg/cutter/internal/storage"
)

var api = wire.NewSet(
	http.NewChiMux,
	http.NewPreviewHandler,
	wire.Bind(new(http.Manifests), new(*service.ManifestService)),
)

var pipeline = wire.NewSet(
	storage.NewObjectStore,
	service.NewManifestService,
	service.NewGalleryService,
	wire.Bind(new(service.Config), new(*settings.Config)),
	wire.Bind(new(service.ObjectStore), new(*storage.ObjectStore)),
)

func InjectApp(cfg *settings.Config) (App, error) {
	wire.Build(
		NewApp,
		api,
		pipeline,
		NewS3Api,
		NewDockerController,
		devstack.NewStack,
	)
	return App{}, nil
}
