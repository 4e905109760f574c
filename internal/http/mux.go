package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"net/http"
)

func NewChiMux(handler PreviewHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)

	router.Get("/", handler.Index)
	router.Get("/manifests", handler.ListManifests)

	files := http.StripPrefix("/files/", http.FileServer(http.Dir(handler.cfg.GalleryDir())))
	router.Get("/files/*", files.ServeHTTP)

	return router
}
