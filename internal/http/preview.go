package http

import (
	"encoding/json"
	"github.com/sklirg/cutter/internal/domain"
	"github.com/sklirg/cutter/internal/settings"
	"net/http"
	"os"
	"sort"
	"strings"
)

// Manifests is the part of the manifest store the preview server needs.
type Manifests interface {
	List() ([]string, error)
	Load(name string) (domain.Manifest, error)
}

// PreviewHandler serves a JSON view of the gallery directory so generated
// crops can be inspected without opening every file.
type PreviewHandler struct {
	cfg       *settings.Config
	manifests Manifests
}

func NewPreviewHandler(cfg *settings.Config, manifests Manifests) PreviewHandler {
	return PreviewHandler{
		cfg:       cfg,
		manifests: manifests,
	}
}

type galleryEntry struct {
	Source   string   `json:"source,omitempty"`
	Variants []string `json:"variants,omitempty"`
}

type galleryResponse struct {
	Dir     string         `json:"dir"`
	Size    string         `json:"size,omitempty"`
	Entries []galleryEntry `json:"entries"`
}

// Index lists the gallery grouped by source image. An optional size query
// parameter (WIDTHxHEIGHT) narrows the variants to one geometry.
func (h PreviewHandler) Index(w http.ResponseWriter, r *http.Request) {
	dir := h.cfg.GalleryDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Errorf("Unable to read gallery directory %s: %v", dir, err)
		http.Error(w, "unable to read gallery directory", http.StatusInternalServerError)
		return
	}

	var sizeFilter string
	if value := r.URL.Query().Get("size"); value != "" {
		size, err := domain.ParseCropSize(value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sizeFilter = size.Suffix() + ".jpg"
	}

	grouped := make(map[string]*galleryEntry)
	var order []string

	for _, entry := range entries {
		if entry.IsDir() || !domain.IsJPEG(entry.Name()) {
			continue
		}

		name := entry.Name()
		stem, isVariant := domain.SourceStem(name)

		if _, ok := grouped[stem]; !ok {
			grouped[stem] = &galleryEntry{}
			order = append(order, stem)
		}

		if !isVariant {
			grouped[stem].Source = name
			continue
		}

		if sizeFilter == "" || strings.HasSuffix(name, sizeFilter) {
			grouped[stem].Variants = append(grouped[stem].Variants, name)
		}
	}

	sort.Strings(order)

	response := galleryResponse{
		Dir:  dir,
		Size: r.URL.Query().Get("size"),
	}
	for _, stem := range order {
		response.Entries = append(response.Entries, *grouped[stem])
	}

	writeJson(w, response)
}

type manifestsResponse struct {
	Manifests []domain.Manifest `json:"manifests"`
}

// ListManifests returns every saved run manifest.
func (h PreviewHandler) ListManifests(w http.ResponseWriter, r *http.Request) {
	names, err := h.manifests.List()
	if err != nil {
		logger.Errorf("Unable to list manifests: %v", err)
		http.Error(w, "unable to list manifests", http.StatusInternalServerError)
		return
	}

	var response manifestsResponse
	for _, name := range names {
		manifest, err := h.manifests.Load(name)
		if err != nil {
			logger.Warnf("Skipping manifest %s: %v", name, err)
			continue
		}
		response.Manifests = append(response.Manifests, manifest)
	}

	writeJson(w, response)
}

func writeJson(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		logger.Errorf("Unable to encode response: %v", err)
	}
}
