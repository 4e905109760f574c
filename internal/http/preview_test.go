package http_test

import (
	"encoding/json"
	"fmt"
	"github.com/sklirg/cutter/internal/domain"
	cutterhttp "github.com/sklirg/cutter/internal/http"
	"github.com/sklirg/cutter/internal/settings"
	"github.com/stretchr/testify/assert"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

type fakeManifests struct {
	manifests map[string]domain.Manifest
}

func (f fakeManifests) List() ([]string, error) {
	var names []string
	for name := range f.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f fakeManifests) Load(name string) (domain.Manifest, error) {
	manifest, ok := f.manifests[name]
	if !ok {
		return domain.Manifest{}, fmt.Errorf("No manifest %s", name)
	}
	return manifest, nil
}

type galleryEntry struct {
	Source   string   `json:"source"`
	Variants []string `json:"variants"`
}

type galleryResponse struct {
	Dir     string         `json:"dir"`
	Size    string         `json:"size"`
	Entries []galleryEntry `json:"entries"`
}

func previewServer(t *testing.T, dir string, manifests cutterhttp.Manifests) *httptest.Server {
	t.Helper()

	cfg, _, err := settings.FromFlags("test", []string{"-path", dir})
	if err != nil {
		t.Fatalf("Unexpected error building config: %v", err)
	}

	mux := cutterhttp.NewChiMux(cutterhttp.NewPreviewHandler(cfg, manifests))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func writeGalleryFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644)
		if err != nil {
			t.Fatalf("Unable to write %s: %v", name, err)
		}
	}
}

func getGallery(t *testing.T, url string) galleryResponse {
	t.Helper()

	response, err := http.Get(url)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "application/json", response.Header.Get("Content-Type"))

	var body galleryResponse
	err = json.NewDecoder(response.Body).Decode(&body)
	if err != nil {
		t.Fatalf("Unable to decode response: %v", err)
	}

	return body
}

func TestIndexGroupsVariantsBySource(t *testing.T) {
	dir := t.TempDir()
	writeGalleryFiles(t, dir,
		"IMG001.jpg",
		"IMG001_200x200px_200w.jpg",
		"IMG001_400x400px_400w.jpg",
		"IMG002.jpg",
		"notes.txt",
	)

	server := previewServer(t, dir, fakeManifests{})

	body := getGallery(t, server.URL+"/")

	assert.Equal(t, dir, body.Dir)
	if len(body.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(body.Entries))
	}

	assert.Equal(t, "IMG001.jpg", body.Entries[0].Source)
	assert.Equal(t, []string{"IMG001_200x200px_200w.jpg", "IMG001_400x400px_400w.jpg"}, body.Entries[0].Variants)

	assert.Equal(t, "IMG002.jpg", body.Entries[1].Source)
	assert.Empty(t, body.Entries[1].Variants)
}

func TestIndexFiltersBySize(t *testing.T) {
	dir := t.TempDir()
	writeGalleryFiles(t, dir,
		"IMG001.jpg",
		"IMG001_200x200px_200w.jpg",
		"IMG001_400x400px_400w.jpg",
	)

	server := previewServer(t, dir, fakeManifests{})

	body := getGallery(t, server.URL+"/?size=200x200")

	assert.Equal(t, "200x200", body.Size)
	if len(body.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(body.Entries))
	}
	assert.Equal(t, []string{"IMG001_200x200px_200w.jpg"}, body.Entries[0].Variants)
}

func TestIndexRejectsMalformedSize(t *testing.T) {
	server := previewServer(t, t.TempDir(), fakeManifests{})

	response, err := http.Get(server.URL + "/?size=potato")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer response.Body.Close()

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestListManifests(t *testing.T) {
	manifests := fakeManifests{
		manifests: map[string]domain.Manifest{
			"camerabag-gallery": {
				RunId:    "077db818-3ae8-4163-a37e-0d31a4f1e5e1",
				Bucket:   "camerabag",
				Prefix:   "gallery",
				Variants: []string{"IMG001_200x200px_200w.jpg"},
			},
		},
	}

	server := previewServer(t, t.TempDir(), manifests)

	response, err := http.Get(server.URL + "/manifests")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)

	var body struct {
		Manifests []domain.Manifest `json:"manifests"`
	}
	err = json.NewDecoder(response.Body).Decode(&body)
	if err != nil {
		t.Fatalf("Unable to decode response: %v", err)
	}

	if len(body.Manifests) != 1 {
		t.Fatalf("Expected 1 manifest, got %d", len(body.Manifests))
	}
	assert.Equal(t, "077db818-3ae8-4163-a37e-0d31a4f1e5e1", body.Manifests[0].RunId)
	assert.Equal(t, "camerabag", body.Manifests[0].Bucket)
}

func TestFilesAreServed(t *testing.T) {
	dir := t.TempDir()
	writeGalleryFiles(t, dir, "IMG001_200x200px_200w.jpg")

	server := previewServer(t, dir, fakeManifests{})

	response, err := http.Get(server.URL + "/files/IMG001_200x200px_200w.jpg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)

	contents, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("Unable to read response: %v", err)
	}
	assert.Equal(t, "IMG001_200x200px_200w.jpg", string(contents))
}
