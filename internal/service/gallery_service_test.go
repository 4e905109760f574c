package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/sklirg/cutter/internal/service"
	"github.com/sklirg/cutter/internal/settings"
	"github.com/stretchr/testify/assert"
	"image"
	"image/jpeg"
	"os"
	"path"
	"path/filepath"
	"testing"
)

type fakeStore struct {
	keys      []string
	objects   map[string][]byte
	uploads   []string
	listErr   error
	uploadErr error
}

func (f *fakeStore) List(ctx context.Context, bucket string, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.keys, nil
}

func (f *fakeStore) Download(ctx context.Context, bucket string, key string, dir string) (string, error) {
	content, ok := f.objects[key]
	if !ok {
		return "", fmt.Errorf("No such key %s", key)
	}

	target := filepath.Join(dir, path.Base(key))
	return target, os.WriteFile(target, content, 0644)
}

func (f *fakeStore) Upload(ctx context.Context, bucket string, prefix string, filePath string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}

	key := path.Join(prefix, filepath.Base(filePath))
	f.uploads = append(f.uploads, key)
	return key, nil
}

func jpegBytes(t *testing.T, width int, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, nil)
	if err != nil {
		t.Fatalf("Unable to encode test image: %v", err)
	}

	return buf.Bytes()
}

func galleryConfig(t *testing.T, args ...string) *settings.Config {
	t.Helper()

	cfg, _, err := settings.FromFlags("test", args)
	if err != nil {
		t.Fatalf("Unexpected error building config: %v", err)
	}

	return cfg
}

func TestRunFetchesCropsAndUploads(t *testing.T) {
	prefix := "77954ebc-11d8-4628-adeb-cdadd5027c49"

	store := &fakeStore{
		keys: []string{
			prefix + "/",
			prefix + "/IMG001.jpg",
			prefix + "/IMG002.jpg",
			prefix + "/IMG001_200x200px_200w.jpg",
			prefix + "/notes.txt",
		},
		objects: map[string][]byte{
			prefix + "/IMG001.jpg": jpegBytes(t, 640, 480),
			prefix + "/IMG002.jpg": jpegBytes(t, 480, 640),
		},
	}

	cfg := galleryConfig(t,
		"-fetch-remote",
		"-s3-bucket", "camerabag",
		"-s3-prefix", prefix,
		"-tmp-dir", t.TempDir(),
		"-size", "200x200",
		"-size", "400x400",
		"-concurrency", "2",
	)

	manifests := service.NewManifestService(testConfig{dataPath: t.TempDir()})
	gallery := service.NewGalleryService(cfg, store, manifests)

	report, err := gallery.Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, 2, report.Sources)
	assert.Equal(t, 3, report.Skipped)
	assert.Len(t, report.Variants, 4)
	assert.Equal(t, 4, report.Uploaded)

	assert.ElementsMatch(t, []string{
		prefix + "/IMG001_200x200px_200w.jpg",
		prefix + "/IMG001_400x400px_400w.jpg",
		prefix + "/IMG002_200x200px_200w.jpg",
		prefix + "/IMG002_400x400px_400w.jpg",
	}, store.uploads)

	// variants land next to the downloaded sources
	_, err = os.Stat(filepath.Join(cfg.GalleryDir(), "IMG001_200x200px_200w.jpg"))
	assert.NoError(t, err)

	manifest, err := manifests.Load("camerabag-" + prefix)
	assert.NoError(t, err)
	assert.Equal(t, report.RunId, manifest.RunId)
	assert.ElementsMatch(t, report.Variants, manifest.Variants)
	assert.Equal(t, []string{"200x200", "400x400"}, manifest.Sizes)
}

func TestRunLocalGallery(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "IMG001.jpg"), jpegBytes(t, 640, 480), 0644)
	if err != nil {
		t.Fatalf("Unable to write source: %v", err)
	}
	err = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0644)
	if err != nil {
		t.Fatalf("Unable to write file: %v", err)
	}

	store := &fakeStore{}
	cfg := galleryConfig(t, "-path", dir, "-size", "200x200")
	manifests := service.NewManifestService(testConfig{dataPath: t.TempDir()})

	report, err := service.NewGalleryService(cfg, store, manifests).Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, 1, report.Sources)
	assert.Equal(t, 0, report.Uploaded)
	assert.Equal(t, []string{"IMG001_200x200px_200w.jpg"}, report.Variants)
	assert.Empty(t, store.uploads)

	// the source is left in place, the variant written next to it
	_, err = os.Stat(filepath.Join(dir, "IMG001.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "IMG001_200x200px_200w.jpg"))
	assert.NoError(t, err)

	manifest, err := manifests.Load("local")
	assert.NoError(t, err)
	assert.Equal(t, report.RunId, manifest.RunId)
}

func TestRunSkipsUnreadableSources(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "IMG001.jpg"), jpegBytes(t, 640, 480), 0644)
	if err != nil {
		t.Fatalf("Unable to write source: %v", err)
	}
	err = os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("definitely not a jpeg"), 0644)
	if err != nil {
		t.Fatalf("Unable to write file: %v", err)
	}

	cfg := galleryConfig(t, "-path", dir, "-size", "200x200")
	manifests := service.NewManifestService(testConfig{dataPath: t.TempDir()})

	report, err := service.NewGalleryService(cfg, &fakeStore{}, manifests).Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, 2, report.Sources)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []string{"IMG001_200x200px_200w.jpg"}, report.Variants)
}

func TestRunCleansFetchedGallery(t *testing.T) {
	tmpDir := t.TempDir()
	prefix := "gallery"

	staleDir := filepath.Join(tmpDir, prefix)
	err := os.MkdirAll(staleDir, 0755)
	if err != nil {
		t.Fatalf("Unable to create directory: %v", err)
	}
	stale := filepath.Join(staleDir, "stale.jpg")
	err = os.WriteFile(stale, jpegBytes(t, 10, 10), 0644)
	if err != nil {
		t.Fatalf("Unable to write file: %v", err)
	}

	store := &fakeStore{
		keys:    []string{prefix + "/IMG001.jpg"},
		objects: map[string][]byte{prefix + "/IMG001.jpg": jpegBytes(t, 640, 480)},
	}

	cfg := galleryConfig(t,
		"-fetch-remote",
		"-s3-bucket", "camerabag",
		"-s3-prefix", prefix,
		"-tmp-dir", tmpDir,
		"-size", "200x200",
	)
	manifests := service.NewManifestService(testConfig{dataPath: t.TempDir()})

	_, err = service.NewGalleryService(cfg, store, manifests).Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestRunStopsWhenListingFails(t *testing.T) {
	store := &fakeStore{listErr: errors.New("access denied")}

	cfg := galleryConfig(t,
		"-fetch-remote",
		"-s3-bucket", "camerabag",
		"-tmp-dir", t.TempDir(),
	)
	manifests := service.NewManifestService(testConfig{dataPath: t.TempDir()})

	_, err := service.NewGalleryService(cfg, store, manifests).Run(context.Background())
	assert.Error(t, err)
}

func TestRunStopsWhenUploadFails(t *testing.T) {
	prefix := "gallery"
	store := &fakeStore{
		keys:      []string{prefix + "/IMG001.jpg"},
		objects:   map[string][]byte{prefix + "/IMG001.jpg": jpegBytes(t, 640, 480)},
		uploadErr: errors.New("bucket full"),
	}

	cfg := galleryConfig(t,
		"-fetch-remote",
		"-s3-bucket", "camerabag",
		"-s3-prefix", prefix,
		"-tmp-dir", t.TempDir(),
		"-size", "200x200",
	)
	manifests := service.NewManifestService(testConfig{dataPath: t.TempDir()})

	_, err := service.NewGalleryService(cfg, store, manifests).Run(context.Background())
	assert.Error(t, err)
}
