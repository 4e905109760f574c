package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/reactivex/rxgo/v2"
	"github.com/sklirg/cutter/internal/crop"
	"github.com/sklirg/cutter/internal/domain"
	"github.com/sklirg/cutter/internal/settings"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ObjectStore is the remote side of the pipeline.
type ObjectStore interface {
	List(ctx context.Context, bucket string, prefix string) ([]string, error)
	Download(ctx context.Context, bucket string, key string, dir string) (string, error)
	Upload(ctx context.Context, bucket string, prefix string, path string) (string, error)
}

// GalleryService runs the crop pipeline for one gallery: fetch sources,
// generate variants, push them back.
type GalleryService struct {
	cfg       *settings.Config
	store     ObjectStore
	manifests *ManifestService
}

func NewGalleryService(cfg *settings.Config, store ObjectStore, manifests *ManifestService) *GalleryService {
	return &GalleryService{
		cfg:       cfg,
		store:     store,
		manifests: manifests,
	}
}

func (service GalleryService) Run(ctx context.Context) (domain.Report, error) {
	report := domain.Report{
		RunId:     uuid.New().String(),
		Bucket:    service.cfg.Bucket,
		Prefix:    service.cfg.Prefix,
		StartedAt: domain.JsonTime(time.Now()),
	}

	logger.Infof("Starting run %s for %s", report.RunId, service.galleryName())

	dir := service.cfg.GalleryDir()
	if err := service.prepareDir(dir); err != nil {
		return report, err
	}

	if service.cfg.FetchRemote {
		skipped, err := service.fetch(ctx, dir)
		if err != nil {
			return report, err
		}
		report.Skipped += skipped
	}

	sources, err := service.localSources(dir)
	if err != nil {
		return report, err
	}
	report.Sources = len(sources)

	variants, failed := service.transform(ctx, dir, sources)
	report.Skipped += failed
	for _, variant := range variants {
		report.Variants = append(report.Variants, filepath.Base(variant))
	}

	if service.cfg.Bucket != "" {
		uploaded, err := service.push(ctx, variants)
		report.Uploaded = uploaded
		if err != nil {
			return report, err
		}
	}

	report.FinishedAt = domain.JsonTime(time.Now())

	if err := service.saveManifest(report, sources); err != nil {
		// a finished run is worth more than its manifest
		logger.Errorf("Unable to save manifest for run %s: %v", report.RunId, err)
	}

	logger.Infof("Processed %d sources into %d variants in %s",
		report.Sources, len(report.Variants), report.Duration().Round(time.Millisecond))

	return report, nil
}

// prepareDir resets the gallery directory for fetched runs. Local paths
// given by the operator are never cleaned.
func (service GalleryService) prepareDir(dir string) error {
	if service.cfg.FetchRemote && (service.cfg.Clean || service.cfg.Overwrite) {
		if err := os.RemoveAll(dir); err != nil {
			err := CleanError{
				dir:  dir,
				base: err,
			}
			logger.Error(err)
			return err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		err := CleanError{
			dir:  dir,
			base: err,
		}
		logger.Error(err)
		return err
	}

	return nil
}

func (service GalleryService) fetch(ctx context.Context, dir string) (int, error) {
	keys, err := service.store.List(ctx, service.cfg.Bucket, service.cfg.Prefix)
	if err != nil {
		return 0, err
	}

	filter := domain.KeyFilter{Prefix: service.cfg.Prefix, Overwrite: service.cfg.Overwrite}
	sources := filterKeys(keys, filter)
	skipped := len(keys) - len(sources)

	logger.Infof("Fetching %d of %d objects from s3://%s/%s",
		len(sources), len(keys), service.cfg.Bucket, service.cfg.Prefix)

	progress := newProgress(len(sources), service.cfg.Verbose)
	for i, key := range sources {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		if _, err := service.store.Download(ctx, service.cfg.Bucket, key, dir); err != nil {
			return skipped, err
		}
		progress.log("Downloaded", i+1)
	}

	return skipped, nil
}

// filterKeys pipes the listing through the key filter and collects what
// remains.
func filterKeys(keys []string, filter domain.KeyFilter) []string {
	ch := make(chan rxgo.Item, len(keys))
	for _, key := range keys {
		ch <- rxgo.Of(key)
	}
	close(ch)

	var kept []string
	for item := range rxgo.FromChannel(ch).Filter(filter.FilterKeys).Observe() {
		kept = append(kept, item.V.(string))
	}

	return kept
}

func (service GalleryService) localSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		err := DirError{
			path: dir,
			base: err,
		}
		logger.Error(err)
		return nil, err
	}

	filter := domain.KeyFilter{Overwrite: service.cfg.Overwrite}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filter.FilterKeys(entry.Name()) {
			sources = append(sources, filepath.Join(dir, entry.Name()))
		}
	}

	return sources, nil
}

// transform crops all sources, a bounded number of them in parallel. A
// source that cannot be read or saved is skipped, not fatal.
func (service GalleryService) transform(ctx context.Context, dir string, sources []string) ([]string, int) {
	logger.Infof("Generating %d crop sizes for %d images", len(service.cfg.Sizes), len(sources))

	progress := newProgress(len(sources), service.cfg.Verbose)
	semaphore := make(chan struct{}, service.cfg.Concurrency)

	var wg sync.WaitGroup
	var mutex sync.Mutex

	var variants []string
	failed := 0
	done := 0

	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(src string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			created, err := crop.Produce(src, dir, service.cfg.Sizes)

			mutex.Lock()
			defer mutex.Unlock()

			if err != nil {
				logger.Warnf("Skipping %s: %v", src, err)
				failed++
			}
			variants = append(variants, created...)
			done++
			progress.log("Cropped", done)
		}(src)
	}

	wg.Wait()

	return variants, failed
}

func (service GalleryService) push(ctx context.Context, variants []string) (int, error) {
	logger.Infof("Uploading %d crops to s3://%s/%s", len(variants), service.cfg.Bucket, service.cfg.Prefix)

	progress := newProgress(len(variants), service.cfg.Verbose)
	for i, path := range variants {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		if _, err := service.store.Upload(ctx, service.cfg.Bucket, service.cfg.Prefix, path); err != nil {
			return i, err
		}
		progress.log("Uploaded", i+1)
	}

	return len(variants), nil
}

func (service GalleryService) saveManifest(report domain.Report, sources []string) error {
	manifest := domain.Manifest{
		RunId:     report.RunId,
		Bucket:    report.Bucket,
		Prefix:    report.Prefix,
		CreatedAt: time.Time(report.FinishedAt).UTC().Format(time.RFC3339),
		Variants:  report.Variants,
	}

	for _, size := range service.cfg.Sizes {
		manifest.Sizes = append(manifest.Sizes, size.String())
	}
	for _, src := range sources {
		manifest.Sources = append(manifest.Sources, filepath.Base(src))
	}

	_, err := service.manifests.Save(service.galleryName(), manifest)
	return err
}

func (service GalleryService) galleryName() string {
	if service.cfg.Bucket == "" {
		return "local"
	}

	name := service.cfg.Bucket
	if service.cfg.Prefix != "" {
		name += "-" + strings.ReplaceAll(service.cfg.Prefix, "/", "-")
	}

	return name
}
