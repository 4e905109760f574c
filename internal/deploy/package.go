package deploy

import (
	"archive/zip"
	"github.com/sklirg/cutter/internal/settings"
	"io"
	"os"
	"time"
)

const bootstrapName = "bootstrap"

// Packager turns the compiled binary into the layout the custom runtime
// expects: a zip archive holding a single executable named bootstrap.
type Packager struct {
	cfg *settings.Config
}

func NewPackager(cfg *settings.Config) *Packager {
	return &Packager{
		cfg: cfg,
	}
}

// Package copies the binary to bootstrap, zips it and returns the path of
// the archive. The zip entry keeps the executable bit since the runtime
// execs it directly.
func (p Packager) Package() (string, error) {
	if err := p.copyBootstrap(); err != nil {
		return "", err
	}

	zipPath := p.cfg.ZipPath()

	f, err := os.Create(zipPath)
	if err != nil {
		return "", PackageError{path: zipPath, base: err}
	}
	defer f.Close()

	writer := zip.NewWriter(f)

	if err := p.addBootstrap(writer); err != nil {
		writer.Close()
		return "", err
	}

	if err := writer.Close(); err != nil {
		return "", PackageError{path: zipPath, base: err}
	}

	logger.Infof("Packaged %s into %s", bootstrapName, zipPath)

	return zipPath, nil
}

func (p Packager) copyBootstrap() error {
	src, err := os.Open(p.cfg.BinaryPath())
	if err != nil {
		return PackageError{path: p.cfg.BinaryPath(), base: err}
	}
	defer src.Close()

	dst, err := os.OpenFile(p.cfg.BootstrapPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return PackageError{path: p.cfg.BootstrapPath(), base: err}
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	if err != nil {
		return PackageError{path: p.cfg.BootstrapPath(), base: err}
	}

	return nil
}

func (p Packager) addBootstrap(writer *zip.Writer) error {
	contents, err := os.ReadFile(p.cfg.BootstrapPath())
	if err != nil {
		return PackageError{path: p.cfg.BootstrapPath(), base: err}
	}

	header := &zip.FileHeader{
		Name:     bootstrapName,
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	header.SetMode(0755)

	w, err := writer.CreateHeader(header)
	if err != nil {
		return PackageError{path: bootstrapName, base: err}
	}

	_, err = w.Write(contents)
	if err != nil {
		return PackageError{path: bootstrapName, base: err}
	}

	return nil
}
