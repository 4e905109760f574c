package service

import (
	"github.com/sklirg/cutter/internal/domain"
	"gopkg.in/yaml.v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const manifestDir = "manifests"

// Config is the part of the settings the manifest store needs.
type Config interface {
	DataPath() string
}

// ManifestService persists run manifests as yaml files named after the
// gallery they describe.
type ManifestService struct {
	cfg Config
}

func NewManifestService(config Config) *ManifestService {
	return &ManifestService{
		cfg: config,
	}
}

func (service ManifestService) dir() string {
	return filepath.Join(service.cfg.DataPath(), manifestDir)
}

// Save writes the manifest and returns the path it was written to.
func (service ManifestService) Save(name string, manifest domain.Manifest) (string, error) {
	dir := service.dir()
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		err := SaveError{
			name: name,
			base: err,
		}
		logger.Error(err)
		return dir, err
	}

	path := filepath.Join(dir, name+".yaml")
	logger.Infof("Saving manifest for %s to %s", name, path)

	file, err := os.Create(path)
	if err != nil {
		err := SaveError{
			name: name,
			base: err,
		}
		logger.Error(err)
		return path, err
	}
	defer file.Close()

	err = yaml.NewEncoder(file).Encode(manifest)
	if err != nil {
		err := EncodeError{
			name: name,
			base: err,
		}
		logger.Error(err)
		return path, err
	}

	return path, nil
}

// Load reads one manifest by gallery name.
func (service ManifestService) Load(name string) (domain.Manifest, error) {
	path := filepath.Join(service.dir(), name+".yaml")

	file, err := os.Open(path)
	if err != nil {
		err := LoadError{
			name: name,
			base: err,
		}
		logger.Error(err)
		return domain.Manifest{}, err
	}
	defer file.Close()

	var manifest domain.Manifest
	err = yaml.NewDecoder(file).Decode(&manifest)
	if err != nil {
		err := DecodeError{
			name: name,
			base: err,
		}
		logger.Error(err)
		return domain.Manifest{}, err
	}

	return manifest, nil
}

// List returns the gallery names that have manifests, sorted.
func (service ManifestService) List() ([]string, error) {
	entries, err := os.ReadDir(service.dir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		err := DirError{
			path: service.dir(),
			base: err,
		}
		logger.Error(err)
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".yaml"))
	}

	sort.Strings(names)

	return names, nil
}
