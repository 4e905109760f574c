package main

import (
	"github.com/ATenderholt/dockerlib"
	"github.com/sklirg/cutter/internal/settings"
)

// NewDockerController connects to the Docker daemon only when the local
// stack is wanted, so plain runs work without Docker installed.
func NewDockerController(cfg *settings.Config) (*dockerlib.DockerController, error) {
	if !cfg.IsLocal {
		return nil, nil
	}

	return dockerlib.NewDockerController()
}
