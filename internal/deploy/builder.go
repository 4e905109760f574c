package deploy

import (
	"context"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sklirg/cutter/internal/settings"
	"io"
	"os"
	"path/filepath"
)

const workDir = "/src"

// DockerApi is the subset of the Docker client used to run one-shot build
// containers.
type DockerApi interface {
	ImagePull(ctx context.Context, refStr string, options types.ImagePullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.ContainerCreateCreatedBody, error)
	ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitConditionType) (<-chan container.ContainerWaitOKBody, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options types.ContainerLogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error
}

// Builder compiles the function binary in a toolchain container so deploys
// do not depend on the host Go installation.
type Builder struct {
	docker DockerApi
	cfg    *settings.Config
}

func NewBuilder(docker DockerApi, cfg *settings.Config) *Builder {
	return &Builder{
		docker: docker,
		cfg:    cfg,
	}
}

// Build compiles a static Linux binary for the function runtime from the
// module rooted at root, and returns its path relative to root.
func (b Builder) Build(ctx context.Context, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", BuildError{stage: "resolve", base: err}
	}

	err = os.MkdirAll(filepath.Join(abs, b.cfg.ArtifactDir), 0755)
	if err != nil {
		return "", BuildError{stage: "prepare", base: err}
	}

	image := b.cfg.BuilderImage
	logger.Infof("Pulling %s", image)

	reader, err := b.docker.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return "", BuildError{stage: "pull", base: err}
	}
	_, _ = io.Copy(io.Discard, reader)
	reader.Close()

	created, err := b.docker.ContainerCreate(ctx,
		&container.Config{
			Image:      image,
			Cmd:        buildCommand(b.cfg),
			Env:        buildEnv(b.cfg),
			WorkingDir: workDir,
		},
		&container.HostConfig{
			Binds: []string{abs + ":" + workDir},
		},
		nil, nil, "")
	if err != nil {
		return "", BuildError{stage: "create", base: err}
	}

	defer func() {
		err := b.docker.ContainerRemove(context.Background(), created.ID, types.ContainerRemoveOptions{Force: true})
		if err != nil {
			logger.Warnf("Unable to remove build container %s: %v", created.ID, err)
		}
	}()

	logger.Infof("Compiling %s in %s", b.cfg.BinaryPath(), image)

	err = b.docker.ContainerStart(ctx, created.ID, types.ContainerStartOptions{})
	if err != nil {
		return "", BuildError{stage: "start", base: err}
	}

	statusCh, errCh := b.docker.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)

	var status int64
	select {
	case err := <-errCh:
		if err != nil {
			return "", BuildError{stage: "wait", base: err}
		}
	case result := <-statusCh:
		status = result.StatusCode
	case <-ctx.Done():
		return "", BuildError{stage: "wait", base: ctx.Err()}
	}

	b.copyLogs(ctx, created.ID)

	if status != 0 {
		return "", BuildError{stage: "compile", status: status}
	}

	logger.Infof("Built %s", b.cfg.BinaryPath())

	return b.cfg.BinaryPath(), nil
}

func (b Builder) copyLogs(ctx context.Context, id string) {
	logs, err := b.docker.ContainerLogs(ctx, id, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		logger.Warnf("Unable to read build logs: %v", err)
		return
	}
	defer logs.Close()

	_, err = stdcopy.StdCopy(os.Stdout, os.Stderr, logs)
	if err != nil {
		logger.Warnf("Unable to copy build logs: %v", err)
	}
}

func buildCommand(cfg *settings.Config) []string {
	return []string{"go", "build", "-o", cfg.BinaryPath(), "./cmd/cutter"}
}

// buildEnv keeps the build and module caches inside the artifact directory
// so repeated builds stay warm across containers.
func buildEnv(cfg *settings.Config) []string {
	return []string{
		"CGO_ENABLED=0",
		"GOOS=linux",
		"GOARCH=amd64",
		"GOCACHE=" + workDir + "/" + cfg.ArtifactDir + "/.gocache",
		"GOMODCACHE=" + workDir + "/" + cfg.ArtifactDir + "/.gomodcache",
	}
}
