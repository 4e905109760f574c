package devstack

import (
	"context"
	"fmt"
	"github.com/ATenderholt/dockerlib"
	"github.com/docker/docker/api/types/mount"
	"github.com/sklirg/cutter/internal/settings"
	"os"
	"path/filepath"
)

const (
	// AccessKey and SecretKey are the root credentials of the local MinIO
	// container. Development-only values.
	AccessKey = "cutter"
	SecretKey = "cutter-secret"

	containerName = "cutter-minio"
	minioPort     = 9000
	readyText     = "API:"
)

// Stack manages the local containers the pipeline runs against instead of
// AWS when -local is set.
type Stack struct {
	cfg        *settings.Config
	controller *dockerlib.DockerController
}

func NewStack(cfg *settings.Config, controller *dockerlib.DockerController) *Stack {
	return &Stack{
		cfg:        cfg,
		controller: controller,
	}
}

// Start brings up MinIO bound to the configured port, backed by the data
// directory so buckets survive restarts.
func (stack Stack) Start(ctx context.Context) error {
	dataPath := filepath.Join(stack.cfg.DataPath(), "s3")

	err := os.MkdirAll(dataPath, 0755)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", dataPath, err)
	}

	err = stack.controller.EnsureImage(ctx, stack.cfg.Image)
	if err != nil {
		return fmt.Errorf("unable to ensure image %s: %w", stack.cfg.Image, err)
	}

	minio := dockerlib.Container{
		Name:  containerName,
		Image: stack.cfg.Image,
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: dataPath,
				Target: "/data",
			},
		},
		Environment: []string{
			"MINIO_ROOT_USER=" + AccessKey,
			"MINIO_ROOT_PASSWORD=" + SecretKey,
			"MINIO_DEFAULT_BUCKETS=" + defaultBucket(stack.cfg),
		},
		Ports: map[int]int{
			minioPort: stack.cfg.MinioPort(),
		},
		Network: stack.cfg.Networks,
	}

	ready, err := stack.controller.Start(ctx, &minio, readyText)
	if err != nil {
		return fmt.Errorf("unable to start %s: %w", containerName, err)
	}

	select {
	case <-ready:
		logger.Infof("Local storage ready at %s", stack.cfg.MinioUrl())
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Shutdown stops every container the stack started.
func (stack Stack) Shutdown(ctx context.Context) error {
	return stack.controller.ShutdownAll(ctx)
}

// defaultBucket pre-creates the configured bucket so the first run does
// not have to.
func defaultBucket(cfg *settings.Config) string {
	if cfg.Bucket != "" {
		return cfg.Bucket
	}
	return "camerabag"
}
