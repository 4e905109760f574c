package settings_test

import (
	"github.com/sklirg/cutter/internal/domain"
	"github.com/sklirg/cutter/internal/settings"
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
)

func clearAwsRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
}

func TestFromFlagsDefaults(t *testing.T) {
	clearAwsRegion(t)

	cfg, _, err := settings.FromFlags("cutter", []string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, settings.DefaultRegion, cfg.Region)
	assert.Equal(t, settings.DefaultTmpDir, cfg.TmpDir)
	assert.Equal(t, settings.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, domain.DefaultCropSizes(), cfg.Sizes)
	assert.True(t, cfg.Clean)
	assert.False(t, cfg.FetchRemote)
}

func TestFromFlagsRegionFromEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "us-west-2")

	cfg, _, err := settings.FromFlags("cutter", []string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, "us-west-2", cfg.Region)
}

func TestFromFlagsRepeatedSizes(t *testing.T) {
	cfg, _, err := settings.FromFlags("cutter", []string{
		"-size", "100x100",
		"-size", "300x200,600x400",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []domain.CropSize{
		{Width: 100, Height: 100},
		{Width: 300, Height: 200},
		{Width: 600, Height: 400},
	}
	assert.Equal(t, expected, cfg.Sizes)
}

func TestFromFlagsRejectsMalformedSize(t *testing.T) {
	_, _, err := settings.FromFlags("cutter", []string{"-size", "banana"})
	assert.Error(t, err)
}

func TestFromFlagsFetchRemoteRequiresBucket(t *testing.T) {
	_, _, err := settings.FromFlags("cutter", []string{"-fetch-remote"})
	assert.Error(t, err)

	_, _, err = settings.FromFlags("cutter", []string{"-fetch-remote", "-s3-bucket", "camerabag"})
	assert.NoError(t, err)
}

func TestFromFlagsDeploymentIdentityFromEnvironment(t *testing.T) {
	t.Setenv(settings.EnvFunctionName, "cutter-lambda")
	t.Setenv(settings.EnvRoleArn, "arn:aws:iam::271828182845:role/cutter")

	cfg, _, err := settings.FromFlags("cutterctl create", []string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, "cutter-lambda", cfg.FunctionName)
	assert.Equal(t, "arn:aws:iam::271828182845:role/cutter", cfg.RoleArn)
}

func TestFromFlagsConfigFile(t *testing.T) {
	clearAwsRegion(t)

	contents := `s3_bucket: camerabag
region: eu-north-1
concurrency: 2
sizes:
  - 640x480
`
	path := filepath.Join(t.TempDir(), "cutter.yaml")
	err := os.WriteFile(path, []byte(contents), 0644)
	if err != nil {
		t.Fatalf("Unable to write config file: %v", err)
	}

	cfg, _, err := settings.FromFlags("cutter", []string{
		"-config", path,
		"-concurrency", "8",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, "camerabag", cfg.Bucket)
	assert.Equal(t, "eu-north-1", cfg.Region)
	assert.Equal(t, []domain.CropSize{{Width: 640, Height: 480}}, cfg.Sizes)

	// flags beat the file
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestGalleryDirForFetchedPrefix(t *testing.T) {
	cfg, _, err := settings.FromFlags("cutter", []string{
		"-fetch-remote",
		"-s3-bucket", "camerabag",
		"-s3-prefix", "77954ebc-11d8-4628-adeb-cdadd5027c49/2022",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := filepath.Join(settings.DefaultTmpDir, "77954ebc-11d8-4628-adeb-cdadd5027c49")
	assert.Equal(t, expected, cfg.GalleryDir())
}

func TestGalleryDirForLocalPath(t *testing.T) {
	cfg, _, err := settings.FromFlags("cutter", []string{"-path", "/photos/wedding"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assert.Equal(t, "/photos/wedding", cfg.GalleryDir())
}

func TestForEvent(t *testing.T) {
	cfg := settings.DefaultConfig()
	cfg.Sizes = nil

	derived := cfg.ForEvent(domain.InvocationEvent{
		Bucket: "camerabag",
		Prefix: "77954ebc-11d8-4628-adeb-cdadd5027c49",
	})

	assert.Equal(t, "camerabag", derived.Bucket)
	assert.Equal(t, "77954ebc-11d8-4628-adeb-cdadd5027c49", derived.Prefix)
	assert.True(t, derived.FetchRemote)
	assert.True(t, derived.Clean)
	assert.True(t, derived.Overwrite)
	assert.Equal(t, domain.DefaultCropSizes(), derived.Sizes)

	// the base configuration is left alone
	assert.False(t, cfg.FetchRemote)
}

func TestPorts(t *testing.T) {
	cfg := settings.DefaultConfig()
	cfg.BasePort = 9000

	assert.Equal(t, ":9000", cfg.PreviewAddr())
	assert.Equal(t, "http://localhost:9001", cfg.MinioUrl())
	assert.Equal(t, 9001, cfg.MinioPort())
}
