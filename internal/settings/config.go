package settings

import (
	"bytes"
	"flag"
	"fmt"
	"github.com/sklirg/cutter/internal/domain"
	"gopkg.in/yaml.v2"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultRegion      = "eu-central-1"
	DefaultTmpDir      = "/tmp/cutter"
	DefaultConcurrency = 4
	DefaultBasePort    = 9000
	DefaultDataPath    = "data"
	DefaultConfigFile  = "cutter.yaml"

	DefaultMinioImage   = "bitnami/minio:2022.2.16"
	DefaultBuilderImage = "golang:1.17-alpine"
	DefaultArtifactDir  = "build"

	// EnvFunctionName and EnvRoleArn carry the deployment identity so it
	// does not have to be repeated on every command.
	EnvFunctionName = "CUTTER_AWS_LAMBDA_NAME"
	EnvRoleArn      = "CUTTER_AWS_IAM_ROLE"
)

type Config struct {
	// pipeline
	Path        string
	Bucket      string
	Prefix      string
	FetchRemote bool
	Overwrite   bool
	Clean       bool
	Verbose     bool
	Sizes       []domain.CropSize
	Region      string
	TmpDir      string
	Concurrency int

	// local development
	IsServe        bool
	IsLocal        bool
	BasePort       int
	Image          string
	Networks       []string
	S3Endpoint     string
	LambdaEndpoint string

	// deployment
	FunctionName string
	RoleArn      string
	BuilderImage string
	ArtifactDir  string

	ConfigFile string

	dataPath string
}

func DefaultConfig() *Config {
	return &Config{
		Clean:        true,
		Sizes:        domain.DefaultCropSizes(),
		Region:       defaultRegion(),
		TmpDir:       DefaultTmpDir,
		Concurrency:  DefaultConcurrency,
		BasePort:     DefaultBasePort,
		Image:        DefaultMinioImage,
		FunctionName: os.Getenv(EnvFunctionName),
		RoleArn:      os.Getenv(EnvRoleArn),
		BuilderImage: DefaultBuilderImage,
		ArtifactDir:  DefaultArtifactDir,
		dataPath:     DefaultDataPath,
	}
}

func defaultRegion() string {
	if region := os.Getenv("AWS_REGION"); region != "" {
		return region
	}
	if region := os.Getenv("AWS_DEFAULT_REGION"); region != "" {
		return region
	}
	return DefaultRegion
}

// FromFlags builds the configuration from command line arguments, an
// optional yaml file and built-in defaults, in that order of precedence.
// The returned string contains any usage output generated during parsing.
func FromFlags(name string, args []string) (*Config, string, error) {
	cfg := DefaultConfig()

	var networks NetworkValue
	var sizes SizeValue

	flags := flag.NewFlagSet(name, flag.ContinueOnError)

	var buf bytes.Buffer
	flags.SetOutput(&buf)

	flags.StringVar(&cfg.Path, "path", "", "Local path of the gallery to generate crops for")
	flags.StringVar(&cfg.Bucket, "s3-bucket", "", "S3 bucket to sync files to (and fetch from, if -fetch-remote is set)")
	flags.StringVar(&cfg.Prefix, "s3-prefix", "", "Filter on the start of the S3 object key")
	flags.BoolVar(&cfg.FetchRemote, "fetch-remote", false, "Fetch images from the S3 bucket given in -s3-bucket")
	flags.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite crops already present on the remote")
	flags.BoolVar(&cfg.Clean, "clean", true, "Remove previously fetched files before downloading")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Report progress for every file instead of every few")
	flags.Var(&sizes, "size", "Crop size as WIDTHxHEIGHT, repeatable (default 200x200, 400x400, 800x800, 1920x1080)")
	flags.StringVar(&cfg.Region, "region", cfg.Region, "AWS region")
	flags.StringVar(&cfg.TmpDir, "tmp-dir", cfg.TmpDir, "Working directory for fetched galleries")
	flags.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Number of images to crop in parallel")

	flags.BoolVar(&cfg.IsServe, "serve", false, "Serve the gallery directory for previewing crops")
	flags.BoolVar(&cfg.IsLocal, "local", false, "Run against a local MinIO container instead of AWS")
	flags.IntVar(&cfg.BasePort, "port", cfg.BasePort, "Base port for the preview server; local storage binds the next port")
	flags.StringVar(&cfg.Image, "image", cfg.Image, "Image to use for local storage")
	flags.Var(&networks, "networks", "Comma-separated list of Docker networks to connect local containers to")
	flags.StringVar(&cfg.S3Endpoint, "s3-endpoint", "", "Endpoint URL override for the S3 service")
	flags.StringVar(&cfg.LambdaEndpoint, "lambda-endpoint", "", "Endpoint URL override for the Lambda service")

	flags.StringVar(&cfg.FunctionName, "function-name", cfg.FunctionName, "Name of the deployed function (default $"+EnvFunctionName+")")
	flags.StringVar(&cfg.RoleArn, "role", cfg.RoleArn, "IAM role ARN assumed by the function (default $"+EnvRoleArn+")")
	flags.StringVar(&cfg.BuilderImage, "builder-image", cfg.BuilderImage, "Image used to compile the function binary")
	flags.StringVar(&cfg.ArtifactDir, "artifact-dir", cfg.ArtifactDir, "Directory for build artifacts")

	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to a yaml configuration file (default "+DefaultConfigFile+" when present)")
	flags.StringVar(&cfg.dataPath, "data-path", cfg.dataPath, "Path to persist manifests and local storage data")

	err := flags.Parse(args)
	if err != nil {
		return nil, buf.String(), err
	}

	given := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		given[f.Name] = true
	})

	if err := cfg.applyFile(given); err != nil {
		return nil, buf.String(), err
	}

	if len(sizes.sizes) > 0 {
		cfg.Sizes = sizes.sizes
	}
	if len(networks.networks) > 0 {
		cfg.Networks = networks.networks
	}

	if err := cfg.validate(); err != nil {
		return nil, buf.String(), err
	}

	return cfg, buf.String(), nil
}

func (config *Config) validate() error {
	if config.FetchRemote && config.Bucket == "" {
		return fmt.Errorf("-fetch-remote requires -s3-bucket")
	}

	if config.Prefix != "" && config.Bucket == "" {
		return fmt.Errorf("-s3-prefix requires -s3-bucket")
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("-concurrency must be at least 1, got %d", config.Concurrency)
	}

	return nil
}

// ForEvent derives the configuration used for one function invocation: the
// gallery is fetched fresh and crops replace whatever is already present.
func (config *Config) ForEvent(event domain.InvocationEvent) *Config {
	derived := *config
	derived.Bucket = event.Bucket
	derived.Prefix = event.Prefix
	derived.FetchRemote = true
	derived.Clean = true
	derived.Overwrite = true

	if len(derived.Sizes) == 0 {
		derived.Sizes = domain.DefaultCropSizes()
	}

	return &derived
}

// GalleryDir is the directory the pipeline reads sources from and writes
// variants to. Fetched galleries live under the tmp dir, named after the
// first segment of the prefix.
func (config *Config) GalleryDir() string {
	if !config.FetchRemote {
		if config.Path != "" {
			return config.Path
		}
		return config.TmpDir
	}

	prefix := config.Prefix
	if i := strings.Index(prefix, "/"); i >= 0 {
		prefix = prefix[:i]
	}

	return filepath.Join(config.TmpDir, prefix)
}

func (config *Config) DataPath() string {
	if filepath.IsAbs(config.dataPath) {
		return config.dataPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	return filepath.Join(cwd, config.dataPath)
}

func (config *Config) PreviewAddr() string {
	return fmt.Sprintf(":%d", config.BasePort)
}

func (config *Config) MinioUrl() string {
	return fmt.Sprintf("http://localhost:%d", config.BasePort+1)
}

func (config *Config) MinioPort() int {
	return config.BasePort + 1
}

func (config *Config) BinaryPath() string {
	return filepath.Join(config.ArtifactDir, "cutter")
}

func (config *Config) BootstrapPath() string {
	return filepath.Join(config.ArtifactDir, "bootstrap")
}

func (config *Config) ZipPath() string {
	return filepath.Join(config.ArtifactDir, "cutter-lambda.zip")
}

type fileConfig struct {
	Path         *string  `yaml:"path"`
	Bucket       *string  `yaml:"s3_bucket"`
	Prefix       *string  `yaml:"s3_prefix"`
	FetchRemote  *bool    `yaml:"fetch_remote"`
	Overwrite    *bool    `yaml:"overwrite"`
	Clean        *bool    `yaml:"clean"`
	Verbose      *bool    `yaml:"verbose"`
	Sizes        []string `yaml:"sizes"`
	Region       *string  `yaml:"region"`
	TmpDir       *string  `yaml:"tmp_dir"`
	Concurrency  *int     `yaml:"concurrency"`
	DataPath     *string  `yaml:"data_path"`
	FunctionName *string  `yaml:"function_name"`
	RoleArn      *string  `yaml:"role"`
	BuilderImage *string  `yaml:"builder_image"`
	ArtifactDir  *string  `yaml:"artifact_dir"`
}

// applyFile overlays values from the yaml configuration file onto fields
// that were not set on the command line.
func (config *Config) applyFile(given map[string]bool) error {
	path := config.ConfigFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return nil
		}
		path = DefaultConfigFile
	}

	logger.Debugf("Applying configuration from %s", path)

	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read config file %s: %w", path, err)
	}

	var file fileConfig
	err = yaml.Unmarshal(bytes, &file)
	if err != nil {
		return fmt.Errorf("unable to parse config file %s: %w", path, err)
	}

	applyString(&config.Path, file.Path, "path", given)
	applyString(&config.Bucket, file.Bucket, "s3-bucket", given)
	applyString(&config.Prefix, file.Prefix, "s3-prefix", given)
	applyBool(&config.FetchRemote, file.FetchRemote, "fetch-remote", given)
	applyBool(&config.Overwrite, file.Overwrite, "overwrite", given)
	applyBool(&config.Clean, file.Clean, "clean", given)
	applyBool(&config.Verbose, file.Verbose, "verbose", given)
	applyString(&config.Region, file.Region, "region", given)
	applyString(&config.TmpDir, file.TmpDir, "tmp-dir", given)
	applyInt(&config.Concurrency, file.Concurrency, "concurrency", given)
	applyString(&config.dataPath, file.DataPath, "data-path", given)
	applyString(&config.FunctionName, file.FunctionName, "function-name", given)
	applyString(&config.RoleArn, file.RoleArn, "role", given)
	applyString(&config.BuilderImage, file.BuilderImage, "builder-image", given)
	applyString(&config.ArtifactDir, file.ArtifactDir, "artifact-dir", given)

	if len(file.Sizes) > 0 && !given["size"] {
		sizes := make([]domain.CropSize, 0, len(file.Sizes))
		for _, value := range file.Sizes {
			size, err := domain.ParseCropSize(value)
			if err != nil {
				return fmt.Errorf("invalid size in config file %s: %w", path, err)
			}
			sizes = append(sizes, size)
		}
		config.Sizes = sizes
	}

	return nil
}

func applyString(dst *string, src *string, name string, given map[string]bool) {
	if src != nil && !given[name] {
		*dst = *src
	}
}

func applyBool(dst *bool, src *bool, name string, given map[string]bool) {
	if src != nil && !given[name] {
		*dst = *src
	}
}

func applyInt(dst *int, src *int, name string, given map[string]bool) {
	if src != nil && !given[name] {
		*dst = *src
	}
}
