// Package config loads the centipede command configuration from YAML with
// CENTIPEDE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/centipede/record"
	"github.com/hupe1980/centipede/sink"
)

// DefaultFiles are searched in order when Load is called without a path.
var DefaultFiles = []string{"centipede.yaml", "centipede.yml"}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CENTIPEDE_"

// Config represents the full configuration of the centipede command.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Generate GenerateConfig `yaml:"generate"`
	S3       S3Config       `yaml:"s3"`
	MinIO    MinIOConfig    `yaml:"minio"`
}

// OutputConfig configures the record writer.
type OutputConfig struct {
	Filename           string `yaml:"out_filename"`
	MaxBufferPoints    uint32 `yaml:"max_buffer_points"`
	Compression        string `yaml:"compression"`
	CompressionLevel   int    `yaml:"compression_level"`
	IOLimitBytesPerSec int64  `yaml:"io_limit_bytes_per_sec"`
	Checksum           bool   `yaml:"checksum"`
	SyncOnFlush        bool   `yaml:"sync_on_flush"`
}

// LogConfig configures the command's log handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// GenerateConfig parameterizes the random data generator.
type GenerateConfig struct {
	Entries        int     `yaml:"entries"`
	MaxEntrypoints int     `yaml:"max_entrypoints"`
	Locals         int     `yaml:"locals"`
	Globals        int     `yaml:"globals"`
	MinValue       float32 `yaml:"min_value"`
	MaxValue       float32 `yaml:"max_value"`
	// Seed 0 draws a random seed.
	Seed uint64 `yaml:"seed"`
	// Files is the number of outputs generated; Parallelism bounds how many
	// are written at once.
	Files       int `yaml:"files"`
	Parallelism int `yaml:"parallelism"`
}

// S3Config configures s3:// targets. Credentials come from the default AWS
// credential chain.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
	PartSize     int64  `yaml:"part_size"`
	Concurrency  int    `yaml:"concurrency"`
}

// MinIOConfig configures minio:// targets.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
	PartSize  uint64 `yaml:"part_size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Filename:        record.DefaultOptions.OutFilename,
			MaxBufferPoints: record.DefaultOptions.MaxBufferPoints,
			Compression:     sink.CompressionNone.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Generate: GenerateConfig{
			Entries:        4000,
			MaxEntrypoints: 20,
			Locals:         3,
			Globals:        4,
			MinValue:       1,
			MaxValue:       10,
			Files:          1,
			Parallelism:    4,
		},
		MinIO: MinIOConfig{
			Secure: true,
		},
	}
}

// Load reads configuration from a file and applies environment overrides.
// If path is empty, DefaultFiles are searched in the working directory and
// a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path) //nolint:gosec // G304: path is user supplied
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CENTIPEDE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	parse := func(key string, fn func(string) error) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if err := fn(v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			}
		}
	}

	str("OUT_FILENAME", &c.Output.Filename)
	parse("MAX_BUFFER_POINTS", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		c.Output.MaxBufferPoints = uint32(n)
		return err
	})
	str("COMPRESSION", &c.Output.Compression)
	parse("COMPRESSION_LEVEL", func(v string) (err error) {
		c.Output.CompressionLevel, err = strconv.Atoi(v)
		return err
	})
	parse("IO_LIMIT_BYTES_PER_SEC", func(v string) (err error) {
		c.Output.IOLimitBytesPerSec, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	parse("CHECKSUM", func(v string) (err error) {
		c.Output.Checksum, err = strconv.ParseBool(v)
		return err
	})
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	parse("SEED", func(v string) (err error) {
		c.Generate.Seed, err = strconv.ParseUint(v, 10, 64)
		return err
	})
	str("S3_REGION", &c.S3.Region)
	str("S3_ENDPOINT", &c.S3.Endpoint)
	str("MINIO_ENDPOINT", &c.MinIO.Endpoint)
	str("MINIO_ACCESS_KEY", &c.MinIO.AccessKey)
	str("MINIO_SECRET_KEY", &c.MinIO.SecretKey)

	return errors.Join(errs...)
}

// Validate checks the configuration for values the command cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Output.MaxBufferPoints == 0 {
		errs = append(errs, errors.New("output.max_buffer_points must be positive"))
	}
	if _, err := sink.ParseCompression(c.Output.Compression); err != nil {
		errs = append(errs, fmt.Errorf("output.compression: %w", err))
	}
	if c.Output.IOLimitBytesPerSec < 0 {
		errs = append(errs, errors.New("output.io_limit_bytes_per_sec must not be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	g := c.Generate
	if g.Entries < 0 || g.MaxEntrypoints < 1 || g.Locals < 0 || g.Globals < 0 {
		errs = append(errs, errors.New("generate: entries, locals and globals must not be negative, max_entrypoints must be positive"))
	}
	if !(g.MinValue > 0) || g.MaxValue < g.MinValue {
		errs = append(errs, fmt.Errorf("generate: invalid value range [%g, %g]", g.MinValue, g.MaxValue))
	}
	if g.Files < 1 || g.Parallelism < 1 {
		errs = append(errs, errors.New("generate: files and parallelism must be positive"))
	}

	return errors.Join(errs...)
}

// WriterOptions returns the record options described by the output section.
func (c *Config) WriterOptions() (func(o *record.Options), error) {
	compression, err := sink.ParseCompression(c.Output.Compression)
	if err != nil {
		return nil, err
	}
	out := c.Output
	return func(o *record.Options) {
		o.OutFilename = out.Filename
		o.MaxBufferPoints = out.MaxBufferPoints
		o.Compression = compression
		o.CompressionLevel = out.CompressionLevel
		o.IOLimitBytesPerSec = out.IOLimitBytesPerSec
		o.Checksum = out.Checksum
		o.SyncOnFlush = out.SyncOnFlush
	}, nil
}
