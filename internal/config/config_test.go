package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/centipede/record"
	"github.com/hupe1980/centipede/sink"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "output.bin", cfg.Output.Filename)
	assert.Equal(t, uint32(10000), cfg.Output.MaxBufferPoints)
	assert.Equal(t, "none", cfg.Output.Compression)
	assert.Equal(t, 4000, cfg.Generate.Entries)
	assert.Equal(t, 20, cfg.Generate.MaxEntrypoints)
	assert.Equal(t, 3, cfg.Generate.Locals)
	assert.Equal(t, 4, cfg.Generate.Globals)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  out_filename: run.bin
  max_buffer_points: 512
  compression: zstd
  checksum: true
log:
  level: debug
  format: json
generate:
  entries: 10
  seed: 42
minio:
  endpoint: localhost:9000
  secure: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "run.bin", cfg.Output.Filename)
	assert.Equal(t, uint32(512), cfg.Output.MaxBufferPoints)
	assert.Equal(t, "zstd", cfg.Output.Compression)
	assert.True(t, cfg.Output.Checksum)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10, cfg.Generate.Entries)
	assert.Equal(t, uint64(42), cfg.Generate.Seed)
	assert.Equal(t, 3, cfg.Generate.Locals, "unset fields keep defaults")
	assert.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)
	assert.False(t, cfg.MinIO.Secure)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unterminated"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  max_buffer_points: 0
  compression: brotli
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "max_buffer_points")
	assert.ErrorContains(t, err, "compression")
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.ApplyEnv(envMap(map[string]string{
		"CENTIPEDE_OUT_FILENAME":      "env.bin",
		"CENTIPEDE_MAX_BUFFER_POINTS": "64",
		"CENTIPEDE_COMPRESSION":       "lz4",
		"CENTIPEDE_CHECKSUM":          "true",
		"CENTIPEDE_LOG_LEVEL":         "warn",
		"CENTIPEDE_MINIO_ACCESS_KEY":  "key",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env.bin", cfg.Output.Filename)
	assert.Equal(t, uint32(64), cfg.Output.MaxBufferPoints)
	assert.Equal(t, "lz4", cfg.Output.Compression)
	assert.True(t, cfg.Output.Checksum)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "key", cfg.MinIO.AccessKey)
}

func TestApplyEnv_Invalid(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.ApplyEnv(envMap(map[string]string{
		"CENTIPEDE_MAX_BUFFER_POINTS": "lots",
		"CENTIPEDE_CHECKSUM":          "maybe",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "CENTIPEDE_MAX_BUFFER_POINTS")
	assert.ErrorContains(t, err, "CENTIPEDE_CHECKSUM")

	require.NoError(t, DefaultConfig().ApplyEnv(noEnv))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative io limit", func(c *Config) { c.Output.IOLimitBytesPerSec = -1 }, "io_limit_bytes_per_sec"},
		{"zero min value", func(c *Config) { c.Generate.MinValue = 0 }, "value range"},
		{"inverted range", func(c *Config) { c.Generate.MaxValue = 0.5 }, "value range"},
		{"no files", func(c *Config) { c.Generate.Files = 0 }, "files and parallelism"},
		{"no entrypoints", func(c *Config) { c.Generate.MaxEntrypoints = 0 }, "max_entrypoints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestWriterOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Filename = "w.bin"
	cfg.Output.MaxBufferPoints = 100
	cfg.Output.Compression = "zstd"
	cfg.Output.CompressionLevel = 3
	cfg.Output.IOLimitBytesPerSec = 1024
	cfg.Output.SyncOnFlush = true

	fn, err := cfg.WriterOptions()
	require.NoError(t, err)

	opts := record.DefaultOptions
	fn(&opts)
	assert.Equal(t, "w.bin", opts.OutFilename)
	assert.Equal(t, uint32(100), opts.MaxBufferPoints)
	assert.Equal(t, sink.CompressionZSTD, opts.Compression)
	assert.Equal(t, 3, opts.CompressionLevel)
	assert.Equal(t, int64(1024), opts.IOLimitBytesPerSec)
	assert.True(t, opts.SyncOnFlush)

	cfg.Output.Compression = "gzip"
	_, err = cfg.WriterOptions()
	require.Error(t, err)
}
