package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/centipede/internal/config"
	"github.com/hupe1980/centipede/record"
)

// fileResult summarizes one generated output.
type fileResult struct {
	target  Target
	stats   record.Stats
	labels  uint64
	metrics record.BasicMetricsStats
}

func newGenerateCommand(a *app) *cobra.Command {
	var (
		output         string
		entries        int
		maxEntrypoints int
		locals         int
		globals        int
		seed           uint64
		files          int
		parallelism    int
		compression    string
		checksum       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random entries",
		Long: `Writes entries of random entrypoints to one or more outputs. Outputs are
local paths, s3://bucket/key or minio://bucket/key. With --files N the
outputs are numbered (run.bin becomes run-000.bin, run-001.bin, ...) and
written in parallel.`,
		Example: `  # 4000 entries to ./output.bin
  centipede generate

  # Reproducible, zstd compressed, with a CRC32 of the records
  centipede generate -o run.bin --seed 7 --compression zstd --checksum

  # Eight files to MinIO, four at a time
  centipede generate -o minio://alignment/run.bin --files 8 --parallelism 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			flags := cmd.Flags()
			if flags.Changed("output") {
				cfg.Output.Filename = output
			}
			if flags.Changed("entries") {
				cfg.Generate.Entries = entries
			}
			if flags.Changed("max-entrypoints") {
				cfg.Generate.MaxEntrypoints = maxEntrypoints
			}
			if flags.Changed("locals") {
				cfg.Generate.Locals = locals
			}
			if flags.Changed("globals") {
				cfg.Generate.Globals = globals
			}
			if flags.Changed("seed") {
				cfg.Generate.Seed = seed
			}
			if flags.Changed("files") {
				cfg.Generate.Files = files
			}
			if flags.Changed("parallelism") {
				cfg.Generate.Parallelism = parallelism
			}
			if flags.Changed("compression") {
				cfg.Output.Compression = compression
			}
			if flags.Changed("checksum") {
				cfg.Output.Checksum = checksum
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			results, err := a.generate(cmd.Context(), &cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s: %d records, %d bytes, %d labels", r.target, r.stats.Records, r.stats.Bytes, r.labels)
				if cfg.Output.Checksum {
					fmt.Fprintf(out, ", crc32 %08x", r.stats.Checksum)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output path, s3://bucket/key or minio://bucket/key")
	f.IntVar(&entries, "entries", 0, "number of entries per output")
	f.IntVar(&maxEntrypoints, "max-entrypoints", 0, "maximum entrypoints per entry and global label range")
	f.IntVar(&locals, "locals", 0, "local derivatives per entrypoint")
	f.IntVar(&globals, "globals", 0, "global derivatives per entrypoint")
	f.Uint64Var(&seed, "seed", 0, "random seed, 0 draws one")
	f.IntVar(&files, "files", 0, "number of outputs")
	f.IntVar(&parallelism, "parallelism", 0, "outputs written concurrently")
	f.StringVar(&compression, "compression", "", "none, zstd or lz4")
	f.BoolVar(&checksum, "checksum", false, "report a CRC32 of the written records")

	return cmd
}

// generate writes cfg.Generate.Files outputs, at most
// cfg.Generate.Parallelism at a time. Output i uses seed+i.
func (a *app) generate(ctx context.Context, cfg *config.Config) ([]fileResult, error) {
	target, err := ParseTarget(cfg.Output.Filename)
	if err != nil {
		return nil, err
	}

	seed := cfg.Generate.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	targets := []Target{target}
	if cfg.Generate.Files > 1 {
		targets = make([]Target, cfg.Generate.Files)
		for i := range targets {
			targets[i] = target.Numbered(i)
		}
	}

	results := make([]fileResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Generate.Parallelism)
	for i, t := range targets {
		g.Go(func() error {
			r, err := a.generateFile(ctx, cfg, t, seed+uint64(i))
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *app) generateFile(ctx context.Context, cfg *config.Config, t Target, seed uint64) (fileResult, error) {
	r := fileResult{target: t}
	logger := a.logger.With("target", t.String(), "seed", seed)

	store, err := openStore(ctx, cfg, t)
	if err != nil {
		return r, fmt.Errorf("%s: %w", t, err)
	}
	writerOpts, err := cfg.WriterOptions()
	if err != nil {
		return r, err
	}

	mc := &record.BasicMetricsCollector{}
	w := record.New(writerOpts, func(o *record.Options) {
		o.OutFilename = t.Name
		o.Store = store
		o.Logger = record.NewLogger(logger.Handler())
		o.MetricsCollector = mc
	})

	if err := w.Init(ctx); err != nil {
		return r, fmt.Errorf("%s: %w", t, err)
	}

	runErr := NewGenerator(cfg.Generate, seed).Run(ctx, w)
	closeErr := w.Close()
	if err := errors.Join(runErr, closeErr); err != nil {
		return r, fmt.Errorf("%s: %w", t, err)
	}

	r.stats = w.Stats()
	r.labels = w.Labels().GetCardinality()
	r.metrics = mc.GetStats()

	logger.Info("output written",
		"records", r.stats.Records,
		"bytes", r.stats.Bytes,
		"rejected", r.metrics.AddRejected,
		"flush_avg", r.metrics.FlushAvgNanos,
	)
	return r, nil
}
