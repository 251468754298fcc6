package cli

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/hupe1980/centipede/entry"
	"github.com/hupe1980/centipede/internal/config"
	"github.com/hupe1980/centipede/record"
)

// Generator feeds random entries to a writer. Every entry holds between 1
// and MaxEntrypoints entrypoints whose values are drawn uniformly from
// [MinValue, MaxValue) and whose global labels are drawn from
// [1, MaxEntrypoints].
type Generator struct {
	cfg   config.GenerateConfig
	rng   *rand.Rand
	point *entry.Fixed
}

// NewGenerator creates a Generator. Equal seeds produce equal outputs.
func NewGenerator(cfg config.GenerateConfig, seed uint64) *Generator {
	return &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		point: entry.NewFixed(cfg.Locals, cfg.Globals),
	}
}

func (g *Generator) value() float32 {
	return g.cfg.MinValue + g.rng.Float32()*(g.cfg.MaxValue-g.cfg.MinValue)
}

func (g *Generator) label() uint32 {
	return uint32(1 + g.rng.IntN(g.cfg.MaxEntrypoints))
}

// Next refills the generator's entrypoint. The returned value is reused by
// the next call.
func (g *Generator) Next() *entry.Fixed {
	return g.point.
		SetLocalsFunc(func(int) float32 { return g.value() }).
		SetGlobalsFuncs(func(int) uint32 { return g.label() }, func(int) float32 { return g.value() }).
		SetMeasurement(g.value()).
		SetSigma(g.value())
}

// Run writes cfg.Entries entries to w. Rejected entrypoints are skipped;
// any other writer error stops the run.
func (g *Generator) Run(ctx context.Context, w *record.Writer) error {
	for range g.cfg.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := 1 + g.rng.IntN(g.cfg.MaxEntrypoints)
		for range n {
			if err := w.AddEntrypoint(g.Next()); err != nil && !errors.Is(err, record.ErrEntrypointRejected) {
				return err
			}
		}

		if _, err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
