// Package sim runs particle fields headless, alone or as a seeded
// ensemble across goroutines.
package sim

import (
	"context"
	"time"

	"github.com/san-kum/particlefield/internal/field"
	"github.com/san-kum/particlefield/internal/field/headless"
	"github.com/san-kum/particlefield/internal/metrics"
)

type Config struct {
	Mode    field.Mode
	Palette field.Palette
	Width   int
	Height  int
	Frames  int
	Seed    int64
}

type Result struct {
	Seed    int64
	Frames  int
	Draws   int
	Elapsed time.Duration
	Metrics map[string]float64
}

// FPS reports frames per second of wall time.
func (r *Result) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// Run animates one field for cfg.Frames frames, checking ctx between
// frames.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	h := headless.NewHost(cfg.Width, cfg.Height)
	rec := metrics.NewRecorder(cfg.Frames, metrics.Default()...)
	anim := field.New(
		field.WithMode(cfg.Mode),
		field.WithPalette(cfg.Palette),
		field.WithSeed(cfg.Seed),
		field.WithObserver(rec),
	)
	anim.Mount(h)
	defer anim.Unmount()

	res := &Result{Seed: cfg.Seed}
	start := time.Now()
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if h.Frames(1) == 0 {
			break
		}
		res.Frames++
	}
	res.Elapsed = time.Since(start)
	res.Draws = h.Surf.Draws()
	res.Metrics = rec.Values()
	return res, nil
}
