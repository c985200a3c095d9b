package render

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// ErrNoField is returned when a frame without a distance field is raymarched.
var ErrNoField = errors.New("render: frame has no distance field")

// Options sizes a raymarched image.
type Options struct {
	Width, Height int
	Workers       int // 0 means runtime.NumCPU()
}

func discard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}

// Raymarch renders one frame. Rows are handed to a bounded pool of workers;
// every worker reads the same immutable Frame. Cancelling ctx stops new rows
// from starting and returns ctx.Err().
func Raymarch(ctx context.Context, fr *mdimension.Frame, cam mdimension.Camera, sh Shader, opt Options, logger *log.Logger) (*Buffer, *Tally, error) {
	logger = discard(logger)
	if fr == nil || fr.Field == nil {
		return nil, nil, ErrNoField
	}
	W, H := opt.Width, opt.Height
	if W <= 0 || H <= 0 {
		return nil, nil, errors.New("render: image size must be positive")
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	buf := NewBuffer(W, H)
	tally := NewTally()
	step := max(1, H/10) // progress every ~10%
	var rows atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < H; y++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var rt rowTally
			for x := 0; x < W; x++ {
				h := fr.MarchRay(cam, x, y, W, H)
				rt.add(h)
				buf.Set(x, y, sh.Shade(fr.Field, h))
			}
			tally.merge(&rt)
			if n := rows.Add(1); n%int64(step) == 0 {
				logger.Debugf("raymarch %d%%", n*100/int64(H))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	logger.Info("raymarch done",
		"size", []int{W, H},
		"workers", workers,
		"hits", tally.Count(mdimension.Hit),
		"meanSteps", tally.MeanSteps(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return buf, tally, nil
}
