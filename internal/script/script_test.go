package script

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lukaszgryglicki/mdimension/internal/config"
)

func TestApply(t *testing.T) {
	cfg := config.Default()
	src := `
(setp "power" 3)
(rot "XW" 45)
(setp "slice.3" (* 0.5 (getp "power")))
(setp 'fov 30)
`
	if err := Apply(context.Background(), src, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Fractal == nil || cfg.Fractal.Power != 3 {
		t.Fatalf("power not applied: %+v", cfg.Fractal)
	}
	if cfg.RotDeg["XW"] != 45 {
		t.Fatalf("rotation not applied: %v", cfg.RotDeg)
	}
	if len(cfg.Slice) != 4 || cfg.Slice[3] != 1.5 {
		t.Fatalf("slice %v", cfg.Slice)
	}
	if cfg.Camera.FOV != 30 {
		t.Fatalf("fov %g", cfg.Camera.FOV)
	}
}

func TestApply_EmptyAndPlainLisp(t *testing.T) {
	cfg := config.Default()
	for _, src := range []string{"", "  \n\t", "(+ 1 2)"} {
		if err := Apply(context.Background(), src, cfg); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
	if cfg.Fractal != nil || len(cfg.RotDeg) != 0 {
		t.Fatal("config changed by a script without assignments")
	}
}

func TestApply_FailureLeavesConfigUntouched(t *testing.T) {
	cfg := config.Default()
	cases := []string{
		`(setp "fov" 20) (setp "power" 1)`,
		`(setp "fov" 20) (rot "XA9" 10)`,
		`(setp "fov" 20) (setp "nope" 1)`,
		`(setp "fov" "wide")`,
		`(setp "fov" 20`,
		`(undefined-thing)`,
	}
	for _, src := range cases {
		if err := Apply(context.Background(), src, cfg); err == nil {
			t.Fatalf("%q: expected error", src)
		}
		if cfg.Camera.FOV != 0 {
			t.Fatalf("%q: partial assignment leaked (fov=%g)", src, cfg.Camera.FOV)
		}
	}
}

func TestApply_NonFiniteSceneValue(t *testing.T) {
	cfg := config.Default()
	cfg.Slice = []float64{0, 0, 0, math.NaN()}
	if err := Apply(context.Background(), `(setp "power" 3)`, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Fractal == nil || cfg.Fractal.Power != 3 {
		t.Fatalf("power not applied: %+v", cfg.Fractal)
	}
}

func TestApply_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Apply(ctx, `(setp "fov" 20)`, config.Default()); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestErrorString(t *testing.T) {
	if got := (Error{Line: 3, Message: "boom"}).Error(); got != "script line 3: boom" {
		t.Fatalf("got %q", got)
	}
	if got := (Error{Message: "boom"}).Error(); got != "script: boom" {
		t.Fatalf("got %q", got)
	}
}
