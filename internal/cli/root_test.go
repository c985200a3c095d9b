package cli

import (
	"bytes"
	"context"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the command tree and returns stdout and the log output.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := NewRootCmd(&logs)
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		v       float64
		wantErr bool
	}{
		{"power=6", "power", 6, false},
		{" rot.XW = -30.5 ", "rot.XW", -30.5, false},
		{"power", "", 0, true},
		{"=3", "", 0, true},
		{"power=six", "", 0, true},
		{"rot.XW=NaN", "", 0, true},
		{"width=+Inf", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, v, err := parseSet(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && (name != tt.name || v != tt.v) {
				t.Fatalf("got %q=%g", name, v)
			}
		})
	}
}

func TestMatrixCommand(t *testing.T) {
	out, logs, err := run(t, "matrix", "--set", "rot.XW=90", "-p", "1,0,0,0", "-p", "0,1,0,0")
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	for _, want := range []string{
		"R (4x4):",
		"det=1.000000 orthogonal=true",
		"1,0,0,0 -> xyz=(0.0000, 0.0000, 0.0000) depth=1.0000",
		"0,1,0,0 -> xyz=(0.0000, 0.2500, 0.0000) depth=0.0000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if _, _, err := run(t, "matrix", "-p", "1,0,0"); err == nil {
		t.Fatal("3 components in 4-D accepted")
	}
	if _, _, err := run(t, "matrix", "--set", "rot.XQ=1"); err == nil {
		t.Fatal("bad plane accepted")
	}
}

func TestProjectCommand(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "cube.png")
	if _, logs, err := run(t, "project", "-o", pngPath, "--set", "width=64", "--set", "height=48"); err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("size %v", b)
	}

	scene := filepath.Join(dir, "simplex.toml")
	if err := os.WriteFile(scene, []byte("[object]\nkind = \"simplex\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	facesPath := filepath.Join(dir, "simplex.png")
	if _, logs, err := run(t, "project", "-c", scene, "--faces", "0.4", "-o", facesPath, "--set", "width=32", "--set", "height=32"); err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	if _, err := os.Stat(facesPath); err != nil {
		t.Fatal(err)
	}

	gifPath := filepath.Join(dir, "spin.gif")
	if _, logs, err := run(t, "project", "--gif", "--frames", "3", "-o", gifPath, "--set", "width=32", "--set", "height=32"); err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	g, err := os.Open(gifPath)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	anim, err := gif.DecodeAll(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Fatalf("frames %d", len(anim.Image))
	}
}

func TestProjectCommand_OutputDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MDIM_OUTPUT_DIR", dir)
	if _, logs, err := run(t, "project", "--set", "width=16", "--set", "height=16"); err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	if _, err := os.Stat(filepath.Join(dir, "mdimension.png")); err != nil {
		t.Fatal(err)
	}
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulb.png")
	_, logs, err := run(t, "render", "-v", "-j", "2", "-o", path,
		"--set", "width=6", "--set", "height=4", "--set", "iterations=6")
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	if !strings.Contains(logs, "Rendered "+path) {
		t.Fatalf("no completion line in logs:\n%s", logs)
	}
	if !strings.Contains(logs, "run=") {
		t.Fatalf("run id missing from logs:\n%s", logs)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "render", "-o", path, "--set", "dimension=3"); err == nil {
		t.Fatal("3-D fractal accepted")
	}
}

func TestMeshCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulb.obj")
	if _, logs, err := run(t, "mesh", "--cells", "16", "-o", path, "--set", "iterations=6"); err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, "o bulb\n") || !strings.Contains(s, "\nf ") {
		t.Fatalf("unexpected OBJ header:\n%.200s", s)
	}
}

func TestParamsCommand_ConfigAndScript(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(scene, []byte("dimension = 5\n\n[fractal]\npower = 4.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	zy := filepath.Join(dir, "tweak.zy")
	if err := os.WriteFile(zy, []byte(`(setp "power" (+ 1 (getp "power"))) (rot "ZV" 15)`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, logs, err := run(t, "params", "-c", scene, "--script", zy, "--set", "bailout=9")
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	for _, want := range []string{"dimension = 5\n", "power = 5\n", "bailout = 9\n", "rot.ZV = 15\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	bad := filepath.Join(dir, "bad.zy")
	if err := os.WriteFile(bad, []byte(`(setp "power" 1)`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "params", "--script", bad); err == nil {
		t.Fatal("invalid script accepted")
	}
	if _, _, err := run(t, "params", "-c", filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("missing config accepted")
	}
}
