package openscad

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestWriteBoard(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.Scale3D(0.1, 1, 0.2))

	var b strings.Builder
	if err := WriteBoard(&b, "board", m, 10, 0.02); err != nil {
		t.Fatalf("WriteBoard failed: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"// board",
		"[0.1, 0, 0, 1],",
		"[0, 1, 0, 2],",
		"[0, 0, 0.2, 3],",
		"[0, 0, 0, 1]\n])",
		"translate([0, 0.01, 0])",
		"cube([10, 0.02, 10], center = true);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteBoard failed: output lacks %q\n%s", want, out)
		}
	}
}

func TestWriteBoardFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.scad")
	if err := WriteBoardFile(path, "board", mgl64.Ident4(), 10, 0.5); err != nil {
		t.Fatalf("WriteBoardFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "multmatrix([") {
		t.Errorf("WriteBoardFile failed: unexpected content %q", data)
	}

	if err := WriteBoardFile(filepath.Join(t.TempDir(), "missing", "b.scad"), "board", mgl64.Ident4(), 10, 0.5); err == nil {
		t.Error("WriteBoardFile failed: expected error for missing directory")
	}
}

func TestRenderWithoutOpenSCAD(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	err := NewRenderer(t.TempDir()).RenderToSTL(context.Background(), "board.scad", "board.stl")
	if err == nil || !strings.Contains(err.Error(), "openscad not found") {
		t.Errorf("RenderToSTL failed: expected missing binary error, got %v", err)
	}
}
