// Package openscad writes placed boards as OpenSCAD models and renders them
// to STL with the openscad binary.
package openscad

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// WriteBoard writes a plate of size x thickness x size in board-local space
// resting on the local XZ plane, placed by the 4x4 world matrix
func WriteBoard(w io.Writer, name string, m mgl64.Mat4, size, thickness float64) error {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n", name)
	b.WriteString("multmatrix([\n")
	for row := 0; row < 4; row++ {
		fmt.Fprintf(&b, "  [%g, %g, %g, %g]", m.At(row, 0), m.At(row, 1), m.At(row, 2), m.At(row, 3))
		if row < 3 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("])\n")
	fmt.Fprintf(&b, "  translate([0, %g, 0])\n", thickness/2)
	fmt.Fprintf(&b, "    cube([%g, %g, %g], center = true);\n", size, thickness, size)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteBoardFile writes a board model to a .scad file
func WriteBoardFile(filename, name string, m mgl64.Mat4, size, thickness float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := WriteBoard(file, name, m, size, thickness); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}

// Renderer handles OpenSCAD file rendering to STL
type Renderer struct {
	workDir string
}

// NewRenderer creates a new OpenSCAD renderer
func NewRenderer(workDir string) *Renderer {
	return &Renderer{
		workDir: workDir,
	}
}

// RenderToSTL renders an OpenSCAD file to STL format
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	// Convert scadFile to absolute path if it's relative
	absScadFile := scadFile
	if !filepath.IsAbs(scadFile) {
		abs, err := filepath.Abs(filepath.Join(r.workDir, scadFile))
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", scadFile, err)
		}
		absScadFile = abs
	}

	// Check if OpenSCAD is installed
	if _, err := exec.LookPath("openscad"); err != nil {
		return fmt.Errorf("openscad not found in PATH. Please install OpenSCAD from https://openscad.org/")
	}

	cmd := exec.CommandContext(ctx, "openscad", "-o", outputFile, absScadFile)
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// If error occurred, display output
	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		errMsg.WriteString(fmt.Sprintf("failed to render %s: %v\n", scadFile, err))
		if stderr.Len() > 0 {
			errMsg.WriteString("stderr: ")
			errMsg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			errMsg.WriteString("stdout: ")
			errMsg.WriteString(stdout.String())
		}
		return fmt.Errorf("%s", errMsg.String())
	}

	return nil
}
