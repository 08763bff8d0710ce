package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Background is the default snapshot background
var Background = color.RGBA{30, 32, 36, 255}

// SnapshotOptions controls offscreen rendering
type SnapshotOptions struct {
	Width, Height int
	Supersample   int // Render at this multiple and scale down, 1 if zero
	Background    color.RGBA
}

// Snapshot rasterizes the scene as seen by the camera. Polygons are depth
// tested; lines and markers are drawn on top, labels last at output
// resolution.
func Snapshot(scene Scene, cam *Camera, opts SnapshotOptions) *image.RGBA {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	bg := opts.Background
	if bg == (color.RGBA{}) {
		bg = Background
	}

	w, h := opts.Width*ss, opts.Height*ss
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	zbuffer := make([]float64, w*h)
	for i := range zbuffer {
		zbuffer[i] = math.MaxFloat64
	}

	fw, fh := float64(w), float64(h)
	for _, p := range scene.Polygons {
		if len(p.Points) < 3 {
			continue
		}
		for i := 1; i+1 < len(p.Points); i++ {
			x1, y1, z1, ok1 := cam.ProjectPoint(p.Points[0], fw, fh)
			x2, y2, z2, ok2 := cam.ProjectPoint(p.Points[i], fw, fh)
			x3, y3, z3, ok3 := cam.ProjectPoint(p.Points[i+1], fw, fh)
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			fillTriangleWithDepth(img, zbuffer, x1, y1, z1, x2, y2, z2, x3, y3, z3, p.Fill)
		}
	}

	for _, l := range scene.Lines {
		n := len(l.Points)
		segments := n - 1
		if l.Closed && n > 2 {
			segments = n
		}
		for i := 0; i < segments; i++ {
			x1, y1, _, ok1 := cam.ProjectPoint(l.Points[i], fw, fh)
			x2, y2, _, ok2 := cam.ProjectPoint(l.Points[(i+1)%n], fw, fh)
			if !ok1 || !ok2 {
				continue
			}
			drawThickLine(img, int(x1), int(y1), int(x2), int(y2), ss, l.Color)
		}
	}

	for _, m := range scene.Markers {
		x, y, _, ok := cam.ProjectPoint(m.Position, fw, fh)
		if !ok {
			continue
		}
		size := m.Size
		if size == 0 {
			size = 7
		}
		half := size * ss / 2
		rect := image.Rect(int(x)-half, int(y)-half, int(x)+half+1, int(y)+half+1)
		draw.Draw(img, rect, image.NewUniform(m.Color), image.Point{}, draw.Src)
	}

	out := img
	if ss > 1 {
		out = image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	for _, l := range scene.Labels {
		x, y, _, ok := cam.ProjectPoint(l.Position, float64(opts.Width), float64(opts.Height))
		if !ok {
			continue
		}
		drawLabel(out, int(x)+6, int(y)-6, l.Text, l.Color)
	}
	return out
}

// WritePNG encodes an image to a PNG file
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

var (
	labelFace     font.Face
	labelFaceOnce sync.Once
)

// face returns the label font, nil if it cannot be loaded
func face() font.Face {
	labelFaceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		labelFace = truetype.NewFace(f, &truetype.Options{Size: 13, DPI: 72, Hinting: font.HintingFull})
	})
	return labelFace
}

// drawLabel draws text with its baseline at (x, y)
func drawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	f := face()
	if f == nil || text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: f,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// fillTriangleWithDepth fills a screen-space triangle, keeping pixels that
// are closer than what the z-buffer holds
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, col color.RGBA) {
	v := [3][3]float64{{x1, y1, z1}, {x2, y2, z2}, {x3, y3, z3}}

	// Sort by Y, top to bottom
	if v[0][1] > v[1][1] {
		v[0], v[1] = v[1], v[0]
	}
	if v[1][1] > v[2][1] {
		v[1], v[2] = v[2], v[1]
	}
	if v[0][1] > v[1][1] {
		v[0], v[1] = v[1], v[0]
	}

	bounds := img.Bounds()
	width := bounds.Max.X
	top := int(math.Max(0, math.Ceil(v[0][1])))
	bottom := int(math.Min(float64(bounds.Max.Y-1), v[2][1]))

	// edge interpolates x and z along an edge at scanline y
	edge := func(a, b [3]float64, y float64) (x, z float64, ok bool) {
		if a[1] == b[1] || y < a[1] || y > b[1] {
			return 0, 0, false
		}
		t := (y - a[1]) / (b[1] - a[1])
		return a[0] + t*(b[0]-a[0]), a[2] + t*(b[2]-a[2]), true
	}

	for y := top; y <= bottom; y++ {
		fy := float64(y)

		// The long edge always spans the scanline
		xl, zl, ok := edge(v[0], v[2], fy)
		if !ok {
			continue
		}
		xr, zr, ok := edge(v[0], v[1], fy)
		if !ok {
			xr, zr, ok = edge(v[1], v[2], fy)
		}
		if !ok {
			continue
		}
		if xl > xr {
			xl, xr = xr, xl
			zl, zr = zr, zl
		}

		start := int(math.Max(0, math.Ceil(xl)))
		end := int(math.Min(float64(width-1), xr))
		for x := start; x <= end; x++ {
			t := 0.0
			if xr != xl {
				t = (float64(x) - xl) / (xr - xl)
			}
			z := zl + t*(zr-zl)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawThickLine draws a line of the given pixel width
func drawThickLine(img *image.RGBA, x1, y1, x2, y2, width int, col color.RGBA) {
	r := width / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			drawLine(img, x1+dx, y1+dy, x2+dx, y2+dy, col)
		}
	}
}

// drawLine draws a line using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if image.Pt(x1, y1).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
