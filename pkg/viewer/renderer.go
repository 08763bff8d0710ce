package viewer

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// PointerPhase is the stage of a primary-button gesture
type PointerPhase int

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
)

// SceneView renders a Scene and reports primary-button gestures in widget
// coordinates. Secondary-button drags orbit the camera, scrolling zooms.
type SceneView struct {
	widget.BaseWidget

	mu     sync.Mutex
	scene  Scene
	camera *Camera
	raster *canvas.Raster

	primaryDown bool
	lastPrimary fyne.Position
	orbitFrom   *fyne.Position

	onPointer func(phase PointerPhase, x, y float64)
	onCamera  func()
}

// NewSceneView creates a view of scene through camera
func NewSceneView(scene Scene, camera *Camera) *SceneView {
	v := &SceneView{scene: scene, camera: camera}
	v.raster = canvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)
	return v
}

// SetOnPointer sets the callback for primary-button gestures
func (v *SceneView) SetOnPointer(callback func(phase PointerPhase, x, y float64)) {
	v.onPointer = callback
}

// SetOnCameraChange sets the callback for camera orbit and zoom
func (v *SceneView) SetOnCameraChange(callback func()) {
	v.onCamera = callback
}

// SetScene replaces the scene and redraws
func (v *SceneView) SetScene(scene Scene) {
	v.mu.Lock()
	v.scene = scene
	v.mu.Unlock()
	v.raster.Refresh()
}

// Camera returns the view camera
func (v *SceneView) Camera() *Camera {
	return v.camera
}

// ViewSize returns the widget size in the coordinates pointer callbacks use
func (v *SceneView) ViewSize() (width, height float64) {
	s := v.Size()
	return float64(s.Width), float64(s.Height)
}

// draw renders at the raster's pixel size. Projection is linear in the
// viewport size so pixel and widget coordinates agree up to scale.
func (v *SceneView) draw(w, h int) image.Image {
	v.mu.Lock()
	scene := v.scene
	v.mu.Unlock()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return Snapshot(scene, v.camera, SnapshotOptions{Width: w, Height: h})
}

// CreateRenderer creates the renderer for the widget
func (v *SceneView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize returns the minimum widget size
func (v *SceneView) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

// MouseDown starts a pointer gesture or a camera orbit
func (v *SceneView) MouseDown(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		v.primaryDown = true
		v.emit(PointerDown, ev.Position)
	case desktop.MouseButtonSecondary:
		pos := ev.Position
		v.orbitFrom = &pos
	}
}

// MouseUp ends a pointer gesture or a camera orbit
func (v *SceneView) MouseUp(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		if v.primaryDown {
			v.primaryDown = false
			v.emit(PointerUp, ev.Position)
		}
	case desktop.MouseButtonSecondary:
		v.orbitFrom = nil
	}
}

// MouseIn is required by desktop.Hoverable
func (v *SceneView) MouseIn(*desktop.MouseEvent) {}

// MouseMoved reports drags and orbits the camera
func (v *SceneView) MouseMoved(ev *desktop.MouseEvent) {
	if v.primaryDown {
		v.emit(PointerMove, ev.Position)
	}
	if v.orbitFrom != nil {
		deltaX := ev.Position.X - v.orbitFrom.X
		deltaY := ev.Position.Y - v.orbitFrom.Y
		v.camera.Rotate(float64(-deltaY)*0.01, float64(deltaX)*0.01)
		pos := ev.Position
		v.orbitFrom = &pos
		v.cameraChanged()
	}
}

// MouseOut releases a held button at its last position inside the view
func (v *SceneView) MouseOut() {
	if v.primaryDown {
		v.primaryDown = false
		v.emit(PointerUp, v.lastPrimary)
	}
	v.orbitFrom = nil
}

// Scrolled zooms the camera
func (v *SceneView) Scrolled(ev *fyne.ScrollEvent) {
	v.camera.Zoom(-float64(ev.Scrolled.DY) * 0.001)
	v.cameraChanged()
}

func (v *SceneView) emit(phase PointerPhase, pos fyne.Position) {
	v.lastPrimary = pos
	if v.onPointer != nil {
		v.onPointer(phase, float64(pos.X), float64(pos.Y))
	}
}

func (v *SceneView) cameraChanged() {
	v.raster.Refresh()
	if v.onCamera != nil {
		v.onCamera()
	}
}
