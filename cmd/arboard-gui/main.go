package main

import (
	"fmt"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/config"
	"github.com/philipparndt/arboard/internal/input"
	"github.com/philipparndt/arboard/internal/session"
	"github.com/philipparndt/arboard/internal/sim"
	"github.com/philipparndt/arboard/pkg/analysis"
	"github.com/philipparndt/arboard/pkg/geometry"
	"github.com/philipparndt/arboard/pkg/viewer"
	"github.com/philipparndt/arboard/version"
)

type App struct {
	window fyne.Window
	cfg    *config.Config

	scenario *sim.Scenario
	world    *sim.World
	boards   *board.Manager
	session  *session.Session
	view     *viewer.SceneView

	info *SessionInfo
}

type SessionInfo struct {
	stageLabel     *widget.Label
	focusedLabel   *widget.Label
	confirmedLabel *widget.Label
	phaseLabel     *widget.Label
	lengthLabel    *widget.Label
	heightLabel    *widget.Label
	areaLabel      *widget.Label
	imagesLabel    *widget.Label
}

// viewCamera unprojects through the view camera at the current widget size
type viewCamera struct {
	view *viewer.SceneView
}

func (c viewCamera) ScreenPointToRay(p input.Point) geometry.Ray {
	w, h := c.view.ViewSize()
	return input.Viewport{Camera: c.view.Camera(), Width: w, Height: h}.ScreenPointToRay(p)
}

func main() {
	a := app.New()
	w := a.NewWindow("arboard " + version.GetVersion() + " - Board Placement")

	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appInstance := &App{window: w, cfg: cfg}

	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to arboard")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open a scenario file describing the room")

	openButton := widget.NewButton("Open Scenario", func() {
		a.showFileDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(filename string) {
	sc, err := sim.LoadScenario(filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load scenario: %w", err), a.window)
		return
	}

	a.scenario = sc
	a.view = viewer.NewSceneView(viewer.Scene{}, sc.ViewerCamera())
	a.view.SetOnPointer(a.handlePointer)
	if err := a.reset(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.setupMainUI()
}

// reset rebuilds the world and starts a new session
func (a *App) reset() error {
	world, err := a.scenario.Build()
	if err != nil {
		return fmt.Errorf("failed to build scenario: %w", err)
	}

	a.world = world
	a.boards = board.NewManager(a.cfg.BoardProbeDistance, a.cfg.TiltThreshold)
	a.session = session.New(session.Options{
		Tracker:   world,
		HitTester: world,
		Camera:    viewCamera{view: a.view},
		Presenter: world,
		Spawner:   world,
		Boards:    a.boards,
		Config:    a.cfg,
	})
	a.session.Start()
	a.refresh()
	return nil
}

func (a *App) handlePointer(phase viewer.PointerPhase, x, y float64) {
	kind := input.Drag
	switch phase {
	case viewer.PointerDown:
		kind = input.Press
	case viewer.PointerUp:
		kind = input.Release
	}
	a.session.Dispatch(input.Event{Kind: kind, Position: input.Point{X: x, Y: y}})
	a.refresh()
}

func (a *App) setupMainUI() {
	a.info = &SessionInfo{
		stageLabel:     widget.NewLabel(""),
		focusedLabel:   widget.NewLabel(""),
		confirmedLabel: widget.NewLabel(""),
		phaseLabel:     widget.NewLabel(""),
		lengthLabel:    widget.NewLabel(""),
		heightLabel:    widget.NewLabel(""),
		areaLabel:      widget.NewLabel(""),
		imagesLabel:    widget.NewLabel(""),
	}
	a.info.stageLabel.TextStyle = fyne.TextStyle{Bold: true}

	openButton := widget.NewButton("Open Scenario", func() {
		a.showFileDialog()
	})

	resetButton := widget.NewButton("Reset", func() {
		if err := a.reset(); err != nil {
			dialog.ShowError(err, a.window)
		}
	})

	cancelButton := widget.NewButton("Cancel", func() {
		a.session.Cancel()
		a.refresh()
	})

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Click a surface to focus it, click it again to confirm\n" +
			"• Press, drag and release to place each beacon\n" +
			"• Right-drag to rotate the view\n" +
			"• Scroll to zoom in/out",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Session:"),
		widget.NewSeparator(),
		a.info.stageLabel,
		a.info.focusedLabel,
		a.info.confirmedLabel,
		a.info.phaseLabel,
		widget.NewSeparator(),
		widget.NewLabel("Board:"),
		widget.NewSeparator(),
		a.info.lengthLabel,
		a.info.heightLabel,
		a.info.areaLabel,
		widget.NewSeparator(),
		widget.NewLabel("Images:"),
		a.info.imagesLabel,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		openButton,
		resetButton,
		cancelButton,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(nil, nil, nil, infoScroll, a.view)
	a.window.SetContent(content)
	a.refresh()
}

// refresh redraws the scene and the side panel
func (a *App) refresh() {
	a.view.SetScene(a.world.Scene())
	if a.info == nil {
		return
	}

	s := a.session
	a.info.stageLabel.SetText("Stage: " + s.Stage().String())

	focused := "-"
	if id, ok := s.Selector().Focused(); ok {
		focused = a.world.Name(id)
	}
	a.info.focusedLabel.SetText("Focused: " + focused)

	confirmed := "-"
	if sf, ok := s.Surface(); ok {
		confirmed = sf.Name
	}
	a.info.confirmedLabel.SetText("Confirmed: " + confirmed)

	phase := "-"
	if s.Stage() == session.Building || s.Stage() == session.Complete {
		phase = s.Builder().Phase().String()
	}
	a.info.phaseLabel.SetText("Phase: " + phase)

	length, height, area := "-", "-", "-"
	if outline := s.Builder().Outline(); len(outline) == 4 {
		r := analysis.AnalyzeBoard(geometry.Rectangle{Corners: [4]geometry.Vector3(outline)})
		length = fmt.Sprintf("%.3f", r.Length)
		height = fmt.Sprintf("%.3f", r.Height)
		area = fmt.Sprintf("%.3f", r.Area)
	} else if len(outline) == 2 {
		length = fmt.Sprintf("%.3f", outline[0].Distance(outline[1]))
	}
	a.info.lengthLabel.SetText("Length: " + length)
	a.info.heightLabel.SetText("Height: " + height)
	a.info.areaLabel.SetText("Area: " + area)

	var lines []string
	if s.Stage() == session.Complete {
		for _, img := range a.world.Images() {
			lines = append(lines, fmt.Sprintf("%s: %s", img.Name, a.boards.ImageIsOnBoard(img.Pose)))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "-")
	}
	a.info.imagesLabel.SetText(strings.Join(lines, "\n"))
}
