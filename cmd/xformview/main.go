// Command xformview shows a transformed shape in a window and binds the
// transform controls to the keyboard.
//
// Keys:
//
//	Up/Down      select a control
//	Left/Right   nudge the selected control (Shift: 10 steps)
//	R            reset to the configured state
//	H            toggle the readout
//	Esc          quit
package main

import (
	"errors"
	"flag"
	"image"
	"image/draw"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/xform"
	"github.com/gogpu/xform/backend"
	"github.com/gogpu/xform/config"
	_ "github.com/gogpu/xform/gpu"
	"github.com/gogpu/xform/internal/hud"
	_ "github.com/gogpu/xform/software"
)

// Held keys repeat after repeatDelay ticks, every repeatInterval ticks.
const (
	repeatDelay    = 20
	repeatInterval = 3
)

func main() {
	var (
		configPath  = flag.String("config", "", "scene TOML file")
		backendName = flag.String("backend", "", "renderer backend: auto, software or gpu (overrides config)")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		xform.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *backendName != "" {
		cfg.Render.Backend = *backendName
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid backend: %v", err)
		}
	}

	v, err := newViewer(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer v.renderer.Close()

	ebiten.SetWindowTitle("xform")
	ebiten.SetWindowSize(cfg.Viewport.Width, cfg.Viewport.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("Failed: %v", err)
	}
}

// windowSurface reports the size of the window's logical screen, updated by
// Layout.
type windowSurface struct {
	width, height int
}

func (s *windowSurface) Size() (int, int, error) {
	if s.width <= 0 || s.height <= 0 {
		return 0, 0, xform.ErrSurfaceUnavailable
	}
	return s.width, s.height, nil
}

type viewer struct {
	renderer backend.Renderer
	driver   *xform.Driver
	surface  *windowSurface
	initial  xform.State

	controls []xform.Control
	selected int

	hud     *hud.HUD
	showHUD bool

	frame    *image.RGBA
	frameImg *ebiten.Image
	dirty    bool
}

func newViewer(cfg config.Config) (*viewer, error) {
	mesh, err := cfg.Mesh()
	if err != nil {
		return nil, err
	}
	bg, err := cfg.Background()
	if err != nil {
		return nil, err
	}

	opts := backend.Options{Mesh: mesh}
	var r backend.Renderer
	if name := cfg.BackendName(); name != "" {
		r, err = backend.NewByName(name, opts)
	} else {
		r, err = backend.New(opts)
	}
	if err != nil {
		return nil, err
	}

	surface := &windowSurface{}
	v := &viewer{
		renderer: r,
		surface:  surface,
		initial:  cfg.InitialState(),
		controls: xform.DefaultControls(cfg.ViewportSize()),
		hud:      hud.New(),
		showHUD:  true,
	}
	v.driver = xform.NewDriver(surface, r, v.initial,
		xform.WithBackground(bg),
		xform.WithFrameHook(func(xform.Frame) { v.dirty = true }),
	)
	return v, nil
}

// Update handles keyboard input. Every control change is one Driver
// update and therefore one redraw.
func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return v.driver.Reset(v.initial)
	}
	if repeating(ebiten.KeyArrowUp) {
		v.selected = (v.selected + len(v.controls) - 1) % len(v.controls)
		v.dirty = true
	}
	if repeating(ebiten.KeyArrowDown) {
		v.selected = (v.selected + 1) % len(v.controls)
		v.dirty = true
	}

	steps := 0
	if repeating(ebiten.KeyArrowLeft) {
		steps--
	}
	if repeating(ebiten.KeyArrowRight) {
		steps++
	}
	if steps == 0 {
		return nil
	}
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		steps *= 10
	}
	c := v.controls[v.selected]
	value := c.Nudge(v.driver.Snapshot().Get(c.Field), steps)
	return v.driver.Update(c.Field, value)
}

// repeating reports a key press on the first tick and then at a fixed
// interval while the key is held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

func (v *viewer) Draw(screen *ebiten.Image) {
	img := v.renderer.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	if v.frame == nil || v.frame.Bounds() != b {
		v.frame = image.NewRGBA(b)
		if v.frameImg != nil {
			v.frameImg.Deallocate()
		}
		v.frameImg = ebiten.NewImage(b.Dx(), b.Dy())
		v.dirty = true
	}
	if v.dirty {
		draw.Draw(v.frame, b, img, b.Min, draw.Src)
		if v.showHUD {
			v.hud.Draw(v.frame, v.hud.Lines(v.controls, v.driver.Snapshot(),
				v.controls[v.selected].Field, v.driver.Stats()))
		}
		v.frameImg.WritePixels(v.frame.Pix)
		v.dirty = false
	}
	screen.DrawImage(v.frameImg, nil)
}

// Layout tracks the window size. A size change redraws the shape with a
// projection for the new viewport and rebinds the translation controls.
func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.surface.width || outsideHeight != v.surface.height {
		v.surface.width, v.surface.height = outsideWidth, outsideHeight
		v.controls = xform.DefaultControls(xform.Viewport{Width: outsideWidth, Height: outsideHeight})
		if err := v.driver.Redraw(); err != nil {
			xform.Logger().Warn("xformview: redraw failed", "err", err)
		}
	}
	return outsideWidth, outsideHeight
}
