// Command xformdemo renders a transformed shape to a PNG file.
//
// Each -set flag is applied as one control event, so the output shows the
// state after the whole event sequence:
//
//	xformdemo -set angle=90 -set scaleX=-1 -output mirrored.png
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/xform"
	"github.com/gogpu/xform/backend"
	"github.com/gogpu/xform/config"
	_ "github.com/gogpu/xform/gpu"
	"github.com/gogpu/xform/internal/hud"
	_ "github.com/gogpu/xform/software"
)

func main() {
	var (
		configPath  = flag.String("config", "", "scene TOML file")
		backendName = flag.String("backend", "", "renderer backend: auto, software or gpu (overrides config)")
		output      = flag.String("output", "xform.png", "output file")
		batch       = flag.Bool("batch", false, "apply all -set updates in a single redraw")
		showHUD     = flag.Bool("hud", false, "draw the control readout")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	var updates []xform.Update
	flag.Func("set", "control event `field=value` (repeatable)", func(s string) error {
		u, err := xform.ParseUpdate(s)
		if err != nil {
			return err
		}
		updates = append(updates, u)
		return nil
	})
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

	if err := run(cfg, updates, *batch, *showHUD, *output); err != nil {
		log.Fatalf("Failed: %v", err)
	}
	log.Printf("Frame saved to %s (%dx%d)\n", *output, cfg.Viewport.Width, cfg.Viewport.Height)
}

func run(cfg config.Config, updates []xform.Update, batch, showHUD bool, output string) error {
	mesh, err := cfg.Mesh()
	if err != nil {
		return err
	}
	bg, err := cfg.Background()
	if err != nil {
		return err
	}

	r, err := newRenderer(cfg.BackendName(), backend.Options{Mesh: mesh})
	if err != nil {
		return err
	}
	defer r.Close()

	vp := cfg.ViewportSize()
	controls := xform.DefaultControls(vp)
	d := xform.NewDriver(
		xform.StaticSurface{Width: vp.Width, Height: vp.Height},
		r,
		cfg.InitialState(),
		xform.WithBackground(bg),
	)
	if err := d.Redraw(); err != nil {
		return err
	}

	for i := range updates {
		if c, ok := xform.ControlFor(controls, updates[i].Field); ok {
			updates[i].Value = c.Clamp(updates[i].Value)
		}
	}
	if batch {
		if err := d.Apply(updates...); err != nil {
			return err
		}
	} else {
		for _, u := range updates {
			if err := d.Update(u.Field, u.Value); err != nil {
				return err
			}
		}
	}

	img := r.Image()
	if img == nil {
		return fmt.Errorf("no frame rendered")
	}
	if showHUD {
		h := hud.New()
		h.Draw(img, h.Lines(controls, d.Snapshot(), hud.NoSelection, d.Stats()))
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newRenderer(name string, opts backend.Options) (backend.Renderer, error) {
	if name == "" {
		return backend.New(opts)
	}
	return backend.NewByName(name, opts)
}
