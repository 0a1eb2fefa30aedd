// Command space-shooter opens a window and runs the demo shooter scene.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"go-space-shooter/internal/config"
	"go-space-shooter/internal/game"
	"go-space-shooter/internal/logging"
	"go-space-shooter/internal/platform"
	"go-space-shooter/internal/render"
	"go-space-shooter/internal/render/gldevice"
	"go-space-shooter/internal/sprite"
)

var (
	configPath  = flag.String("config", "assets/config.toml", "Path to the TOML config file")
	vsync       = flag.Bool("vsync", true, "Enable VSync (overrides the config file)")
	profileMode = flag.String("profile", "", "Write a cpu or mem profile to the working directory")
	dumpSheets  = flag.String("dump-sheets", "", "Write every sprite sheet as PNG into this directory")
)

func init() {
	// GLFW and GL calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "space-shooter:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vsync":
			cfg.Window.VSync = *vsync
		case "dump-sheets":
			cfg.Debug.DumpSheets = *dumpSheets != ""
		}
	})

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	win, err := platform.OpenWindow(cfg.Window, log)
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := gldevice.New()
	if err != nil {
		return err
	}
	log.Info("opengl ready", zap.String("version", dev.Version()))

	assets := os.DirFS(cfg.Assets.Dir)
	shaders, err := fs.Sub(assets, "shaders")
	if err != nil {
		return err
	}
	renderer, err := render.New(dev, shaders, render.Options{
		WorldWidth:  int32(cfg.World.Width),
		WorldHeight: int32(cfg.World.Height),
		Debug:       cfg.Debug.ShaderLogs,
		Log:         log.Named("render"),
	})
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	defer renderer.Close()
	win.OnResize(renderer.Resize)

	table, err := sprite.LoadTable(assets, cfg.Assets.Sprites, renderer)
	if err != nil {
		return err
	}
	for _, s := range table.Sheets() {
		log.Debug("sheet loaded",
			zap.String("name", s.Name),
			zap.Int("animations", len(s.Animations)),
			zap.Int("glyphs", len(s.Glyphs)))
	}
	if cfg.Debug.DumpSheets {
		dir := *dumpSheets
		if dir == "" {
			dir = "."
		}
		if err := table.DumpPNGs(dir); err != nil {
			log.Warn("dump sheets failed", zap.Error(err))
		} else {
			log.Info("sheets dumped", zap.String("dir", dir))
		}
	}

	sprites, ok := table.Sheet("sprites")
	if !ok {
		return fmt.Errorf("%s: no sheet named sprites", cfg.Assets.Sprites)
	}
	text, ok := table.Sheet("text")
	if !ok {
		return fmt.Errorf("%s: no sheet named text", cfg.Assets.Sprites)
	}

	opts := game.Options{
		WorldWidth:  int32(cfg.World.Width),
		WorldHeight: int32(cfg.World.Height),
		Seed:        uint64(time.Now().UnixNano()),
		Log:         log.Named("game"),
	}
	if cfg.Audio.Enabled {
		if bank := openSounds(cfg.Audio, assets, log.Named("audio")); bank != nil {
			defer bank.Close()
			opts.Sounds = bank
			opts.Cues = bank.cues
		}
	}

	scene, err := game.NewScene(sprites, text, opts)
	if err != nil {
		return err
	}

	clock := platform.NewClock(cfg.Frame.MinFrameTime, cfg.Frame.MaxFrameTime)
	fps := platform.NewFPSCounter()
	log.Info("starting frame loop")
	for {
		ctrl := win.Controls()
		if ctrl.Quit {
			break
		}
		fps.Update()
		scene.SetStatus(fmt.Sprintf("FPS %.0f", fps.FPS()))
		scene.Frame(clock.Tick(), game.Input{
			Left:  ctrl.Left,
			Right: ctrl.Right,
			Up:    ctrl.Up,
			Down:  ctrl.Down,
			Fire:  ctrl.Fire,
		}, renderer)
		win.SwapBuffers()
	}
	log.Info("shutting down", zap.Int("score", scene.Score()))
	return nil
}
