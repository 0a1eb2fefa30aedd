package platform

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"go-space-shooter/internal/config"
	"go-space-shooter/internal/logging"
)

// Window is the GLFW window whose GL 3.3 core context the renderer draws into.
// GLFW must be used from the main thread; the host locks it in init.
type Window struct {
	win *glfw.Window
	log *zap.Logger
}

// Controls is the player input sampled once per frame.
type Controls struct {
	Left, Right, Up, Down bool
	Fire                  bool
	Quit                  bool
}

// OpenWindow initialises GLFW, opens the window and makes its context current.
func OpenWindow(cfg config.WindowConfig, log *zap.Logger) (*Window, error) {
	log = logging.OrNop(log)
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("platform: init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, cfg.MSAA)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("platform: create window: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	log.Info("window opened",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("msaa", cfg.MSAA),
		zap.Bool("vsync", cfg.VSync))

	return &Window{win: win, log: log}, nil
}

// OnResize calls fn with the framebuffer size now and on every later change.
func (w *Window) OnResize(fn func(width, height int32)) {
	width, height := w.win.GetFramebufferSize()
	fn(int32(width), int32(height))
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.log.Debug("framebuffer resized", zap.Int("width", width), zap.Int("height", height))
		fn(int32(width), int32(height))
	})
}

// Controls polls window events and samples the keyboard.
func (w *Window) Controls() Controls {
	glfw.PollEvents()
	down := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if w.win.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	return Controls{
		Left:  down(glfw.KeyLeft, glfw.KeyA),
		Right: down(glfw.KeyRight, glfw.KeyD),
		Up:    down(glfw.KeyUp, glfw.KeyW),
		Down:  down(glfw.KeyDown, glfw.KeyS),
		Fire:  down(glfw.KeySpace),
		Quit:  down(glfw.KeyEscape) || w.win.ShouldClose(),
	}
}

func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

// Close destroys the window and shuts GLFW down.
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
