// Package render draws entity groups with one instanced draw call per group. The
// renderer only talks to the GPU through Device; see gldevice for the OpenGL backend.
package render

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"go-space-shooter/internal/constants"
	"go-space-shooter/internal/logging"
	"go-space-shooter/internal/sprite"
)

var (
	// ErrShaderSource is returned when a shader file cannot be read.
	ErrShaderSource = errors.New("render: shader source unavailable")
	// ErrShaderCompile is returned when a shader stage fails to compile.
	ErrShaderCompile = errors.New("render: shader failed to compile")
	// ErrShaderLink is returned when the program fails to link.
	ErrShaderLink = errors.New("render: shader program failed to link")
	// ErrValidation is returned when the device reports an unrecoverable state after setup.
	ErrValidation = errors.New("render: device validation failed")
)

const (
	VertexShaderFile   = "vs.glsl"
	FragmentShaderFile = "fs.glsl"

	// DesktopPreamble targets OpenGL 3.3 core.
	DesktopPreamble = "#version 330\n"
	// ESPreamble targets OpenGL ES 3.0 / WebGL 2.
	ESPreamble = "#version 300 es\nprecision highp float;\n"
)

// Attribute slots shared with vs.glsl.
const (
	attribVertex uint32 = iota
	attribPixelOffset
	attribPanelIndex
	attribScale
	attribAlpha
	attribWhiteOut
)

var (
	backgroundColor = mgl32.Vec4{0.1, 0.1, 0.1, 1}
	playAreaColor   = mgl32.Vec4{0, 0, 0, 1}

	unitQuad = []float32{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
	}
)

// Batch is a group of instances drawn from one sprite sheet. Every column returns the
// live elements only: two floats per instance for positions and panels, one otherwise.
type Batch interface {
	Len() int
	Sheet() *sprite.Sheet
	Positions() []float32
	Panels() []float32
	Scales() []float32
	Alphas() []float32
	Highlights() []float32
}

type Options struct {
	WorldWidth, WorldHeight int32
	// Shader preambles; empty means DesktopPreamble for both stages.
	VertexPreamble, FragmentPreamble string
	// Debug sends shader compile and link logs to the logger.
	Debug bool
	Log   *zap.Logger
}

// Renderer owns the shader program and the instance buffers. Create it with New once
// the GPU context is current, call Resize on every window size change, and Close it
// before the context goes away.
type Renderer struct {
	dev Device
	log *zap.Logger

	world   mgl32.Vec2
	window  Viewport
	display Viewport

	program Program
	vao     VertexArray
	quad    Buffer
	buffers struct {
		pixelOffset Buffer
		panelIndex  Buffer
		scale       Buffer
		alpha       Buffer
		whiteOut    Buffer
	}
	uniforms struct {
		panelPixelSize        int32
		spriteSheetDimensions int32
	}
}

// New loads the shaders from shaders, builds the program and allocates the GPU buffers.
// Any error leaves the renderer unusable; the caller is expected to abort startup.
func New(dev Device, shaders fs.FS, opts Options) (*Renderer, error) {
	if opts.WorldWidth <= 0 || opts.WorldHeight <= 0 {
		return nil, fmt.Errorf("render: invalid world size %dx%d", opts.WorldWidth, opts.WorldHeight)
	}
	r := &Renderer{
		dev:   dev,
		log:   logging.OrNop(opts.Log),
		world: mgl32.Vec2{float32(opts.WorldWidth), float32(opts.WorldHeight)},
	}

	dev.Setup()

	vsPreamble, fsPreamble := opts.VertexPreamble, opts.FragmentPreamble
	if vsPreamble == "" {
		vsPreamble = DesktopPreamble
	}
	if fsPreamble == "" {
		fsPreamble = DesktopPreamble
	}

	vsSource, err := fs.ReadFile(shaders, VertexShaderFile)
	if err != nil {
		r.log.Error("unable to load vertex shader", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrShaderSource, VertexShaderFile, err)
	}
	fsSource, err := fs.ReadFile(shaders, FragmentShaderFile)
	if err != nil {
		r.log.Error("unable to load fragment shader", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrShaderSource, FragmentShaderFile, err)
	}

	program, err := r.buildProgram(
		vsPreamble+string(vsSource),
		fsPreamble+string(fsSource),
		opts.Debug,
	)
	if err != nil {
		return nil, err
	}
	r.program = program
	dev.UseProgram(program)

	r.uniforms.panelPixelSize = dev.UniformLocation(program, "panelPixelSize")
	r.uniforms.spriteSheetDimensions = dev.UniformLocation(program, "spriteSheetDimensions")
	dev.Uniform2f(dev.UniformLocation(program, "pixelClipSize"), mgl32.Vec2{2 / r.world.X(), 2 / r.world.Y()})
	dev.Uniform1i(dev.UniformLocation(program, "spriteSheet"), 0)

	r.vao = dev.CreateVertexArray()
	r.quad = dev.CreateBuffer(len(unitQuad), unitQuad, StaticDraw)
	dev.VertexAttrib(r.quad, attribVertex, 2, 0)

	// Instanced attributes
	const n = constants.DrawListMax
	r.buffers.pixelOffset = r.instanceBuffer(attribPixelOffset, 2, n)
	r.buffers.panelIndex = r.instanceBuffer(attribPanelIndex, 2, n)
	r.buffers.scale = r.instanceBuffer(attribScale, 1, n)
	r.buffers.alpha = r.instanceBuffer(attribAlpha, 1, n)
	r.buffers.whiteOut = r.instanceBuffer(attribWhiteOut, 1, n)

	if !r.Validate() {
		r.Close()
		return nil, ErrValidation
	}
	return r, nil
}

func (r *Renderer) instanceBuffer(index uint32, components int32, instances int) Buffer {
	buf := r.dev.CreateBuffer(instances*int(components), nil, DynamicDraw)
	r.dev.VertexAttrib(buf, index, components, 1)
	return buf
}

func (r *Renderer) buildProgram(vsSource, fsSource string, debug bool) (Program, error) {
	vertex := r.dev.CreateShader(VertexStage, vsSource)
	fragment := r.dev.CreateShader(FragmentStage, fsSource)
	defer r.dev.DeleteShader(vertex)
	defer r.dev.DeleteShader(fragment)

	compiled := true
	for _, sh := range []struct {
		stage  ShaderStage
		shader Shader
	}{{VertexStage, vertex}, {FragmentStage, fragment}} {
		if r.dev.ShaderCompiled(sh.shader) {
			continue
		}
		compiled = false
		if debug {
			r.log.Error("shader failed to compile",
				zap.Stringer("stage", sh.stage),
				zap.String("log", r.dev.ShaderInfoLog(sh.shader)))
		}
	}
	if !compiled {
		return 0, ErrShaderCompile
	}

	// Shaders are flagged for deletion right away; the program keeps them alive.
	program := r.dev.CreateProgram(vertex, fragment)
	if !r.dev.ProgramLinked(program) {
		if debug {
			r.log.Error("program failed to link", zap.String("log", r.dev.ProgramInfoLog(program)))
		}
		r.dev.DeleteProgram(program)
		return 0, ErrShaderLink
	}
	return program, nil
}

// Validate reports whether the device is still usable.
func (r *Renderer) Validate() bool {
	return !r.dev.OutOfMemory()
}

// CreateTexture uploads an RGBA8 sprite sheet and returns its handle.
func (r *Renderer) CreateTexture(pix []byte, width, height int32) uint32 {
	return r.dev.CreateTexture(pix, width, height)
}

// Resize letterboxes the world into a width x height window.
func (r *Renderer) Resize(width, height int32) {
	r.window = Viewport{Width: width, Height: height}
	r.display = Letterbox(int32(r.world.X()), int32(r.world.Y()), width, height)
	r.dev.Viewport(r.display.X, r.display.Y, r.display.Width, r.display.Height)
}

// Viewport returns the letterboxed play area in window pixels.
func (r *Renderer) Viewport() Viewport {
	return r.display
}

// BeforeFrame paints the whole window grey and the play area black, which leaves
// letterbox bars around the play area.
func (r *Renderer) BeforeFrame() {
	r.dev.ClearRect(0, 0, r.window.Width, r.window.Height, backgroundColor)
	r.dev.ClearRect(r.display.X, r.display.Y, r.display.Width, r.display.Height, playAreaColor)
}

// Draw uploads the live instances of b and draws them in one call.
func (r *Renderer) Draw(b Batch) {
	count := b.Len()
	if count == 0 {
		return
	}

	sheet := b.Sheet()
	r.dev.BindTexture(sheet.Texture)
	r.dev.Uniform2f(r.uniforms.panelPixelSize, sheet.PanelDims)
	r.dev.Uniform2f(r.uniforms.spriteSheetDimensions, sheet.SheetDims)

	r.dev.UpdateBuffer(r.buffers.pixelOffset, b.Positions())
	r.dev.UpdateBuffer(r.buffers.panelIndex, b.Panels())
	r.dev.UpdateBuffer(r.buffers.scale, b.Scales())
	r.dev.UpdateBuffer(r.buffers.alpha, b.Alphas())
	r.dev.UpdateBuffer(r.buffers.whiteOut, b.Highlights())

	r.dev.DrawQuads(int32(count))
}

// Close releases the GPU objects owned by the renderer.
func (r *Renderer) Close() {
	for _, buf := range []Buffer{
		r.quad,
		r.buffers.pixelOffset,
		r.buffers.panelIndex,
		r.buffers.scale,
		r.buffers.alpha,
		r.buffers.whiteOut,
	} {
		if buf != 0 {
			r.dev.DeleteBuffer(buf)
		}
	}
	if r.vao != 0 {
		r.dev.DeleteVertexArray(r.vao)
	}
	if r.program != 0 {
		r.dev.DeleteProgram(r.program)
	}
	r.quad, r.vao, r.program = 0, 0, 0
	r.buffers.pixelOffset, r.buffers.panelIndex, r.buffers.scale, r.buffers.alpha, r.buffers.whiteOut = 0, 0, 0, 0, 0
}
