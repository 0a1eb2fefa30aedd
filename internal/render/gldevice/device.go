// Package gldevice implements render.Device on OpenGL 3.3 core.
package gldevice

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"go-space-shooter/internal/render"
)

const floatSize = 4

// Device issues GL calls against the context current on the calling thread.
type Device struct{}

// New loads the GL entry points. The window's context must be current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gldevice: init: %w", err)
	}
	return &Device{}, nil
}

// Version returns the driver's GL version string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) Setup() {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (d *Device) CreateShader(stage render.ShaderStage, sources ...string) render.Shader {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == render.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}
	sh := gl.CreateShader(kind)
	cstrs, free := gl.Strs(sources...)
	gl.ShaderSource(sh, int32(len(sources)), cstrs, nil)
	free()
	gl.CompileShader(sh)
	return render.Shader(sh)
}

func (d *Device) ShaderCompiled(s render.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (d *Device) ShaderInfoLog(s render.Shader) string {
	var l int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &l)
	if l == 0 {
		return ""
	}
	logstr := strings.Repeat("\x00", int(l+1))
	gl.GetShaderInfoLog(uint32(s), l, nil, gl.Str(logstr))
	return strings.TrimRight(logstr, "\x00")
}

func (d *Device) DeleteShader(s render.Shader) { gl.DeleteShader(uint32(s)) }

func (d *Device) CreateProgram(shaders ...render.Shader) render.Program {
	p := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(p, uint32(sh))
	}
	gl.LinkProgram(p)
	return render.Program(p)
}

func (d *Device) ProgramLinked(p render.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (d *Device) ProgramInfoLog(p render.Program) string {
	var l int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &l)
	if l == 0 {
		return ""
	}
	logstr := strings.Repeat("\x00", int(l+1))
	gl.GetProgramInfoLog(uint32(p), l, nil, gl.Str(logstr))
	return strings.TrimRight(logstr, "\x00")
}

func (d *Device) UseProgram(p render.Program) { gl.UseProgram(uint32(p)) }
func (d *Device) DeleteProgram(p render.Program) { gl.DeleteProgram(uint32(p)) }

func (d *Device) UniformLocation(p render.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }
func (d *Device) Uniform2f(location int32, v mgl32.Vec2) { gl.Uniform2f(location, v.X(), v.Y()) }

// CreateVertexArray creates a vertex array and leaves it bound; the renderer uses a
// single one for its whole lifetime.
func (d *Device) CreateVertexArray() render.VertexArray {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	return render.VertexArray(vao)
}

func (d *Device) DeleteVertexArray(va render.VertexArray) {
	vao := uint32(va)
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) CreateBuffer(size int, data []float32, usage render.BufferUsage) render.Buffer {
	hint := uint32(gl.STATIC_DRAW)
	if usage == render.DynamicDraw {
		hint = gl.DYNAMIC_DRAW
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, size*floatSize, gl.Ptr(data), hint)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, size*floatSize, nil, hint)
	}
	return render.Buffer(vbo)
}

func (d *Device) VertexAttrib(buf render.Buffer, index uint32, components int32, divisor uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointer(index, components, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.VertexAttribDivisor(index, divisor)
}

func (d *Device) UpdateBuffer(buf render.Buffer, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*floatSize, gl.Ptr(data))
}

func (d *Device) DeleteBuffer(buf render.Buffer) {
	vbo := uint32(buf)
	gl.DeleteBuffers(1, &vbo)
}

// CreateTexture uploads tightly packed RGBA8 pixels, row 0 at the top. Sprites are
// pixel art, so sampling is nearest.
func (d *Device) CreateTexture(pix []byte, width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}

func (d *Device) BindTexture(tex uint32) { gl.BindTexture(gl.TEXTURE_2D, tex) }

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

// ClearRect clears the rectangle and leaves the scissor box on it, so later draws are
// clipped to the last cleared rectangle.
func (d *Device) ClearRect(x, y, width, height int32, color mgl32.Vec4) {
	gl.Scissor(x, y, width, height)
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) DrawQuads(instances int32) {
	gl.DrawArraysInstanced(gl.TRIANGLE_STRIP, 0, 4, instances)
}

func (d *Device) OutOfMemory() bool {
	return gl.GetError() == gl.OUT_OF_MEMORY
}

var _ render.Device = (*Device)(nil)
