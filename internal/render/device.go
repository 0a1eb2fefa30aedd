package render

import "github.com/go-gl/mathgl/mgl32"

type (
	Shader      uint32
	Program     uint32
	Buffer      uint32
	VertexArray uint32
)

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

type BufferUsage int

const (
	StaticDraw BufferUsage = iota
	DynamicDraw
)

// Device is the slice of the GPU API the renderer needs. Implementations are bound to
// one context and are called from the thread that owns it.
type Device interface {
	// Setup enables scissoring and premultiplied alpha blending and selects texture unit 0.
	Setup()

	CreateShader(stage ShaderStage, sources ...string) Shader
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram(shaders ...Shader) Program
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)
	DeleteProgram(p Program)
	UniformLocation(p Program, name string) int32
	Uniform1i(location int32, v int32)
	Uniform2f(location int32, v mgl32.Vec2)

	CreateVertexArray() VertexArray
	DeleteVertexArray(va VertexArray)

	// CreateBuffer allocates size floats, filled from data when data is not nil.
	CreateBuffer(size int, data []float32, usage BufferUsage) Buffer
	// VertexAttrib feeds attribute index from buf, components floats per element,
	// advancing once per vertex (divisor 0) or once per instance (divisor 1).
	VertexAttrib(buf Buffer, index uint32, components int32, divisor uint32)
	// UpdateBuffer overwrites the start of buf with data.
	UpdateBuffer(buf Buffer, data []float32)
	DeleteBuffer(buf Buffer)

	CreateTexture(pix []byte, width, height int32) uint32
	BindTexture(tex uint32)

	Viewport(x, y, width, height int32)
	ClearRect(x, y, width, height int32, color mgl32.Vec4)

	// DrawQuads draws a 4 vertex triangle strip instances times.
	DrawQuads(instances int32)

	// OutOfMemory reports whether the device ran out of memory since the last check.
	OutOfMemory() bool
}
