package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingDevice is a Device that hands out sequential handles and records every call.
type recordingDevice struct {
	calls []string

	nextHandle   uint32
	failCompile  map[ShaderStage]bool
	failLink     bool
	outOfMemory  bool
	uniforms     map[int32]any
	locations    map[string]int32
	buffers      map[Buffer][]float32
	bufferSizes  map[Buffer]int
	attribs      map[uint32]attrib
	shaderStages map[Shader]ShaderStage
	shaderSource map[Shader]string
	draws        []int32
	deleted      []string
}

type attrib struct {
	buf        Buffer
	components int32
	divisor    uint32
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{
		failCompile:  make(map[ShaderStage]bool),
		uniforms:     make(map[int32]any),
		locations:    make(map[string]int32),
		buffers:      make(map[Buffer][]float32),
		bufferSizes:  make(map[Buffer]int),
		attribs:      make(map[uint32]attrib),
		shaderStages: make(map[Shader]ShaderStage),
		shaderSource: make(map[Shader]string),
	}
}

func (d *recordingDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *recordingDevice) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

func (d *recordingDevice) Setup() { d.record("Setup") }

func (d *recordingDevice) CreateShader(stage ShaderStage, sources ...string) Shader {
	s := Shader(d.handle())
	d.shaderStages[s] = stage
	for _, src := range sources {
		d.shaderSource[s] += src
	}
	d.record("CreateShader %v", stage)
	return s
}

func (d *recordingDevice) ShaderCompiled(s Shader) bool {
	return !d.failCompile[d.shaderStages[s]]
}

func (d *recordingDevice) ShaderInfoLog(s Shader) string {
	return d.shaderStages[s].String() + ": syntax error"
}

func (d *recordingDevice) DeleteShader(s Shader) { d.deleted = append(d.deleted, "shader") }

func (d *recordingDevice) CreateProgram(shaders ...Shader) Program {
	d.record("CreateProgram")
	return Program(d.handle())
}

func (d *recordingDevice) ProgramLinked(p Program) bool {
	if d.failLink {
		return false
	}
	for _, failed := range d.failCompile {
		if failed {
			return false
		}
	}
	return true
}

func (d *recordingDevice) ProgramInfoLog(p Program) string { return "link error" }
func (d *recordingDevice) UseProgram(p Program) { d.record("UseProgram") }
func (d *recordingDevice) DeleteProgram(p Program) { d.deleted = append(d.deleted, "program") }

func (d *recordingDevice) UniformLocation(p Program, name string) int32 {
	loc, ok := d.locations[name]
	if !ok {
		loc = int32(len(d.locations))
		d.locations[name] = loc
	}
	return loc
}

func (d *recordingDevice) Uniform1i(location int32, v int32) {
	d.uniforms[location] = v
	d.record("Uniform1i")
}

func (d *recordingDevice) Uniform2f(location int32, v mgl32.Vec2) {
	d.uniforms[location] = v
	d.record("Uniform2f")
}

func (d *recordingDevice) CreateVertexArray() VertexArray {
	d.record("CreateVertexArray")
	return VertexArray(d.handle())
}

func (d *recordingDevice) DeleteVertexArray(va VertexArray) {
	d.deleted = append(d.deleted, "vertexarray")
}

func (d *recordingDevice) CreateBuffer(size int, data []float32, usage BufferUsage) Buffer {
	b := Buffer(d.handle())
	d.bufferSizes[b] = size
	d.buffers[b] = append([]float32(nil), data...)
	d.record("CreateBuffer %d", size)
	return b
}

func (d *recordingDevice) VertexAttrib(buf Buffer, index uint32, components int32, divisor uint32) {
	d.attribs[index] = attrib{buf: buf, components: components, divisor: divisor}
	d.record("VertexAttrib %d", index)
}

func (d *recordingDevice) UpdateBuffer(buf Buffer, data []float32) {
	d.buffers[buf] = append([]float32(nil), data...)
	d.record("UpdateBuffer %d", len(data))
}

func (d *recordingDevice) DeleteBuffer(buf Buffer) { d.deleted = append(d.deleted, "buffer") }

func (d *recordingDevice) CreateTexture(pix []byte, width, height int32) uint32 {
	d.record("CreateTexture %dx%d", width, height)
	return d.handle()
}

func (d *recordingDevice) BindTexture(tex uint32) { d.record("BindTexture %d", tex) }

func (d *recordingDevice) Viewport(x, y, width, height int32) {
	d.record("Viewport %d %d %d %d", x, y, width, height)
}

func (d *recordingDevice) ClearRect(x, y, width, height int32, color mgl32.Vec4) {
	d.record("ClearRect %d %d %d %d %v", x, y, width, height, color)
}

func (d *recordingDevice) DrawQuads(instances int32) {
	d.draws = append(d.draws, instances)
	d.record("DrawQuads %d", instances)
}

func (d *recordingDevice) OutOfMemory() bool { return d.outOfMemory }

func (d *recordingDevice) reset() {
	d.calls = nil
	d.draws = nil
}

var _ Device = (*recordingDevice)(nil)
