package gl

import (
	"strings"

	gogl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/db47h/sprig/gpu"
)

func compile(typ uint32, source []byte) (uint32, error) {
	s := gogl.CreateShader(typ)
	if s == 0 {
		return 0, errors.New("glCreateShader failed")
	}
	src, free := gogl.Strs(string(source) + "\x00")
	gogl.ShaderSource(s, 1, src, nil)
	free()
	gogl.CompileShader(s)

	var status int32
	gogl.GetShaderiv(s, gogl.COMPILE_STATUS, &status)
	if status == gogl.FALSE {
		var n int32
		gogl.GetShaderiv(s, gogl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n+1))
		gogl.GetShaderInfoLog(s, n, nil, gogl.Str(msg))
		gogl.DeleteShader(s)
		return 0, errors.New(strings.TrimRight(msg, "\x00\n"))
	}
	return s, nil
}

type program struct {
	id   uint32
	locs map[string]int32
}

// NewProgram implements gpu.Device.
func (d *Device) NewProgram(vertex, fragment []byte) (gpu.Program, error) {
	vs, err := compile(gogl.VERTEX_SHADER, vertex)
	if err != nil {
		return nil, errors.Wrap(err, "compile vertex shader")
	}
	defer gogl.DeleteShader(vs)
	fs, err := compile(gogl.FRAGMENT_SHADER, fragment)
	if err != nil {
		return nil, errors.Wrap(err, "compile fragment shader")
	}
	defer gogl.DeleteShader(fs)

	id := gogl.CreateProgram()
	gogl.AttachShader(id, vs)
	gogl.AttachShader(id, fs)
	gogl.LinkProgram(id)

	var status int32
	gogl.GetProgramiv(id, gogl.LINK_STATUS, &status)
	if status == gogl.FALSE {
		var n int32
		gogl.GetProgramiv(id, gogl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n+1))
		gogl.GetProgramInfoLog(id, n, nil, gogl.Str(msg))
		gogl.DeleteProgram(id)
		return nil, errors.Errorf("link program: %s", strings.TrimRight(msg, "\x00\n"))
	}

	p := &program{id: id, locs: make(map[string]int32)}
	d.discoverUniforms(p)
	return p, nil
}

// discoverUniforms caches the locations of all active uniforms.
func (d *Device) discoverUniforms(p *program) {
	var count, maxLen int32
	gogl.GetProgramiv(p.id, gogl.ACTIVE_UNIFORMS, &count)
	gogl.GetProgramiv(p.id, gogl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if count <= 0 || maxLen <= 0 {
		return
	}
	buf := make([]uint8, maxLen)
	for i := int32(0); i < count; i++ {
		var (
			n, size int32
			typ     uint32
		)
		gogl.GetActiveUniform(p.id, uint32(i), maxLen, &n, &size, &typ, &buf[0])
		name := string(buf[:n])
		loc := gogl.GetUniformLocation(p.id, gogl.Str(name+"\x00"))
		// arrays are reported as "name[0]"
		name = strings.TrimSuffix(name, "[0]")
		p.locs[name] = loc
		d.logf("program %d: uniform %q at location %d", p.id, name, loc)
	}
}

func (p *program) location(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := gogl.GetUniformLocation(p.id, gogl.Str(name+"\x00"))
	p.locs[name] = l
	return l
}

func (p *program) use() {
	gogl.UseProgram(p.id)
}

func (p *program) SetMat4(name string, m *[16]float32) {
	p.use()
	gogl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

func (p *program) SetInts(name string, v []int32) {
	if len(v) == 0 {
		return
	}
	p.use()
	gogl.Uniform1iv(p.location(name), int32(len(v)), &v[0])
}

func (p *program) Delete() {
	gogl.DeleteProgram(p.id)
	p.id = 0
}
