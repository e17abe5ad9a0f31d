package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader is a compiled stage waiting to be linked.
type Shader struct {
	dev    Device
	handle Handle
	Stage  Stage
}

// Compile compiles source for one stage.
func Compile(dev Device, stage Stage, source string) (*Shader, error) {
	h, err := dev.CreateShader(stage, source)
	if err != nil {
		return nil, err
	}
	return &Shader{dev: dev, handle: h, Stage: stage}, nil
}

func (s *Shader) Handle() Handle { return s.handle }

func (s *Shader) Close() {
	if s != nil && s.handle != 0 {
		s.dev.DeleteShader(s.handle)
		s.handle = 0
	}
}

// Program is a linked vertex+fragment program. A Program whose build failed
// is still returned to callers but reports Valid() == false and must not be
// drawn with.
type Program struct {
	dev    Device
	handle Handle
	Name   string
	locs   map[string]int32
}

// Link links vs and fs into a program and releases both shaders before it
// returns, whether or not linking succeeded.
func Link(dev Device, vs, fs *Shader) (*Program, error) {
	defer vs.Close()
	defer fs.Close()

	h, err := dev.CreateProgram(vs.Handle(), fs.Handle())
	if err != nil {
		return newProgram(dev, 0), err
	}
	return newProgram(dev, h), nil
}

func newProgram(dev Device, h Handle) *Program {
	return &Program{dev: dev, handle: h, locs: make(map[string]int32)}
}

// Build compiles and links a program from vertex and fragment sources.
func Build(dev Device, vertex, fragment string) (*Program, error) {
	vs, err := Compile(dev, StageVertex, vertex)
	if err != nil {
		return newProgram(dev, 0), err
	}
	fs, err := Compile(dev, StageFragment, fragment)
	if err != nil {
		vs.Close()
		return newProgram(dev, 0), err
	}
	return Link(dev, vs, fs)
}

func (p *Program) Valid() bool { return p != nil && p.handle != 0 }

func (p *Program) Handle() Handle { return p.handle }

func (p *Program) Use() {
	p.dev.UseProgram(p.handle)
}

// Location returns the cached uniform location for name.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, name)
	p.locs[name] = loc
	return loc
}

// The setters below apply to the program currently in use.

func (p *Program) SetInt(name string, v int32) {
	p.dev.Uniform1i(p.Location(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	p.dev.Uniform1f(p.Location(name), v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	p.dev.Uniform3f(p.Location(name), v[0], v[1], v[2])
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	p.dev.UniformMatrix4fv(p.Location(name), (*[16]float32)(&m))
}

func (p *Program) Close() {
	if p.handle != 0 {
		p.dev.DeleteProgram(p.handle)
		p.handle = 0
	}
}

// ProgramCache owns every program the pipeline builds, keyed by name.
type ProgramCache struct {
	dev      Device
	programs map[string]*Program
	failed   map[string]error
	order    []string
}

func NewProgramCache(dev Device) *ProgramCache {
	return &ProgramCache{
		dev:      dev,
		programs: make(map[string]*Program),
		failed:   make(map[string]error),
	}
}

// Load returns the program called name, building it on first request.
// A failed build is logged with the driver diagnostics and cached as an
// invalid program; it is never rebuilt, and every later Load of the same
// name returns the original build error alongside it.
func (c *ProgramCache) Load(name, vertex, fragment string) (*Program, error) {
	if p, ok := c.programs[name]; ok {
		return p, c.failed[name]
	}

	p, err := Build(c.dev, vertex, fragment)
	p.Name = name
	c.programs[name] = p
	c.order = append(c.order, name)

	if err != nil {
		var ce *CompileError
		var le *LinkError
		switch {
		case errors.As(err, &ce):
			Logger().Error("shader compile failed", "program", name, "stage", ce.Stage.String(), "log", ce.Log)
		case errors.As(err, &le):
			Logger().Error("program link failed", "program", name, "log", le.Log)
		default:
			Logger().Error("program build failed", "program", name, "err", err)
		}
		err = fmt.Errorf("program %q: %w", name, err)
		c.failed[name] = err
		return p, err
	}
	Logger().Debug("program built", "program", name, "handle", uint32(p.handle))
	return p, nil
}

// Get returns a previously loaded program.
func (c *ProgramCache) Get(name string) (*Program, bool) {
	p, ok := c.programs[name]
	return p, ok
}

func (c *ProgramCache) Len() int { return len(c.programs) }

// Close deletes every cached program in reverse load order.
func (c *ProgramCache) Close() {
	for i := len(c.order) - 1; i >= 0; i-- {
		c.programs[c.order[i]].Close()
	}
	c.programs = make(map[string]*Program)
	c.failed = make(map[string]error)
	c.order = nil
}
