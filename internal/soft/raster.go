package soft

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"island-fx/gpu"
)

type screenVert struct {
	x, y, z float32
	vary    []float32
}

// draw runs the bound program over a triangle list given as vertex indices.
func (d *Device) draw(idx []int) {
	p, ok := d.programs[d.current]
	if !ok {
		return
	}
	va, ok := d.vertexArrays[d.vao]
	if !ok {
		return
	}
	fb := d.target()
	if fb == nil || fb.color == nil {
		return
	}
	fb.draws++

	u := uniforms{d: d, p: p}
	stride := va.layout.Stride()
	nverts := len(va.vertices) / stride

	maxLoc := 0
	for _, a := range va.layout {
		if a.Location > maxLoc {
			maxLoc = a.Location
		}
	}

	shaded := make(map[int]screenVert, len(idx))
	shade := func(i int) (screenVert, bool) {
		if sv, ok := shaded[i]; ok {
			return sv, true
		}
		if i < 0 || i >= nverts {
			return screenVert{}, false
		}
		attribs := make([][]float32, maxLoc+1)
		base := i * stride
		for k, a := range va.layout {
			off := base + va.layout.Offset(k)
			attribs[a.Location] = va.vertices[off : off+a.Size]
		}
		pos, vary := p.vertex(u, attribs)
		if pos[3] <= 1e-6 {
			return screenVert{}, false
		}
		sv := screenVert{
			x:    (pos[0]/pos[3] + 1) * 0.5 * float32(d.viewportW),
			y:    (pos[1]/pos[3] + 1) * 0.5 * float32(d.viewportH),
			z:    (pos[2]/pos[3] + 1) * 0.5,
			vary: vary,
		}
		shaded[i] = sv
		return sv, true
	}

	for t := 0; t+2 < len(idx); t += 3 {
		a, oka := shade(idx[t])
		b, okb := shade(idx[t+1])
		c, okc := shade(idx[t+2])
		if oka && okb && okc {
			d.triangle(fb, u, a, b, c)
		}
	}
}

func edge(a, b screenVert, px, py float32) float32 {
	return (px-a.x)*(b.y-a.y) - (py-a.y)*(b.x-a.x)
}

func (d *Device) triangle(fb *framebuffer, u uniforms, a, b, c screenVert) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	w, h := fb.color.desc.Width, fb.color.desc.Height
	maxX := min(w, d.viewportW) - 1
	maxY := min(h, d.viewportH) - 1

	x0 := max(0, int(math.Floor(float64(min(a.x, b.x, c.x)))))
	x1 := min(maxX, int(math.Ceil(float64(max(a.x, b.x, c.x)))))
	y0 := max(0, int(math.Floor(float64(min(a.y, b.y, c.y)))))
	y1 := min(maxY, int(math.Ceil(float64(max(a.y, b.y, c.y)))))

	n := min(len(a.vary), len(b.vary), len(c.vary))
	vary := make([]float32, n)
	px := fb.color.data

	for y := y0; y <= y1; y++ {
		cy := float32(y) + 0.5
		for x := x0; x <= x1; x++ {
			cx := float32(x) + 0.5
			wa := edge(b, c, cx, cy) / area
			wb := edge(c, a, cx, cy) / area
			wc := edge(a, b, cx, cy) / area
			if wa < 0 || wb < 0 || wc < 0 {
				continue
			}
			i := y*w + x
			z := wa*a.z + wb*b.z + wc*c.z
			if d.depthTest {
				if z >= fb.depth[i] {
					continue
				}
				fb.depth[i] = z
			}
			for k := range vary {
				vary[k] = wa*a.vary[k] + wb*b.vary[k] + wc*c.vary[k]
			}
			out := u.p.fragment(u, vary)
			o := i * 4
			px[o], px[o+1], px[o+2], px[o+3] = quantize(out[0]), quantize(out[1]), quantize(out[2]), quantize(out[3])
		}
	}
}

// uniforms is the kernel view of the current program's uniform values.
type uniforms struct {
	d *Device
	p *program
}

func (u uniforms) value(name string) []float32 {
	loc, ok := u.p.locs[name]
	if !ok {
		return nil
	}
	return u.p.values[loc]
}

func (u uniforms) Float(name string) float32 {
	v := u.value(name)
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

func (u uniforms) Vec3(name string) mgl32.Vec3 {
	var out mgl32.Vec3
	copy(out[:], u.value(name))
	return out
}

func (u uniforms) Mat4(name string) mgl32.Mat4 {
	var out mgl32.Mat4
	copy(out[:], u.value(name))
	return out
}

func (u uniforms) Sampler(name string) gpu.Sampler {
	unit := int(u.Float(name))
	if unit < 0 || unit >= maxTextureUnits {
		return sampler{}
	}
	return sampler{t: u.d.textures[u.d.units[unit]]}
}

// sampler reads a texture the way GL_TEXTURE_2D sampling does for a single
// mip level. Unbound units read as opaque black.
type sampler struct {
	t *texture
}

func (s sampler) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	if s.t == nil {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	w, h := s.t.desc.Width, s.t.desc.Height
	if s.t.desc.Filter == gpu.FilterNearest {
		x := s.wrap(int(math.Floor(float64(uv[0]*float32(w)))), w)
		y := s.wrap(int(math.Floor(float64(uv[1]*float32(h)))), h)
		return s.texel(x, y)
	}

	fx := uv[0]*float32(w) - 0.5
	fy := uv[1]*float32(h) - 0.5
	ix := int(math.Floor(float64(fx)))
	iy := int(math.Floor(float64(fy)))
	tx := fx - float32(ix)
	ty := fy - float32(iy)

	x0, x1 := s.wrap(ix, w), s.wrap(ix+1, w)
	y0, y1 := s.wrap(iy, h), s.wrap(iy+1, h)

	top := lerp4(s.texel(x0, y1), s.texel(x1, y1), tx)
	bottom := lerp4(s.texel(x0, y0), s.texel(x1, y0), tx)
	return lerp4(bottom, top, ty)
}

func (s sampler) wrap(i, n int) int {
	if s.t.desc.Wrap == gpu.WrapRepeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	return max(0, min(n-1, i))
}

func (s sampler) texel(x, y int) mgl32.Vec4 {
	comps := s.t.desc.Format.Components()
	i := (y*s.t.desc.Width + x) * comps
	d := s.t.data
	if comps == 3 {
		return mgl32.Vec4{d[i], d[i+1], d[i+2], 1}
	}
	return mgl32.Vec4{d[i], d[i+1], d[i+2], d[i+3]}
}

func lerp4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}
