package noise

import "math"

var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

var (
	f2 = 0.5 * (math.Sqrt(3.0) - 1.0)
	g2 = (3.0 - math.Sqrt(3.0)) / 6.0
)

const (
	f3 = 1.0 / 3.0
	g3 = 1.0 / 6.0
)

// Simplex симплекс-шум с перестановкой, перемешанной от сида.
type Simplex struct {
	perm [512]uint8
}

// NewSimplex строит таблицу перестановок для сида.
// Перемешивание идёт от 255 к 1, индекс обмена берётся из |sin(s)|.
func NewSimplex(seed int64) *Simplex {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}

	s := seed
	for i := 255; i > 0; i-- {
		r := int(math.Floor(math.Abs(math.Sin(float64(s)))*10000)) % (i + 1)
		s++
		p[i], p[r] = p[r], p[i]
	}

	sx := &Simplex{}
	// Дублируем до 512, чтобы не заворачивать индексы
	for i := 0; i < 512; i++ {
		sx.perm[i] = p[i&255]
	}
	return sx
}

func dot2(g [3]float64, x, y float64) float64 { return g[0]*x + g[1]*y }

func dot3(g [3]float64, x, y, z float64) float64 { return g[0]*x + g[1]*y + g[2]*z }

// Noise2D возвращает 2D симплекс-шум в [-1, 1]
func (sx *Simplex) Noise2D(xin, yin float64) float64 {
	s := (xin + yin) * f2
	i := math.Floor(xin + s)
	j := math.Floor(yin + s)
	t := (i + j) * g2
	x0 := xin - (i - t)
	y0 := yin - (j - t)

	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1.0 + 2.0*g2
	y2 := y0 - 1.0 + 2.0*g2

	ii := int(i) & 255
	jj := int(j) & 255
	p := &sx.perm
	gi0 := p[ii+int(p[jj])] % 12
	gi1 := p[ii+i1+int(p[jj+j1])] % 12
	gi2 := p[ii+1+int(p[jj+1])] % 12

	var n0, n1, n2 float64
	if t0 := 0.5 - x0*x0 - y0*y0; t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot2(grad3[gi0], x0, y0)
	}
	if t1 := 0.5 - x1*x1 - y1*y1; t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot2(grad3[gi1], x1, y1)
	}
	if t2 := 0.5 - x2*x2 - y2*y2; t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot2(grad3[gi2], x2, y2)
	}
	return 70.0 * (n0 + n1 + n2)
}

// Noise3D возвращает 3D симплекс-шум в [-1, 1]
func (sx *Simplex) Noise3D(x, y, z float64) float64 {
	s := (x + y + z) * f3
	i := math.Floor(x + s)
	j := math.Floor(y + s)
	k := math.Floor(z + s)
	t := (i + j + k) * g3
	x0 := x - (i - t)
	y0 := y - (j - t)
	z0 := z - (k - t)

	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2.0*g3
	y2 := y0 - float64(j2) + 2.0*g3
	z2 := z0 - float64(k2) + 2.0*g3
	x3 := x0 - 1.0 + 3.0*g3
	y3 := y0 - 1.0 + 3.0*g3
	z3 := z0 - 1.0 + 3.0*g3

	ii := int(i) & 255
	jj := int(j) & 255
	kk := int(k) & 255
	p := &sx.perm
	gi0 := p[ii+int(p[jj+int(p[kk])])] % 12
	gi1 := p[ii+i1+int(p[jj+j1+int(p[kk+k1])])] % 12
	gi2 := p[ii+i2+int(p[jj+j2+int(p[kk+k2])])] % 12
	gi3 := p[ii+1+int(p[jj+1+int(p[kk+1])])] % 12

	var n0, n1, n2, n3 float64
	if t0 := 0.6 - x0*x0 - y0*y0 - z0*z0; t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot3(grad3[gi0], x0, y0, z0)
	}
	if t1 := 0.6 - x1*x1 - y1*y1 - z1*z1; t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot3(grad3[gi1], x1, y1, z1)
	}
	if t2 := 0.6 - x2*x2 - y2*y2 - z2*z2; t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot3(grad3[gi2], x2, y2, z2)
	}
	if t3 := 0.6 - x3*x3 - y3*y3 - z3*z3; t3 >= 0 {
		t3 *= t3
		n3 = t3 * t3 * dot3(grad3[gi3], x3, y3, z3)
	}
	return 32.0 * (n0 + n1 + n2 + n3)
}

// Fractal2D fBm поверх симплекс-шума
func (sx *Simplex) Fractal2D(x, y float64, octaves int, persistence, scale float64) float64 {
	return Fractal2D(sx, x, y, octaves, persistence, scale)
}
