package noise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplexDeterministic(t *testing.T) {
	a := NewSimplex(444)
	b := NewSimplex(444)

	for i := 0; i < 200; i++ {
		x := float64(i)*0.37 - 20
		y := float64(i)*0.91 + 3
		assert.Equal(t, a.Noise2D(x, y), b.Noise2D(x, y))
		assert.Equal(t, a.Noise3D(x, y, x*0.5), b.Noise3D(x, y, x*0.5))
	}
}

func TestSimplexSeedsDiffer(t *testing.T) {
	a := NewSimplex(1)
	b := NewSimplex(2)

	differ := false
	for i := 0; i < 50 && !differ; i++ {
		x := float64(i)*1.3 + 0.25
		differ = a.Noise2D(x, x*0.7) != b.Noise2D(x, x*0.7)
	}
	assert.True(t, differ, "разные сиды должны давать разный шум")
}

func TestPermutationIsBijection(t *testing.T) {
	sx := NewSimplex(999)
	seen := make(map[uint8]bool)
	for i := 0; i < 256; i++ {
		seen[sx.perm[i]] = true
		assert.Equal(t, sx.perm[i], sx.perm[i+256], "вторая половина дублирует первую")
	}
	assert.Len(t, seen, 256)
}

func TestSimplexRange(t *testing.T) {
	sx := NewSimplex(12345)
	for i := -300; i < 300; i++ {
		x := float64(i) * 0.173
		y := float64(i) * -0.291
		v2 := sx.Noise2D(x, y)
		v3 := sx.Noise3D(x, y, x+y)
		assert.True(t, v2 >= -1.01 && v2 <= 1.01, "noise2D вне диапазона: %f", v2)
		assert.True(t, v3 >= -1.01 && v3 <= 1.01, "noise3D вне диапазона: %f", v3)
	}
}

func TestSimplexZeroAtOrigin(t *testing.T) {
	sx := NewSimplex(7)
	assert.Equal(t, 0.0, sx.Noise2D(0, 0))
	assert.Equal(t, 0.0, sx.Noise3D(0, 0, 0))
}

func TestFractal2DSingleOctaveEqualsScaledNoise(t *testing.T) {
	sx := NewSimplex(888)
	for i := 0; i < 20; i++ {
		x, y := float64(i)*3.1, float64(i)*-2.7
		assert.InDelta(t, sx.Noise2D(x*0.02, y*0.02), sx.Fractal2D(x, y, 1, 0.5, 0.02), 1e-12)
	}
}

func TestFractal2DNormalized(t *testing.T) {
	sx := NewSimplex(444)
	for i := 0; i < 100; i++ {
		v := sx.Fractal2D(float64(i)*17, float64(i)*-11, 4, 0.5, 0.005)
		assert.True(t, v >= -1.01 && v <= 1.01)
	}
	assert.Equal(t, 0.0, Fractal2D(sx, 1, 1, 0, 0.5, 1), "ноль октав")
}

func TestNewBackends(t *testing.T) {
	for _, name := range []string{"", BackendSimplex, BackendPerlin, BackendOpenSimplex, "PERLIN"} {
		src, err := New(name, 42)
		require.NoError(t, err, "бэкенд %q", name)

		again, err := New(name, 42)
		require.NoError(t, err)
		assert.Equal(t, src.Noise2D(1.25, 3.5), again.Noise2D(1.25, 3.5), "бэкенд %q недетерминирован", name)
		assert.Equal(t, src.Noise3D(1.25, 3.5, -2.125), again.Noise3D(1.25, 3.5, -2.125))
	}

	_, err := New("value", 1)
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}
