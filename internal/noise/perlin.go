package noise

import (
	"github.com/aquilax/go-perlin"
)

// Параметры классического шума Перлина
const (
	perlinAlpha   = 2.0 // Сглаживание шума
	perlinBeta    = 2.0 // Частота шума
	perlinOctaves = 3   // Количество октав
)

// Perlin бэкенд на основе github.com/aquilax/go-perlin
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin инициализирует генератор шума Перлина с указанным сидом
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Noise2D возвращает значение шума Перлина (примерно от -1 до 1)
func (pn *Perlin) Noise2D(x, y float64) float64 {
	return clamp(pn.p.Noise2D(x, y))
}

// Noise3D возвращает 3D значение шума Перлина (примерно от -1 до 1)
func (pn *Perlin) Noise3D(x, y, z float64) float64 {
	return clamp(pn.p.Noise3D(x, y, z))
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
