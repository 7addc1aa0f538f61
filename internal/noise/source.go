// Package noise содержит детерминированные генераторы градиентного шума.
package noise

import (
	"errors"
	"fmt"
	"strings"
)

// Source источник 2D/3D шума со значениями примерно в [-1, 1].
// Реализации после создания только читают своё состояние и безопасны
// для одновременного использования из нескольких горутин.
type Source interface {
	Noise2D(x, y float64) float64
	Noise3D(x, y, z float64) float64
}

// Имена бэкендов для конфигурации
const (
	BackendSimplex     = "simplex"
	BackendPerlin      = "perlin"
	BackendOpenSimplex = "opensimplex"
)

// ErrUnknownBackend возвращается для неизвестного имени бэкенда
var ErrUnknownBackend = errors.New("неизвестный бэкенд шума")

// New создаёт источник шума по имени бэкенда. Пустое имя означает simplex.
func New(backend string, seed int64) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSimplex:
		return NewSimplex(seed), nil
	case BackendPerlin:
		return NewPerlin(seed), nil
	case BackendOpenSimplex:
		return NewOpenSimplex(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Fractal2D суммирует октавы шума: частота начинается со scale и удваивается,
// амплитуда умножается на persistence. Результат нормирован на сумму амплитуд.
func Fractal2D(src Source, x, y float64, octaves int, persistence, scale float64) float64 {
	total := 0.0
	frequency := scale
	amplitude := 1.0
	maxValue := 0.0
	for i := 0; i < octaves; i++ {
		total += src.Noise2D(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}
