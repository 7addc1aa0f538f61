package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// OpenSimplex бэкенд на основе github.com/ojrac/opensimplex-go
type OpenSimplex struct {
	n opensimplex.Noise
}

// NewOpenSimplex создаёт OpenSimplex-шум для сида
func NewOpenSimplex(seed int64) *OpenSimplex {
	return &OpenSimplex{n: opensimplex.New(seed)}
}

func (o *OpenSimplex) Noise2D(x, y float64) float64 {
	return clamp(o.n.Eval2(x, y))
}

func (o *OpenSimplex) Noise3D(x, y, z float64) float64 {
	return clamp(o.n.Eval3(x, y, z))
}
