package mesh

import (
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

type faceKind uint8

const (
	faceTop faceKind = iota
	faceBottom
	faceSide
)

// face грань куба: направление к соседу, нормаль и четыре угла в порядке обхода
type face struct {
	kind    faceKind
	dir     vec.Vec3
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}

// faces порядок граней фиксирован: от него зависит порядок вершин в буферах
var faces = [6]face{
	{
		kind:    faceTop,
		dir:     vec.Vec3{Y: 1},
		normal:  mgl32.Vec3{0, 1, 0},
		corners: [4]mgl32.Vec3{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	},
	{
		kind:    faceBottom,
		dir:     vec.Vec3{Y: -1},
		normal:  mgl32.Vec3{0, -1, 0},
		corners: [4]mgl32.Vec3{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {1, 0, 1}},
	},
	{
		kind:    faceSide,
		dir:     vec.Vec3{Z: 1},
		normal:  mgl32.Vec3{0, 0, 1},
		corners: [4]mgl32.Vec3{{0, 1, 1}, {0, 0, 1}, {1, 0, 1}, {1, 1, 1}},
	},
	{
		kind:    faceSide,
		dir:     vec.Vec3{Z: -1},
		normal:  mgl32.Vec3{0, 0, -1},
		corners: [4]mgl32.Vec3{{1, 1, 0}, {1, 0, 0}, {0, 0, 0}, {0, 1, 0}},
	},
	{
		kind:    faceSide,
		dir:     vec.Vec3{X: -1},
		normal:  mgl32.Vec3{-1, 0, 0},
		corners: [4]mgl32.Vec3{{0, 1, 0}, {0, 0, 0}, {0, 0, 1}, {0, 1, 1}},
	},
	{
		kind:    faceSide,
		dir:     vec.Vec3{X: 1},
		normal:  mgl32.Vec3{1, 0, 0},
		corners: [4]mgl32.Vec3{{1, 1, 1}, {1, 0, 1}, {1, 0, 0}, {1, 1, 0}},
	},
}

// tile выбирает тайл атласа для грани
func (f *face) tile(t block.Textures) int {
	switch f.kind {
	case faceTop:
		return t.Top
	case faceBottom:
		return t.Bottom
	default:
		return t.Side
	}
}

// visible решает, рисуется ли грань блока id при соседе neighbor
func (f *face) visible(id, neighbor block.BlockID) bool {
	if block.IsLiquid(id) {
		// Гладь только под воздухом, стенки и дно только против непрозрачного
		if f.kind == faceTop {
			return neighbor == block.AirBlockID
		}
		return !block.IsTransparent(neighbor)
	}
	return block.IsTransparent(neighbor) && neighbor != id
}
