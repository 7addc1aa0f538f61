// Package mesh строит полигональную геометрию чанков и кэширует её.
package mesh

import (
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/annel0/voxel-terrain/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

// Bucket набор параллельных буферов одного материала
type Bucket struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []float32
	Indices   []uint32
}

// VertexCount количество вершин
func (b *Bucket) VertexCount() int {
	if b == nil {
		return 0
	}
	return len(b.Positions) / 3
}

// QuadCount количество квадов (по 4 вершины)
func (b *Bucket) QuadCount() int {
	return b.VertexCount() / 4
}

// TriangleCount количество треугольников
func (b *Bucket) TriangleCount() int {
	if b == nil {
		return 0
	}
	return len(b.Indices) / 3
}

func (b *Bucket) addQuad(f *face, wx, wy, wz int, uv TileUV) {
	base := uint32(len(b.Positions) / 3)
	origin := mgl32.Vec3{float32(wx), float32(wy), float32(wz)}
	uvs := uv.corners()

	for i, corner := range f.corners {
		p := origin.Add(corner)
		b.Positions = append(b.Positions, p.X(), p.Y(), p.Z())
		b.Normals = append(b.Normals, f.normal.X(), f.normal.Y(), f.normal.Z())
		b.UVs = append(b.UVs, uvs[i][0], uvs[i][1])
		b.Colors = append(b.Colors, 1, 1, 1)
	}
	b.Indices = append(b.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Placement точка установки отдельной модели (факел)
type Placement struct {
	Position mgl32.Vec3
}

// Data геометрия чанка. Пустой буфер = nil.
type Data struct {
	Coords      vec.Vec2
	Opaque      *Bucket
	Transparent *Bucket
	Liquid      *Bucket
	Emitters    []Placement
	// Provisional меш построен без соседей и только для непрозрачных блоков
	Provisional bool
}

// Empty нечего рисовать
func (d *Data) Empty() bool {
	return d.Opaque == nil && d.Transparent == nil && d.Liquid == nil && len(d.Emitters) == 0
}

// Source источник блоков для построения меша (обычно world.ChunkStore)
type Source interface {
	GetBlock(wx, wy, wz int) block.BlockID
	Chunk(coords vec.Vec2) (*world.Chunk, bool)
}

// Mesher строит меши чанков. Без состояния, безопасен для нескольких горутин.
type Mesher struct{}

// NewMesher создаёт построитель мешей
func NewMesher() *Mesher {
	return &Mesher{}
}

// Build строит полный меш загруженного чанка. Соседи запрашиваются через src,
// поэтому грани на границе чанков отсекаются корректно. nil, если чанка нет.
func (m *Mesher) Build(src Source, coords vec.Vec2) *Data {
	chunk, ok := src.Chunk(coords)
	if !ok {
		return nil
	}
	return m.build(chunk, src.GetBlock, false)
}

// BuildOpaque строит предварительный меш по одному чанку: снаружи считается
// воздух, в результат попадают только непрозрачные блоки.
func (m *Mesher) BuildOpaque(chunk *world.Chunk) *Data {
	origin := chunk.Coords.Origin()
	lookup := func(wx, wy, wz int) block.BlockID {
		return chunk.GetBlock(wx-origin.X, wy, wz-origin.Y)
	}
	return m.build(chunk, lookup, true)
}

func (m *Mesher) build(chunk *world.Chunk, lookup func(wx, wy, wz int) block.BlockID, opaqueOnly bool) *Data {
	var opaque, transparent, liquid Bucket
	data := &Data{Coords: chunk.Coords, Provisional: opaqueOnly}
	origin := chunk.Coords.Origin()

	for y := 0; y < world.ChunkHeight; y++ {
		for z := 0; z < world.ChunkSizeZ; z++ {
			for x := 0; x < world.ChunkSizeX; x++ {
				id := chunk.GetBlock(x, y, z)
				if id == block.AirBlockID {
					continue
				}

				wx, wz := origin.X+x, origin.Y+z

				if block.IsLightEmitter(id) {
					if !opaqueOnly {
						data.Emitters = append(data.Emitters, Placement{
							Position: mgl32.Vec3{float32(wx) + 0.5, float32(y), float32(wz) + 0.5},
						})
					}
					continue
				}

				isLiquid := block.IsLiquid(id)
				target := &opaque
				switch {
				case isLiquid:
					target = &liquid
				case block.IsTransparent(id):
					target = &transparent
				}
				if opaqueOnly && target != &opaque {
					continue
				}

				textures := block.TexturesOf(id)
				for i := range faces {
					f := &faces[i]
					neighbor := lookup(wx+f.dir.X, y+f.dir.Y, wz+f.dir.Z)
					if !f.visible(id, neighbor) {
						continue
					}
					target.addQuad(f, wx, y, wz, AtlasUV(f.tile(textures), isLiquid))
				}
			}
		}
	}

	data.Opaque = nonEmpty(&opaque)
	data.Transparent = nonEmpty(&transparent)
	data.Liquid = nonEmpty(&liquid)
	return data
}

func nonEmpty(b *Bucket) *Bucket {
	if len(b.Indices) == 0 {
		return nil
	}
	return b
}
