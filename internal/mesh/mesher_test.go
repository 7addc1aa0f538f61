package mesh

import (
	"testing"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/annel0/voxel-terrain/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyStore(coords ...vec.Vec2) *world.ChunkStore {
	s := world.NewChunkStore(nil)
	for _, c := range coords {
		s.Ensure(c)
	}
	return s
}

func TestIsolatedVoxel(t *testing.T) {
	coords := vec.Vec2{X: 1, Y: 0}
	s := emptyStore(coords)
	require.True(t, s.SetBlock(21, 10, 5, block.StoneBlockID))

	d := NewMesher().Build(s, coords)
	require.NotNil(t, d)
	require.NotNil(t, d.Opaque)
	assert.Nil(t, d.Transparent)
	assert.Nil(t, d.Liquid)
	assert.False(t, d.Provisional)

	assert.Equal(t, 6, d.Opaque.QuadCount())
	assert.Equal(t, 24, d.Opaque.VertexCount())
	assert.Equal(t, 12, d.Opaque.TriangleCount())
	assert.Len(t, d.Opaque.Normals, 24*3)
	assert.Len(t, d.Opaque.UVs, 24*2)
	assert.Len(t, d.Opaque.Colors, 24*3)

	// Первая грань - верхняя, первый угол (0,1,0)
	assert.Equal(t, []float32{21, 11, 5}, d.Opaque.Positions[:3])
	assert.Equal(t, []float32{0, 1, 0}, d.Opaque.Normals[:3])
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, d.Opaque.Indices[:12])

	for i := 0; i < len(d.Opaque.Positions); i += 3 {
		assert.True(t, d.Opaque.Positions[i] >= 21 && d.Opaque.Positions[i] <= 22)
		assert.True(t, d.Opaque.Positions[i+1] >= 10 && d.Opaque.Positions[i+1] <= 11)
	}
	for _, c := range d.Opaque.Colors {
		assert.Equal(t, float32(1), c)
	}
}

func TestSolidCubeHidesInnerFaces(t *testing.T) {
	s := emptyStore(vec.Vec2{})
	for x := 4; x < 7; x++ {
		for y := 20; y < 23; y++ {
			for z := 4; z < 7; z++ {
				require.True(t, s.SetBlock(x, y, z, block.StoneBlockID))
			}
		}
	}

	d := NewMesher().Build(s, vec.Vec2{})
	require.NotNil(t, d.Opaque)
	assert.Equal(t, 6*9, d.Opaque.QuadCount(), "только внешние грани куба 3x3x3")
}

func TestFacesCulledAcrossChunkBorder(t *testing.T) {
	s := emptyStore(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 1, Y: 0})
	require.True(t, s.SetBlock(15, 10, 0, block.StoneBlockID))
	require.True(t, s.SetBlock(16, 10, 0, block.StoneBlockID))

	m := NewMesher()
	assert.Equal(t, 5, m.Build(s, vec.Vec2{X: 0, Y: 0}).Opaque.QuadCount())
	assert.Equal(t, 5, m.Build(s, vec.Vec2{X: 1, Y: 0}).Opaque.QuadCount())
}

func TestAbsentNeighbourIsAir(t *testing.T) {
	s := emptyStore(vec.Vec2{})
	require.True(t, s.SetBlock(15, 10, 15, block.StoneBlockID))

	d := NewMesher().Build(s, vec.Vec2{})
	assert.Equal(t, 6, d.Opaque.QuadCount())
}

func TestBuildMissingChunk(t *testing.T) {
	s := emptyStore()
	assert.Nil(t, NewMesher().Build(s, vec.Vec2{X: 3, Y: 3}))
}

func TestLiquidFaces(t *testing.T) {
	s := emptyStore(vec.Vec2{})
	require.True(t, s.SetBlock(3, 10, 3, block.StoneBlockID))
	require.True(t, s.SetBlock(3, 11, 3, block.WaterBlockID))

	d := NewMesher().Build(s, vec.Vec2{})
	require.NotNil(t, d.Liquid)
	// Гладь под воздухом и дно на камне; бока против воздуха не рисуются
	assert.Equal(t, 2, d.Liquid.QuadCount())
	// Верх камня под водой виден
	assert.Equal(t, 6, d.Opaque.QuadCount())

	require.True(t, s.SetBlock(3, 12, 3, block.WaterBlockID))
	d = NewMesher().Build(s, vec.Vec2{})
	// Нижняя вода: только дно. Верхняя: только гладь.
	assert.Equal(t, 2, d.Liquid.QuadCount())
}

func TestTransparentSameTypeCulled(t *testing.T) {
	s := emptyStore(vec.Vec2{})
	require.True(t, s.SetBlock(8, 40, 8, block.LeavesBlockID))
	require.True(t, s.SetBlock(9, 40, 8, block.LeavesBlockID))

	d := NewMesher().Build(s, vec.Vec2{})
	assert.Nil(t, d.Opaque)
	require.NotNil(t, d.Transparent)
	assert.Equal(t, 10, d.Transparent.QuadCount())
}

func TestTorchIsEmitter(t *testing.T) {
	s := emptyStore(vec.Vec2{X: -1, Y: 0})
	require.True(t, s.SetBlock(-3, 30, 2, block.TorchBlockID))
	require.True(t, s.SetBlock(-2, 30, 2, block.StoneBlockID))

	d := NewMesher().Build(s, vec.Vec2{X: -1, Y: 0})
	require.Len(t, d.Emitters, 1)
	assert.Equal(t, float32(-2.5), d.Emitters[0].Position.X())
	assert.Equal(t, float32(30), d.Emitters[0].Position.Y())
	assert.Equal(t, float32(2.5), d.Emitters[0].Position.Z())

	assert.Nil(t, d.Transparent, "факел не превращается в куб")
	assert.Equal(t, 6, d.Opaque.QuadCount(), "грань камня к факелу видна")
}

func TestAtlasUV(t *testing.T) {
	uv := AtlasUV(0, false)
	assert.InDelta(t, 1.05/256, uv.U0, 1e-6)
	assert.InDelta(t, 16.95/256, uv.U1, 1e-6)
	assert.InDelta(t, 1-16.95/256, uv.V0, 1e-6)
	assert.InDelta(t, 1-1.05/256, uv.V1, 1e-6)

	uv = AtlasUV(9, false)
	assert.InDelta(t, (18+1.05)/256, uv.U0, 1e-6)
	assert.InDelta(t, 1-(18+16.95)/256, uv.V0, 1e-6)

	water := AtlasUV(0, true)
	assert.InDelta(t, 8.5/256, water.U0, 1e-6)
	assert.InDelta(t, 9.5/256, water.U1, 1e-6)
}

func TestGrassTilesPerFace(t *testing.T) {
	s := emptyStore(vec.Vec2{})
	require.True(t, s.SetBlock(1, 70, 1, block.GrassBlockID))

	d := NewMesher().Build(s, vec.Vec2{})
	tex := block.TexturesOf(block.GrassBlockID)

	top := AtlasUV(tex.Top, false)
	assert.Equal(t, []float32{top.U0, top.V1}, d.Opaque.UVs[0:2])

	bottom := AtlasUV(tex.Bottom, false)
	assert.Equal(t, []float32{bottom.U0, bottom.V1}, d.Opaque.UVs[8:10])

	side := AtlasUV(tex.Side, false)
	assert.Equal(t, []float32{side.U1, side.V1}, d.Opaque.UVs[22:24])
}

func TestBuildOpaqueIsolated(t *testing.T) {
	s := emptyStore(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 1, Y: 0})
	require.True(t, s.SetBlock(15, 10, 0, block.StoneBlockID))
	require.True(t, s.SetBlock(16, 10, 0, block.StoneBlockID))
	require.True(t, s.SetBlock(3, 10, 3, block.WaterBlockID))
	require.True(t, s.SetBlock(5, 10, 5, block.LeavesBlockID))
	require.True(t, s.SetBlock(7, 10, 7, block.TorchBlockID))

	chunk, ok := s.Chunk(vec.Vec2{})
	require.True(t, ok)

	d := NewMesher().BuildOpaque(chunk)
	assert.True(t, d.Provisional)
	assert.Nil(t, d.Transparent)
	assert.Nil(t, d.Liquid)
	assert.Empty(t, d.Emitters)
	// Снаружи чанка воздух: грань к соседнему камню остаётся
	assert.Equal(t, 6, d.Opaque.QuadCount())
}
