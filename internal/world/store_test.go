package world

import (
	"testing"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	calls []vec.Vec2
}

func (r *recordingInvalidator) Invalidate(coords vec.Vec2) {
	r.calls = append(r.calls, coords)
}

func TestStoreGetBlockOutOfRange(t *testing.T) {
	s := NewChunkStore(nil)
	s.Ensure(vec.Vec2{})

	assert.Equal(t, block.AirBlockID, s.GetBlock(0, -1, 0))
	assert.Equal(t, block.AirBlockID, s.GetBlock(0, ChunkHeight, 0))
	assert.Equal(t, block.AirBlockID, s.GetBlock(100, 10, 100), "несгенерированный чанк")
}

func TestStoreSetBlockRejected(t *testing.T) {
	s := NewChunkStore(nil)
	assert.False(t, s.SetBlock(3, 10, 3, block.StoneBlockID), "чанк отсутствует")

	s.Ensure(vec.Vec2{})
	assert.False(t, s.SetBlock(3, -1, 3, block.StoneBlockID))
	assert.False(t, s.SetBlock(3, ChunkHeight, 3, block.StoneBlockID))
	assert.Empty(t, s.Dirty(), "отклонённые записи не помечают чанк")
}

func TestStoreBedrockImmutable(t *testing.T) {
	s := NewChunkStore(NewWorldGenerator(0))
	s.Ensure(vec.Vec2{})

	for _, id := range []block.BlockID{block.AirBlockID, block.StoneBlockID, block.WaterBlockID} {
		assert.False(t, s.SetBlock(4, 0, 4, id))
		assert.Equal(t, block.BedrockBlockID, s.GetBlock(4, 0, 4))
	}
}

func TestStoreSetBlockNegativeCoords(t *testing.T) {
	s := NewChunkStore(nil)
	s.Ensure(vec.Vec2{X: -1, Y: -1})

	require.True(t, s.SetBlock(-1, 5, -1, block.DirtBlockID))
	assert.Equal(t, block.DirtBlockID, s.GetBlock(-1, 5, -1))

	chunk, ok := s.Chunk(vec.Vec2{X: -1, Y: -1})
	require.True(t, ok)
	assert.Equal(t, block.DirtBlockID, chunk.GetBlock(15, 5, 15))
}

func TestStoreEditMarksDirtyAndInvalidates(t *testing.T) {
	s := NewChunkStore(nil)
	inv := &recordingInvalidator{}
	s.SetInvalidator(inv)

	var edited []vec.Vec2
	s.OnEdit(func(c vec.Vec2) { edited = append(edited, c) })

	coords := vec.Vec2{X: 2, Y: 0}
	s.Ensure(coords)
	inv.calls = nil

	require.True(t, s.SetBlock(33, 20, 4, block.PlanksBlockID))
	assert.True(t, s.IsDirty(coords))
	assert.Equal(t, []vec.Vec2{coords}, inv.calls)
	assert.Equal(t, []vec.Vec2{coords}, edited)
}

// Копаем рядом с водой: яма заполняется водой
func TestStoreDigBesideWaterSeeps(t *testing.T) {
	s := NewChunkStore(nil)
	s.Ensure(vec.Vec2{})

	require.True(t, s.SetBlock(5, 10, 5, block.WaterBlockID))
	require.True(t, s.SetBlock(6, 10, 5, block.StoneBlockID))
	require.True(t, s.SetBlock(8, 10, 5, block.StoneBlockID))

	require.True(t, s.SetBlock(6, 10, 5, block.AirBlockID))
	assert.Equal(t, block.WaterBlockID, s.GetBlock(6, 10, 5), "вода затекает в выкопанную клетку")

	require.True(t, s.SetBlock(8, 10, 5, block.AirBlockID))
	assert.Equal(t, block.AirBlockID, s.GetBlock(8, 10, 5), "без соседней воды остаётся воздух")
}

func TestStoreSeepsAcrossChunkBorder(t *testing.T) {
	s := NewChunkStore(nil)
	s.Ensure(vec.Vec2{X: 0, Y: 0})
	s.Ensure(vec.Vec2{X: -1, Y: 0})

	require.True(t, s.SetBlock(0, 30, 3, block.WaterBlockID))
	require.True(t, s.SetBlock(-1, 30, 3, block.AirBlockID))
	assert.Equal(t, block.WaterBlockID, s.GetBlock(-1, 30, 3))
}

func TestStoreEnsureUsesGenerator(t *testing.T) {
	gen := NewWorldGenerator(11)
	s := NewChunkStore(gen)
	coords := vec.Vec2{X: 4, Y: -4}

	chunk := s.Ensure(coords)
	assert.Equal(t, gen.GenerateChunk(coords).Bytes(), chunk.Bytes())
	assert.Same(t, chunk, s.Ensure(coords), "повторный Ensure не генерирует заново")
	assert.False(t, s.IsDirty(coords), "сгенерированный чанк не грязный")
}

func TestStoreInstallInvalidates(t *testing.T) {
	s := NewChunkStore(nil)
	inv := &recordingInvalidator{}
	s.SetInvalidator(inv)

	s.Install(NewChunk(vec.Vec2{X: 1, Y: 2}))
	assert.Equal(t, []vec.Vec2{{X: 1, Y: 2}}, inv.calls)
	assert.True(t, s.Has(vec.Vec2{X: 1, Y: 2}))
}

func TestStoreCoordsSortedAndReset(t *testing.T) {
	s := NewChunkStore(nil)
	for _, c := range []vec.Vec2{{X: 1, Y: 0}, {X: -1, Y: 3}, {X: -1, Y: -2}} {
		s.Ensure(c)
		s.MarkDirty(c)
	}

	want := []vec.Vec2{{X: -1, Y: -2}, {X: -1, Y: 3}, {X: 1, Y: 0}}
	assert.Equal(t, want, s.Coords())
	assert.Equal(t, want, s.Dirty())
	assert.Equal(t, 3, s.Len())

	s.Reset()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Dirty())
	assert.Equal(t, block.AirBlockID, s.GetBlock(16, 5, 0))
}
