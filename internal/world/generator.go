package world

import (
	"fmt"
	"math/rand"

	"github.com/annel0/voxel-terrain/internal/noise"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

// Смещения сидов для отдельных шумовых полей. При сиде мира 0 получаются
// исходные сиды 444/666/777/888/999/111.
const (
	continentalSeedOffset = 444
	temperatureSeedOffset = 666
	moistureSeedOffset    = 777
	detailSeedOffset      = 888
	caveSeedOffset        = 999
	treeSeedOffset        = 111
)

// Параметры генерации
const (
	CaveThreshold = 0.45 // Выше - пещера (воздух)
	DirtDepth     = 5    // Толщина слоя земли под поверхностью
)

// WorldGenerator генерирует ландшафт мира.
// После создания только читает своё состояние, поэтому GenerateChunk можно
// вызывать одновременно из нескольких горутин.
type WorldGenerator struct {
	Seed    int64  // Сид мира
	Backend string // Имя бэкенда шума

	continental noise.Source
	temperature noise.Source
	moisture    noise.Source
	detail      noise.Source
	cave        noise.Source
	tree        noise.Source
}

// NewWorldGenerator создаёт генератор на симплекс-шуме
func NewWorldGenerator(seed int64) *WorldGenerator {
	wg, err := NewWorldGeneratorWithBackend(seed, noise.BackendSimplex)
	if err != nil {
		// simplex всегда доступен
		panic(err)
	}
	return wg
}

// NewWorldGeneratorWithBackend создаёт генератор на указанном бэкенде шума
func NewWorldGeneratorWithBackend(seed int64, backend string) (*WorldGenerator, error) {
	wg := &WorldGenerator{Seed: seed, Backend: backend}

	fields := []struct {
		dst    *noise.Source
		offset int64
	}{
		{&wg.continental, continentalSeedOffset},
		{&wg.temperature, temperatureSeedOffset},
		{&wg.moisture, moistureSeedOffset},
		{&wg.detail, detailSeedOffset},
		{&wg.cave, caveSeedOffset},
		{&wg.tree, treeSeedOffset},
	}
	for _, f := range fields {
		src, err := noise.New(backend, seed+f.offset)
		if err != nil {
			return nil, fmt.Errorf("генератор мира: %w", err)
		}
		*f.dst = src
	}
	return wg, nil
}

// chunkSeed уникальный сид чанка на основе глобального сида и координат
func (wg *WorldGenerator) chunkSeed(coords vec.Vec2) int64 {
	return wg.Seed + int64(coords.X*31) + int64(coords.Y*17)
}

// GenerateChunk генерирует чанк по его координатам
func (wg *WorldGenerator) GenerateChunk(coords vec.Vec2) *Chunk {
	chunk := NewChunk(coords)
	origin := coords.Origin()

	var columns [ChunkSizeX][ChunkSizeZ]ColumnInfo

	for x := 0; x < ChunkSizeX; x++ {
		for z := 0; z < ChunkSizeZ; z++ {
			wx := origin.X + x
			wz := origin.Y + z

			col := wg.Column(wx, wz)
			columns[x][z] = col
			wg.fillColumn(chunk, x, z, wx, wz, col)
		}
	}

	// Локальный генератор случайных чисел для детерминированности
	rng := rand.New(rand.NewSource(wg.chunkSeed(coords)))
	wg.decorate(chunk, &columns, rng)

	return chunk
}

// fillColumn заполняет колонку снизу вверх
func (wg *WorldGenerator) fillColumn(chunk *Chunk, x, z, wx, wz int, col ColumnInfo) {
	h := col.Height
	base := x + z*ChunkSizeX*ChunkHeight

	for y := 0; y < ChunkHeight; y++ {
		id := block.AirBlockID

		switch {
		case y == 0:
			id = block.BedrockBlockID
		case y < h-DirtDepth:
			caveValue := wg.cave.Noise3D(float64(wx)*0.04, float64(y)*0.08, float64(wz)*0.04)
			if caveValue <= CaveThreshold {
				id = block.StoneBlockID
			}
		case y < h:
			id = block.DirtBlockID
		case y == h:
			id = surfaceBlock(col.Biome, h)
		}

		// Затапливаем всё ниже уровня моря над поверхностью
		if id == block.AirBlockID && y > h && y <= SeaLevel {
			id = block.WaterBlockID
		}

		chunk.blocks[base+y*ChunkSizeX] = byte(id)
	}
}

// surfaceBlock возвращает верхний блок колонки для биома
func surfaceBlock(biome BiomeType, h int) block.BlockID {
	switch {
	case h <= SeaLevel:
		return block.SandBlockID
	case biome == BiomeDesert:
		return block.SandBlockID
	case biome == BiomeSwamp:
		return block.MossBlockID
	default:
		return block.GrassBlockID
	}
}
