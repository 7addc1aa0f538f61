package world

import (
	"math"
	"math/rand"

	"github.com/annel0/voxel-terrain/internal/world/block"
)

// Вероятности растительности
const (
	DefaultTreeChance = 0.002
	ForestTreeChance  = 0.02
	JungleTreeChance  = 0.05
	TaigaTreeChance   = 0.015
	BushChance        = 0.1
	BirchNoiseMin     = 0.5 // Выше - берёзы вместо дубов
)

func treeChance(biome BiomeType) float64 {
	switch biome {
	case BiomeForest:
		return ForestTreeChance
	case BiomeJungle:
		return JungleTreeChance
	case BiomeTaiga:
		return TaigaTreeChance
	default:
		return DefaultTreeChance
	}
}

// decorate расставляет деревья и кусты. Обходит только внутренние колонки (1..14),
// чтобы ствол не оказался на границе; крона всё равно обрезается краем чанка.
func (wg *WorldGenerator) decorate(chunk *Chunk, columns *[ChunkSizeX][ChunkSizeZ]ColumnInfo, rng *rand.Rand) {
	origin := chunk.Coords.Origin()

	for x := 1; x < ChunkSizeX-1; x++ {
		for z := 1; z < ChunkSizeZ-1; z++ {
			col := columns[x][z]
			h := col.Height
			if h <= SeaLevel || chunk.GetBlock(x, h, z) == block.AirBlockID {
				continue
			}

			if rng.Float64() < treeChance(col.Biome) {
				wx, wz := origin.X+x, origin.Y+z
				switch {
				case col.Biome == BiomeTaiga:
					growSpruce(chunk, rng, x, h+1, z)
				case col.Biome == BiomeJungle:
					growOak(chunk, rng, x, h+1, z, 10)
				case wg.tree.Noise2D(float64(wx)*0.2, float64(wz)*0.2) > BirchNoiseMin:
					growBirch(chunk, rng, x, h+1, z)
				default:
					growOak(chunk, rng, x, h+1, z, 4)
				}
			} else if rng.Float64() < BushChance && col.Biome != BiomeDesert {
				bush := block.BushDenseBlockID
				if col.Biome != BiomeSwamp {
					if rng.Float64() > 0.8 {
						bush = block.BushFloweringBlockID
					} else {
						bush = block.BushTinyBlockID
					}
				}
				growBush(chunk, rng, x, h+1, z, bush)
			}
		}
	}
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// growLayeredTree ствол и ярусная крона с рваными углами (дуб, берёза)
func growLayeredTree(chunk *Chunk, rng *rand.Rand, lx, ly, lz, height int, wood, leaves block.BlockID, cornerSkip float64) {
	for i := 0; i < height; i++ {
		chunk.setIfAir(lx, ly+i, lz, wood)
	}

	for y := ly + height - 3; y <= ly+height+1; y++ {
		radius := 2
		if y > ly+height {
			radius = 1
		}
		for ox := -radius; ox <= radius; ox++ {
			for oz := -radius; oz <= radius; oz++ {
				if iabs(ox) == radius && iabs(oz) == radius && rng.Float64() > cornerSkip {
					continue
				}
				chunk.setIfAir(lx+ox, y, lz+oz, leaves)
			}
		}
	}
}

func growOak(chunk *Chunk, rng *rand.Rand, lx, ly, lz, minHeight int) {
	height := minHeight + rng.Intn(3)
	growLayeredTree(chunk, rng, lx, ly, lz, height, block.WoodBlockID, block.LeavesBlockID, 0.5)
}

func growBirch(chunk *Chunk, rng *rand.Rand, lx, ly, lz int) {
	height := 5 + rng.Intn(3)
	growLayeredTree(chunk, rng, lx, ly, lz, height, block.BirchWoodBlockID, block.BirchLeavesBlockID, 0.4)
}

// growSpruce ель: высокий ствол и конус, расширяющийся вниз каждые два яруса
func growSpruce(chunk *Chunk, rng *rand.Rand, lx, ly, lz int) {
	height := 7 + rng.Intn(5)
	for i := 0; i < height; i++ {
		chunk.setIfAir(lx, ly+i, lz, block.SpruceWoodBlockID)
	}

	top := ly + height
	radius := 1
	for y := top; y >= ly+2; y-- {
		if (top-y)%2 == 0 && radius < 3 {
			radius++
		}

		current := radius
		switch y {
		case top:
			current = 0
		case top - 1:
			current = 1
		}

		for ox := -current; ox <= current; ox++ {
			for oz := -current; oz <= current; oz++ {
				if current > 1 && iabs(ox) == current && iabs(oz) == current {
					continue
				}
				chunk.setIfAir(lx+ox, y, lz+oz, block.SpruceLeavesBlockID)
			}
		}
	}
}

// growBush куст: несколько эллипсоидов со случайным прореживанием
func growBush(chunk *Chunk, rng *rand.Rand, lx, ly, lz int, kind block.BlockID) {
	branches, baseRadius := 5, 1.7
	switch kind {
	case block.BushTinyBlockID:
		branches, baseRadius = 1, 0.9
	case block.BushFloweringBlockID:
		branches, baseRadius = 3, 1.3
	}

	spread := float64(branches) * 0.5
	for b := 0; b < branches; b++ {
		bx := (rng.Float64() - 0.5) * spread
		bz := (rng.Float64() - 0.5) * spread
		by := rng.Float64() * (float64(branches) * 0.3)
		radius := baseRadius * (0.6 + rng.Float64()*0.6)
		limit := int(math.Ceil(radius))

		for x := -limit; x <= limit; x++ {
			for y := -limit; y <= limit; y++ {
				for z := -limit; z <= limit; z++ {
					dx := float64(x) - bx
					dy := (float64(y) - by) * 1.5
					dz := float64(z) - bz
					if dx*dx+dy*dy+dz*dz <= radius*radius && rng.Float64() > 0.65 {
						chunk.setIfAir(lx+x, ly+y, lz+z, kind)
					}
				}
			}
		}
	}

	chunk.setIfAir(lx, ly, lz, kind)
}
