package world

import (
	"math"

	"github.com/annel0/voxel-terrain/internal/noise"
)

// BiomeType представляет тип биома. Вычисляется для колонки и нигде не хранится.
type BiomeType int

const (
	BiomeOcean BiomeType = iota
	BiomeBeach
	BiomePlains
	BiomeForest
	BiomeJungle
	BiomeDesert
	BiomeMountains
	BiomeSwamp
	BiomeTaiga
	BiomeTundra
)

var biomeNames = [...]string{
	BiomeOcean:     "ocean",
	BiomeBeach:     "beach",
	BiomePlains:    "plains",
	BiomeForest:    "forest",
	BiomeJungle:    "jungle",
	BiomeDesert:    "desert",
	BiomeMountains: "mountains",
	BiomeSwamp:     "swamp",
	BiomeTaiga:     "taiga",
	BiomeTundra:    "tundra",
}

func (b BiomeType) String() string {
	if b >= 0 && int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "unknown"
}

// Пороги классификации биомов
const (
	OceanMax       = 0.25 // Ниже - океан
	BeachMax       = 0.30 // Ниже - пляж
	MountainMin    = 0.70 // Выше - горы
	FrozenMax      = -0.4 // Холоднее - тундра
	ColdMax        = -0.1 // Холоднее - тайга
	WetMin         = 0.5  // Влажнее - джунгли/болото
	HotMin         = 0.3  // Теплее (при высокой влажности) - джунгли
	DryMax         = -0.4 // Суше - пустыня
	ForestMoistMin = 0.0
)

// ClassifyBiome определяет биом. Порядок проверок важен: побеждает первое совпадение.
// height нормирована в [0, 1].
func ClassifyBiome(temperature, moisture, height float64) BiomeType {
	switch {
	case height < OceanMax:
		return BiomeOcean
	case height < BeachMax:
		return BiomeBeach
	case height > MountainMin:
		return BiomeMountains
	case temperature < FrozenMax:
		return BiomeTundra
	case temperature < ColdMax:
		return BiomeTaiga
	case moisture > WetMin:
		if temperature > HotMin {
			return BiomeJungle
		}
		return BiomeSwamp
	case moisture < DryMax:
		return BiomeDesert
	case moisture > ForestMoistMin:
		return BiomeForest
	default:
		return BiomePlains
	}
}

// HeightAt возвращает высоту поверхности для биома. Это контракт формы рельефа.
// base - нормированная континентальная высота (0..1).
func (wg *WorldGenerator) HeightAt(biome BiomeType, wx, wz int, base float64) int {
	x, z := float64(wx), float64(wz)
	var h float64

	switch biome {
	case BiomeMountains:
		// Гребни: модуль fBm, возведённый в 1.5
		peaks := math.Pow(math.Abs(noise.Fractal2D(wg.detail, x, z, 4, 0.5, 0.02)), 1.5)
		h = 65 + base*60 + peaks*40
	case BiomePlains:
		h = 64 + wg.detail.Noise2D(x*0.01, z*0.01)*4
	case BiomeDesert:
		// Дюны вытянуты вдоль X
		dunes := math.Abs(wg.detail.Noise2D(x*0.02, z*0.005)) * 8
		h = 64 + dunes
	case BiomeSwamp:
		h = 61 + wg.detail.Noise2D(x*0.05, z*0.05)*2
	case BiomeOcean:
		h = 40 + base*20
	default:
		h = 64 + base*15 + wg.detail.Noise2D(x*0.02, z*0.02)*5
	}

	return int(math.Floor(h))
}

// ColumnInfo результат выборки шумов для колонки
type ColumnInfo struct {
	Biome       BiomeType
	Height      int
	Continental float64
	Temperature float64
	Moisture    float64
}

// Column вычисляет биом и высоту поверхности мировой колонки
func (wg *WorldGenerator) Column(wx, wz int) ColumnInfo {
	x, z := float64(wx), float64(wz)

	cont := noise.Fractal2D(wg.continental, x, z, 3, 0.5, 0.005)
	temp := wg.temperature.Noise2D(x*0.002, z*0.002) - cont*0.2
	moist := wg.moisture.Noise2D(x*0.003, z*0.003) + cont*0.1
	base := (cont + 1) / 2

	biome := ClassifyBiome(temp, moist, base)
	return ColumnInfo{
		Biome:       biome,
		Height:      wg.HeightAt(biome, wx, wz, base),
		Continental: cont,
		Temperature: temp,
		Moisture:    moist,
	}
}
