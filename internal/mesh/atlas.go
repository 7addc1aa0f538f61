package mesh

// Геометрия атласа текстур (в пикселях)
const (
	AtlasCols   = 8
	AtlasSize   = 256
	TileSize    = 16
	TilePadding = 1
	FullTile    = TileSize + TilePadding*2

	uvInset       = 0.05
	liquidUVInset = 7.5 // Жидкость берёт середину тайла, без видимого рисунка
)

// TileUV прямоугольник тайла в нормированных координатах атласа
type TileUV struct {
	U0, V0, U1, V1 float32
}

// AtlasUV вычисляет UV-прямоугольник тайла с отступом от краёв
func AtlasUV(tile int, liquid bool) TileUV {
	inset := uvInset
	if liquid {
		inset = liquidUVInset
	}
	col := float64(tile % AtlasCols)
	row := float64(tile / AtlasCols)

	return TileUV{
		U0: float32((col*FullTile + TilePadding + inset) / AtlasSize),
		U1: float32((col*FullTile + TilePadding + TileSize - inset) / AtlasSize),
		V0: float32(1 - (row*FullTile+TilePadding+TileSize-inset)/AtlasSize),
		V1: float32(1 - (row*FullTile+TilePadding+inset)/AtlasSize),
	}
}

// corners UV для четырёх углов квада в порядке обхода грани
func (t TileUV) corners() [4][2]float32 {
	return [4][2]float32{{t.U0, t.V1}, {t.U0, t.V0}, {t.U1, t.V0}, {t.U1, t.V1}}
}
