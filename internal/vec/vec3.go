package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами (мировой воксель)
type Vec3 struct {
	X int
	Y int
	Z int
}

// Faces6 смещения к шести соседям по граням
var Faces6 = [6]Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Lateral4 смещения к четырём боковым соседям в той же плоскости Y
var Lateral4 = [4]Vec3{
	{X: 1}, {X: -1},
	{Z: 1}, {Z: -1},
}

// Chunk возвращает координаты чанка, в котором лежит воксель
func (v Vec3) Chunk() Vec2 {
	return ChunkOf(v.X, v.Z)
}

// Local возвращает локальные координаты внутри чанка
func (v Vec3) Local() Vec3 {
	return Vec3{X: v.X & ChunkMask, Y: v.Y, Z: v.Z & ChunkMask}
}

// FromLocal собирает мировые координаты из чанка и локальной позиции
func FromLocal(chunk Vec2, lx, y, lz int) Vec3 {
	return Vec3{X: chunk.X<<ChunkShift + lx, Y: y, Z: chunk.Y<<ChunkShift + lz}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}
