package vec

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ChunkShift задаёт размер чанка по X/Z как степень двойки (16 = 1<<4).
const ChunkShift = 4

// ChunkMask выделяет локальную координату внутри чанка.
const ChunkMask = 1<<ChunkShift - 1

// Vec2 представляет 2D координаты. Для чанков X = cx, Y = cz.
type Vec2 struct {
	X, Y int
}

// ChunkOf возвращает координаты чанка, содержащего мировую колонку (wx, wz).
// Сдвиг на отрицательных числах работает как деление с округлением вниз.
func ChunkOf(wx, wz int) Vec2 {
	return Vec2{X: wx >> ChunkShift, Y: wz >> ChunkShift}
}

// ToChunkCoords преобразует глобальные координаты в координаты чанка
func (v Vec2) ToChunkCoords() Vec2 {
	return ChunkOf(v.X, v.Y)
}

// LocalInChunk возвращает локальные координаты внутри чанка (всегда 0..15)
func (v Vec2) LocalInChunk() Vec2 {
	return Vec2{X: v.X & ChunkMask, Y: v.Y & ChunkMask}
}

// Origin возвращает мировые координаты угла чанка
func (v Vec2) Origin() Vec2 {
	return Vec2{X: v.X << ChunkShift, Y: v.Y << ChunkShift}
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Neighbors4 возвращает 4 боковых соседа (без диагоналей)
func (v Vec2) Neighbors4() [4]Vec2 {
	return [4]Vec2{
		{X: v.X - 1, Y: v.Y},
		{X: v.X + 1, Y: v.Y},
		{X: v.X, Y: v.Y - 1},
		{X: v.X, Y: v.Y + 1},
	}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Key возвращает строковый ключ вида "cx,cz"
func (v Vec2) Key() string {
	return strconv.Itoa(v.X) + "," + strconv.Itoa(v.Y)
}

func (v Vec2) String() string {
	return "(" + v.Key() + ")"
}

// ParseKey разбирает ключ вида "cx,cz"
func ParseKey(key string) (Vec2, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return Vec2{}, fmt.Errorf("неверный ключ чанка %q", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Vec2{}, fmt.Errorf("неверный ключ чанка %q: %w", key, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Vec2{}, fmt.Errorf("неверный ключ чанка %q: %w", key, err)
	}
	return Vec2{X: x, Y: y}, nil
}

// Area возвращает квадрат чанков радиуса r вокруг центра, ближние первыми
func Area(center Vec2, r int) []Vec2 {
	out := make([]Vec2, 0, (2*r+1)*(2*r+1))
	for ring := 0; ring <= r; ring++ {
		for dx := -ring; dx <= ring; dx++ {
			for dz := -ring; dz <= ring; dz++ {
				if abs(dx) != ring && abs(dz) != ring {
					continue
				}
				out = append(out, Vec2{X: center.X + dx, Y: center.Y + dz})
			}
		}
	}
	return out
}

// SortCoords сортирует координаты по X, затем по Y
func SortCoords(cs []Vec2) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Y < cs[j].Y
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
