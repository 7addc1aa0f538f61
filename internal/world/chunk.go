package world

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

// Размеры чанка
const (
	ChunkSizeX  = 1 << vec.ChunkShift // 16
	ChunkSizeZ  = 1 << vec.ChunkShift // 16
	ChunkHeight = 128
	ChunkVolume = ChunkSizeX * ChunkHeight * ChunkSizeZ

	// SeaLevel верхний уровень воды при генерации
	SeaLevel = 60
)

// ErrChunkSize возвращается, если буфер чанка имеет неверную длину
var ErrChunkSize = errors.New("неверный размер буфера чанка")

// Chunk представляет участок мира 16x128x16, по одному байту на воксель.
// Индекс: x + y*16 + z*16*128. Буфер никогда не меняет размер.
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка в мире
	blocks []byte
}

// NewChunk создаёт пустой (заполненный воздухом) чанк
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{Coords: coords, blocks: make([]byte, ChunkVolume)}
}

// ChunkFromBytes оборачивает готовый буфер без копирования.
// Владение буфером переходит к чанку.
func ChunkFromBytes(coords vec.Vec2, data []byte) (*Chunk, error) {
	if len(data) != ChunkVolume {
		return nil, fmt.Errorf("%w: %d байт, ожидалось %d", ErrChunkSize, len(data), ChunkVolume)
	}
	return &Chunk{Coords: coords, blocks: data}, nil
}

// Index возвращает индекс вокселя в плоском буфере
func Index(x, y, z int) int {
	return x + y*ChunkSizeX + z*ChunkSizeX*ChunkHeight
}

// InBounds проверяет локальные координаты
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX && y >= 0 && y < ChunkHeight && z >= 0 && z < ChunkSizeZ
}

// GetBlock возвращает блок по локальным координатам; вне чанка возвращает воздух
func (c *Chunk) GetBlock(x, y, z int) block.BlockID {
	if !InBounds(x, y, z) {
		return block.AirBlockID
	}
	return block.BlockID(c.blocks[Index(x, y, z)])
}

// SetBlock записывает блок по локальным координатам; вне чанка ничего не делает
func (c *Chunk) SetBlock(x, y, z int, id block.BlockID) {
	if !InBounds(x, y, z) {
		return
	}
	c.blocks[Index(x, y, z)] = byte(id)
}

// setIfAir пишет блок только поверх воздуха, вне чанка отсекается
func (c *Chunk) setIfAir(x, y, z int, id block.BlockID) {
	if !InBounds(x, y, z) {
		return
	}
	i := Index(x, y, z)
	if c.blocks[i] == byte(block.AirBlockID) {
		c.blocks[i] = byte(id)
	}
}

// Bytes возвращает сырой буфер чанка (без копирования)
func (c *Chunk) Bytes() []byte {
	return c.blocks
}

// Clone возвращает глубокую копию чанка
func (c *Chunk) Clone() *Chunk {
	cp := make([]byte, len(c.blocks))
	copy(cp, c.blocks)
	return &Chunk{Coords: c.Coords, blocks: cp}
}

// TopY возвращает верхний непустой блок колонки или -1
func (c *Chunk) TopY(x, z int) int {
	for y := ChunkHeight - 1; y >= 0; y-- {
		if c.GetBlock(x, y, z) != block.AirBlockID {
			return y
		}
	}
	return -1
}
