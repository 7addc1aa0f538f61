package world

import (
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

// Invalidator сбрасывает производные данные (меши) чанка и его 4 боковых соседей
type Invalidator interface {
	Invalidate(coords vec.Vec2)
}

// ChunkStore единственный источник истины: координаты чанка -> буфер вокселей.
// Не потокобезопасен: им владеет одна горутина-потребитель.
type ChunkStore struct {
	chunks      map[vec.Vec2]*Chunk
	dirty       map[vec.Vec2]struct{}
	generator   *WorldGenerator
	invalidator Invalidator
	onEdit      func(coords vec.Vec2)
}

// NewChunkStore создаёт хранилище. generator может быть nil, тогда Ensure
// создаёт пустые чанки.
func NewChunkStore(generator *WorldGenerator) *ChunkStore {
	return &ChunkStore{
		chunks:    make(map[vec.Vec2]*Chunk),
		dirty:     make(map[vec.Vec2]struct{}),
		generator: generator,
	}
}

// SetInvalidator подключает кэш мешей
func (s *ChunkStore) SetInvalidator(inv Invalidator) {
	s.invalidator = inv
}

// OnEdit регистрирует колбэк, вызываемый после каждой успешной записи блока
func (s *ChunkStore) OnEdit(fn func(coords vec.Vec2)) {
	s.onEdit = fn
}

// Generator возвращает генератор хранилища
func (s *ChunkStore) Generator() *WorldGenerator {
	return s.generator
}

// GetBlock возвращает блок по мировым координатам.
// Вне диапазона высот и в несгенерированных чанках - воздух.
func (s *ChunkStore) GetBlock(wx, wy, wz int) block.BlockID {
	if wy < 0 || wy >= ChunkHeight {
		return block.AirBlockID
	}
	chunk, ok := s.chunks[vec.ChunkOf(wx, wz)]
	if !ok {
		return block.AirBlockID
	}
	return block.BlockID(chunk.blocks[Index(wx&vec.ChunkMask, wy, wz&vec.ChunkMask)])
}

// SetBlock записывает блок по мировым координатам. Возвращает false, если запись
// не состоялась: высота вне диапазона, чанк не загружен или там бедрок.
// Воздух рядом с жидкостью превращается в эту жидкость (вода затекает в яму).
func (s *ChunkStore) SetBlock(wx, wy, wz int, id block.BlockID) bool {
	if wy < 0 || wy >= ChunkHeight {
		return false
	}
	coords := vec.ChunkOf(wx, wz)
	chunk, ok := s.chunks[coords]
	if !ok {
		return false
	}

	idx := Index(wx&vec.ChunkMask, wy, wz&vec.ChunkMask)
	if block.BlockID(chunk.blocks[idx]) == block.BedrockBlockID {
		return false
	}

	if id == block.AirBlockID {
		if liquid, found := s.adjacentLiquid(wx, wy, wz); found {
			id = liquid
		}
	}

	chunk.blocks[idx] = byte(id)
	s.dirty[coords] = struct{}{}

	if s.invalidator != nil {
		s.invalidator.Invalidate(coords)
	}
	if s.onEdit != nil {
		s.onEdit(coords)
	}
	return true
}

func (s *ChunkStore) adjacentLiquid(wx, wy, wz int) (block.BlockID, bool) {
	p := vec.Vec3{X: wx, Y: wy, Z: wz}
	for _, d := range vec.Faces6 {
		n := p.Add(d)
		if id := s.GetBlock(n.X, n.Y, n.Z); block.IsLiquid(id) {
			return id, true
		}
	}
	return block.AirBlockID, false
}

// Chunk возвращает загруженный чанк
func (s *ChunkStore) Chunk(coords vec.Vec2) (*Chunk, bool) {
	c, ok := s.chunks[coords]
	return c, ok
}

// Has проверяет, загружен ли чанк
func (s *ChunkStore) Has(coords vec.Vec2) bool {
	_, ok := s.chunks[coords]
	return ok
}

// Ensure возвращает чанк, синхронно генерируя его при отсутствии
func (s *ChunkStore) Ensure(coords vec.Vec2) *Chunk {
	if c, ok := s.chunks[coords]; ok {
		return c
	}

	var c *Chunk
	if s.generator != nil {
		c = s.generator.GenerateChunk(coords)
	} else {
		c = NewChunk(coords)
	}
	s.Install(c)
	return c
}

// Install кладёт готовый чанк в хранилище (замещая прежний) и сбрасывает меши
// его окрестности: соседи строились при отсутствующем чанке.
func (s *ChunkStore) Install(c *Chunk) {
	s.chunks[c.Coords] = c
	if s.invalidator != nil {
		s.invalidator.Invalidate(c.Coords)
	}
}

// MarkDirty помечает чанк как отличающийся от чистой генерации
func (s *ChunkStore) MarkDirty(coords vec.Vec2) {
	s.dirty[coords] = struct{}{}
}

// IsDirty проверяет пометку изменений
func (s *ChunkStore) IsDirty(coords vec.Vec2) bool {
	_, ok := s.dirty[coords]
	return ok
}

// Dirty возвращает отсортированный список изменённых чанков
func (s *ChunkStore) Dirty() []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(s.dirty))
	for c := range s.dirty {
		out = append(out, c)
	}
	vec.SortCoords(out)
	return out
}

// Coords возвращает отсортированный список загруженных чанков
func (s *ChunkStore) Coords() []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(s.chunks))
	for c := range s.chunks {
		out = append(out, c)
	}
	vec.SortCoords(out)
	return out
}

// Len количество загруженных чанков
func (s *ChunkStore) Len() int {
	return len(s.chunks)
}

// Reset очищает мир полностью
func (s *ChunkStore) Reset() {
	s.chunks = make(map[vec.Vec2]*Chunk)
	s.dirty = make(map[vec.Vec2]struct{})
}
