package mesh

import (
	"github.com/annel0/voxel-terrain/internal/vec"
)

// Stats счётчики кэша мешей
type Stats struct {
	Hits          uint64
	Misses        uint64
	Builds        uint64
	Refined       uint64
	Invalidations uint64
	Entries       int
}

// Cache хранит меши по координатам чанка и строит их лениво.
// Не потокобезопасен, как и хранилище, из которого читает.
type Cache struct {
	mesher  *Mesher
	src     Source
	entries map[vec.Vec2]*Data
	stats   Stats
}

// NewCache создаёт кэш поверх источника блоков
func NewCache(mesher *Mesher, src Source) *Cache {
	if mesher == nil {
		mesher = NewMesher()
	}
	return &Cache{
		mesher:  mesher,
		src:     src,
		entries: make(map[vec.Vec2]*Data),
	}
}

// GetOrBuild возвращает меш чанка, строя его при промахе.
// false - чанк не загружен, строить нечего.
func (c *Cache) GetOrBuild(coords vec.Vec2) (*Data, bool) {
	if d, ok := c.entries[coords]; ok {
		c.stats.Hits++
		return d, true
	}
	c.stats.Misses++

	d := c.mesher.Build(c.src, coords)
	if d == nil {
		return nil, false
	}
	c.stats.Builds++
	c.entries[coords] = d
	return d, true
}

// Peek возвращает меш без построения
func (c *Cache) Peek(coords vec.Vec2) (*Data, bool) {
	d, ok := c.entries[coords]
	return d, ok
}

// Put кладёт готовый меш (например, из конвейера генерации)
func (c *Cache) Put(coords vec.Vec2, d *Data) {
	if d == nil {
		delete(c.entries, coords)
		return
	}
	c.entries[coords] = d
}

// Invalidate сбрасывает меш чанка и его четырёх боковых соседей
func (c *Cache) Invalidate(coords vec.Vec2) {
	c.drop(coords)
	c.InvalidateNeighbors(coords)
}

// InvalidateNeighbors сбрасывает только соседей: сам чанк только что пришёл со своим мешем
func (c *Cache) InvalidateNeighbors(coords vec.Vec2) {
	for _, n := range coords.Neighbors4() {
		c.drop(n)
	}
}

func (c *Cache) drop(coords vec.Vec2) {
	if _, ok := c.entries[coords]; ok {
		delete(c.entries, coords)
		c.stats.Invalidations++
	}
}

// InvalidateAll очищает кэш
func (c *Cache) InvalidateAll() {
	c.stats.Invalidations += uint64(len(c.entries))
	c.entries = make(map[vec.Vec2]*Data)
}

// Refine перестраивает до limit предварительных мешей полным построителем.
// limit <= 0 - без ограничения. Возвращает число перестроенных.
func (c *Cache) Refine(limit int) int {
	refined := 0
	for coords, d := range c.entries {
		if limit > 0 && refined >= limit {
			break
		}
		if !d.Provisional {
			continue
		}

		full := c.mesher.Build(c.src, coords)
		if full == nil {
			delete(c.entries, coords)
			continue
		}
		c.entries[coords] = full
		c.stats.Builds++
		c.stats.Refined++
		refined++
	}
	return refined
}

// Len количество мешей в кэше
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats снимок счётчиков
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
