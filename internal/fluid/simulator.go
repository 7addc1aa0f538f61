// Package fluid реализует клеточный автомат растекания жидкости по сетке вокселей.
package fluid

import (
	"time"

	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

// DefaultInterval период шага симуляции
const DefaultInterval = 200 * time.Millisecond

// Stats счётчики симулятора
type Stats struct {
	Steps       uint64 // выполненные шаги (без пропущенных по таймеру)
	CellsFilled uint64
}

type proposal struct {
	pos vec.Vec3
	id  block.BlockID
}

// Simulator шаг за шагом заполняет воздух рядом с жидкостью.
// Жидкость только прибывает: клетки никогда не осушаются.
type Simulator struct {
	store    *world.ChunkStore
	interval time.Duration
	last     time.Duration
	stats    Stats
	logger   *logging.Logger
}

// NewSimulator создаёт симулятор. interval <= 0 означает DefaultInterval.
func NewSimulator(store *world.ChunkStore, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{
		store:    store,
		interval: interval,
		logger:   logging.GetComponentLogger("fluid"),
	}
}

// Interval период шага
func (s *Simulator) Interval() time.Duration {
	return s.interval
}

// Reset сбрасывает таймер (после очистки мира)
func (s *Simulator) Reset() {
	s.last = 0
}

// Tick выполняет шаг, если с прошлого прошло не меньше интервала.
// now - монотонное время с запуска. Возвращает true, если хоть одна клетка изменилась.
// Шаги идут по сетке интервала: опоздание вызова не сдвигает следующий шаг.
func (s *Simulator) Tick(active []vec.Vec2, now time.Duration) bool {
	if now-s.last < s.interval {
		return false
	}
	s.last += s.interval
	if now-s.last >= s.interval {
		// Отстали больше чем на шаг: пропущенные шаги не догоняем
		s.last = now
	}
	s.stats.Steps++

	proposals := s.scan(active)

	changed := 0
	for _, p := range proposals {
		// Клетку мог занять предыдущий кандидат этого же шага
		if s.store.GetBlock(p.pos.X, p.pos.Y, p.pos.Z) != block.AirBlockID {
			continue
		}
		if s.store.SetBlock(p.pos.X, p.pos.Y, p.pos.Z, p.id) {
			changed++
		}
	}

	if changed > 0 {
		s.stats.CellsFilled += uint64(changed)
		s.logger.Trace("Шаг жидкости: заполнено %d клеток в %d чанках", changed, len(active))
	}
	return changed > 0
}

// scan собирает предложения по снимку мира до любых записей этого шага
func (s *Simulator) scan(active []vec.Vec2) []proposal {
	var out []proposal

	for _, coords := range active {
		chunk, ok := s.store.Chunk(coords)
		if !ok {
			continue
		}
		origin := coords.Origin()

		for y := 1; y < world.ChunkHeight; y++ {
			for z := 0; z < world.ChunkSizeZ; z++ {
				for x := 0; x < world.ChunkSizeX; x++ {
					id := chunk.GetBlock(x, y, z)
					if !block.IsLiquid(id) {
						continue
					}
					p := vec.Vec3{X: origin.X + x, Y: y, Z: origin.Y + z}

					below := p.Add(vec.Vec3{Y: -1})
					if s.store.GetBlock(below.X, below.Y, below.Z) == block.AirBlockID {
						// Падая, жидкость в стороны не течёт
						out = append(out, proposal{pos: below, id: id})
						continue
					}

					for _, d := range vec.Lateral4 {
						n := p.Add(d)
						if s.store.GetBlock(n.X, n.Y, n.Z) == block.AirBlockID {
							out = append(out, proposal{pos: n, id: id})
						}
					}
				}
			}
		}
	}
	return out
}

// Stats снимок счётчиков
func (s *Simulator) Stats() Stats {
	return s.stats
}
