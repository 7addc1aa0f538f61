// Package pipeline выносит генерацию чанков в фоновые последовательные воркеры.
// Готовые чанки вместе с предварительным мешем передаются единственной
// горутине-потребителю через канал; общих изменяемых данных нет.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/shirou/gopsutil/v3/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Значения по умолчанию
const (
	DefaultMaxWorkers   = 4
	DefaultResultBuffer = 64
)

// Result готовый чанк. Воркер не хранит ссылок на него после отправки.
type Result struct {
	Coords   vec.Vec2
	Chunk    *world.Chunk
	Mesh     *mesh.Data
	Duration time.Duration
}

// Options параметры конвейера
type Options struct {
	// MaxWorkers верхняя граница числа воркеров, <= 0 - DefaultMaxWorkers
	MaxWorkers int
	// ResultBuffer ёмкость канала результатов
	ResultBuffer int
	// Resident сообщает, что чанк уже загружен у потребителя
	Resident func(vec.Vec2) bool
}

// Stats счётчики конвейера
type Stats struct {
	Workers   int
	InFlight  int
	Requested uint64
	Generated uint64
	Rejected  uint64
}

// startUnit запускает один последовательный воркер. Переопределяется в тестах.
var startUnit = func(index int) (pond.Pool, error) {
	return pond.NewPool(1), nil
}

// logicalCPUs число логических процессоров
func logicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Pipeline распределяет запросы по воркерам по координатам чанка.
// Request, Complete и Drain вызываются только из горутины-потребителя.
type Pipeline struct {
	generator *world.WorldGenerator
	mesher    *mesh.Mesher
	resident  func(vec.Vec2) bool

	units    []pond.Pool
	results  chan Result
	pending  []Result
	inFlight map[vec.Vec2]struct{}
	done     chan struct{}
	closed   bool

	tracer trace.Tracer
	logger *logging.Logger

	requested atomic.Uint64
	generated atomic.Uint64
	rejected  atomic.Uint64
}

// New запускает воркеры. Воркер, который не удалось запустить, пропускается;
// без воркеров запросы выполняются синхронно.
func New(generator *world.WorldGenerator, mesher *mesh.Mesher, opts Options) *Pipeline {
	if mesher == nil {
		mesher = mesh.NewMesher()
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultMaxWorkers
	}
	if opts.ResultBuffer <= 0 {
		opts.ResultBuffer = DefaultResultBuffer
	}

	p := &Pipeline{
		generator: generator,
		mesher:    mesher,
		resident:  opts.Resident,
		results:   make(chan Result, opts.ResultBuffer),
		inFlight:  make(map[vec.Vec2]struct{}),
		done:      make(chan struct{}),
		tracer:    otel.Tracer("voxel-terrain/pipeline"),
		logger:    logging.GetPipelineLogger(),
	}

	want := logicalCPUs()
	if want > opts.MaxWorkers {
		want = opts.MaxWorkers
	}
	for i := 0; i < want; i++ {
		unit, err := safeStart(i)
		if err != nil {
			p.logger.Warn("Воркер генерации %d не запущен: %v", i, err)
			continue
		}
		p.units = append(p.units, unit)
	}

	if len(p.units) == 0 {
		p.logger.Warn("Нет воркеров генерации, чанки генерируются синхронно")
	} else {
		p.logger.Info("Конвейер генерации запущен: %d воркеров", len(p.units))
	}
	return p
}

func safeStart(index int) (unit pond.Pool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("паника при запуске воркера: %v", r)
		}
	}()
	return startUnit(index)
}

// Workers количество работающих воркеров
func (p *Pipeline) Workers() int {
	return len(p.units)
}

// unitFor выбирает воркер по координатам; отрицательные суммы тоже дают валидный индекс
func unitFor(coords vec.Vec2, n int) int {
	return ((coords.X+coords.Y)%n + n) % n
}

// Request ставит чанк в очередь генерации. false - чанк уже загружен,
// уже в работе или конвейер закрыт.
func (p *Pipeline) Request(coords vec.Vec2) bool {
	if p.closed {
		return false
	}
	if _, busy := p.inFlight[coords]; busy {
		p.rejected.Add(1)
		return false
	}
	if p.resident != nil && p.resident(coords) {
		p.rejected.Add(1)
		return false
	}

	p.inFlight[coords] = struct{}{}
	p.requested.Add(1)

	if len(p.units) == 0 {
		p.pending = append(p.pending, p.generate(context.Background(), coords))
		return true
	}

	unit := p.units[unitFor(coords, len(p.units))]
	unit.Submit(func() {
		select {
		case <-p.done:
			return
		default:
		}

		res := p.generate(context.Background(), coords)
		select {
		case p.results <- res:
		case <-p.done:
		}
	})
	return true
}

// generate генерирует чанк и его предварительный меш
func (p *Pipeline) generate(ctx context.Context, coords vec.Vec2) Result {
	_, span := p.tracer.Start(ctx, "pipeline.generate",
		trace.WithAttributes(
			attribute.Int("chunk.x", coords.X),
			attribute.Int("chunk.z", coords.Y),
		))
	defer span.End()

	start := time.Now()
	chunk := p.generator.GenerateChunk(coords)
	data := p.mesher.BuildOpaque(chunk)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("mesh.quads", data.Opaque.QuadCount()))
	p.generated.Add(1)

	return Result{Coords: coords, Chunk: chunk, Mesh: data, Duration: elapsed}
}

// Results канал готовых чанков для select потребителя
func (p *Pipeline) Results() <-chan Result {
	return p.results
}

// Drain без блокировки передаёт все готовые результаты в fn
func (p *Pipeline) Drain(fn func(Result)) int {
	n := 0
	for len(p.pending) > 0 {
		res := p.pending[0]
		p.pending = p.pending[1:]
		fn(res)
		n++
	}
	for {
		select {
		case res := <-p.results:
			fn(res)
			n++
		default:
			return n
		}
	}
}

// Complete снимает отметку "в работе" после установки результата
func (p *Pipeline) Complete(coords vec.Vec2) {
	delete(p.inFlight, coords)
}

// InFlight проверяет, генерируется ли чанк
func (p *Pipeline) InFlight(coords vec.Vec2) bool {
	_, ok := p.inFlight[coords]
	return ok
}

// Reset забывает отметки "в работе" (после очистки мира).
// Уже запущенные задачи доставят результаты, потребитель их отбросит.
func (p *Pipeline) Reset() {
	p.inFlight = make(map[vec.Vec2]struct{})
	p.pending = nil
}

// Stats снимок счётчиков
func (p *Pipeline) Stats() Stats {
	return Stats{
		Workers:   len(p.units),
		InFlight:  len(p.inFlight),
		Requested: p.requested.Load(),
		Generated: p.generated.Load(),
		Rejected:  p.rejected.Load(),
	}
}

// Close останавливает воркеры. Задачи, не успевшие начаться, пропускаются.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.done)
	for _, unit := range p.units {
		unit.StopAndWait()
	}
	p.logger.Info("Конвейер генерации остановлен")
}
