package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/annel0/voxel-terrain/internal/eventbus"
	"github.com/annel0/voxel-terrain/internal/fluid"
	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/annel0/voxel-terrain/internal/pipeline"
	"github.com/annel0/voxel-terrain/internal/storage"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

var (
	// ErrStopped движок остановлен, команда не выполнена
	ErrStopped = errors.New("движок остановлен")
	// ErrRunning Run уже запущен
	ErrRunning = errors.New("движок уже запущен")
)

// DefaultRefinePerTick сколько предварительных мешей уточняется за тик
const DefaultRefinePerTick = 4

// finalSaveTimeout ограничение на сохранение при остановке
const finalSaveTimeout = 10 * time.Second

// Виды изменений мира
const (
	ChangeChunkLoaded = eventbus.TypeChunkLoaded
	ChangeEdited      = eventbus.TypeChunkEdited
	ChangeFluid       = eventbus.TypeFluidChanged
	ChangeReset       = eventbus.TypeWorldReset
)

// ChangeEvent уведомление о том, что содержимое чанков изменилось
// и потребителю стоит забрать новые меши.
type ChangeEvent struct {
	Kind   string
	Chunks []vec.Vec2
	Cells  int
}

// Options параметры движка
type Options struct {
	Seed         int64
	NoiseBackend string

	// UsePipeline включает фоновую генерацию, иначе чанки генерируются синхронно
	UsePipeline   bool
	MaxWorkers    int
	ResultBuffer  int
	FluidInterval time.Duration
	// RefinePerTick <= 0 - DefaultRefinePerTick
	RefinePerTick int

	// Storage nil - мир не сохраняется
	Storage *storage.Adapter
	// AutosaveInterval 0 - автосохранение выключено
	AutosaveInterval time.Duration
	SaveOnEdit       bool

	// Bus nil - события наружу не публикуются
	Bus eventbus.EventBus
	// Registerer nil - метрики не регистрируются
	Registerer prometheus.Registerer
}

// Stats сводка состояния движка
type Stats struct {
	Chunks   int            `json:"chunks"`
	Dirty    int            `json:"dirty"`
	Active   int            `json:"active"`
	Mesh     mesh.Stats     `json:"mesh"`
	Fluid    fluid.Stats    `json:"fluid"`
	Pipeline pipeline.Stats `json:"pipeline"`
}

type command struct {
	fn    func(*Engine) error
	reply chan error
}

// Engine владеет хранилищем чанков, кэшем мешей и симулятором жидкости.
// Без Run методы вызываются из одной горутины; после Run другие горутины
// работают с движком только через Do.
type Engine struct {
	opts Options

	generator *world.WorldGenerator
	store     *world.ChunkStore
	mesher    *mesh.Mesher
	cache     *mesh.Cache
	fluid     *fluid.Simulator
	pipeline  *pipeline.Pipeline
	adapter   *storage.Adapter
	bus       eventbus.EventBus
	metrics   *Metrics

	active    []vec.Vec2
	listeners []func(ChangeEvent)
	touched   map[vec.Vec2]struct{}
	start     time.Time

	commands chan command
	stopped  chan struct{}
	running  atomic.Bool
	closed   bool

	logger *logging.Logger
}

// New собирает движок. Сохранение не загружается: для этого есть Load.
func New(opts Options) (*Engine, error) {
	if opts.NoiseBackend == "" {
		opts.NoiseBackend = "simplex"
	}
	if opts.RefinePerTick <= 0 {
		opts.RefinePerTick = DefaultRefinePerTick
	}

	gen, err := world.NewWorldGeneratorWithBackend(opts.Seed, opts.NoiseBackend)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:      opts,
		generator: gen,
		store:     world.NewChunkStore(gen),
		mesher:    mesh.NewMesher(),
		adapter:   opts.Storage,
		bus:       opts.Bus,
		metrics:   NewMetrics(opts.Registerer),
		touched:   make(map[vec.Vec2]struct{}),
		start:     time.Now(),
		commands:  make(chan command),
		stopped:   make(chan struct{}),
		logger:    logging.GetWorldLogger(),
	}
	e.cache = mesh.NewCache(e.mesher, e.store)
	e.store.SetInvalidator(e.cache)
	e.store.OnEdit(func(coords vec.Vec2) {
		e.touched[coords] = struct{}{}
	})
	e.fluid = fluid.NewSimulator(e.store, opts.FluidInterval)

	if opts.UsePipeline {
		e.pipeline = pipeline.New(gen, e.mesher, pipeline.Options{
			MaxWorkers:   opts.MaxWorkers,
			ResultBuffer: opts.ResultBuffer,
			Resident:     e.store.Has,
		})
	}

	e.logger.Info("🌍 Движок мира создан: seed=%d noise=%s pipeline=%v", opts.Seed, opts.NoiseBackend, opts.UsePipeline)
	return e, nil
}

// Store хранилище чанков
func (e *Engine) Store() *world.ChunkStore {
	return e.store
}

// Generator генератор мира
func (e *Engine) Generator() *world.WorldGenerator {
	return e.generator
}

// OnChanged добавляет обработчик изменений. Вызывается в горутине движка.
func (e *Engine) OnChanged(fn func(ChangeEvent)) {
	e.listeners = append(e.listeners, fn)
}

// SetActive задаёт чанки, в которых течёт жидкость
func (e *Engine) SetActive(coords []vec.Vec2) {
	e.active = append(e.active[:0], coords...)
}

// Active текущий набор активных чанков
func (e *Engine) Active() []vec.Vec2 {
	return append([]vec.Vec2(nil), e.active...)
}

// Load загружает сохранение, если оно есть
func (e *Engine) Load(ctx context.Context) (int, error) {
	if e.adapter == nil {
		return 0, nil
	}
	n, err := e.adapter.Load(ctx, e.store)
	if err != nil {
		return 0, err
	}
	e.updateGauges()
	return n, nil
}

// Run цикл горутины-потребителя. Возвращается после отмены ctx,
// предварительно сохранив мир и остановив конвейер.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(e.stopped)

	// Тикер чаще интервала: Tick сам держит сетку шагов, опоздание тикера не теряет шаг
	fluidTicker := time.NewTicker(fluidPollPeriod(e.fluid.Interval()))
	defer fluidTicker.Stop()

	var autosave <-chan time.Time
	if e.adapter != nil && e.opts.AutosaveInterval > 0 {
		t := time.NewTicker(e.opts.AutosaveInterval)
		defer t.Stop()
		autosave = t.C
	}

	var results <-chan pipeline.Result
	if e.pipeline != nil {
		results = e.pipeline.Results()
	}

	e.logger.Info("Цикл мира запущен")
	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return nil
		case cmd := <-e.commands:
			cmd.reply <- cmd.fn(e)
		case res := <-results:
			e.install(res)
			e.refine()
		case <-fluidTicker.C:
			e.Step(time.Since(e.start))
		case <-autosave:
			if _, err := e.Save(ctx); err != nil {
				e.logger.Error("Автосохранение не удалось: %v", err)
			}
		}
	}
}

func fluidPollPeriod(interval time.Duration) time.Duration {
	if p := interval / 4; p > 0 {
		return p
	}
	return interval
}

// Do выполняет fn в горутине движка и возвращает её ошибку.
// До запуска Run ждёт его или отмены ctx.
func (e *Engine) Do(ctx context.Context, fn func(*Engine) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case e.commands <- cmd:
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// Принятая команда всегда получает ответ
	return <-cmd.reply
}

// Step один шаг потребителя: забирает готовые чанки, продвигает жидкость,
// уточняет меши. Возвращает true, если жидкость что-то изменила.
func (e *Engine) Step(now time.Duration) bool {
	if e.pipeline != nil {
		e.pipeline.Drain(e.install)
	}

	before := e.fluid.Stats().CellsFilled
	changed := e.fluid.Tick(e.active, now)
	if changed {
		cells := int(e.fluid.Stats().CellsFilled - before)
		e.metrics.FluidSteps.Inc()
		e.metrics.FluidCells.Add(float64(cells))
		e.notify(ChangeEvent{Kind: ChangeFluid, Chunks: e.takeTouched(), Cells: cells})
	}

	e.refine()
	e.updateGauges()
	return changed
}

func (e *Engine) refine() {
	if n := e.cache.Refine(e.opts.RefinePerTick); n > 0 {
		e.metrics.MeshRefined.Add(float64(n))
	}
}

// install принимает результат конвейера
func (e *Engine) install(res pipeline.Result) {
	defer e.pipeline.Complete(res.Coords)

	if !e.pipeline.InFlight(res.Coords) || e.store.Has(res.Coords) {
		// после Reset или синхронной загрузки того же чанка
		e.metrics.StaleResults.Inc()
		return
	}

	e.store.Install(res.Chunk)
	e.cache.Put(res.Coords, res.Mesh)

	e.metrics.ChunksGenerated.Inc()
	e.metrics.GenerationTime.Observe(res.Duration.Seconds())
	e.notify(ChangeEvent{Kind: ChangeChunkLoaded, Chunks: []vec.Vec2{res.Coords}})
}

// Request запрашивает чанк. Без конвейера генерирует его сразу.
func (e *Engine) Request(coords vec.Vec2) bool {
	if e.store.Has(coords) {
		return false
	}
	if e.pipeline != nil {
		return e.pipeline.Request(coords)
	}
	e.store.Ensure(coords)
	e.notify(ChangeEvent{Kind: ChangeChunkLoaded, Chunks: []vec.Vec2{coords}})
	return true
}

// EnsureArea запрашивает квадрат чанков вокруг center. Возвращает число принятых запросов.
func (e *Engine) EnsureArea(center vec.Vec2, radius int) int {
	n := 0
	for _, c := range vec.Area(center, radius) {
		if e.Request(c) {
			n++
		}
	}
	return n
}

// Mesh меш чанка; nil, если чанк не загружен
func (e *Engine) Mesh(coords vec.Vec2) *mesh.Data {
	d, _ := e.cache.GetOrBuild(coords)
	return d
}

// GetBlock блок по мировым координатам
func (e *Engine) GetBlock(wx, wy, wz int) block.BlockID {
	return e.store.GetBlock(wx, wy, wz)
}

// SetBlock правка блока. При save_on_edit мир сохраняется сразу.
func (e *Engine) SetBlock(wx, wy, wz int, id block.BlockID) bool {
	if !e.store.SetBlock(wx, wy, wz, id) {
		return false
	}
	e.metrics.BlockEdits.Inc()
	e.notify(ChangeEvent{Kind: ChangeEdited, Chunks: e.takeTouched(), Cells: 1})

	if e.opts.SaveOnEdit {
		if _, err := e.Save(context.Background()); err != nil {
			e.logger.Error("Сохранение после правки не удалось: %v", err)
		}
	}
	return true
}

// Save сохраняет изменённые чанки
func (e *Engine) Save(ctx context.Context) (int, error) {
	if e.adapter == nil {
		return 0, nil
	}
	e.logger.Debug("Начато сохранение мира...")
	n, err := e.adapter.Save(ctx, e.store)
	if err != nil {
		e.metrics.SaveErrors.Inc()
		return 0, err
	}
	e.metrics.Saves.Inc()
	e.publish(eventbus.TypeWorldSaved, eventbus.ChunkPayload{Cells: n})
	e.logger.Debug("Сохранение мира завершено: %d чанков", n)
	return n, nil
}

// Export снимок изменённых чанков
func (e *Engine) Export() map[string]string {
	return storage.Export(e.store)
}

// Import устанавливает чанки из снимка целиком или не устанавливает ничего
func (e *Engine) Import(data map[string]string) (int, error) {
	n, err := storage.Import(e.store, data)
	if err != nil {
		return 0, err
	}
	coords := make([]vec.Vec2, 0, len(data))
	for key := range data {
		if c, err := vec.ParseKey(key); err == nil {
			coords = append(coords, c)
		}
	}
	e.notify(ChangeEvent{Kind: ChangeChunkLoaded, Chunks: coords})
	e.updateGauges()
	return n, nil
}

// Reset очищает мир и удаляет сохранение
func (e *Engine) Reset(ctx context.Context) error {
	e.store.Reset()
	e.cache.InvalidateAll()
	e.fluid.Reset()
	if e.pipeline != nil {
		e.pipeline.Reset()
	}
	e.touched = make(map[vec.Vec2]struct{})
	e.updateGauges()
	e.notify(ChangeEvent{Kind: ChangeReset})

	if e.adapter != nil {
		if err := e.adapter.Clear(ctx); err != nil {
			return err
		}
	}
	e.logger.Info("Мир сброшен")
	return nil
}

// Stats сводка состояния
func (e *Engine) Stats() Stats {
	st := Stats{
		Chunks: e.store.Len(),
		Dirty:  len(e.store.Dirty()),
		Active: len(e.active),
		Mesh:   e.cache.Stats(),
		Fluid:  e.fluid.Stats(),
	}
	if e.pipeline != nil {
		st.Pipeline = e.pipeline.Stats()
	}
	return st
}

// Close останавливает конвейер. Для движка, запущенного через Run,
// достаточно отменить контекст.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if e.pipeline != nil {
		e.pipeline.Close()
	}
}

func (e *Engine) shutdown() {
	e.logger.Info("Остановка цикла мира")
	ctx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
	defer cancel()
	if _, err := e.Save(ctx); err != nil {
		e.logger.Error("Финальное сохранение не удалось: %v", err)
	}
	e.Close()
}

func (e *Engine) takeTouched() []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(e.touched))
	for c := range e.touched {
		out = append(out, c)
	}
	e.touched = make(map[vec.Vec2]struct{})
	vec.SortCoords(out)
	return out
}

func (e *Engine) notify(ev ChangeEvent) {
	for _, fn := range e.listeners {
		fn(ev)
	}

	keys := make([]string, len(ev.Chunks))
	for i, c := range ev.Chunks {
		keys[i] = c.Key()
	}
	e.publish(ev.Kind, eventbus.ChunkPayload{Chunks: keys, Cells: ev.Cells})
}

func (e *Engine) publish(eventType string, payload eventbus.ChunkPayload) {
	if e.bus == nil {
		return
	}
	env, err := eventbus.NewEnvelope("engine", eventType, payload)
	if err != nil {
		e.logger.Warn("Событие %s не создано: %v", eventType, err)
		return
	}
	if err := e.bus.Publish(context.Background(), env); err != nil {
		e.logger.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}

func (e *Engine) updateGauges() {
	e.metrics.ChunksLoaded.Set(float64(e.store.Len()))
	e.metrics.ChunksDirty.Set(float64(len(e.store.Dirty())))
	e.metrics.MeshCacheEntries.Set(float64(e.cache.Len()))
}

// String краткое описание для логов
func (e *Engine) String() string {
	return fmt.Sprintf("engine(seed=%d chunks=%d)", e.opts.Seed, e.store.Len())
}
