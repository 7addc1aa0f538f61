package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-terrain/internal/eventbus"
	"github.com/annel0/voxel-terrain/internal/storage"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	e, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

// record собирает уведомления движка
func record(e *Engine) *[]ChangeEvent {
	var events []ChangeEvent
	e.OnChanged(func(ev ChangeEvent) {
		events = append(events, ev)
	})
	return &events
}

func kinds(events []ChangeEvent, kind string) []ChangeEvent {
	var out []ChangeEvent
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(Options{NoiseBackend: "fractal"})
	assert.Error(t, err)
}

func TestRequestSyncGeneratesChunk(t *testing.T) {
	e := newEngine(t, Options{})
	events := record(e)

	assert.Nil(t, e.Mesh(vec.Vec2{}), "чанк ещё не загружен")
	require.True(t, e.Request(vec.Vec2{}))
	assert.False(t, e.Request(vec.Vec2{}), "повторный запрос отклоняется")

	c, ok := e.Store().Chunk(vec.Vec2{})
	require.True(t, ok)
	expected := e.Generator().GenerateChunk(vec.Vec2{})
	assert.Equal(t, expected.Bytes(), c.Bytes())

	m := e.Mesh(vec.Vec2{})
	require.NotNil(t, m)
	assert.False(t, m.Provisional)
	assert.False(t, m.Empty())

	loaded := kinds(*events, ChangeChunkLoaded)
	require.Len(t, loaded, 1)
	assert.Equal(t, []vec.Vec2{{}}, loaded[0].Chunks)
}

func TestEnsureArea(t *testing.T) {
	e := newEngine(t, Options{})
	assert.Equal(t, 9, e.EnsureArea(vec.Vec2{X: 3, Y: -2}, 1))
	assert.Equal(t, 9, e.Store().Len())
	assert.Equal(t, 0, e.EnsureArea(vec.Vec2{X: 3, Y: -2}, 1))
}

func TestSetBlockNotifies(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newEngine(t, Options{Registerer: reg})
	events := record(e)
	e.Request(vec.Vec2{})

	require.True(t, e.SetBlock(1, 120, 1, block.StoneBlockID))
	assert.Equal(t, block.StoneBlockID, e.GetBlock(1, 120, 1))
	assert.False(t, e.SetBlock(0, 0, 0, block.AirBlockID), "бедрок не ломается")
	assert.False(t, e.SetBlock(100, 10, 100, block.StoneBlockID), "чанк не загружен")

	edited := kinds(*events, ChangeEdited)
	require.Len(t, edited, 1)
	assert.Equal(t, []vec.Vec2{{}}, edited[0].Chunks)
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.BlockEdits))
	assert.True(t, e.Store().IsDirty(vec.Vec2{}))
}

func TestSaveOnEditAndLoad(t *testing.T) {
	bs := storage.NewMemoryStore()
	e := newEngine(t, Options{Storage: storage.NewAdapter(bs, ""), SaveOnEdit: true})
	e.Request(vec.Vec2{X: -1})
	require.True(t, e.SetBlock(-3, 120, 2, block.PlanksBlockID))

	data, err := bs.Get(context.Background(), storage.DefaultKey)
	require.NoError(t, err)
	assert.NotEmpty(t, data, "сохранено сразу после правки")

	restored := newEngine(t, Options{Storage: storage.NewAdapter(bs, "")})
	n, err := restored.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, block.PlanksBlockID, restored.GetBlock(-3, 120, 2))
	assert.False(t, restored.Request(vec.Vec2{X: -1}), "загруженный чанк не генерируется заново")
}

func TestFluidStepNotifies(t *testing.T) {
	e := newEngine(t, Options{})
	events := record(e)
	e.Store().Install(world.NewChunk(vec.Vec2{}))
	require.True(t, e.SetBlock(5, 10, 5, block.WaterBlockID))
	e.SetActive([]vec.Vec2{{}})

	require.True(t, e.Step(time.Second))
	assert.Equal(t, block.WaterBlockID, e.GetBlock(5, 9, 5))
	assert.False(t, e.Step(time.Second), "интервал не истёк")

	fluid := kinds(*events, ChangeFluid)
	require.Len(t, fluid, 1)
	assert.Equal(t, []vec.Vec2{{}}, fluid[0].Chunks)
	assert.Equal(t, 1, fluid[0].Cells)
}

func TestResetClearsWorldAndSave(t *testing.T) {
	bs := storage.NewMemoryStore()
	e := newEngine(t, Options{Storage: storage.NewAdapter(bs, "")})
	events := record(e)
	e.Request(vec.Vec2{})
	require.True(t, e.SetBlock(2, 120, 2, block.StoneBlockID))
	n, err := e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, e.Reset(context.Background()))
	assert.Equal(t, 0, e.Store().Len())
	assert.Empty(t, e.Store().Dirty())
	assert.Nil(t, e.Mesh(vec.Vec2{}))
	assert.Len(t, kinds(*events, ChangeReset), 1)

	_, err = bs.Get(context.Background(), storage.DefaultKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExportImport(t *testing.T) {
	e := newEngine(t, Options{})
	e.Request(vec.Vec2{X: 2, Y: 2})
	require.True(t, e.SetBlock(40, 120, 40, block.TorchBlockID))
	snapshot := e.Export()
	require.Len(t, snapshot, 1)

	other := newEngine(t, Options{})
	n, err := other.Import(snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, block.TorchBlockID, other.GetBlock(40, 120, 40))
	require.NotNil(t, other.Mesh(vec.Vec2{X: 2, Y: 2}))
	assert.Len(t, other.Mesh(vec.Vec2{X: 2, Y: 2}).Emitters, 1)

	_, err = other.Import(map[string]string{"0,0": "не base64"})
	assert.Error(t, err)
}

func TestEventsPublishedToBus(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	var mu sync.Mutex
	var got []string
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{}, func(ctx context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		got = append(got, ev.EventType)
		mu.Unlock()
	})
	require.NoError(t, err)

	e := newEngine(t, Options{Bus: bus})
	e.Request(vec.Vec2{})
	e.SetBlock(1, 120, 1, block.StoneBlockID)
	require.NoError(t, bus.Close())

	assert.Equal(t, []string{eventbus.TypeChunkLoaded, eventbus.TypeChunkEdited}, got)
}

func TestRunWithPipeline(t *testing.T) {
	e, err := New(Options{Seed: 7, UsePipeline: true, MaxWorkers: 2, FluidInterval: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	var accepted int
	require.NoError(t, e.Do(ctx, func(e *Engine) error {
		accepted = e.EnsureArea(vec.Vec2{}, 1)
		return nil
	}))
	assert.Equal(t, 9, accepted)

	require.Eventually(t, func() bool {
		var n int
		_ = e.Do(ctx, func(e *Engine) error {
			n = e.Store().Len()
			return nil
		})
		return n == 9
	}, 10*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		var refined bool
		_ = e.Do(ctx, func(e *Engine) error {
			m := e.Mesh(vec.Vec2{})
			refined = m != nil && !m.Provisional
			return nil
		})
		return refined
	}, 5*time.Second, 20*time.Millisecond, "предварительный меш уточняется в цикле")

	assert.ErrorIs(t, e.Run(ctx), ErrRunning)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run не завершился")
	}
	assert.ErrorIs(t, e.Do(context.Background(), func(*Engine) error { return nil }), ErrStopped)
}

// Цикл должен делать шаг жидкости на каждый интервал, а не на каждый второй
func TestRunKeepsFluidRate(t *testing.T) {
	const interval = 25 * time.Millisecond
	begin := time.Now()
	e, err := New(Options{Seed: 3, FluidInterval: interval})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(time.Second)

	var steps uint64
	require.NoError(t, e.Do(ctx, func(e *Engine) error {
		steps = e.Stats().Fluid.Steps
		return nil
	}))
	expected := float64(time.Since(begin) / interval)

	cancel()
	require.NoError(t, <-done)

	assert.GreaterOrEqual(t, float64(steps), expected*0.85, "шагов %d при ожидаемых %.0f", steps, expected)
	assert.LessOrEqual(t, float64(steps), expected+1, "не больше одного шага на интервал")
}

func TestFluidPollPeriod(t *testing.T) {
	assert.Equal(t, 50*time.Millisecond, fluidPollPeriod(200*time.Millisecond))
	assert.Equal(t, 3*time.Nanosecond, fluidPollPeriod(3*time.Nanosecond))
}
