package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overrideStartUnit(t *testing.T, fn func(int) (pond.Pool, error)) {
	t.Helper()
	orig := startUnit
	startUnit = fn
	t.Cleanup(func() { startUnit = orig })
}

func collect(t *testing.T, p *Pipeline, n int) map[vec.Vec2]Result {
	t.Helper()
	out := make(map[vec.Vec2]Result)
	timeout := time.After(30 * time.Second)
	for len(out) < n {
		select {
		case res := <-p.Results():
			out[res.Coords] = res
			p.Complete(res.Coords)
		case <-timeout:
			t.Fatalf("получено %d результатов из %d", len(out), n)
		}
	}
	return out
}

func TestUnitForAlwaysInRange(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for cx := -9; cx <= 9; cx++ {
			for cz := -9; cz <= 9; cz++ {
				u := unitFor(vec.Vec2{X: cx, Y: cz}, n)
				assert.True(t, u >= 0 && u < n, "unit %d для (%d,%d) при n=%d", u, cx, cz, n)
			}
		}
	}
	assert.Equal(t, 2, unitFor(vec.Vec2{X: -3, Y: 1}, 4))
}

func TestPipelineGeneratesSameAsGenerator(t *testing.T) {
	gen := world.NewWorldGenerator(77)
	p := New(gen, nil, Options{MaxWorkers: 3})
	defer p.Close()

	coords := vec.Area(vec.Vec2{X: -1, Y: 2}, 1)
	for _, c := range coords {
		require.True(t, p.Request(c))
	}

	results := collect(t, p, len(coords))
	for _, c := range coords {
		res, ok := results[c]
		require.True(t, ok, "нет результата для %v", c)
		assert.Equal(t, gen.GenerateChunk(c).Bytes(), res.Chunk.Bytes())
		require.NotNil(t, res.Mesh)
		assert.True(t, res.Mesh.Provisional)
		assert.Nil(t, res.Mesh.Liquid)
		assert.Nil(t, res.Mesh.Transparent)
	}
	assert.Equal(t, 0, p.Stats().InFlight)
	assert.Equal(t, uint64(len(coords)), p.Stats().Generated)
}

func TestRequestDeduplicates(t *testing.T) {
	resident := map[vec.Vec2]bool{{X: 5, Y: 5}: true}
	p := New(world.NewWorldGenerator(1), nil, Options{
		Resident: func(c vec.Vec2) bool { return resident[c] },
	})
	defer p.Close()

	assert.False(t, p.Request(vec.Vec2{X: 5, Y: 5}), "чанк уже загружен")
	assert.True(t, p.Request(vec.Vec2{X: 0, Y: 0}))
	assert.False(t, p.Request(vec.Vec2{X: 0, Y: 0}), "чанк уже в работе")
	assert.True(t, p.InFlight(vec.Vec2{}))

	collect(t, p, 1)
	assert.False(t, p.InFlight(vec.Vec2{}))
	assert.Equal(t, uint64(2), p.Stats().Rejected)
}

func TestNoUnitsFallsBackToSync(t *testing.T) {
	overrideStartUnit(t, func(int) (pond.Pool, error) {
		return nil, errors.New("нет ресурсов")
	})

	gen := world.NewWorldGenerator(3)
	p := New(gen, nil, Options{})
	defer p.Close()
	require.Zero(t, p.Workers())

	require.True(t, p.Request(vec.Vec2{X: 2, Y: -2}))

	var got []Result
	n := p.Drain(func(r Result) { got = append(got, r) })
	require.Equal(t, 1, n)
	assert.Equal(t, vec.Vec2{X: 2, Y: -2}, got[0].Coords)
	assert.Equal(t, gen.GenerateChunk(vec.Vec2{X: 2, Y: -2}).Bytes(), got[0].Chunk.Bytes())

	assert.Zero(t, p.Drain(func(Result) {}))
}

func TestFailedUnitSkipped(t *testing.T) {
	overrideStartUnit(t, func(i int) (pond.Pool, error) {
		if i == 0 {
			panic("сбой запуска")
		}
		return pond.NewPool(1), nil
	})

	p := New(world.NewWorldGenerator(3), nil, Options{MaxWorkers: 2})
	defer p.Close()

	want := logicalCPUs()
	if want > 2 {
		want = 2
	}
	assert.Equal(t, want-1, p.Workers())
}

func TestCloseRejectsRequests(t *testing.T) {
	p := New(world.NewWorldGenerator(3), nil, Options{MaxWorkers: 1})
	p.Close()
	p.Close()
	assert.False(t, p.Request(vec.Vec2{}))
}

func TestCloseDoesNotWaitForConsumer(t *testing.T) {
	p := New(world.NewWorldGenerator(3), nil, Options{MaxWorkers: 1, ResultBuffer: 1})
	for _, c := range vec.Area(vec.Vec2{}, 1) {
		p.Request(c)
	}

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Close заблокирован непрочитанными результатами")
	}
}
