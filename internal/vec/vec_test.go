package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkOfFloorsNegatives(t *testing.T) {
	cases := []struct {
		wx, wz int
		want   Vec2
	}{
		{0, 0, Vec2{0, 0}},
		{15, 15, Vec2{0, 0}},
		{16, 0, Vec2{1, 0}},
		{-1, -1, Vec2{-1, -1}},
		{-16, -17, Vec2{-1, -2}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ChunkOf(c.wx, c.wz), "чанк для (%d,%d)", c.wx, c.wz)
	}
}

func TestLocalRoundTrip(t *testing.T) {
	for wx := -40; wx <= 40; wx += 3 {
		for wz := -40; wz <= 40; wz += 7 {
			p := Vec3{X: wx, Y: 5, Z: wz}
			l := p.Local()
			assert.True(t, l.X >= 0 && l.X < 16 && l.Z >= 0 && l.Z < 16)
			assert.Equal(t, p, FromLocal(p.Chunk(), l.X, l.Y, l.Z))
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	v := Vec2{X: -3, Y: 12}
	assert.Equal(t, "-3,12", v.Key())

	back, err := ParseKey(v.Key())
	require.NoError(t, err)
	assert.Equal(t, v, back)

	_, err = ParseKey("1;2")
	assert.Error(t, err)
	_, err = ParseKey("a,2")
	assert.Error(t, err)
}

func TestAreaOrderAndSize(t *testing.T) {
	area := Area(Vec2{X: 2, Y: -1}, 2)
	assert.Len(t, area, 25)
	assert.Equal(t, Vec2{X: 2, Y: -1}, area[0], "центр идёт первым")

	seen := make(map[Vec2]bool)
	for _, c := range area {
		assert.False(t, seen[c], "дубликат %v", c)
		seen[c] = true
	}
}

func TestNeighbors4(t *testing.T) {
	n := Vec2{X: 0, Y: 0}.Neighbors4()
	assert.ElementsMatch(t, []Vec2{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}, n[:])
}

func TestSortCoords(t *testing.T) {
	cs := []Vec2{{X: 1, Y: 0}, {X: -1, Y: 5}, {X: 1, Y: -3}, {X: -1, Y: -2}}
	SortCoords(cs)
	assert.Equal(t, []Vec2{{X: -1, Y: -2}, {X: -1, Y: 5}, {X: 1, Y: -3}, {X: 1, Y: 0}}, cs)
}
