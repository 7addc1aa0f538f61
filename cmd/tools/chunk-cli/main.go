package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/annel0/voxel-terrain/internal/mesh"
	"github.com/annel0/voxel-terrain/internal/storage"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
)

func main() {
	var (
		command = flag.String("cmd", "chunk", "Command: chunk, column, export")
		seed    = flag.Int64("seed", 0, "World seed")
		backend = flag.String("noise", "simplex", "Noise backend: simplex, perlin, opensimplex")
		cx      = flag.Int("cx", 0, "Chunk X")
		cz      = flag.Int("cz", 0, "Chunk Z")
		wx      = flag.Int("x", 0, "World column X (cmd=column)")
		wz      = flag.Int("z", 0, "World column Z (cmd=column)")
		radius  = flag.Int("radius", 1, "Chunk radius around (cx,cz) for export")
		out     = flag.String("out", "save", "Output directory for export")
		key     = flag.String("key", storage.DefaultKey, "Save key for export")
	)
	flag.Parse()

	gen, err := world.NewWorldGeneratorWithBackend(*seed, *backend)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	switch *command {
	case "chunk":
		showChunk(gen, vec.Vec2{X: *cx, Y: *cz})
	case "column":
		showColumn(gen, *wx, *wz)
	case "export":
		if err := export(gen, vec.Vec2{X: *cx, Y: *cz}, *radius, *out, *key); err != nil {
			log.Fatalf("❌ Export failed: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}
}

// showChunk генерирует чанк с соседями и печатает статистику меша
func showChunk(gen *world.WorldGenerator, coords vec.Vec2) {
	store := world.NewChunkStore(gen)
	for _, c := range vec.Area(coords, 1) {
		store.Ensure(c)
	}

	start := time.Now()
	full := mesh.NewMesher().Build(store, coords)
	elapsed := time.Since(start)
	chunk, _ := store.Chunk(coords)
	provisional := mesh.NewMesher().BuildOpaque(chunk)

	fmt.Printf("🧱 Chunk %s seed=%d noise=%s\n", coords, gen.Seed, gen.Backend)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BUCKET\tQUADS\tVERTICES\tTRIANGLES")
	for _, row := range []struct {
		name string
		b    *mesh.Bucket
	}{
		{"opaque", full.Opaque},
		{"transparent", full.Transparent},
		{"liquid", full.Liquid},
		{"provisional", provisional.Opaque},
	} {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", row.name, row.b.QuadCount(), row.b.VertexCount(), row.b.TriangleCount())
	}
	w.Flush()
	fmt.Printf("💡 Emitters: %d, mesh built in %s\n", len(full.Emitters), elapsed)

	origin := coords.Origin()
	counts := make(map[string]int)
	for z := 0; z < world.ChunkSizeZ; z++ {
		for x := 0; x < world.ChunkSizeX; x++ {
			counts[gen.Column(origin.X+x, origin.Y+z).Biome.String()]++
		}
	}
	fmt.Println("🌍 Biomes:")
	for name, n := range counts {
		fmt.Printf("   %-12s %d columns\n", name, n)
	}
}

// showColumn печатает биом, высоту и блоки колонки сверху вниз до поверхности
func showColumn(gen *world.WorldGenerator, wx, wz int) {
	col := gen.Column(wx, wz)
	fmt.Printf("📍 Column (%d, %d) seed=%d\n", wx, wz, gen.Seed)
	fmt.Printf("   biome=%s height=%d continental=%.3f temperature=%.3f moisture=%.3f\n",
		col.Biome, col.Height, col.Continental, col.Temperature, col.Moisture)

	chunk := gen.GenerateChunk(vec.ChunkOf(wx, wz))
	lx, lz := wx&vec.ChunkMask, wz&vec.ChunkMask
	top := chunk.TopY(lx, lz)
	fmt.Printf("   top solid y=%d\n", top)
	for y := top + 2; y >= 0 && y >= top-8; y-- {
		fmt.Printf("   y=%3d %s\n", y, chunk.GetBlock(lx, y, lz))
	}
}

// export генерирует квадрат чанков и записывает их как сохранение в файловое хранилище
func export(gen *world.WorldGenerator, center vec.Vec2, radius int, dir, key string) error {
	store := world.NewChunkStore(gen)
	for _, c := range vec.Area(center, radius) {
		store.Ensure(c)
		store.MarkDirty(c)
	}

	fs, err := storage.NewFileStore(dir)
	if err != nil {
		return err
	}
	adapter := storage.NewAdapter(fs, key)
	defer adapter.Close()

	n, err := adapter.Save(context.Background(), store)
	if err != nil {
		return err
	}
	fmt.Printf("💾 Exported %d chunks to %s (key=%s)\n", n, dir, key)
	return nil
}
