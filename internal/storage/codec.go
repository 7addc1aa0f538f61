package storage

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
)

// ErrCorrupt сохранение не удалось разобрать
var ErrCorrupt = errors.New("повреждённое сохранение")

// Export собирает изменённые загруженные чанки: "cx,cz" -> base64 сырых 32768 байт.
// Вызывается из горутины-владельца хранилища.
func Export(store *world.ChunkStore) map[string]string {
	out := make(map[string]string)
	for _, coords := range store.Dirty() {
		chunk, ok := store.Chunk(coords)
		if !ok {
			continue
		}
		out[coords.Key()] = base64.StdEncoding.EncodeToString(chunk.Bytes())
	}
	return out
}

// Decode разбирает снимок целиком, ничего не применяя
func Decode(data map[string]string) ([]*world.Chunk, error) {
	chunks := make([]*world.Chunk, 0, len(data))
	for key, encoded := range data {
		coords, err := vec.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: ключ %q: %v", ErrCorrupt, key, err)
		}
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: чанк %s: %v", ErrCorrupt, key, err)
		}
		chunk, err := world.ChunkFromBytes(coords, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: чанк %s: %v", ErrCorrupt, key, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Import устанавливает чанки снимка в хранилище и помечает их изменёнными.
// Если хоть одна запись повреждена, не применяется ничего.
func Import(store *world.ChunkStore, data map[string]string) (int, error) {
	chunks, err := Decode(data)
	if err != nil {
		return 0, err
	}
	for _, chunk := range chunks {
		store.Install(chunk)
		store.MarkDirty(chunk.Coords)
	}
	return len(chunks), nil
}
