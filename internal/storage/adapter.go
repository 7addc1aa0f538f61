package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/world"
)

// DefaultKey ключ, под которым хранится снимок мира
const DefaultKey = "voxelcraft_world_v1"

// Adapter сохраняет весь снимок изменённых чанков одним JSON-объектом под одним ключом
type Adapter struct {
	store  ByteStore
	key    string
	logger *logging.Logger
}

// NewAdapter создаёт адаптер. Пустой key означает DefaultKey.
func NewAdapter(store ByteStore, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key, logger: logging.GetStorageLogger()}
}

// Key ключ сохранения
func (a *Adapter) Key() string {
	return a.key
}

// Save экспортирует изменённые чанки и записывает снимок. Возвращает число чанков.
func (a *Adapter) Save(ctx context.Context, w *world.ChunkStore) (int, error) {
	snapshot := Export(w)
	if err := a.SaveSnapshot(ctx, snapshot); err != nil {
		return 0, err
	}
	return len(snapshot), nil
}

// SaveSnapshot записывает готовый снимок (его можно собрать в горутине мира,
// а записать в любой другой)
func (a *Adapter) SaveSnapshot(ctx context.Context, snapshot map[string]string) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("ошибка сериализации снимка: %w", err)
	}
	if err := a.store.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("ошибка сохранения мира: %w", err)
	}
	a.logger.Debug("Мир сохранён: %d чанков, %d байт", len(snapshot), len(data))
	return nil
}

// Load читает снимок и устанавливает чанки. Отсутствие сохранения - не ошибка.
// Повреждённое сохранение логируется и считается отсутствующим.
func (a *Adapter) Load(ctx context.Context, w *world.ChunkStore) (int, error) {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if errors.Is(err, ErrCorrupt) {
		a.logger.Warn("Сохранение %s повреждено, мир начнётся заново: %v", a.key, err)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка загрузки мира: %w", err)
	}

	var snapshot map[string]string
	if err := json.Unmarshal(data, &snapshot); err != nil {
		a.logger.Warn("Сохранение %s повреждено, мир начнётся заново: %v", a.key, err)
		return 0, nil
	}

	n, err := Import(w, snapshot)
	if err != nil {
		a.logger.Warn("Сохранение %s повреждено, мир начнётся заново: %v", a.key, err)
		return 0, nil
	}

	a.logger.Info("Загружено %d изменённых чанков", n)
	return n, nil
}

// Clear удаляет сохранение
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		return fmt.Errorf("ошибка удаления сохранения: %w", err)
	}
	return nil
}

// Close закрывает нижележащее хранилище
func (a *Adapter) Close() error {
	return a.store.Close()
}
