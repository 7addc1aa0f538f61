package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore хранит каждый ключ в отдельном файле каталога.
// Запись атомарна: временный файл и переименование.
type FileStore struct {
	basePath string
	mu       sync.Mutex
}

// NewFileStore создаёт каталог хранилища при необходимости
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (fs *FileStore) filename(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(fs.basePath, safe+".json")
}

func (fs *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(fs.filename(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", key, err)
	}
	return data, nil
}

func (fs *FileStore) Put(ctx context.Context, key string, value []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	target := fs.filename(key)
	tmp, err := os.CreateTemp(fs.basePath, filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ошибка записи %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка закрытия %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка переименования %s: %w", key, err)
	}
	return nil
}

func (fs *FileStore) Delete(ctx context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.filename(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления %s: %w", key, err)
	}
	return nil
}

func (fs *FileStore) Close() error { return nil }
