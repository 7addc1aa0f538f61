// Package storage сохраняет изменённые чанки мира в одном из key-value бэкендов.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound ключ отсутствует в хранилище
var ErrNotFound = errors.New("ключ не найден")

// ByteStore минимальное key-value хранилище, поверх которого работает Adapter.
type ByteStore interface {
	// Get возвращает значение ключа или ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put записывает значение целиком, заменяя прежнее.
	Put(ctx context.Context, key string, value []byte) error

	// Delete удаляет ключ. Отсутствующий ключ не считается ошибкой.
	Delete(ctx context.Context, key string) error

	// Close освобождает соединения.
	Close() error
}

// MemoryStore хранилище в памяти для тестов и режима без сохранения
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore создаёт пустое хранилище в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)

	m.mu.Lock()
	m.data[key] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
