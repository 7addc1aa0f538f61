package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MariaStore хранит сохранения в таблице world_saves MariaDB/MySQL.
type MariaStore struct {
	db *sql.DB
}

// NewMariaStore подключается к базе и создаёт таблицу при необходимости.
//
// Параметры:
//
//	dsn - строка подключения к базе данных (user:pass@tcp(host:port)/dbname)
func NewMariaStore(ctx context.Context, dsn string) (*MariaStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	store := &MariaStore{db: db}
	if err := store.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}
	return store, nil
}

func (m *MariaStore) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS world_saves (
			save_key   VARCHAR(128) PRIMARY KEY,
			payload    LONGBLOB     NOT NULL,
			updated_at TIMESTAMP    DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE    CURRENT_TIMESTAMP
		) ENGINE=InnoDB
	`
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы world_saves: %w", err)
	}
	return nil
}

func (m *MariaStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := m.db.QueryRowContext(ctx, `SELECT payload FROM world_saves WHERE save_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки сохранения %s: %w", key, err)
	}
	return payload, nil
}

// Put использует INSERT ... ON DUPLICATE KEY UPDATE для перезаписи
func (m *MariaStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO world_saves (save_key, payload)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE
			payload = VALUES(payload),
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := m.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("ошибка сохранения %s: %w", key, err)
	}
	return nil
}

func (m *MariaStore) Delete(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM world_saves WHERE save_key = ?`, key); err != nil {
		return fmt.Errorf("ошибка удаления сохранения %s: %w", key, err)
	}
	return nil
}

func (m *MariaStore) Close() error {
	return m.db.Close()
}
