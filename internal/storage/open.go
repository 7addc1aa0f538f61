package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Имена бэкендов
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendMongo  = "mongo"
)

// ErrUnknownBackend неизвестное имя бэкенда хранилища
var ErrUnknownBackend = errors.New("неизвестный бэкенд хранилища")

// Options параметры открытия хранилища
type Options struct {
	Backend  string
	Path     string // каталог для file и badger
	Compress bool   // сжимать значения zstd
	Redis    RedisConfig
	MySQLDSN string
	Mongo    MongoConfig
}

// Open открывает хранилище по имени бэкенда
func Open(ctx context.Context, opts Options) (ByteStore, error) {
	var (
		store ByteStore
		err   error
	)

	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		store = NewMemoryStore()
	case BackendFile:
		store, err = NewFileStore(opts.Path)
	case BackendBadger:
		store, err = NewBadgerStore(opts.Path)
	case BackendRedis:
		store, err = NewRedisStore(ctx, &opts.Redis)
	case BackendMySQL, "mariadb":
		store, err = NewMariaStore(ctx, opts.MySQLDSN)
	case BackendMongo, "mongodb":
		store, err = NewMongoStore(ctx, opts.Mongo)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if opts.Compress {
		compressed, err := NewCompressedStore(store)
		if err != nil {
			store.Close()
			return nil, err
		}
		return compressed, nil
	}
	return store, nil
}
