package storage

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// CompressedStore сжимает значения zstd перед записью во вложенное хранилище.
// Сохранение мира почти целиком из повторяющихся байт и хорошо сжимается.
type CompressedStore struct {
	inner        ByteStore
	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// NewCompressedStore оборачивает хранилище
func NewCompressedStore(inner ByteStore) (*CompressedStore, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &CompressedStore{inner: inner, compressor: enc, decompressor: dec}, nil
}

func (cs *CompressedStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := cs.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	out, err := cs.decompressor.DecodeAll(data, nil)
	if err != nil {
		// Битые данные под ключом - это повреждённое сохранение, а не сбой хранилища
		return nil, fmt.Errorf("%w: распаковка %s: %v", ErrCorrupt, key, err)
	}
	return out, nil
}

func (cs *CompressedStore) Put(ctx context.Context, key string, value []byte) error {
	return cs.inner.Put(ctx, key, cs.compressor.EncodeAll(value, nil))
}

func (cs *CompressedStore) Delete(ctx context.Context, key string) error {
	return cs.inner.Delete(ctx, key)
}

func (cs *CompressedStore) Close() error {
	cs.compressor.Close()
	cs.decompressor.Close()
	return cs.inner.Close()
}
