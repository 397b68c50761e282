package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/roster/backend/internal/model/roster"
)

var (
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// FileStore reads and rewrites the whole data file on every call.
//
// Update and View serialise access within this process. Nothing guards against
// another process editing the same file.
type FileStore struct {
	path    string
	codec   Codec
	logger  *zap.Logger
	metrics *Metrics
	mu      sync.RWMutex
}

// Option customises a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for storage failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *FileStore) { s.logger = logger }
}

// WithMetrics records read/write counts and latency.
func WithMetrics(m *Metrics) Option {
	return func(s *FileStore) { s.metrics = m }
}

// WithCodec overrides the extension-based codec.
func WithCodec(c Codec) Option {
	return func(s *FileStore) { s.codec = c }
}

// New returns a store bound to path. The file is not touched until the first call.
func New(path string, opts ...Option) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("data file path is required")
	}
	s := &FileStore{
		path:   path,
		codec:  CodecFor(path),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

// Load reads and decodes the whole file.
func (s *FileStore) Load(ctx context.Context) (ds *roster.Dataset, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("read", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error("failed to read data file", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	ds = &roster.Dataset{}
	if err := s.codec.Decode(data, ds); err != nil {
		s.logger.Error("failed to decode data file",
			zap.String("path", s.path),
			zap.String("codec", s.codec.Name()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorageRead, s.codec.Name(), err)
	}
	ds.Normalize()
	return ds, nil
}

// Save encodes ds and overwrites the file in place.
func (s *FileStore) Save(ctx context.Context, ds *roster.Dataset) (err error) {
	start := time.Now()
	defer func() { s.metrics.observe("write", start, err) }()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	ds.Normalize()
	data, err := s.codec.Encode(ds)
	if err != nil {
		s.logger.Error("failed to encode data file", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("%w: encode %s: %v", ErrStorageWrite, s.codec.Name(), err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("failed to write data file", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// View loads the dataset and hands it to fn under the read lock.
func (s *FileStore) View(ctx context.Context, fn func(*roster.Dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return fn(ds)
}

// Update runs load, fn and save as one step. When fn fails nothing is written
// and its error is returned as is.
func (s *FileStore) Update(ctx context.Context, fn func(*roster.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	return s.Save(ctx, ds)
}
