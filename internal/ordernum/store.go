package ordernum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/go-redis/redis/v8"
)

// Persisted keys
const (
	KeyCounter   = "orderCounter"
	KeyMapping   = "orderMapping"
	KeyResetDate = "lastOrderResetDate"
)

// State is everything the allocator persists
type State struct {
	Counter       int               `json:"orderCounter"`
	Mapping       map[string]string `json:"orderMapping"`
	LastResetDate string            `json:"lastOrderResetDate"`
}

func (s State) clone() State {
	mapping := make(map[string]string, len(s.Mapping))
	for k, v := range s.Mapping {
		mapping[k] = v
	}
	s.Mapping = mapping
	return s
}

// Store persists allocator state. Update applies fn to the current state
// and writes the result as one atomic step; fn may run more than once.
type Store interface {
	Load(ctx context.Context) (State, error)
	Update(ctx context.Context, fn func(*State) error) error
}

// MemoryStore keeps state in process memory
type MemoryStore struct {
	mu    sync.Mutex
	state State
}

// NewMemoryStore returns an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: State{Mapping: map[string]string{}}}
}

// Load returns a copy of the current state
func (m *MemoryStore) Load(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone(), nil
}

// Save replaces the current state with a copy of state
func (m *MemoryStore) Save(_ context.Context, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.clone()
	return nil
}

func (m *MemoryStore) Update(_ context.Context, fn func(*State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.state.clone()
	if err := fn(&state); err != nil {
		return err
	}
	m.state = state.clone()
	return nil
}

// FileStore keeps state in a JSON file on the terminal's disk. The file
// belongs to a single terminal process.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path, created on first save
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the file, treating a missing file as a fresh state
func (f *FileStore) Load(context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Save writes through a temp file so a crash never leaves a partial file
func (f *FileStore) Save(_ context.Context, state State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(state)
}

func (f *FileStore) Update(_ context.Context, fn func(*State) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return err
	}
	if err := fn(&state); err != nil {
		return err
	}
	return f.write(state)
}

func (f *FileStore) read() (State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{Mapping: map[string]string{}}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read %s: %w", f.path, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if state.Mapping == nil {
		state.Mapping = map[string]string{}
	}
	return state, nil
}

func (f *FileStore) write(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// maxTxRetries bounds optimistic retries when another terminal commits first
const maxTxRetries = 32

// ErrContention is returned when a Redis update keeps losing to other terminals
var ErrContention = errors.New("display number update contention")

// RedisStore shares state between terminals through Redis. Updates run
// under WATCH so two terminals never hand out the same number.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects lazily to the configured Redis server
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.KeyPrefix,
	}
}

// Ping checks the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}

func (r *RedisStore) keys() []string {
	return []string{r.key(KeyCounter), r.key(KeyMapping), r.key(KeyResetDate)}
}

type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// Load reads the three state keys in one round trip
func (r *RedisStore) Load(ctx context.Context) (State, error) {
	return r.read(ctx, r.client)
}

// Save overwrites the state keys in a MULTI block
func (r *RedisStore) Save(ctx context.Context, state State) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return r.write(ctx, pipe, state)
	})
	if err != nil {
		return fmt.Errorf("save display numbers: %w", err)
	}
	return nil
}

// Update watches the state keys, applies fn and commits with EXEC. A
// commit that races another terminal is retried against the new state.
func (r *RedisStore) Update(ctx context.Context, fn func(*State) error) error {
	txf := func(tx *redis.Tx) error {
		state, err := r.read(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(&state); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return r.write(ctx, pipe, state)
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, r.keys()...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update display numbers: %w", err)
		}
		return nil
	}
	return fmt.Errorf("update display numbers: %w", ErrContention)
}

func (r *RedisStore) read(ctx context.Context, c multiGetter) (State, error) {
	values, err := c.MGet(ctx, r.keys()...).Result()
	if err != nil {
		return State{}, fmt.Errorf("load display numbers: %w", err)
	}

	state := State{Mapping: map[string]string{}}
	if raw, ok := values[0].(string); ok {
		counter, err := strconv.Atoi(raw)
		if err != nil {
			return State{}, fmt.Errorf("parse %s: %w", KeyCounter, err)
		}
		state.Counter = counter
	}
	if raw, ok := values[1].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Mapping); err != nil {
			return State{}, fmt.Errorf("parse %s: %w", KeyMapping, err)
		}
	}
	if raw, ok := values[2].(string); ok {
		state.LastResetDate = raw
	}
	return state, nil
}

func (r *RedisStore) write(ctx context.Context, pipe redis.Pipeliner, state State) error {
	mapping, err := json.Marshal(state.Mapping)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyMapping, err)
	}
	pipe.Set(ctx, r.key(KeyCounter), state.Counter, 0)
	pipe.Set(ctx, r.key(KeyMapping), mapping, 0)
	pipe.Set(ctx, r.key(KeyResetDate), state.LastResetDate, 0)
	return nil
}

// NewStore builds the store selected by configuration
func NewStore(cfg config.NumberingConfig) (Store, error) {
	switch cfg.Backend {
	case config.NumberingMemory, "":
		return NewMemoryStore(), nil
	case config.NumberingFile:
		return NewFileStore(cfg.FilePath), nil
	case config.NumberingRedis:
		return NewRedisStore(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unknown numbering backend: %s", cfg.Backend)
	}
}
