package ordernum

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func newTestAllocator(store Store, now *time.Time) *Allocator {
	a := NewAllocator(store, 7)
	a.now = fixedClock(now)
	return a
}

func TestAllocatorSequence(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	a := newTestAllocator(NewMemoryStore(), &now)

	peek, err := a.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", peek)

	// peeking twice does not consume
	peek, err = a.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", peek)

	first, err := a.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", first)

	second, err := a.Assign(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "002", second)

	again, err := a.Assign(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "002", again)

	third, err := a.Assign(ctx, 43)
	require.NoError(t, err)
	assert.Equal(t, "003", third)

	peek, err = a.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, "004", peek)
}

func TestAllocatorDailyReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, State{
		Counter:       12,
		Mapping:       map[string]string{"5": "012"},
		LastResetDate: "2024-05-01",
	}))

	tests := []struct {
		name      string
		now       time.Time
		wantReset bool
	}{
		{"same day", time.Date(2024, 5, 1, 22, 0, 0, 0, time.Local), false},
		{"next day before opening", time.Date(2024, 5, 2, 6, 59, 0, 0, time.Local), false},
		{"next day at opening", time.Date(2024, 5, 2, 7, 0, 0, 0, time.Local), true},
		{"already reset today", time.Date(2024, 5, 2, 15, 0, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		now := tt.now
		a := newTestAllocator(store, &now)

		reset, err := a.CheckDailyReset(ctx)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.wantReset, reset, tt.name)
	}

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Counter)
	assert.Empty(t, state.Mapping)
	assert.Equal(t, "2024-05-02", state.LastResetDate)
}

func TestAllocatorResetBeforeAssign(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, State{
		Counter:       30,
		Mapping:       map[string]string{"9": "030"},
		LastResetDate: "2024-04-30",
	}))

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	a := newTestAllocator(store, &now)

	number, err := a.Assign(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "001", number)
}

func TestAllocatorManualReset(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	a := newTestAllocator(NewMemoryStore(), &now)

	_, err := a.Next(ctx)
	require.NoError(t, err)
	_, err = a.Next(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Reset(ctx))
	peek, err := a.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", peek)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "numbers", "state.json")
	store := NewFileStore(path)

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Counter)
	assert.NotNil(t, state.Mapping)

	want := State{Counter: 3, Mapping: map[string]string{"17": "003"}, LastResetDate: "2024-05-01"}
	require.NoError(t, store.Save(ctx, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"orderCounter": 3`)
	assert.Contains(t, string(data), `"lastOrderResetDate": "2024-05-01"`)

	got, err := NewFileStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	state := State{Counter: 1, Mapping: map[string]string{"1": "001"}}
	require.NoError(t, store.Save(ctx, state))

	state.Mapping["2"] = "002"
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Mapping, 1)
}

func TestAllocatorLookupDoesNotAllocate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	a := newTestAllocator(NewMemoryStore(), &now)

	_, ok, err := a.Lookup(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	peek, err := a.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", peek)

	assigned, err := a.Assign(ctx, 42)
	require.NoError(t, err)

	number, ok, err := a.Lookup(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, assigned, number)
}

func newRedisStore(t *testing.T, mr *miniredis.Miniredis) *RedisStore {
	store := NewRedisStore(config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "pos:"})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreSequence(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	a := newTestAllocator(newRedisStore(t, mr), &now)

	first, err := a.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", first)

	second, err := a.Assign(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "002", second)

	again, err := a.Assign(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "002", again)

	counter, err := mr.Get("pos:" + KeyCounter)
	require.NoError(t, err)
	assert.Equal(t, "2", counter)

	date, err := mr.Get("pos:" + KeyResetDate)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", date)
}

func TestRedisStoreDailyReset(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr)
	require.NoError(t, store.Save(ctx, State{
		Counter:       12,
		Mapping:       map[string]string{"5": "012"},
		LastResetDate: "2024-05-01",
	}))

	now := time.Date(2024, 5, 2, 7, 30, 0, 0, time.Local)
	a := newTestAllocator(store, &now)

	reset, err := a.CheckDailyReset(ctx)
	require.NoError(t, err)
	assert.True(t, reset)

	number, err := a.Assign(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "001", number)

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Counter)
	assert.Equal(t, map[string]string{"5": "001"}, state.Mapping)
	assert.Equal(t, "2024-05-02", state.LastResetDate)
}

func TestRedisStoreSharedBetweenTerminals(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	terminals := []*Allocator{
		newTestAllocator(newRedisStore(t, mr), &now),
		newTestAllocator(newRedisStore(t, mr), &now),
	}

	const perTerminal = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]int64{}
		errs    []error
	)
	for i, a := range terminals {
		for j := 0; j < perTerminal; j++ {
			wg.Add(1)
			go func(a *Allocator, id int64) {
				defer wg.Done()
				number, err := a.Assign(ctx, id)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				numbers[number] = id
			}(a, int64(i*perTerminal+j+1))
		}
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, 2*perTerminal)

	state, err := terminals[0].store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*perTerminal, state.Counter)
	assert.Len(t, state.Mapping, 2*perTerminal)
	for number, id := range numbers {
		assert.Equal(t, number, state.Mapping[strconv.FormatInt(id, 10)])
	}

	// one terminal sees numbers the other assigned
	number, ok, err := terminals[1].Lookup(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, state.Mapping["1"], number)
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(config.NumberingConfig{Backend: config.NumberingMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = NewStore(config.NumberingConfig{Backend: config.NumberingFile, FilePath: "x.json"})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = NewStore(config.NumberingConfig{Backend: config.NumberingRedis, Redis: config.RedisConfig{Addr: "localhost:6379"}})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	assert.NoError(t, store.(*RedisStore).Close())

	_, err = NewStore(config.NumberingConfig{Backend: "etcd"})
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	a := newTestAllocator(NewMemoryStore(), &now)

	done := make(chan struct{})
	go func() {
		a.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
