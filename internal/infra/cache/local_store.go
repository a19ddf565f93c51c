package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

const defaultSweepInterval = time.Minute

type localEntry struct {
	value []byte
	// zero 代表不過期
	expiresAt time.Time
}

func (e localEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

/*
LocalStore 單機記憶體版本，沒有設定 redis 時使用
不做容量淘汰，只有 ttl 到期的 key 會被背景清掉
請使用 defer 呼叫 Close()
*/
type LocalStore struct {
	mu      sync.RWMutex
	entries map[string]localEntry
	now     func() time.Time
	cancel  chan struct{}
	once    sync.Once
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore sweepInterval <= 0 時使用一分鐘
func NewLocalStore(sweepInterval time.Duration) *LocalStore {
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	l := &LocalStore{
		entries: make(map[string]localEntry),
		now:     time.Now,
		cancel:  make(chan struct{}),
	}
	go l.sweep(sweepInterval)
	return l
}

func (l *LocalStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.cancel:
			return
		case <-ticker.C:
			l.removeExpired()
		}
	}
}

func (l *LocalStore) removeExpired() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, e := range l.entries {
		if e.expired(now) {
			delete(l.entries, key)
		}
	}
}

// lookup 呼叫端需持有鎖
func (l *LocalStore) lookup(key string) (localEntry, bool) {
	e, ok := l.entries[key]
	if !ok || e.expired(l.now()) {
		return localEntry{}, false
	}
	return e, true
}

func (l *LocalStore) Ping(ctx context.Context) error {
	return nil
}

func (l *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.lookup(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (l *LocalStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	e := localEntry{value: v}
	if ttl > 0 {
		e.expiresAt = l.now().Add(ttl)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = e
	return nil
}

func (l *LocalStore) Delete(ctx context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range keys {
		delete(l.entries, key)
	}
	return nil
}

func (l *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.lookup(key)
	return ok, nil
}

// counter 呼叫端需持有寫鎖
func (l *LocalStore) counter(key string) (int64, error) {
	e, ok := l.lookup(key)
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseInt(string(e.value), 10, 64)
	if err != nil {
		return 0, ErrNotNumber
	}
	return v, nil
}

func (l *LocalStore) Incr(ctx context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.counter(key)
	if err != nil {
		return 0, err
	}
	current++
	l.entries[key] = localEntry{value: []byte(strconv.FormatInt(current, 10))}
	return current, nil
}

func (l *LocalStore) RaiseCounter(ctx context.Context, key string, floor int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.counter(key)
	if err != nil {
		return 0, err
	}
	if current >= floor {
		return current, nil
	}
	l.entries[key] = localEntry{value: []byte(strconv.FormatInt(floor, 10))}
	return floor, nil
}

func (l *LocalStore) Close() error {
	l.once.Do(func() {
		close(l.cancel)
	})
	return nil
}
