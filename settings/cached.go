package settings

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = 5 * time.Minute

type cachedLocale struct {
	locale     string
	found      bool
	expiration time.Time
}

func (c *cachedLocale) isExpired() bool {
	if c.expiration.IsZero() {
		return false
	}
	return time.Now().After(c.expiration)
}

// CachedStore is a read-through cache in front of another Store. Misses are cached too.
type CachedStore struct {
	store      Store
	ttl        time.Duration
	items      sync.Map // map[string]*cachedLocale
	closeMu    sync.Mutex
	stopClean  chan struct{}
	cleanupInt time.Duration
}

// NewCachedStore wraps store. A ttl of zero or less keeps entries until they are overwritten.
func NewCachedStore(store Store, ttl time.Duration) *CachedStore {
	c := &CachedStore{
		store:      store,
		ttl:        ttl,
		stopClean:  make(chan struct{}),
		cleanupInt: defaultCleanupInterval,
	}
	if ttl > 0 && ttl < c.cleanupInt {
		c.cleanupInt = ttl
	}

	go c.startCleanup()

	return c
}

func (c *CachedStore) startCleanup() {
	ticker := time.NewTicker(c.cleanupInt)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopClean:
			return
		}
	}
}

func (c *CachedStore) cleanup() {
	c.items.Range(func(key, value any) bool {
		item, ok := value.(*cachedLocale)
		if ok && item.isExpired() {
			c.items.Delete(key)
		}
		return true
	})
}

func (c *CachedStore) remember(id, locale string, found bool) {
	item := &cachedLocale{locale: locale, found: found}
	if c.ttl > 0 {
		item.expiration = time.Now().Add(c.ttl)
	}
	c.items.Store(id, item)
}

// Locale serves id from the cache, asking the wrapped store once the entry expired. Misses are cached too.
func (c *CachedStore) Locale(ctx context.Context, id string) (string, bool, error) {
	if value, ok := c.items.Load(id); ok {
		item, isItem := value.(*cachedLocale)
		if isItem && !item.isExpired() {
			return item.locale, item.found, nil
		}
		c.items.Delete(id)
	}

	locale, found, err := c.store.Locale(ctx, id)
	if err != nil {
		return "", false, err
	}

	c.remember(id, locale, found)
	return locale, found, nil
}

// SetLocale writes through to the wrapped store and caches the new locale. A failed write evicts id.
func (c *CachedStore) SetLocale(ctx context.Context, id, locale string) error {
	if err := c.store.SetLocale(ctx, id, locale); err != nil {
		c.items.Delete(id)
		return err
	}
	c.remember(id, locale, true)
	return nil
}

// DeleteLocale evicts id and removes it from the wrapped store.
func (c *CachedStore) DeleteLocale(ctx context.Context, id string) error {
	c.items.Delete(id)
	return c.store.DeleteLocale(ctx, id)
}

// Close stops the cleanup goroutine and closes the wrapped store. Calling it again is a no-op.
func (c *CachedStore) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	select {
	case <-c.stopClean:
		return nil
	default:
		close(c.stopClean)
	}

	return c.store.Close()
}
