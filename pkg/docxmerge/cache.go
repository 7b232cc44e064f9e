package docxmerge

import (
	"container/list"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the template cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// TemplateCache keeps prepared templates by key, evicting the least
// recently used entry when full. The cache never closes a template: an
// evicted, replaced or expired entry is only dropped, so callers holding it
// can keep rendering. A template closed by its holder is dropped on the next
// Get.
type TemplateCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
	now    func() time.Time
}

type cacheEntry struct {
	key      string
	template *PreparedTemplate
	expiry   time.Time
	element  *list.Element
}

// NewTemplateCache creates a template cache sized from the global configuration
func NewTemplateCache() *TemplateCache {
	config := GetGlobalConfig()
	return NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewTemplateCacheWithConfig creates a new template cache with the given configuration
func NewTemplateCacheWithConfig(config CacheConfig) *TemplateCache {
	return &TemplateCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
		now:    time.Now,
	}
}

// Get returns a cached template that has neither expired nor been closed
func (tc *TemplateCache) Get(key string) (*PreparedTemplate, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		return nil, false
	}
	if tc.expired(entry) || entry.template.isClosed() {
		tc.removeLocked(entry)
		return nil, false
	}
	tc.lru.MoveToFront(entry.element)
	return entry.template, true
}

// Set adds or replaces a cached template
func (tc *TemplateCache) Set(key string, template *PreparedTemplate) {
	if tc.config.MaxSize <= 0 {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if existing, exists := tc.cache[key]; exists {
		existing.template = template
		existing.expiry = tc.expiry()
		tc.lru.MoveToFront(existing.element)
		return
	}

	if tc.lru.Len() >= tc.config.MaxSize {
		if oldest := tc.lru.Back(); oldest != nil {
			tc.removeLocked(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{
		key:      key,
		template: template,
		expiry:   tc.expiry(),
	}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

// Remove drops a template from the cache
func (tc *TemplateCache) Remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.cache[key]; exists {
		tc.removeLocked(entry)
	}
}

// Clear drops all templates from the cache
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[string]*cacheEntry)
	tc.lru = list.New()
}

// Size returns the current number of cached templates
func (tc *TemplateCache) Size() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.cache)
}

// Close clears the cache
func (tc *TemplateCache) Close() error {
	tc.Clear()
	return nil
}

func (tc *TemplateCache) expiry() time.Time {
	if tc.config.TTL <= 0 {
		return time.Time{}
	}
	return tc.now().Add(tc.config.TTL)
}

func (tc *TemplateCache) expired(entry *cacheEntry) bool {
	return !entry.expiry.IsZero() && tc.now().After(entry.expiry)
}

func (tc *TemplateCache) removeLocked(entry *cacheEntry) {
	delete(tc.cache, entry.key)
	tc.lru.Remove(entry.element)
}
