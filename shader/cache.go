package shader

import "github.com/mhdeeb/geo-art/internal/cache"

// DefaultCacheSize is the number of programs a Cache keeps.
const DefaultCacheSize = 32

type programKey struct {
	kind  Kind
	exprs Expressions
	opts  CoverageOptions
}

// Cache remembers compiled programs so switching back to a recent
// expression set does not compile again. Failed compiles are not kept.
type Cache struct {
	programs *cache.Cache[programKey, *Program]
}

// NewCache returns a Cache holding up to size programs. A size of 0 or
// less uses DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{programs: cache.New[programKey, *Program](size)}
}

// Compile is Compile with memoization. Programs are shared between
// callers and must not be modified.
func (c *Cache) Compile(kind Kind, exprs Expressions, opts CoverageOptions) (*Program, error) {
	key := programKey{kind: kind, exprs: exprs, opts: opts}
	return c.programs.GetOrCreate(key, func() (*Program, error) {
		return Compile(kind, exprs, opts)
	})
}

// Stats returns the cache statistics.
func (c *Cache) Stats() cache.Stats { return c.programs.Stats() }
