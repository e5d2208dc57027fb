// Package cache provides a small generic LRU used to keep compiled
// shader programs and expression evaluators around while the user
// toggles between expressions.
//
//	c := cache.New[string, int](16)
//	c.Set("key", 42)
//	v, ok := c.Get("key")
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
