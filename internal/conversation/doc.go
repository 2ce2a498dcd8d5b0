// Package conversation stores chat histories.
//
// MemoryStore is a bounded LRU with idle expiry, RedisStore keeps one list
// per conversation with a TTL, and HybridStore layers the first over the
// second with read-through, backfill and singleflight collapsing of
// concurrent misses. Redis clients built by NewRedisClient carry a metrics
// hook and a circuit breaker hook.
package conversation
