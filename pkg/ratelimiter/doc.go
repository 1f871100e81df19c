// Package ratelimiter throttles requests with token buckets.
//
// A Bucket applies one Config (capacity, refill rate and interval) to every
// key. State lives in a Store: MemoryStore for a single process, RedisStore
// when several instances must share limits. Middleware keys requests on the
// client IP and the matched route pattern by default and answers 429 with
// Retry-After once a bucket is empty.
//
//	b, _ := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
//	r.With(ratelimiter.Middleware(b)).Post("/api/user/login", login)
package ratelimiter
