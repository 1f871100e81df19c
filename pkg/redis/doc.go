// Package redis connects to Redis with github.com/redis/go-redis/v9.
//
// The shop uses Redis for the token denylist that backs logout
// (see jwt.RedisDenylist). Connect retries until the server answers a PING;
// Healthcheck plugs the same PING into the /healthz readiness check.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
