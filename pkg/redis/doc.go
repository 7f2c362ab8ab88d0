// Package redis opens go-redis clients from environment configuration.
//
// The gateway uses Redis only as the shared store for rate limiting across
// replicas. Open retries the initial PING so a gateway started alongside Redis
// does not fail on a cold start, and Healthcheck plugs into the readiness probe:
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	checks := health.Checks{"redis": redis.Healthcheck(client)}
package redis
