// Package redis connects the reminder store to a Redis server: Connect
// opens a go-redis client with retrying startup, Healthcheck plugs the
// connection into readiness probes.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := reminder.NewRedisStorage(client)
//
// Sentinel errors wrap the underlying go-redis errors with errors.Join, so
// callers can classify failures with errors.Is.
package redis
