// Package redis connects to Redis for publishing and restoring machine states.
//
// Connect retries according to Config, Healthcheck adapts a client to a probe
// function and StateStore reads back the states written by
// sensor.RedisPublisher. Config fields are populated from the environment via
// github.com/caarlos0/env.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redis.NewStateStore(client, cfg.KeyPrefix)
//	state, ok, err := store.Load(ctx, "door")
//
// Errors wrap the underlying go-redis errors with errors.Join.
package redis
