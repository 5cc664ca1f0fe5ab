package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                 // ConnectionURL in the format "redis://:password@localhost:6379/0". Empty disables Redis.
	Channel        string        `env:"REDIS_CHANNEL" envDefault:"fsm:state"`      // Channel receives a JSON message for every reported state.
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"fsm:state:"`  // KeyPrefix is prepended to the machine name to form the state key.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`       // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`      // RetryInterval is the delay between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`    // ConnectTimeout bounds the whole connection procedure.
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
