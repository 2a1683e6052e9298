package reminder

import "time"

// Config holds the reminder scheduling configuration.
type Config struct {
	Lead          time.Duration `env:"REMINDER_LEAD" envDefault:"1h15m"`
	PollInterval  time.Duration `env:"REMINDER_POLL_INTERVAL" envDefault:"30s"`
	SendTimeout   time.Duration `env:"REMINDER_SEND_TIMEOUT" envDefault:"1m"`
	MaxConcurrent int           `env:"REMINDER_MAX_CONCURRENT" envDefault:"4"`
}
