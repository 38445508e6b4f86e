package postgres

import (
	"time"

	. "github.com/go-ozzo/ozzo-validation"
)

// Config describes the optional cache database. The whole feature is
// off when the DSN is empty; Validate is only called once a DSN is set.
type Config struct {
	DSN string `json:"dsn"`

	MaxConns          int32         `json:"max_conns"`
	MinConns          int32         `json:"min_conns"`
	MaxConnLifetime   time.Duration `json:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `json:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `json:"health_check_period"`
}

func (c *Config) Validate() error {
	return ValidateStruct(c,
		Field(&c.DSN, Required),
		Field(&c.MaxConns, Required, Min(int32(1)), Max(int32(100))),
		Field(&c.MinConns, Min(int32(0)), Max(c.MaxConns)),
		Field(&c.MaxConnLifetime, Min(time.Minute), Max(24*time.Hour)),
		Field(&c.MaxConnIdleTime, Min(time.Second), Max(time.Hour)),
		Field(&c.HealthCheckPeriod, Min(10*time.Second), Max(10*time.Minute)),
	)
}
