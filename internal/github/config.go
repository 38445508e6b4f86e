package github

import (
	"time"

	. "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Config struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`

	PageSize     int           `json:"page_size"`
	RequestDelay time.Duration `json:"request_delay"`
	Timeout      time.Duration `json:"timeout"`
}

func (c *Config) Validate() error {
	return ValidateStruct(c,
		Field(&c.BaseURL, Required, is.URL),
		Field(&c.PageSize, Required, Min(1), Max(100)),
		Field(&c.RequestDelay, Min(time.Duration(0)), Max(time.Minute)),
		Field(&c.Timeout, Required, Min(time.Second), Max(5*time.Minute)),
	)
}
