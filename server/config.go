package server

import "github.com/gin-gonic/gin"

// Config holds query server settings.
type Config struct {
	Addr       string // listen address, default ":8080"
	IndexPath  string // index file served by cmd/flatbushd
	Mode       string // gin mode: debug, release or test; default release
	MaxResults int    // cap on ids per response, default 10000
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:       ":8080",
		Mode:       gin.ReleaseMode,
		MaxResults: 10000,
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise fills unset fields of c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	return c
}
