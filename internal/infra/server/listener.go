package server

import (
	"net"

	"todo-api/pkg/resource"

	"golang.org/x/net/netutil"
)

// Config holds the listener settings under app.server
type Config struct {
	Port string
	// MaxConnections caps concurrently accepted connections, 0 means unlimited
	MaxConnections int
}

func ConfigFromProperties() Config {
	return Config{
		Port:           resource.GetString("app.server.port"),
		MaxConnections: resource.GetInt("app.server.max-connections"),
	}
}

func (c Config) Address() string {
	return ":" + c.Port
}

// Listen opens a TCP listener that blocks Accept once MaxConnections are open.
func Listen(config Config) (net.Listener, error) {
	listener, err := net.Listen("tcp", config.Address())
	if err != nil {
		return nil, err
	}
	if config.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, config.MaxConnections)
	}
	return listener, nil
}
