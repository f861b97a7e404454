package database

import (
	"fmt"

	"todo-api/pkg/resource"
)

const (
	DriverGorm   = "gorm"
	DriverSQL    = "sql"
	DriverMemory = "memory"
)

// Config holds the connection settings under app.db
type Config struct {
	Driver       string
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	Schema       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

func ConfigFromProperties() Config {
	return Config{
		Driver:       resource.GetStringOrDefault("app.db.driver", DriverGorm),
		Host:         resource.GetString("app.db.host"),
		Port:         resource.GetString("app.db.port"),
		Username:     resource.GetString("app.db.username"),
		Password:     resource.GetString("app.db.password"),
		Database:     resource.GetString("app.db.database"),
		Schema:       resource.GetStringOrDefault("app.db.schema", "public"),
		SSLMode:      resource.GetStringOrDefault("app.db.ssl-mode", "disable"),
		MaxOpenConns: resource.GetInt("app.db.max-open-conns"),
		MaxIdleConns: resource.GetInt("app.db.max-idle-conns"),
		AutoMigrate:  resource.GetBool("app.db.auto-migrate"),
	}
}

// DSN renders the libpq key/value connection string
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode, c.Schema)
}
