package database

import (
	"testing"

	"todo-api/pkg/resource"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "db",
		Port:     "5432",
		Username: "todo",
		Password: "secret",
		Database: "todos",
		Schema:   "public",
		SSLMode:  "disable",
	}

	want := "host=db port=5432 user=todo password=secret dbname=todos sslmode=disable search_path=public"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN:\n got %s\nwant %s", got, want)
	}
}

func TestConfigFromProperties(t *testing.T) {
	resource.Set("app.db.driver", DriverMemory)
	resource.Set("app.db.max-open-conns", 7)
	t.Cleanup(func() {
		resource.Set("app.db.driver", DriverGorm)
		resource.Set("app.db.max-open-conns", 20)
	})

	cfg := ConfigFromProperties()
	if cfg.Driver != DriverMemory {
		t.Errorf("driver: got %q", cfg.Driver)
	}
	if cfg.MaxOpenConns != 7 {
		t.Errorf("max-open-conns: got %d", cfg.MaxOpenConns)
	}
	if cfg.Schema == "" || cfg.SSLMode == "" {
		t.Errorf("schema and ssl-mode should have defaults: %+v", cfg)
	}
}
