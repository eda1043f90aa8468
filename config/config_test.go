package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Studio.WorkStart != "09:00" || cfg.Studio.WorkEnd != "17:00" || cfg.Studio.SlotDuration != 60 {
		t.Fatalf("unexpected working hours: %+v", cfg.Studio)
	}
	if cfg.JWT.SessionMaxAge != 24*time.Hour {
		t.Fatalf("session max age = %v", cfg.JWT.SessionMaxAge)
	}
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("db driver = %q", cfg.DB.Driver)
	}
	if cfg.Studio.OccupiedStatuses != "pending,confirmed" {
		t.Fatalf("occupied statuses = %q", cfg.Studio.OccupiedStatuses)
	}
	if cfg.RateLimit.TrustedProxies != "" {
		t.Fatalf("trusted proxies = %q", cfg.RateLimit.TrustedProxies)
	}
	if cfg.Redis.Enabled {
		t.Fatal("redis should be disabled by default")
	}
}

func TestLoadEnvFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "WORK_START=10:00\nSLOT_DURATION=30\nDB_DRIVER=SQLite\nSESSION_MAX_AGE=2h\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SLOT_DURATION", "45")

	cfg, err := load(viper.New(), envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Studio.WorkStart != "10:00" {
		t.Fatalf("work start = %q", cfg.Studio.WorkStart)
	}
	if cfg.Studio.SlotDuration != 45 {
		t.Fatalf("environment should win over file, got %d", cfg.Studio.SlotDuration)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("driver should be lowercased, got %q", cfg.DB.Driver)
	}
	if cfg.JWT.SessionMaxAge != 2*time.Hour {
		t.Fatalf("session max age = %v", cfg.JWT.SessionMaxAge)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	if loc := (AppConfig{Timezone: "Not/AZone"}).Location(); loc != time.UTC {
		t.Fatalf("expected UTC, got %v", loc)
	}
}
