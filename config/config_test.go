package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALLOWED_CITIES", "")
	t.Setenv("ADMIN_IDS", "")

	cfg := Load()
	if cfg.ServiceName == "" {
		t.Fatalf("service name is empty")
	}
	if cfg.OTPLength != 4 {
		t.Errorf("otp length = %d, want 4", cfg.OTPLength)
	}
	if len(cfg.AllowedCities) != 1 || cfg.AllowedCities[0] != "تهران" {
		t.Errorf("allowed cities = %v", cfg.AllowedCities)
	}
	if cfg.ResumeMinLength != 50 {
		t.Errorf("resume min length = %d, want 50", cfg.ResumeMinLength)
	}
}

func TestLoadLists(t *testing.T) {
	t.Setenv("ADMIN_IDS", "101, 202,,abc")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SESSION_TTL", "30m")

	cfg := Load()
	if len(cfg.AdminIDs) != 2 || cfg.AdminIDs[0] != 101 || cfg.AdminIDs[1] != 202 {
		t.Errorf("admin ids = %v", cfg.AdminIDs)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Errorf("kafka brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.SessionTTL.Minutes() != 30 {
		t.Errorf("session ttl = %v", cfg.SessionTTL)
	}
}

func TestPostgresURL(t *testing.T) {
	cfg := Config{PostgresUser: "u", PostgresPassword: "p", PostgresHost: "h", PostgresPort: "1", PostgresDB: "d"}
	if got, want := cfg.PostgresURL(), "postgres://u:p@h:1/d?sslmode=disable"; got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
	cfg.RedisHost, cfg.RedisPort = "r", "6379"
	if got := cfg.RedisAddr(); got != "r:6379" {
		t.Fatalf("redis addr = %q", got)
	}
}
