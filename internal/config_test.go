package internal

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q, want %q", cfg.App.HTTP.Address(), ":8080")
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail validation")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port above 65535 should fail validation")
	}
	cfg.Port = 9090
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid port should pass: %v", err)
	}
}

func TestDataConfig_EmptyDir(t *testing.T) {
	cfg := DataConfig{Dir: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty data dir should fail validation")
	}
}

func TestSQLiteConfig_EmptyPath(t *testing.T) {
	cfg := SQLiteConfig{Path: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty sqlite path should fail validation")
	}
}

func TestGateConfig_NegativeTTL(t *testing.T) {
	cfg := GateConfig{SessionTTL: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative session ttl should fail validation")
	}
	cfg.SessionTTL = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero ttl (no expiry) should pass: %v", err)
	}
}

func TestFullConfig_NestedValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Data.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch data error")
	}
}
