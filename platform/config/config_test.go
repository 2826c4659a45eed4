package config

import "testing"

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/offers")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("EMAIL_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.JWTAccessSecret != "access-secret" {
		t.Errorf("JWTAccessSecret = %q", cfg.JWTAccessSecret)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr default = %q", cfg.HTTPAddr)
	}
	if cfg.EmailEnabled {
		t.Error("EMAIL_ENABLED=false should disable email")
	}
}

func TestLoadRequiredVars(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/offers")
	if _, err := Load(); err == nil {
		t.Error("expected error without JWT_ACCESS_SECRET")
	}
}
