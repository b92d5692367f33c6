package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	accessSecret  = "access-secret-0123456789abcdefghij"
	refreshSecret = "refresh-secret-0123456789abcdefghi"
)

func validEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":         accessSecret,
		"JWT_REFRESH_SECRET": refreshSecret,
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background(), envconfig.MapLookuper(validEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %q", cfg.Port)
	}
	if cfg.Mongo.Database != "senado_bolivia" {
		t.Errorf("expected database senado_bolivia, got %q", cfg.Mongo.Database)
	}
	if cfg.Token.AccessTTL != 15*time.Minute || cfg.Token.RefreshTTL != 720*time.Hour {
		t.Errorf("unexpected token lifetimes %v / %v", cfg.Token.AccessTTL, cfg.Token.RefreshTTL)
	}
	if cfg.Security.BcryptCost != 12 || cfg.Security.MaxLoginAttempts != 5 || cfg.Security.LockDuration != 30*time.Minute {
		t.Errorf("unexpected security defaults %+v", cfg.Security)
	}
	if cfg.SuperAdmin.Email != "admin@senado.bo" {
		t.Errorf("unexpected super admin email %q", cfg.SuperAdmin.Email)
	}
	if !cfg.Redis.Enabled {
		t.Error("expected redis enabled by default")
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	env := validEnv()
	env["PORT"] = "8080"
	env["ENV"] = "production"
	env["CORS_ORIGINS"] = "https://senado.gob.bo,https://admin.senado.gob.bo"
	env["MAX_LOGIN_ATTEMPTS"] = "3"
	env["REGISTRATION_REQUIRES_ACTIVATION"] = "true"

	cfg, err := Load(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.IsDevelopment() {
		t.Errorf("unexpected server settings %q %q", cfg.Port, cfg.Env)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Security.MaxLoginAttempts != 3 || !cfg.Security.RequireActivation {
		t.Errorf("unexpected security settings %+v", cfg.Security)
	}
}

func TestLoad_RejectsWeakSettings(t *testing.T) {
	tests := []struct {
		name string
		edit func(map[string]string)
		want string
	}{
		{"missing secret", func(e map[string]string) { delete(e, "JWT_SECRET") }, "JWT_SECRET"},
		{"short refresh secret", func(e map[string]string) { e["JWT_REFRESH_SECRET"] = "short" }, "JWT_REFRESH_SECRET"},
		{"shared secret", func(e map[string]string) { e["JWT_REFRESH_SECRET"] = accessSecret }, "must differ"},
		{"low bcrypt cost", func(e map[string]string) { e["BCRYPT_COST"] = "4" }, "BCRYPT_COST"},
		{"zero ttl", func(e map[string]string) { e["JWT_EXPIRES_IN"] = "0s" }, "lifetimes"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := validEnv()
			tc.edit(env)
			_, err := Load(context.Background(), envconfig.MapLookuper(env))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
