package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" || cfg.Env != "development" || cfg.Mongo.Database != "cse341" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AuditWorkers != 4 {
		t.Fatalf("expected 4 audit workers, got %d", cfg.AuditWorkers)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %v", cfg.Session.TTL)
	}
	if cfg.IsProduction() {
		t.Fatal("development must not be production")
	}
	if got := cfg.OAuthCallbackURL(); got != "http://localhost:3000/auth/github/callback" {
		t.Fatalf("unexpected callback: %s", got)
	}
}

func TestLoad_Production(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":          "production",
		"PORT":         "8443",
		"CORS_ORIGINS": "https://a.example, https://b.example",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production")
	}
	if got := cfg.OAuthCallbackURL(); got != "https://localhost:8443/auth/github/callback" {
		t.Fatalf("unexpected callback: %s", got)
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestOAuthCallbackURL_Explicit(t *testing.T) {
	cfg := &Config{Port: "3000", GitHub: GitHubConfig{CallbackURL: "https://api.example.com/auth/github/callback"}}
	if got := cfg.OAuthCallbackURL(); got != "https://api.example.com/auth/github/callback" {
		t.Fatalf("unexpected callback: %s", got)
	}
}
