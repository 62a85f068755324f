package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port=%q, want 8080", cfg.Port)
	}
	if cfg.StorageBackend != "file" {
		t.Errorf("StorageBackend=%q, want file", cfg.StorageBackend)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir=%q, want data", cfg.DataDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("DATA_DIR", "/tmp/reviews")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.StorageBackend != "memory" || cfg.DataDir != "/tmp/reviews" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("want error when DATABASE_URL is missing")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/reviews")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageBackend != "postgres" {
		t.Fatalf("StorageBackend=%q", cfg.StorageBackend)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "dynamo")

	if _, err := Load(); err == nil {
		t.Fatal("want error for unknown backend")
	}
}
