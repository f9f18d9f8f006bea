package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "images" {
		t.Errorf("output.dir = %q, want images", cfg.Output.Dir)
	}
	if cfg.Generate.GalleryTarget != 300 {
		t.Errorf("generate.gallery_target = %d, want 300", cfg.Generate.GalleryTarget)
	}
	if cfg.Generate.Workers != 4 {
		t.Errorf("generate.workers = %d, want 4", cfg.Generate.Workers)
	}
	if cfg.Output.Clean || cfg.Storage.Enabled || cfg.Database.Enabled {
		t.Errorf("optional features should be disabled by default: %+v", cfg)
	}
	if cfg.Database.DSN() != "./data/gustovivo.db" {
		t.Errorf("sqlite DSN = %q", cfg.Database.DSN())
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("output:\n  dir: public/images\n  clean: true\ngenerate:\n  seed: 42\n  gallery_target: 120\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GENERATE_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "public/images" || !cfg.Output.Clean {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Generate.Seed != 42 || cfg.Generate.GalleryTarget != 120 {
		t.Errorf("generate = %+v", cfg.Generate)
	}
	if cfg.Generate.Workers != 8 {
		t.Errorf("generate.workers = %d, want 8 from env", cfg.Generate.Workers)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Output:   OutputConfig{Dir: "images"},
			Generate: GenerateConfig{GalleryTarget: 300, Workers: 1},
			Database: DatabaseConfig{Driver: "sqlite"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dir", func(c *Config) { c.Output.Dir = "" }},
		{"negative target", func(c *Config) { c.Generate.GalleryTarget = -1 }},
		{"no workers", func(c *Config) { c.Generate.Workers = 0 }},
		{"storage without bucket", func(c *Config) { c.Storage.Enabled = true }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"seed too large for history", func(c *Config) {
			c.Database.Enabled = true
			c.Generate.Seed = math.MaxUint64
		}},
	}

	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}

	// without history any seed is usable
	big := base()
	big.Generate.Seed = math.MaxUint64
	if err := big.Validate(); err != nil {
		t.Errorf("large seed without database: %v", err)
	}
	edge := base()
	edge.Database.Enabled = true
	edge.Generate.Seed = math.MaxInt64
	if err := edge.Validate(); err != nil {
		t.Errorf("seed MaxInt64 with database: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "gv", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=gv sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
