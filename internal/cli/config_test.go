package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsonatlas/jsonatlas/pkg/pipeline"
)

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfigFile() missing file should not error, got %v", err)
	}
	if cfg.Engine != "" || cfg.CacheDir != "" {
		t.Errorf("missing file should yield zero config, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
engine = "force"
formats = ["svg", "html"]
dark = true
label_length = 30
cache_dir = "/tmp/atlas-cache"

[serve]
addr = ":9090"
redis_url = "localhost:6379"
mongo_uri = "mongodb://localhost:27017"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}

	if cfg.Engine != "force" {
		t.Errorf("Engine = %q, want %q", cfg.Engine, "force")
	}
	if len(cfg.Formats) != 2 || cfg.Formats[0] != "svg" || cfg.Formats[1] != "html" {
		t.Errorf("Formats = %v, want [svg html]", cfg.Formats)
	}
	if !cfg.Dark {
		t.Error("Dark should be true")
	}
	if cfg.LabelLength != 30 {
		t.Errorf("LabelLength = %d, want 30", cfg.LabelLength)
	}
	if cfg.CacheDir != "/tmp/atlas-cache" {
		t.Errorf("CacheDir = %q, want /tmp/atlas-cache", cfg.CacheDir)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Serve.Addr = %q, want :9090", cfg.Serve.Addr)
	}
	if cfg.Serve.RedisURL != "localhost:6379" {
		t.Errorf("Serve.RedisURL = %q", cfg.Serve.RedisURL)
	}
	if cfg.Serve.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Serve.MongoURI = %q", cfg.Serve.MongoURI)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("engine = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfigFile(path); err == nil {
		t.Error("loadConfigFile() should reject invalid TOML")
	}
}

func TestApplyConfig(t *testing.T) {
	c := &CLI{Config: Config{
		Engine:      "force",
		Formats:     []string{"html"},
		Dark:        true,
		LabelLength: 25,
	}}

	opts := pipeline.Options{}
	c.applyConfig(&opts)

	if opts.Engine != "force" {
		t.Errorf("Engine = %q, want force", opts.Engine)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "html" {
		t.Errorf("Formats = %v, want [html]", opts.Formats)
	}
	if !opts.Dark {
		t.Error("Dark should be true")
	}
	if opts.LabelLength != 25 {
		t.Errorf("LabelLength = %d, want 25", opts.LabelLength)
	}
}
