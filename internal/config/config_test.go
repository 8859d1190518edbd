package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ksyq12/rproxy/internal/model"
)

func TestConfig(t *testing.T) {
	tempDir := t.TempDir()

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	t.Run("New", func(t *testing.T) {
		cfg := New()
		if cfg.ACMELiveDir != "/etc/letsencrypt/live" {
			t.Errorf("unexpected acme dir %s", cfg.ACMELiveDir)
		}
		if cfg.Backend.HTTPPort != 82 || cfg.Backend.HTTPSPort != 4443 {
			t.Errorf("unexpected backend ports %+v", cfg.Backend)
		}
		if cfg.Store.Driver != StoreFile {
			t.Errorf("expected file store, got %s", cfg.Store.Driver)
		}
		if cfg.Template.Name != DefaultTemplate {
			t.Errorf("expected default template, got %s", cfg.Template.Name)
		}
	})

	t.Run("LoadNonexistent", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Web.WebsiteBasedir != "/var/www" {
			t.Errorf("expected default basedir, got %s", cfg.Web.WebsiteBasedir)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		path, err := ConfigPath()
		if err != nil {
			t.Fatalf("ConfigPath failed: %v", err)
		}

		cfg := New()
		cfg.ServerID = 3
		cfg.Paths.Available = "/opt/nginx/sites-available"
		cfg.Paths.Enabled = "/opt/nginx/sites-enabled"
		cfg.Web.SymlinksRelative = true

		if err := cfg.Save(path); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(tempDir, ".config", "rproxy", "config.yaml")); err != nil {
			t.Fatalf("config file was not created: %v", err)
		}

		loaded, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.ServerID != 3 {
			t.Errorf("expected server id 3, got %d", loaded.ServerID)
		}
		if loaded.Paths.Available != "/opt/nginx/sites-available" {
			t.Errorf("unexpected available dir %s", loaded.Paths.Available)
		}
		if !loaded.Web.SymlinksRelative {
			t.Error("expected relative symlinks")
		}
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		path := filepath.Join(tempDir, "env.yaml")
		if err := os.WriteFile(path, []byte("server_id: 1\nstore:\n  driver: file\n"), 0644); err != nil {
			t.Fatal(err)
		}

		t.Setenv("RPROXY_SERVER_ID", "9")
		t.Setenv("RPROXY_PATHS_ENABLED", "/srv/enabled")
		t.Setenv("RPROXY_RELOAD_COMMAND", "systemctl reload nginx")
		t.Setenv("RPROXY_WEB_WEBSITE_SYMLINKS_REL", "y")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if cfg.ServerID != 9 {
			t.Errorf("expected env server id 9, got %d", cfg.ServerID)
		}
		if cfg.Paths.Enabled != "/srv/enabled" {
			t.Errorf("expected env enabled dir, got %s", cfg.Paths.Enabled)
		}
		if len(cfg.ReloadCommand) != 3 || cfg.ReloadCommand[0] != "systemctl" {
			t.Errorf("unexpected reload command %v", cfg.ReloadCommand)
		}
		if !cfg.Web.SymlinksRelative {
			t.Error("expected env to enable relative symlinks")
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(tempDir, "broken.yaml")
		if err := os.WriteFile(path, []byte("server_id: [\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown store", func(c *Config) { c.Store.Driver = "mysql" }, true},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = StorePostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Store.Driver = StorePostgres
			c.Store.DSN = "postgres://localhost/panel"
		}, false},
		{"empty reload", func(c *Config) { c.ReloadCommand = nil }, true},
		{"zero backend port", func(c *Config) { c.Backend.HTTPPort = 0 }, true},
		{"backend port out of range", func(c *Config) { c.Backend.HTTPSPort = 70000 }, true},
		{"blank reload argument", func(c *Config) { c.ReloadCommand = []string{"nginx", ""} }, true},
		{"json log format", func(c *Config) { c.Log.Format = "json" }, false},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerContext(t *testing.T) {
	cfg := New()
	cfg.ServerID = 2
	cfg.Paths.Available = "/a"
	cfg.Paths.Enabled = "/e"

	t.Run("config only", func(t *testing.T) {
		srv := cfg.ServerContext(nil)
		if srv.WebsiteBasedir != "/var/www" || srv.SymlinksRelative {
			t.Errorf("unexpected context %+v", srv)
		}
		if srv.AvailableDir != "/a" || srv.EnabledDir != "/e" || srv.ServerID != 2 {
			t.Errorf("unexpected context %+v", srv)
		}
	})

	t.Run("store values win", func(t *testing.T) {
		srv := cfg.ServerContext(&model.WebConfig{WebsiteBasedir: "/srv/www", SymlinksRelative: true})
		if srv.WebsiteBasedir != "/srv/www" || !srv.SymlinksRelative {
			t.Errorf("unexpected context %+v", srv)
		}
	})

	t.Run("reload command is copied", func(t *testing.T) {
		srv := cfg.ServerContext(nil)
		srv.ReloadCommand[0] = "changed"
		if cfg.ReloadCommand[0] != "service" {
			t.Error("ServerContext should not alias the config slice")
		}
	})
}
