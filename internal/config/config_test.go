package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/danmuck/bukubrow/internal/manifest"
	"github.com/danmuck/bukubrow/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bukubrow.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(writeConfig(t, `
database = " /data/buku/bookmarks.db "
log_level = "debug"
metrics_textfile = "/var/lib/node_exporter/bukubrow.prom"

[manifest]
firefox_extensions = ["dev@example.com", " "]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database != "/data/buku/bookmarks.db" {
		t.Fatalf("unexpected database: %q", cfg.Database)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if cfg.MetricsTextfile != "/var/lib/node_exporter/bukubrow.prom" {
		t.Fatalf("unexpected metrics textfile: %q", cfg.MetricsTextfile)
	}
	if !reflect.DeepEqual(cfg.Manifest.FirefoxExtensions, []string{"dev@example.com"}) {
		t.Fatalf("unexpected extensions: %v", cfg.Manifest.FirefoxExtensions)
	}
	if !reflect.DeepEqual(cfg.Manifest.ChromeOrigins, []string{manifest.DefaultChromeOrigin}) {
		t.Fatalf("chrome origins must keep their default: %v", cfg.Manifest.ChromeOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testlog.Start(t)
	for _, body := range []string{
		`log_level = "loud"`,
		"[manifest]\nchrome_origins = []",
		"[manifest]\nchrome_origins = [\"https://example.com\"]",
		"[manifest]\nfirefox_extensions = [\"\"]",
		`database = [`,
	} {
		_, err := Load(writeConfig(t, body))
		if err == nil || !strings.Contains(err.Error(), "config parse failed") {
			t.Fatalf("%q: expected parse failure, got %v", body, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWriteTemplateRoundTrip(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "bukubrow.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("template does not reproduce defaults: %+v", cfg)
	}
}
