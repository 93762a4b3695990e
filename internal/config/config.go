package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/bukubrow/internal/logging"
	"github.com/danmuck/bukubrow/internal/manifest"
)

// Config is the host's optional on-disk configuration. Every field has a
// working default so the browser can launch the host with no file at all.
type Config struct {
	Database        string         `toml:"database"`
	LogLevel        string         `toml:"log_level"`
	MetricsTextfile string         `toml:"metrics_textfile"`
	Manifest        ManifestConfig `toml:"manifest"`
}

type ManifestConfig struct {
	ChromeOrigins     []string `toml:"chrome_origins"`
	FirefoxExtensions []string `toml:"firefox_extensions"`
}

type fileConfig struct {
	Database        string `toml:"database"`
	LogLevel        string `toml:"log_level"`
	MetricsTextfile string `toml:"metrics_textfile"`
	Manifest        struct {
		ChromeOrigins     []string `toml:"chrome_origins"`
		FirefoxExtensions []string `toml:"firefox_extensions"`
	} `toml:"manifest"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Manifest: ManifestConfig{
			ChromeOrigins:     []string{manifest.DefaultChromeOrigin},
			FirefoxExtensions: []string{manifest.DefaultFirefoxExtension},
		},
	}
}

// Load overlays the keys present in path onto DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if meta.IsDefined("database") {
		cfg.Database = strings.TrimSpace(raw.Database)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}
	if meta.IsDefined("manifest", "chrome_origins") {
		cfg.Manifest.ChromeOrigins = normalizeList(raw.Manifest.ChromeOrigins)
	}
	if meta.IsDefined("manifest", "firefox_extensions") {
		cfg.Manifest.FirefoxExtensions = normalizeList(raw.Manifest.FirefoxExtensions)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if len(cfg.Manifest.ChromeOrigins) == 0 {
		return fmt.Errorf("manifest.chrome_origins must not be empty")
	}
	for i, origin := range cfg.Manifest.ChromeOrigins {
		if !strings.HasPrefix(origin, "chrome-extension://") || !strings.HasSuffix(origin, "/") {
			return fmt.Errorf("manifest.chrome_origins[%d] invalid: %q", i, origin)
		}
	}
	if len(cfg.Manifest.FirefoxExtensions) == 0 {
		return fmt.Errorf("manifest.firefox_extensions must not be empty")
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
