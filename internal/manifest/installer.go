package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/danmuck/bukubrow/internal/logging"
)

// Options tunes an install. Zero values fall back to the running process:
// its executable, the user's home directory and runtime.GOOS.
type Options struct {
	Dir               string
	ExePath           string
	Home              string
	GOOS              string
	ChromeOrigins     []string
	FirefoxExtensions []string
}

// Install writes <HostName>.json for t and returns the written path.
func Install(t Target, opts Options) (string, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return "", err
	}

	dir := opts.Dir
	if dir == "" {
		dir, err = Dir(t, opts.GOOS, opts.Home)
		if err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("manifest: create native messaging directory: %w", err)
	}

	doc, err := render(t, opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, HostName+".json")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("manifest: write manifest file: %w", err)
	}

	if opts.GOOS == "windows" && t.Family == FamilyFirefox {
		if err := registerHost(path); err != nil {
			return "", err
		}
	}

	log := logging.For("manifest")
	log.Info().Str("browser", t.ID).Str("path", path).Msg("installed host manifest")
	return path, nil
}

func (o Options) withDefaults() (Options, error) {
	if o.GOOS == "" {
		o.GOOS = runtime.GOOS
	}
	if o.ExePath == "" {
		exe, err := os.Executable()
		if err != nil {
			return o, fmt.Errorf("manifest: determine executable location: %w", err)
		}
		o.ExePath = exe
	}
	if o.Home == "" && o.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return o, fmt.Errorf("manifest: determine home directory: %w", err)
		}
		o.Home = home
	}
	if len(o.ChromeOrigins) == 0 {
		o.ChromeOrigins = []string{DefaultChromeOrigin}
	}
	if len(o.FirefoxExtensions) == 0 {
		o.FirefoxExtensions = []string{DefaultFirefoxExtension}
	}
	return o, nil
}

func render(t Target, opts Options) ([]byte, error) {
	var host any
	switch t.Family {
	case FamilyFirefox:
		host = FirefoxHost{
			Name:              HostName,
			Description:       Description,
			Path:              opts.ExePath,
			Type:              "stdio",
			AllowedExtensions: opts.FirefoxExtensions,
		}
	default:
		host = ChromeHost{
			Name:           HostName,
			Description:    "Bukubrow host for the Chrome extension",
			Path:           opts.ExePath,
			Type:           "stdio",
			AllowedOrigins: opts.ChromeOrigins,
		}
	}
	doc, err := json.MarshalIndent(host, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: serialise manifest: %w", err)
	}
	return doc, nil
}
