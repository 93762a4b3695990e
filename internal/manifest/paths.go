package manifest

import (
	"fmt"
	"path/filepath"
)

var unixDirs = map[string]string{
	"chrome":    ".config/google-chrome/NativeMessagingHosts",
	"chromium":  ".config/chromium/NativeMessagingHosts",
	"brave":     ".config/BraveSoftware/Brave-Browser/NativeMessagingHosts",
	"firefox":   ".mozilla/native-messaging-hosts",
	"librewolf": ".librewolf/native-messaging-hosts",
	"vivaldi":   ".config/vivaldi/NativeMessagingHosts",
	"edge":      ".config/microsoft-edge-dev/NativeMessagingHosts",
}

var darwinDirs = map[string]string{
	"chrome":    "Library/Application Support/Google/Chrome/NativeMessagingHosts",
	"chromium":  "Library/Application Support/Chromium/NativeMessagingHosts",
	"brave":     "Library/Application Support/BraveSoftware/Brave-Browser/NativeMessagingHosts",
	"firefox":   "Library/Application Support/Mozilla/NativeMessagingHosts",
	"librewolf": "Library/Application Support/LibreWolf/NativeMessagingHosts",
	"vivaldi":   "Library/Application Support/Vivaldi/NativeMessagingHosts",
	"edge":      "Library/Microsoft/Edge/NativeMessagingHosts",
}

// Firefox and LibreWolf share one registry key, so they share a directory.
var windowsDirs = map[string]string{
	"firefox":   `AppData\Roaming\Mozilla\NativeMessagingHosts`,
	"librewolf": `AppData\Roaming\Mozilla\NativeMessagingHosts`,
}

// Dir returns the manifest directory for t under home on goos.
func Dir(t Target, goos, home string) (string, error) {
	var table map[string]string
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		table = unixDirs
	case "darwin":
		table = darwinDirs
	case "windows":
		table = windowsDirs
	default:
		return "", fmt.Errorf("%w: platform %q is not yet supported", ErrUnsupportedPath, goos)
	}
	rel, ok := table[t.ID]
	if !ok {
		return "", fmt.Errorf("%w: %s is not yet supported on %s", ErrUnsupportedPath, t.Name, goos)
	}
	return filepath.Join(home, filepath.FromSlash(rel)), nil
}
