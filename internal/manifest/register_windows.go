//go:build windows

package manifest

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const mozillaHostsKey = `Software\Mozilla\NativeMessagingHosts\` + HostName

// registerHost points the HKCU Mozilla key at the manifest file.
func registerHost(manifestPath string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, mozillaHostsKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("manifest: create registry entry: %w", err)
	}
	defer key.Close()
	if err := key.SetStringValue("", manifestPath); err != nil {
		return fmt.Errorf("manifest: set registry entry: %w", err)
	}
	return nil
}
