//go:build !windows

package manifest

func registerHost(string) error { return nil }
