// Package manifest installs the native messaging host manifest that lets a
// browser launch this binary.
//
// Ownership boundary:
// - per-browser, per-OS manifest directories
// - chrome-family and firefox-family manifest documents
// - HKCU registration on Windows for firefox-family browsers
package manifest
