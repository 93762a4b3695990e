package manifest

const (
	// HostName uniquely identifies the host to the browser.
	HostName = "com.samhh.bukubrow"

	Description = "Bukubrow is a WebExtension for Buku, a command-line bookmark manager. " +
		"This is the corresponding host that facilitates interfacing with the Buku database via native messaging."

	DefaultChromeOrigin     = "chrome-extension://ghniladkapjacfajiooekgkfopkjblpn/"
	DefaultFirefoxExtension = "bukubrow@samhh.com"
)

// Family selects the manifest document shape.
type Family int

const (
	FamilyChrome Family = iota
	FamilyFirefox
)

// Target is one installable browser.
type Target struct {
	ID     string
	Name   string
	Family Family
}

// ChromeHost is the manifest understood by Chrome, Chromium, Brave, Vivaldi and Edge.
type ChromeHost struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Path           string   `json:"path"`
	Type           string   `json:"type"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// FirefoxHost is the manifest understood by Firefox and LibreWolf.
type FirefoxHost struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedExtensions []string `json:"allowed_extensions"`
}
