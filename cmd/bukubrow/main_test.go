package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/bukubrow/internal/buku"
	"github.com/danmuck/bukubrow/internal/config"
	"github.com/danmuck/bukubrow/internal/manifest"
	"github.com/danmuck/bukubrow/internal/protocol/frame"
	"github.com/danmuck/bukubrow/internal/testutil/testlog"
)

func writeBukuFile(t *testing.T, urls ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("create db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE bookmarks (
		id integer PRIMARY KEY,
		URL text NOT NULL UNIQUE,
		metadata text default '',
		tags text default ',',
		"desc" text default '',
		flags integer default 0
	)`); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	for i, u := range urls {
		if _, err := db.Exec(`INSERT INTO bookmarks (URL, metadata) VALUES (?, ?)`, u, "title "+string(rune('a'+i))); err != nil {
			t.Fatalf("seed bookmark: %v", err)
		}
	}
	return path
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bukubrow.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseArgsIgnoresBrowserArguments(t *testing.T) {
	testlog.Start(t)
	for _, args := range [][]string{
		nil,
		{"/home/u/.mozilla/native-messaging-hosts/com.samhh.bukubrow.json", "bukubrow@samhh.com"},
		{"chrome-extension://ghniladkapjacfajiooekgkfopkjblpn/", "--parent-window=0"},
	} {
		opts := parseArgs(args)
		if opts.hasAction() || opts.version || opts.writeConfig != "" {
			t.Fatalf("%v: expected server mode, got %+v", args, opts)
		}
	}
}

func TestParseArgsActions(t *testing.T) {
	testlog.Start(t)
	opts := parseArgs([]string{
		"--install-firefox", "stray", "-install-chrome",
		"-manifest-dir", "/tmp/hosts", "--unknown", "-o=3,4", "-l",
	})
	if !reflect.DeepEqual(opts.install, []string{"chrome", "firefox"}) {
		t.Fatalf("unexpected installs: %v", opts.install)
	}
	if opts.manifestDir != "/tmp/hosts" || opts.open != "3,4" || !opts.list {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestParseIDs(t *testing.T) {
	testlog.Start(t)
	ids, err := parseIDs("1, 22,333")
	if err != nil {
		t.Fatalf("parse ids: %v", err)
	}
	if !reflect.DeepEqual(ids, []buku.ID{1, 22, 333}) {
		t.Fatalf("unexpected ids: %v", ids)
	}
	for _, raw := range []string{"", "1,", "x", "-1", "4294967296"} {
		if _, err := parseIDs(raw); err == nil {
			t.Fatalf("%q: expected parse error", raw)
		}
	}
}

func TestRunVersion(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if code := run([]string{"-version"}, nil, &out, &out); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if out.String() != "bukubrow "+version+"\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunWriteConfigRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "bukubrow.toml")
	var out bytes.Buffer
	if code := run([]string{"-write-config", path}, nil, &out, &out); code != 0 {
		t.Fatalf("first write exit code %d: %s", code, out.String())
	}
	if code := run([]string{"-write-config", path}, nil, &out, &out); code != 1 {
		t.Fatalf("expected overwrite refusal, got %d", code)
	}
	if code := run([]string{"-write-config", path, "-force"}, nil, &out, &out); code != 0 {
		t.Fatalf("forced write exit code %d", code)
	}
}

func TestRunInstallIntoManifestDir(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	var out bytes.Buffer
	if code := run([]string{"--install-brave", "--manifest-dir", dir}, nil, &out, &out); code != 0 {
		t.Fatalf("exit code %d: %s", code, out.String())
	}
	path := filepath.Join(dir, manifest.HostName+".json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if !strings.Contains(out.String(), "Successfully installed host for Brave") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunListAndOpen(t *testing.T) {
	testlog.Start(t)
	cfg := writeConfigFile(t, "database = '"+writeBukuFile(t, "https://a.example", "https://b.example")+"'\n")

	var out bytes.Buffer
	if code := run([]string{"-config", cfg, "-list"}, nil, &out, &out); code != 0 {
		t.Fatalf("list exit code %d: %s", code, out.String())
	}
	if out.String() != "1 title a\n2 title b\n" {
		t.Fatalf("unexpected listing: %q", out.String())
	}

	original := openURL
	defer func() { openURL = original }()
	var opened []string
	openURL = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	out.Reset()
	if code := run([]string{"-config", cfg, "--open", "2"}, nil, &out, &out); code != 0 {
		t.Fatalf("open exit code %d: %s", code, out.String())
	}
	if !reflect.DeepEqual(opened, []string{"https://b.example"}) {
		t.Fatalf("unexpected opened urls: %v", opened)
	}

	openURL = func(string) error { return errors.New("no browser") }
	out.Reset()
	if code := run([]string{"-config", cfg, "--open", "1"}, nil, &out, &out); code != 1 {
		t.Fatalf("expected failure exit code, got %d", code)
	}
	if out.String() != "Failed to open bookmark in web browser.\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunListWithoutDatabase(t *testing.T) {
	testlog.Start(t)
	cfg := writeConfigFile(t, "database = '"+filepath.Join(t.TempDir(), "missing.db")+"'\n")
	var out bytes.Buffer
	if code := run([]string{"-config", cfg, "-list"}, nil, &out, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if out.String() != "Failed to locate Buku database.\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunServerReportsMissingDatabase(t *testing.T) {
	testlog.Start(t)
	cfg := writeConfigFile(t, "database = '"+filepath.Join(t.TempDir(), "missing.db")+"'\n")

	var in, out, errOut bytes.Buffer
	if err := frame.WriteRaw(&in, []byte(`{"method":"OPTIONS"}`), frame.DefaultLimits()); err != nil {
		t.Fatalf("frame request: %v", err)
	}
	if code := run([]string{"-config", cfg}, &in, &out, &errOut); code != 0 {
		t.Fatalf("expected clean exit, got %d", code)
	}
	msg, err := frame.ReadMessage(&out)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if string(msg) != `{"success":false,"message":"Failed to locate Buku database."}` {
		t.Fatalf("unexpected response: %s", msg)
	}
}

func TestRunServerTruncatedInputFails(t *testing.T) {
	testlog.Start(t)
	cfg := writeConfigFile(t, "database = '"+writeBukuFile(t)+"'\n")
	var out bytes.Buffer
	if code := run([]string{"-config", cfg}, bytes.NewReader([]byte{0x10, 0}), &out, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestServeExitsNonZeroWhenInterrupted(t *testing.T) {
	testlog.Start(t)
	cfg := config.DefaultConfig()
	cfg.Database = writeBukuFile(t)

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	var out bytes.Buffer
	go func() { done <- serve(ctx, cfg, pr, &out) }()

	cancel()
	select {
	case code := <-done:
		if code != 1 {
			t.Fatalf("expected exit code 1, got %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after interrupt")
	}
}
