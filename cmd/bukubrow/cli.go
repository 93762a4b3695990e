package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/bukubrow/internal/buku"
	"github.com/danmuck/bukubrow/internal/config"
	"github.com/danmuck/bukubrow/internal/manifest"
	"github.com/pkg/browser"
)

var installOrder = []string{"chrome", "chromium", "firefox", "librewolf", "brave", "vivaldi", "edge"}

// openURL is swapped out by tests.
var openURL = browser.OpenURL

type cliOptions struct {
	install     []string
	manifestDir string
	list        bool
	open        string
	version     bool
	configPath  string
	writeConfig string
	force       bool
}

func (o cliOptions) hasAction() bool {
	return len(o.install) > 0 || o.list || o.open != ""
}

func newFlagSet(opts *cliOptions, installs map[string]*bool) *flag.FlagSet {
	fs := flag.NewFlagSet("bukubrow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, id := range installOrder {
		installs[id] = fs.Bool("install-"+id, false, "install the native messaging host for "+id)
	}
	fs.StringVar(&opts.manifestDir, "manifest-dir", "", "write host manifests to this directory")
	fs.BoolVar(&opts.list, "list", false, "print all bookmarks to stdout")
	fs.BoolVar(&opts.list, "l", false, "shorthand for -list")
	fs.StringVar(&opts.open, "open", "", "open bookmark(s) in the browser by ID[,ID]")
	fs.StringVar(&opts.open, "o", "", "shorthand for -open")
	fs.BoolVar(&opts.version, "version", false, "print the host version")
	fs.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&opts.writeConfig, "write-config", "", "write a default TOML config to this path")
	fs.BoolVar(&opts.force, "force", false, "overwrite an existing file with -write-config")
	return fs
}

// parseArgs never fails: browsers launch the host with arguments of their own
// (the manifest path, the caller's origin) which are dropped here.
func parseArgs(args []string) cliOptions {
	var opts cliOptions
	installs := make(map[string]*bool, len(installOrder))
	fs := newFlagSet(&opts, installs)
	_ = fs.Parse(knownArgs(fs, args))

	for _, id := range installOrder {
		if *installs[id] {
			opts.install = append(opts.install, id)
		}
	}
	return opts
}

func knownArgs(fs *flag.FlagSet, args []string) []string {
	type boolFlag interface{ IsBoolFlag() bool }

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		name, _, hasValue := strings.Cut(name, "=")
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		out = append(out, arg)
		if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
			continue
		}
		if !hasValue && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

func parseIDs(raw string) ([]buku.ID, error) {
	parts := strings.Split(raw, ",")
	ids := make([]buku.ID, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid bookmark id %q", p)
		}
		ids = append(ids, buku.ID(n))
	}
	return ids, nil
}

// runActions handles the terminal-facing flags. Failures are reported on
// stdout, matching what a user at a shell expects to see.
func runActions(ctx context.Context, opts cliOptions, cfg config.Config, stdout io.Writer) int {
	registry := manifest.DefaultRegistry()
	for _, id := range opts.install {
		target, err := registry.Resolve(id)
		if err != nil {
			fmt.Fprintln(stdout, err)
			return 1
		}
		path, err := manifest.Install(target, manifest.Options{
			Dir:               opts.manifestDir,
			ChromeOrigins:     cfg.Manifest.ChromeOrigins,
			FirefoxExtensions: cfg.Manifest.FirefoxExtensions,
		})
		if err != nil {
			fmt.Fprintf(stdout, "Failed to install host for %s:\n\t%v\n", target.Name, err)
			return 1
		}
		fmt.Fprintf(stdout, "Successfully installed host for %s to:\n\t%s\n", target.Name, path)
	}

	if !opts.list && opts.open == "" {
		return 0
	}

	var ids []buku.ID
	if opts.open != "" {
		parsed, err := parseIDs(opts.open)
		if err != nil {
			fmt.Fprintln(stdout, "Failed to parse bookmark ID(s).")
			return 1
		}
		ids = parsed
	}

	db, _, err := buku.Init(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintln(stdout, buku.FriendlyMessage(err))
		return 1
	}
	defer db.Close()

	if opts.list {
		bookmarks, err := db.GetAll(ctx)
		if err != nil {
			fmt.Fprintln(stdout, "Failed to fetch bookmarks from database.")
			return 1
		}
		for _, bm := range bookmarks {
			fmt.Fprintf(stdout, "%d %s\n", bm.ID, bm.Metadata)
		}
	}

	if len(ids) > 0 {
		bookmarks, err := db.GetByIDs(ctx, ids)
		if err != nil {
			fmt.Fprintln(stdout, "Failed to fetch selected bookmarks from database.")
			return 1
		}
		browser.Stdout = stdout
		for _, bm := range bookmarks {
			if err := openURL(bm.URL); err != nil {
				fmt.Fprintln(stdout, "Failed to open bookmark in web browser.")
				return 1
			}
		}
	}
	return 0
}
