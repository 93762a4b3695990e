package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/bukubrow/internal/buku"
	"github.com/danmuck/bukubrow/internal/config"
	"github.com/danmuck/bukubrow/internal/logging"
	"github.com/danmuck/bukubrow/internal/observability"
	"github.com/danmuck/bukubrow/internal/server"
)

// version is reported to the extension through OPTIONS.
var version = "5.4.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := parseArgs(args)

	if opts.version {
		fmt.Fprintf(stdout, "bukubrow %s\n", version)
		return 0
	}
	if opts.writeConfig != "" {
		if err := config.WriteTemplate(opts.writeConfig, opts.force); err != nil {
			fmt.Fprintf(stdout, "Failed to write config:\n\t%v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote config template to:\n\t%s\n", opts.writeConfig)
		return 0
	}

	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "bukubrow: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	logging.ConfigureRuntime(cfg.LogLevel)
	observability.RegisterMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.hasAction() {
		return runActions(ctx, opts, cfg, stdout)
	}
	return serve(ctx, cfg, stdin, stdout)
}

// serve runs the native messaging loop. Database failures do not stop the
// loop; the extension is told about them per request.
func serve(ctx context.Context, cfg config.Config, stdin io.Reader, stdout io.Writer) int {
	log := logging.For("main")

	db, path, err := buku.Init(ctx, cfg.Database)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("bookmark database unavailable")
	} else {
		log.Info().Str("path", path).Msg("opened bookmark database")
	}
	backend := server.FromInit(db, err)
	defer backend.Close()

	srv := server.New(server.NewRouter(backend, version))
	serveErr := srv.Serve(ctx, stdin, stdout)

	if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
		log.Warn().Err(err).Str("path", cfg.MetricsTextfile).Msg("metrics export failed")
	}
	if errors.Is(serveErr, context.Canceled) {
		log.Info().Msg("interrupted")
		return 1
	}
	if serveErr != nil {
		log.Error().Err(serveErr).Msg("native messaging loop failed")
		return 1
	}
	return 0
}
