// Command routegen writes the sorted list of article routes as a generated source file.
//
// With no flags it reads sitegen.toml from the current folder (if present), scans the
// article folder, and overwrites the output file. It exits with status 1 on any error,
// leaving the previous output in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancientlore/sitegen/config"
	"github.com/ancientlore/sitegen/internal/cli"
	"github.com/ancientlore/sitegen/routes"
	"github.com/facebookgo/flagenv"
	"go.uber.org/zap"
)

func main() {
	// Setup flags
	var (
		fRoot    = flag.String("root", ".", "Root of web site.")
		fConfig  = flag.String("config", config.Filename, "Configuration file, relative to the root.")
		fDir     = flag.String("dir", "", "Folder of articles. Overrides contentdir.")
		fOut     = flag.String("out", "", "Generated file. Overrides output.")
		fPrefix  = flag.String("prefix", "", "Route prefix. Overrides prefix.")
		fFormat  = flag.String("format", "", "Output format: go, json, or text. Overrides format.")
		fWatch   = flag.Bool("watch", false, "Keep running and regenerate when articles change.")
		fVerbose = flag.Bool("verbose", false, "Log debug messages.")
	)
	flag.Parse()
	flagenv.Parse()

	logger := cli.NewLogger(*fVerbose)
	err := run(logger, *fRoot, *fConfig, overrides{
		dir:    *fDir,
		out:    *fOut,
		prefix: *fPrefix,
		format: *fFormat,
	}, *fWatch)
	if err != nil {
		logger.Error("Route generation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// overrides are settings given on the command line.
type overrides struct {
	dir, out, prefix, format string
}

func (o overrides) apply(cfg *config.Config) {
	if o.dir != "" {
		cfg.ContentDir = o.dir
	}
	if o.out != "" {
		cfg.Output = o.out
	}
	if o.prefix != "" {
		cfg.Prefix = o.prefix
	}
	if o.format != "" {
		cfg.Format = o.format
	}
}

func run(logger *zap.Logger, root, cfgFile string, o overrides, watch bool) error {
	// Switch to site folder
	err := os.Chdir(root)
	if err != nil {
		return fmt.Errorf("Cannot switch to root %q: %w", root, err)
	}
	logger.Debug("Changed directory", zap.String("root", root))

	cfg, err := config.Load(os.DirFS("."), cfgFile)
	if err != nil {
		return err
	}
	o.apply(&cfg)

	f, err := routes.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	opts := routes.Options{Prefix: cfg.Prefix, Extensions: cfg.Extensions}
	m := routes.Module{
		Format:   f,
		Package:  cfg.Package,
		Variable: cfg.Variable,
		Source:   cfg.ContentDir,
	}
	fsys, dir := cli.DirFS(cfg.ContentDir)

	generate := func() error {
		n, err := routes.Generate(fsys, dir, cfg.Output, opts, m)
		if err != nil {
			return err
		}
		fmt.Printf("Generated %d routes to %s\n", n, cfg.Output)
		return nil
	}
	if err = generate(); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return routes.Watch(ctx, cfg.ContentDir, 250*time.Millisecond, generate, logger)
}
