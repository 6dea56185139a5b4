// Command sitemap writes sitemap.xml, sitemap.txt, and robots.txt for the site.
//
// The routes are the static routes followed by the generated article routes
// compiled into package site, so run "go generate ./site" first.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ancientlore/sitegen/config"
	"github.com/ancientlore/sitegen/content"
	"github.com/ancientlore/sitegen/internal/cli"
	"github.com/ancientlore/sitegen/routes"
	"github.com/ancientlore/sitegen/site"
	"github.com/ancientlore/sitegen/sitemap"
	"github.com/facebookgo/flagenv"
	"go.uber.org/zap"
)

func main() {
	// Setup flags
	var (
		fRoot     = flag.String("root", ".", "Root of web site.")
		fConfig   = flag.String("config", config.Filename, "Configuration file, relative to the root.")
		fOut      = flag.String("out", "", "Folder for the generated files. Overrides publicdir.")
		fHostname = flag.String("hostname", "", "Scheme and host of the site. Overrides hostname.")
		fVerbose  = flag.Bool("verbose", false, "Log debug messages.")
	)
	flag.Parse()
	flagenv.Parse()

	logger := cli.NewLogger(*fVerbose)
	err := os.Chdir(*fRoot)
	if err == nil {
		err = run(logger, *fConfig, *fOut, *fHostname, site.StaticRoutes, site.ArticleRoutes)
	}
	if err != nil {
		logger.Error("Sitemap generation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(logger *zap.Logger, cfgFile, out, hostname string, static, generated []string) error {
	cfg, err := config.Load(os.DirFS("."), cfgFile)
	if err != nil {
		return err
	}
	if out != "" {
		cfg.PublicDir = out
	}
	if hostname != "" {
		cfg.Hostname = hostname
	}

	all := sitemap.Merge(static, generated)
	if err = sitemap.Check(all); err != nil {
		return err
	}
	entries := sitemap.Entries(all)

	// Articles get a change frequency and, when the source can be found, a last modification date.
	opts := routes.Options{Prefix: cfg.Prefix, Extensions: cfg.Extensions}
	fsys, dir := cli.DirFS(cfg.ContentDir)
	for i := len(static); i < len(entries); i++ {
		entries[i].ChangeFreq = cfg.ChangeFreq
		slug := strings.TrimPrefix(entries[i].Loc, opts.URLPrefix())
		src, err := content.Find(fsys, dir, slug, opts.Extensions)
		if err != nil {
			logger.Warn("No source for article", zap.String("route", entries[i].Loc), zap.Error(err))
			continue
		}
		entries[i].LastMod, err = content.LastMod(fsys, src)
		if err != nil {
			logger.Warn("Cannot read last modification", zap.String("route", entries[i].Loc), zap.Error(err))
		}
	}

	// Render everything before writing so a failure leaves the folder as it was.
	files := []struct {
		name  string
		write func(*bytes.Buffer) error
		data  []byte
	}{
		{name: "sitemap.xml", write: func(b *bytes.Buffer) error { return sitemap.WriteXML(b, cfg.Hostname, entries) }},
		{name: "sitemap.txt", write: func(b *bytes.Buffer) error { return sitemap.WriteText(b, cfg.Hostname, entries) }},
		{name: "robots.txt", write: func(b *bytes.Buffer) error {
			return sitemap.WriteRobots(b, sitemap.Robots{
				Groups:  cfg.Robots,
				Sitemap: []string{sitemap.URL(cfg.Hostname, "/sitemap.xml")},
			})
		}},
	}
	for i := range files {
		var buf bytes.Buffer
		if err = files[i].write(&buf); err != nil {
			return err
		}
		files[i].data = buf.Bytes()
	}

	if err = os.MkdirAll(cfg.PublicDir, 0755); err != nil {
		return fmt.Errorf("Cannot create %q: %w", cfg.PublicDir, err)
	}
	for _, f := range files {
		name := filepath.Join(cfg.PublicDir, f.name)
		if err = routes.ReplaceFile(name, f.data); err != nil {
			return err
		}
		logger.Debug("Wrote file", zap.String("name", name), zap.Int("bytes", len(f.data)))
	}
	fmt.Printf("Wrote site map with %d routes (%d static, %d articles) to %s\n", len(all), len(static), len(generated), cfg.PublicDir)
	return nil
}
