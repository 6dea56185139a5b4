// Command preview serves the content of the site, rendered, for checking articles before a build.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/ancientlore/sitegen/config"
	"github.com/ancientlore/sitegen/internal/cli"
	"github.com/ancientlore/sitegen/preview"
	"github.com/ancientlore/sitegen/routes"
	"github.com/ancientlore/sitegen/site"
	"github.com/ancientlore/sitegen/web"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"
	"go.uber.org/zap"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fRoot              = flag.String("root", ".", "Root of web site.")
		fConfig            = flag.String("config", config.Filename, "Configuration file, relative to the root.")
		fVerbose           = flag.Bool("verbose", false, "Log debug messages.")
	)
	flag.Parse()
	flagenv.Parse()

	logger := cli.NewLogger(*fVerbose)
	defer logger.Sync()

	// Switch to site folder
	err := os.Chdir(*fRoot)
	if err != nil {
		logger.Error("Cannot switch to root", zap.String("root", *fRoot), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Changed directory", zap.String("root", *fRoot))

	cfg, err := config.Load(os.DirFS("."), *fConfig)
	if err != nil {
		logger.Error("Cannot load configuration", zap.Error(err))
		os.Exit(2)
	}

	// Setup groupcache (with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := newHandler(ctx, cfg, "preview", logger)
	if err != nil {
		logger.Error("Cannot create handler", zap.Error(err))
		os.Exit(3)
	}

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           handler,
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}

	// Shut down gracefully on SIGINT or SIGTERM
	go func() {
		<-ctx.Done()

		// We received an interrupt signal, shut down.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			// Error from closing listeners, or context timeout:
			logger.Error("HTTP server Shutdown", zap.Error(err))
		}
	}()

	// Listen for requests
	logger.Info("Listening for requests", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server", zap.Error(err))
	} else {
		logger.Info("Goodbye.")
	}
}

// newHandler builds the preview file system and the handler chain that serves it.
// Each call needs a distinct cache group name. Templates are reloaded on change until ctx is done.
func newHandler(ctx context.Context, cfg config.Config, groupName string, logger *zap.Logger) (http.Handler, error) {
	articleDir, err := filepath.Rel(cfg.ContentRoot, cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("contentdir must be inside contentroot: %w", err)
	}
	articleDir = filepath.ToSlash(articleDir)
	if articleDir == ".." || strings.HasPrefix(articleDir, "../") {
		return nil, fmt.Errorf("contentdir %q is not inside contentroot %q", cfg.ContentDir, cfg.ContentRoot)
	}

	// Create the virtual file system
	vfs, err := preview.New(os.DirFS(cfg.ContentRoot), preview.Config{
		ArticleDir:   articleDir,
		Options:      routes.Options{Prefix: cfg.Prefix, Extensions: cfg.Extensions},
		StaticRoutes: site.StaticRoutes,
		Hostname:     cfg.Hostname,
		ChangeFreq:   cfg.ChangeFreq,
		Robots:       cfg.Robots,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded templates")

	tplDir := filepath.Join(cfg.ContentRoot, "template")
	if fi, err := os.Stat(tplDir); err == nil && fi.IsDir() {
		go func() {
			err := routes.Watch(ctx, tplDir, 250*time.Millisecond, vfs.Reload, logger)
			if err != nil {
				logger.Warn("Cannot watch templates", zap.String("dir", tplDir), zap.Error(err))
			}
		}()
	}

	// Create the cached file system
	cachedFileSystem := cachefs.New(vfs, &cachefs.Config{
		GroupName:   groupName,
		SizeInBytes: cfg.CacheSize,
		Duration:    time.Duration(cfg.CacheDuration),
	})

	return web.HeaderHandler(
		web.ExpiresHandler(
			gziphandler.GzipHandler(
				web.ErrorHandler(
					http.FileServer(
						http.FS(cachedFileSystem),
					),
					cachedFileSystem,
					logger,
				),
			),
			time.Duration(cfg.Expires),
			time.Duration(cfg.StaticExpires),
		),
		cfg.Headers), nil
}
