// Package cli holds the pieces shared by the sitegen commands.
package cli

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger writing to standard error. Debug
// messages are only logged when verbose is set.
func NewLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

// DirFS returns a file system and a valid fs path for the folder dir, which
// may be absolute or relative to the working directory. Relative folders
// outside the working directory are opened by their absolute path.
func DirFS(dir string) (fs.FS, string) {
	if filepath.IsAbs(dir) {
		return os.DirFS(dir), "."
	}
	name := path.Clean(filepath.ToSlash(dir))
	if name == ".." || strings.HasPrefix(name, "../") {
		// fs paths cannot leave the root
		if abs, err := filepath.Abs(dir); err == nil {
			return os.DirFS(abs), "."
		}
	}
	return os.DirFS("."), name
}
