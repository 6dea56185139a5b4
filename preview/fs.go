/*
Package preview implements a "virtual" view over the content folder of the site that makes it
suitable for serving with http.FileServer while writing articles.

When an endpoint like "/articles/hello" or "/articles/hello.html" is requested and it does not exist,
the file system looks for a content file named "articles/hello.md" or "articles/hello.mdx". If present,
a virtual file is presented that renders the content file into HTML. The content files themselves are
hidden from view, and directory listings show each one under its route name.

Content files are rendered with the "default" template unless the front matter names a different one.
Templates are read from the "template" folder at the root of the content folder, which is hidden.
Without that folder a built-in template is used. Drafts and pages dated in the future are not found.

Three more virtual files are served from the root: "sitemap.xml", "sitemap.txt", and "robots.txt".
They are built from the static routes and a fresh scan of the article folder on every open.

Hidden files and folders (those starting with ".") are ignored.
*/
package preview

import (
	"errors"
	"html/template"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/ancientlore/sitegen/content"
	"github.com/ancientlore/sitegen/routes"
	"github.com/ancientlore/sitegen/sitemap"
	"go.uber.org/zap"
)

// Config controls the preview file system.
type Config struct {
	ArticleDir   string          // folder of articles relative to the content root, "articles" if empty
	Options      routes.Options  // how article routes are derived
	StaticRoutes []string        // routes listed before the articles in site maps
	Hostname     string          // scheme and host used in site maps
	ChangeFreq   string          // changefreq for article entries
	Robots       []sitemap.Group // robots.txt rules
	Logger       *zap.Logger     // defaults to a no-op logger
	Now          func() time.Time
}

// FS provides a virtual view of the content folder suitable for serving
// rendered pages.
type FS struct {
	fs       fs.FS
	cfg      Config
	logger   *zap.Logger
	tpl      *template.Template
	tplMutex sync.RWMutex
}

// New returns a new FS that presents a virtual view of innerFS.
func New(innerFS fs.FS, cfg Config) (*FS, error) {
	if cfg.ArticleDir == "" {
		cfg.ArticleDir = "articles"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	var vfs = FS{
		fs:     innerFS,
		cfg:    cfg,
		logger: cfg.Logger,
	}
	_, err := vfs.loadTemplates()
	if err != nil {
		return nil, err
	}
	return &vfs, nil
}

// hiddenFiles are never exposed from the root.
var hiddenFiles = []string{
	"template",
}

// isHiddenFile returns true if the given file is considered
// hidden from outside view.
func isHiddenFile(name string) bool {
	for _, s := range hiddenFiles {
		if name == s || strings.HasPrefix(name, s+"/") {
			return true
		}
	}
	return content.IsHidden(name)
}

// Open opens the named file.
//
// When Open returns an error, it should be of type *fs.PathError
// with the Op field set to "open", the Path field set to name,
// and the Err field describing the problem.
//
// Open should reject attempts to open names that do not satisfy
// fs.ValidPath(name), returning a *PathError with Err set to
// ErrInvalid or ErrNotExist.
func (vfs *FS) Open(name string) (fs.File, error) {
	// Make sure the path is valid per fs rules
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	// Don't show hidden or special files
	if isHiddenFile(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	switch name {
	case "sitemap.xml", "sitemap.txt", "robots.txt":
		return vfs.newSitemapFile(name)
	}

	exts := vfs.cfg.Options.Extensions
	f, err := vfs.fs.Open(name)
	if err == nil {
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		// Directories need to be virtual so that listings show routes
		// instead of content files.
		if fi.IsDir() {
			return &virtualDir{File: f, vfs: vfs, path: name}, nil
		}
		// Content files are only visible in rendered form.
		if _, ok := content.Ext(name, exts); ok {
			f.Close()
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// for files that don't exist, check for a matching content file
	base := strings.TrimSuffix(name, ".html")
	dir, slug := ".", base
	if i := strings.LastIndex(base, "/"); i >= 0 {
		dir, slug = base[:i], base[i+1:]
	}
	src, err2 := content.Find(vfs.fs, dir, slug, exts)
	if err2 != nil {
		if !errors.Is(err2, fs.ErrNotExist) {
			vfs.logger.Warn("Cannot look up content", zap.String("name", name), zap.Error(err2))
		}
		// no matching content file; return error from opening the underlying file
		return nil, err
	}
	return vfs.newContentFile(src, name)
}
