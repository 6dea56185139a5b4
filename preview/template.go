package preview

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/ancientlore/sitegen/content"
)

//go:embed default.html
var defaultTemplate string

// pageInfo has information about the current page.
type pageInfo struct {
	Path     string // path from URL
	Filename string // end portion (file) from URL
	Source   string // content file the page was rendered from
}

// Pathname joins the path and filename.
func (p pageInfo) Pathname() string {
	return path.Join(p.Path, p.Filename)
}

// data is what is passed to content templates.
type data struct {
	FrontMatter content.FrontMatter // front matter from the content file
	Page        pageInfo            // information about current page
	Content     template.HTML       // rendered Markdown
}

// getTemplates returns the current templates.
func (vfs *FS) getTemplates() *template.Template {
	vfs.tplMutex.RLock()
	defer vfs.tplMutex.RUnlock()
	return vfs.tpl
}

// Reload parses the templates again, picking up edits to the template folder.
func (vfs *FS) Reload() error {
	_, err := vfs.loadTemplates()
	return err
}

// loadTemplates loads and parses the HTML templates, returning true if custom templates were found.
func (vfs *FS) loadTemplates() (bool, error) {
	funcMap := template.FuncMap{
		"articles":   vfs.articles,
		"join":       path.Join,
		"trimsuffix": strings.TrimSuffix,
		"trimprefix": strings.TrimPrefix,
		"now":        vfs.cfg.Now,
		"date":       func(t time.Time) string { return t.Format("January 2, 2006") },
	}
	// Check if we are using default templates
	fi, err := fs.Stat(vfs.fs, "template")
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		tpl, err := template.New("sitegen").Funcs(funcMap).Parse(defaultTemplate)
		if err != nil {
			return false, fmt.Errorf("loadTemplates: %w", err)
		}
		vfs.setTemplates(tpl)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loadTemplates: %w", err)
	}
	// use custom templates
	tpl, err := template.New("sitegen").Funcs(funcMap).ParseFS(vfs.fs, "template/*.html")
	if err != nil {
		return true, fmt.Errorf("loadTemplates: %w", err)
	}
	vfs.setTemplates(tpl)
	return true, nil
}

func (vfs *FS) setTemplates(tpl *template.Template) {
	vfs.tplMutex.Lock()
	defer vfs.tplMutex.Unlock()
	vfs.tpl = tpl
}
