package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/ancientlore/sitegen/content"
	"github.com/ancientlore/sitegen/routes"
	"github.com/ancientlore/sitegen/sitemap"
	"github.com/russross/blackfriday/v2"
	"go.uber.org/zap"
)

// renderMarkdown converts a content body to HTML. MDX bodies lose their
// import and export lines first.
func renderMarkdown(src string, body []byte) template.HTML {
	if path.Ext(src) == ".mdx" {
		body = content.StripESM(body)
	}
	return template.HTML(blackfriday.Run(body, blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.Footnotes)))
}

// newContentFile reads the content file src, extracts the front matter,
// renders the body, and executes the specified template, returning the
// resulting renderFile named after name.
func (vfs *FS) newContentFile(src, name string) (fs.File, error) {
	b, err := fs.ReadFile(vfs.fs, src)
	if err != nil {
		return nil, fmt.Errorf("newContentFile: %w", err)
	}
	fi, err := fs.Stat(vfs.fs, src)
	if err != nil {
		return nil, fmt.Errorf("newContentFile: %w", err)
	}
	front, body, err := content.ParseFrontMatter(b)
	if err != nil {
		return nil, fmt.Errorf("newContentFile: %w", err)
	}
	// don't render until the date/time is passed
	if !front.Published(vfs.cfg.Now()) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if front.Title == "" {
		front.Title = strings.TrimSuffix(path.Base(name), ".html")
	}

	p, bn := path.Split(name)
	var data = data{
		FrontMatter: front,
		Page: pageInfo{
			Path:     "/" + p,
			Filename: bn,
			Source:   src,
		},
		Content: renderMarkdown(src, body),
	}

	// Render the HTML template
	templateName := "default"
	if data.FrontMatter.Template != "" {
		templateName = data.FrontMatter.Template
	}
	tpl := vfs.getTemplates()
	var wtr bytes.Buffer
	err = tpl.ExecuteTemplate(&wtr, templateName, data)
	if err != nil {
		return nil, fmt.Errorf("newContentFile: %w", err)
	}

	modTime := fi.ModTime()
	if lm := front.LastMod(); lm.After(modTime) {
		modTime = lm
	}
	return newRenderFile(bn, wtr.Bytes(), modTime), nil
}

// Article is a published article as listed in templates.
type Article struct {
	Route       string
	FrontMatter content.FrontMatter
}

// articles returns the published articles, newest first, and is used in templates.
func (vfs *FS) articles() []Article {
	r, err := vfs.articleRoutes()
	if err != nil {
		vfs.logger.Error("Cannot list articles", zap.Error(err))
		return nil
	}
	now := vfs.cfg.Now()
	a := make([]Article, 0, len(r))
	for _, route := range r {
		src, err := vfs.articleSource(route)
		if err != nil {
			vfs.logger.Warn("Cannot find article", zap.String("route", route), zap.Error(err))
			continue
		}
		var fm content.FrontMatter
		if err = content.ReadFrontMatter(vfs.fs, src, &fm); err != nil {
			vfs.logger.Warn("Cannot read front matter", zap.String("route", route), zap.Error(err))
			continue
		}
		if fm.Published(now) {
			a = append(a, Article{Route: route, FrontMatter: fm})
		}
	}
	sort.SliceStable(a, func(i, j int) bool { return a[j].FrontMatter.Date.Before(a[i].FrontMatter.Date) })
	return a
}

// articleRoutes scans the article folder for routes, leaving out hidden
// articles that Open would not serve.
func (vfs *FS) articleRoutes() ([]string, error) {
	all, err := routes.List(vfs.fs, vfs.cfg.ArticleDir, vfs.cfg.Options)
	if err != nil {
		return nil, err
	}
	r := all[:0]
	for _, route := range all {
		if content.IsHidden(strings.TrimPrefix(route, vfs.cfg.Options.URLPrefix())) {
			continue
		}
		r = append(r, route)
	}
	return r, nil
}

// articleSource finds the content file behind an article route.
func (vfs *FS) articleSource(route string) (string, error) {
	slug := strings.TrimPrefix(route, vfs.cfg.Options.URLPrefix())
	return content.Find(vfs.fs, vfs.cfg.ArticleDir, slug, vfs.cfg.Options.Extensions)
}

// newSitemapFile renders one of the site map or robots files.
func (vfs *FS) newSitemapFile(name string) (fs.File, error) {
	var (
		wtr bytes.Buffer
		err error
	)
	switch name {
	case "robots.txt":
		err = sitemap.WriteRobots(&wtr, sitemap.Robots{
			Groups:  vfs.cfg.Robots,
			Sitemap: []string{sitemap.URL(vfs.cfg.Hostname, "/sitemap.xml")},
		})
	default:
		var entries []sitemap.Entry
		entries, err = vfs.entries()
		if err != nil {
			break
		}
		if name == "sitemap.xml" {
			err = sitemap.WriteXML(&wtr, vfs.cfg.Hostname, entries)
		} else {
			err = sitemap.WriteText(&wtr, vfs.cfg.Hostname, entries)
		}
	}
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return newRenderFile(name, wtr.Bytes(), vfs.cfg.Now()), nil
}

// entries builds the site map entries for the static routes and a fresh
// scan of the articles.
func (vfs *FS) entries() ([]sitemap.Entry, error) {
	generated, err := vfs.articleRoutes()
	if err != nil {
		return nil, err
	}
	all := sitemap.Merge(vfs.cfg.StaticRoutes, generated)
	if err = sitemap.Check(all); err != nil {
		return nil, err
	}
	entries := sitemap.Entries(all)
	for i := len(vfs.cfg.StaticRoutes); i < len(entries); i++ {
		entries[i].ChangeFreq = vfs.cfg.ChangeFreq
		src, err := vfs.articleSource(entries[i].Loc)
		if err != nil {
			vfs.logger.Warn("Cannot find article", zap.String("route", entries[i].Loc), zap.Error(err))
			continue
		}
		entries[i].LastMod, err = content.LastMod(vfs.fs, src)
		if err != nil {
			vfs.logger.Warn("Cannot read last modification", zap.String("route", entries[i].Loc), zap.Error(err))
		}
	}
	return entries, nil
}
