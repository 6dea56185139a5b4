/*
Package content knows how to recognize and read the source documents of the site.

A content file is a regular file whose name ends in one of the content extensions,
".md" or ".mdx" by default. Its slug is the file name with that extension removed,
so "articles/hello-world.mdx" has the slug "hello-world".

Content files may start with front matter, either TOML delimited by "+++" lines or
YAML delimited by "---" lines:

	+++
	title = "Hello, world"
	date = 2024-03-01T09:00:00Z
	+++
	# Hello
*/
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"
)

// Extensions are the default content file extensions, in lookup order.
var Extensions = []string{".md", ".mdx"}

// Ext returns the content extension that name ends with. Matching is case-sensitive.
func Ext(name string, exts []string) (string, bool) {
	if len(exts) == 0 {
		exts = Extensions
	}
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return ext, true
		}
	}
	return "", false
}

// Slug returns name without its content extension. It reports false when name
// is not a content file or nothing remains after removing the extension.
func Slug(name string, exts []string) (string, bool) {
	ext, ok := Ext(name, exts)
	if !ok {
		return "", false
	}
	slug := strings.TrimSuffix(name, ext)
	if slug == "" {
		return "", false
	}
	return slug, true
}

// Find returns the path of the first content file in dir for slug, trying
// the extensions in order. The error wraps fs.ErrNotExist if there is none.
func Find(fsys fs.FS, dir, slug string, exts []string) (string, error) {
	if len(exts) == 0 {
		exts = Extensions
	}
	for _, ext := range exts {
		name := path.Join(dir, slug+ext)
		fi, err := fs.Stat(fsys, name)
		if err == nil {
			if fi.IsDir() {
				continue
			}
			return name, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("Find: %w", err)
		}
	}
	return "", fmt.Errorf("Find %q: %w", path.Join(dir, slug), fs.ErrNotExist)
}

// IsHidden reports whether name contains a path element starting with a period.
// The name is assumed to be delimited by forward slashes, as guaranteed by the
// fs.FS interface.
func IsHidden(name string) bool {
	if name == "." {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// LastMod returns when the content file name last changed: the later of the
// front matter "updated" and "date" values, or the file modification time
// when the front matter has neither.
func LastMod(fsys fs.FS, name string) (time.Time, error) {
	var fm FrontMatter
	if err := ReadFrontMatter(fsys, name, &fm); err != nil {
		return time.Time{}, fmt.Errorf("LastMod: %w", err)
	}
	if t := fm.LastMod(); !t.IsZero() {
		return t, nil
	}
	fi, err := fs.Stat(fsys, name)
	if err != nil {
		return time.Time{}, fmt.Errorf("LastMod: %w", err)
	}
	return fi.ModTime(), nil
}
