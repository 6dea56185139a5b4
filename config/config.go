/*
Package config reads site settings from the sitegen.toml file at the root of the site.

	# sitegen.toml
	contentdir = "site/content/articles"
	prefix     = "/articles/"
	extensions = [".md", ".mdx"]
	output     = "site/articles_gen.go"
	hostname   = "https://www.example.com"

	[[robots]]
	useragent = ["*"]
	disallow  = ["/drafts/"]

Every setting is optional.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ancientlore/sitegen/sitemap"
	"github.com/pelletier/go-toml/v2"
)

// Filename is the name of the configuration file at the site root.
const Filename = "sitegen.toml"

// Config contains configuration data from the sitegen.toml file.
type Config struct {
	ContentRoot string   `toml:"contentroot"` // folder holding all content, served by the preview server
	ContentDir  string   `toml:"contentdir"`  // folder scanned for articles
	Prefix      string   `toml:"prefix"`      // URL prefix for articles
	Extensions  []string `toml:"extensions"`  // content file extensions
	Output      string   `toml:"output"`      // generated route module
	Format      string   `toml:"format"`      // go, json, or text
	Package     string   `toml:"package"`     // package name of a generated Go module
	Variable    string   `toml:"variable"`    // variable name of a generated Go module

	Hostname   string          `toml:"hostname"`   // scheme and host used in site maps
	PublicDir  string          `toml:"publicdir"`  // where sitemap and robots files are written
	ChangeFreq string          `toml:"changefreq"` // changefreq for article entries
	Robots     []sitemap.Group `toml:"robots"`     // robots.txt rules

	Expires       Duration          `toml:"expires"`       // Expires for rendered pages
	StaticExpires Duration          `toml:"staticexpires"` // Expires for static files
	CacheSize     int64             `toml:"cachesize"`     // preview cache size in bytes
	CacheDuration Duration          `toml:"cacheduration"` // preview cache expiration
	Headers       map[string]string `toml:"headers"`       // extra response headers
}

// Default returns the settings used when sitegen.toml does not set them.
func Default() Config {
	return Config{
		ContentRoot:   "site/content",
		ContentDir:    "site/content/articles",
		Prefix:        "/articles/",
		Extensions:    []string{".md", ".mdx"},
		Output:        "site/articles_gen.go",
		Format:        "go",
		Package:       "site",
		Variable:      "ArticleRoutes",
		Hostname:      "http://localhost:8080",
		PublicDir:     "public",
		CacheSize:     10 * 1024 * 1024,
		CacheDuration: Duration(10 * time.Second),
	}
}

// Load returns configuration from the named file in fsys, layered over Default.
// It is not an error if the file does not exist.
func Load(fsys fs.FS, name string) (Config, error) {
	cfg := Default()
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("Cannot read config file: %w", err)
	}
	err = toml.Unmarshal(b, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("Cannot parse config file: %w", err)
	}
	return cfg, nil
}
