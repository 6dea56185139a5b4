package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of front matter.
type Format int

const (
	NoFrontMatter Format = iota
	TOML
	YAML
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	}
	return "none"
}

// FrontMatter holds data scraped from a content page.
type FrontMatter struct {
	Title       string    `toml:"title" yaml:"title"`             // Title of this page
	Description string    `toml:"description" yaml:"description"` // Summary used in listings and meta tags
	Date        time.Time `toml:"date" yaml:"date"`               // Date the article appears
	Updated     time.Time `toml:"updated" yaml:"updated"`         // Date the article last changed
	Template    string    `toml:"template" yaml:"template"`       // The name of the template to use
	Tags        []string  `toml:"tags" yaml:"tags"`               // Tags to assign to this article
	Draft       bool      `toml:"draft" yaml:"draft"`             // Drafts are never served
}

// Published reports whether the page may be shown at time now.
func (fm FrontMatter) Published(now time.Time) bool {
	return !fm.Draft && !fm.Date.After(now)
}

// LastMod returns the most recent of Updated and Date, which may be zero.
func (fm FrontMatter) LastMod() time.Time {
	if fm.Updated.After(fm.Date) {
		return fm.Updated
	}
	return fm.Date
}

// tomlRegexp and yamlRegexp are the regular expressions used to split out front matter.
var (
	tomlRegexp = regexp.MustCompile(`(?m)^\s*\+\+\+\s*$`)
	yamlRegexp = regexp.MustCompile(`(?m)^\s*---\s*$`)
)

// ExtractFrontMatter splits the front matter and content. When there is no
// front matter, fm is nil and body is x.
func ExtractFrontMatter(x []byte) (fm, body []byte, f Format) {
	trimmed := bytes.TrimLeft(x, " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("+++")):
		return split(tomlRegexp, x, TOML)
	case bytes.HasPrefix(trimmed, []byte("---")):
		return split(yamlRegexp, x, YAML)
	}
	return nil, x, NoFrontMatter
}

func split(re *regexp.Regexp, x []byte, f Format) ([]byte, []byte, Format) {
	subs := re.Split(string(x), 3)
	if len(subs) != 3 {
		return nil, x, NoFrontMatter
	}
	if s := strings.TrimSpace(subs[0]); len(s) > 0 {
		return nil, x, NoFrontMatter
	}
	return []byte(strings.TrimSpace(subs[1])), []byte(strings.TrimSpace(subs[2])), f
}

// ParseFrontMatter extracts and unmarshals the front matter of x, returning
// the remaining content.
func ParseFrontMatter(x []byte) (FrontMatter, []byte, error) {
	var front FrontMatter
	fm, body, f := ExtractFrontMatter(x)
	if len(fm) == 0 {
		return front, body, nil
	}
	var err error
	switch f {
	case TOML:
		err = toml.Unmarshal(fm, &front)
	case YAML:
		err = yaml.Unmarshal(fm, &front)
	}
	if err != nil {
		return front, body, fmt.Errorf("ParseFrontMatter (%s): %w", f, err)
	}
	return front, body, nil
}

// ReadFrontMatter extracts and unmarshals front matter from the given file.
func ReadFrontMatter(fsys fs.FS, name string, fm *FrontMatter) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("ReadFrontMatter: %w", err)
	}
	front, _, err := ParseFrontMatter(b)
	if err != nil {
		return fmt.Errorf("ReadFrontMatter %q: %w", name, err)
	}
	*fm = front
	return nil
}
