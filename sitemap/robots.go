package sitemap

import (
	"bufio"
	"fmt"
	"io"
)

// Group is a set of robots.txt rules for one or more user agents.
type Group struct {
	UserAgent []string `toml:"useragent"`
	Allow     []string `toml:"allow"`
	Disallow  []string `toml:"disallow"`
}

// Robots describes a robots.txt file.
type Robots struct {
	Groups  []Group
	Sitemap []string // absolute URLs of site maps
	Host    string
}

// WriteRobots writes r in robots.txt format. With no groups, every user agent
// is allowed everywhere.
func WriteRobots(w io.Writer, r Robots) error {
	groups := r.Groups
	if len(groups) == 0 {
		groups = []Group{{UserAgent: []string{"*"}, Allow: []string{"/"}}}
	}
	bw := bufio.NewWriter(w)
	for i, g := range groups {
		if i > 0 {
			bw.WriteString("\n")
		}
		agents := g.UserAgent
		if len(agents) == 0 {
			agents = []string{"*"}
		}
		for _, a := range agents {
			fmt.Fprintf(bw, "User-agent: %s\n", a)
		}
		for _, a := range g.Allow {
			fmt.Fprintf(bw, "Allow: %s\n", a)
		}
		for _, d := range g.Disallow {
			fmt.Fprintf(bw, "Disallow: %s\n", d)
		}
	}
	if r.Host != "" {
		fmt.Fprintf(bw, "\nHost: %s\n", r.Host)
	}
	if len(r.Sitemap) > 0 {
		bw.WriteString("\n")
		for _, s := range r.Sitemap {
			fmt.Fprintf(bw, "Sitemap: %s\n", s)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("WriteRobots: %w", err)
	}
	return nil
}
