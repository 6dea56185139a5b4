/*
Package sitemap turns the full route list of the site into sitemap and robots files.

The full route list is the hand-maintained static routes followed by the generated
article routes. Routes are absolute paths starting with "/" and are used as given;
no trailing slash is added or removed.
*/
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Merge returns static followed by generated. Order is kept and duplicates
// are not removed. The result never shares storage with the inputs.
func Merge(static, generated []string) []string {
	r := make([]string, 0, len(static)+len(generated))
	r = append(r, static...)
	return append(r, generated...)
}

// Check reports the first route that is not an absolute path.
func Check(routes []string) error {
	for i, r := range routes {
		if !strings.HasPrefix(r, "/") {
			return fmt.Errorf("route %d (%q) does not start with /", i, r)
		}
	}
	return nil
}

// Entry is one URL in the site map.
type Entry struct {
	Loc        string    // route, such as "/articles/hello"
	LastMod    time.Time // zero if unknown
	ChangeFreq string    // optional, such as "weekly"
	Priority   float64   // optional, 0 to 1
}

// Entries makes an Entry for each route.
func Entries(routes []string) []Entry {
	e := make([]Entry, len(routes))
	for i, r := range routes {
		e[i].Loc = r
	}
	return e
}

// URL joins hostname and route.
func URL(hostname, route string) string {
	return strings.TrimSuffix(hostname, "/") + route
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// WriteXML writes a sitemaps.org XML site map for entries under hostname.
func WriteXML(w io.Writer, hostname string, entries []Entry) error {
	set := urlset{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]url, len(entries)),
	}
	for i, e := range entries {
		set.URLs[i].Loc = URL(hostname, e.Loc)
		if !e.LastMod.IsZero() {
			set.URLs[i].LastMod = e.LastMod.UTC().Format("2006-01-02")
		}
		set.URLs[i].ChangeFreq = e.ChangeFreq
		if e.Priority > 0 {
			set.URLs[i].Priority = fmt.Sprintf("%.1f", e.Priority)
		}
	}
	_, err := io.WriteString(w, xml.Header)
	if err != nil {
		return fmt.Errorf("WriteXML: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err = enc.Encode(set); err != nil {
		return fmt.Errorf("WriteXML: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	if err != nil {
		return fmt.Errorf("WriteXML: %w", err)
	}
	return nil
}

// WriteText writes a plain text site map, one URL per line.
func WriteText(w io.Writer, hostname string, entries []Entry) error {
	for _, e := range entries {
		_, err := fmt.Fprintln(w, URL(hostname, e.Loc))
		if err != nil {
			return fmt.Errorf("WriteText: %w", err)
		}
	}
	return nil
}
