package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ancientlore/sitegen/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// setup creates a site with one article in a fresh working directory.
func setup(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join("site", "content", "articles"), 0755); err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join("site", "content", "articles", "hello.md"), []byte("+++\ndate = 2024-01-08T09:00:00Z\n+++\n# Hello"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(config.Filename, []byte("hostname = \"https://example.com/\"\nchangefreq = \"monthly\"\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func readPublic(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("public", name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRun(t *testing.T) {
	setup(t)
	core, logs := observer.New(zapcore.WarnLevel)

	static := []string{"/", "/about"}
	generated := []string{"/articles/gone", "/articles/hello"}
	if err := run(zap.New(core), config.Filename, "", "", static, generated); err != nil {
		t.Fatal(err)
	}

	expect := "https://example.com/\nhttps://example.com/about\nhttps://example.com/articles/gone\nhttps://example.com/articles/hello\n"
	if s := readPublic(t, "sitemap.txt"); s != expect {
		t.Errorf("Expected %q, got %q", expect, s)
	}
	s := readPublic(t, "sitemap.xml")
	if !strings.Contains(s, "<lastmod>2024-01-08</lastmod>") || !strings.Contains(s, "<changefreq>monthly</changefreq>") {
		t.Errorf("Unexpected sitemap.xml:\n%s", s)
	}
	if strings.Count(s, "<lastmod>") != 1 {
		t.Errorf("Only the article with a source should have a lastmod:\n%s", s)
	}
	if s := readPublic(t, "robots.txt"); !strings.Contains(s, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("Unexpected robots.txt:\n%s", s)
	}

	// the article without a source is only a warning
	warnings := logs.FilterMessage("No source for article").All()
	if len(warnings) != 1 {
		t.Fatalf("Expected one warning, got %v", logs.All())
	}
	if route := warnings[0].ContextMap()["route"]; route != "/articles/gone" {
		t.Errorf("Expected a warning for /articles/gone, got %v", route)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name      string
		static    []string
		generated []string
		prepare   func(t *testing.T)
	}{
		{
			name:      "relative static route",
			static:    []string{"/", "about"},
			generated: []string{"/articles/hello"},
		},
		{
			name:      "relative generated route",
			static:    []string{"/"},
			generated: []string{"articles/hello"},
		},
		{
			name:      "write fails",
			static:    []string{"/"},
			generated: []string{"/articles/hello"},
			prepare: func(t *testing.T) {
				// a folder in place of the site map cannot be replaced
				if err := os.Remove(filepath.Join("public", "sitemap.xml")); err != nil {
					t.Fatal(err)
				}
				if err := os.Mkdir(filepath.Join("public", "sitemap.xml"), 0755); err != nil {
					t.Fatal(err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			if err := run(zap.NewNop(), config.Filename, "", "", []string{"/old"}, nil); err != nil {
				t.Fatal(err)
			}
			if tt.prepare != nil {
				tt.prepare(t)
			}
			txt, robots := readPublic(t, "sitemap.txt"), readPublic(t, "robots.txt")

			if err := run(zap.NewNop(), config.Filename, "", "", tt.static, tt.generated); err == nil {
				t.Fatal("Expected an error")
			}
			if s := readPublic(t, "sitemap.txt"); s != txt {
				t.Errorf("sitemap.txt changed to %q", s)
			}
			if s := readPublic(t, "robots.txt"); s != robots {
				t.Errorf("robots.txt changed to %q", s)
			}
			if fi, err := os.Stat(filepath.Join("public", "sitemap.xml")); err == nil && !fi.IsDir() {
				if s := readPublic(t, "sitemap.xml"); strings.Contains(s, "/articles/hello") {
					t.Errorf("sitemap.xml was rewritten:\n%s", s)
				}
			}
		})
	}
}

func TestRunInvalidWritesNothing(t *testing.T) {
	setup(t)
	if err := run(zap.NewNop(), config.Filename, "other", "", []string{"about"}, nil); err == nil {
		t.Error("Expected an error for a relative route")
	}
	if _, err := os.Stat("other"); err == nil {
		t.Error("Nothing should be written when routes are invalid")
	}
}
