package preview

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testFS(t *testing.T) *FS {
	t.Helper()
	inner := fstest.MapFS{
		"index.md": {Data: []byte("+++\ntitle = \"Home\"\ntemplate = \"index\"\n+++\n# Latest")},
		"articles/hello.md": {
			Data:    []byte("+++\ntitle = \"Hello\"\ndate = 2024-01-08T09:00:00Z\n+++\n# Hello\n\nFirst post."),
			ModTime: testNow.Add(-time.Hour),
		},
		"articles/workflow.mdx": {
			Data:    []byte("---\ntitle: Workflow\ndate: 2024-02-12T09:00:00Z\n---\nimport Flow from './Flow'\n\n# Workflow\n\n<Flow />\n"),
			ModTime: testNow.Add(-time.Hour),
		},
		"articles/draft.md":  {Data: []byte("+++\ntitle = \"Draft\"\ndraft = true\n+++\nsoon")},
		"articles/future.md": {Data: []byte("+++\ntitle = \"Future\"\ndate = 2030-01-01T00:00:00Z\n+++\nlater")},
		"articles/logo.png":  {Data: []byte("png")},
		"articles/.swp.md":   {Data: []byte("editor file")},
		"legal/terms.mdx":    {Data: []byte("---\ntitle: Terms\n---\n# Terms")},
	}
	vfs, err := New(inner, Config{
		StaticRoutes: []string{"/", "/about"},
		Hostname:     "https://example.com",
		ChangeFreq:   "weekly",
		Now:          func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatal(err)
	}
	return vfs
}

func TestRenderArticle(t *testing.T) {
	vfs := testFS(t)
	for _, name := range []string{"articles/hello", "articles/hello.html"} {
		b, err := fs.ReadFile(vfs, name)
		if err != nil {
			t.Fatalf("Cannot read %q: %v", name, err)
		}
		s := string(b)
		if !strings.Contains(s, "<title>Hello</title>") || !strings.Contains(s, "<h1>Hello</h1>") {
			t.Errorf("Unexpected rendering of %q:\n%s", name, s)
		}
		fi, err := fs.Stat(vfs, name)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Size() != int64(len(b)) {
			t.Errorf("Size %d does not match data length %d", fi.Size(), len(b))
		}
		if !fi.ModTime().Equal(testNow.Add(-time.Hour)) {
			t.Errorf("Unexpected mod time %s", fi.ModTime())
		}
	}
}

func TestRenderMDX(t *testing.T) {
	vfs := testFS(t)
	b, err := fs.ReadFile(vfs, "articles/workflow")
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if strings.Contains(s, "import Flow") {
		t.Errorf("MDX import was rendered:\n%s", s)
	}
	if !strings.Contains(s, "<h1>Workflow</h1>") {
		t.Errorf("Missing heading:\n%s", s)
	}
	if _, err = fs.ReadFile(vfs, "legal/terms"); err != nil {
		t.Error(err)
	}
}

func TestHiddenAndUnpublished(t *testing.T) {
	vfs := testFS(t)
	for _, name := range []string{
		"articles/hello.md",
		"articles/workflow.mdx",
		"articles/draft",
		"articles/future",
		"articles/.swp.md",
		"articles/.swp",
		"articles/missing",
		"template",
	} {
		_, err := vfs.Open(name)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Expected fs.ErrNotExist for %q, got %v", name, err)
		}
	}
	if _, err := vfs.Open("../x"); !errors.Is(err, fs.ErrInvalid) {
		t.Errorf("Expected fs.ErrInvalid, got %v", err)
	}
	if _, err := fs.ReadFile(vfs, "articles/logo.png"); err != nil {
		t.Errorf("Static files should pass through: %v", err)
	}
}

func TestReadDir(t *testing.T) {
	vfs := testFS(t)
	entries, err := fs.ReadDir(vfs, "articles")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
		info, err := entry.Info()
		if err != nil {
			t.Error(err)
		} else if info.Name() != entry.Name() {
			t.Errorf("Info name %q does not match entry %q", info.Name(), entry.Name())
		}
	}
	expect := []string{"draft", "future", "hello", "logo.png", "workflow"}
	if diff := cmp.Diff(expect, names); diff != "" {
		t.Errorf("ReadDir mismatch (-want +got):\n%s", diff)
	}

	root, err := fs.ReadDir(vfs, ".")
	if err != nil {
		t.Fatal(err)
	}
	names = names[:0]
	for _, entry := range root {
		names = append(names, entry.Name())
	}
	if diff := cmp.Diff([]string{"articles", "index", "legal"}, names); diff != "" {
		t.Errorf("Root ReadDir mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDirLoop(t *testing.T) {
	vfs := testFS(t)
	f, err := vfs.Open("articles")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			t.Error(err)
		}
	}()

	rdf, ok := f.(fs.ReadDirFile)
	if !ok {
		t.Fatal("Not a ReadDirFile")
	}
	total := 0
	for {
		dirs, err := rdf.ReadDir(2)
		if errors.Is(err, io.EOF) {
			if len(dirs) != 0 {
				t.Errorf("Expected empty directory at EOF")
			}
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if len(dirs) == 0 || len(dirs) > 2 {
			t.Fatalf("Returned %d entries", len(dirs))
		}
		total += len(dirs)
	}
	if total != 5 {
		t.Errorf("Expected 5 entries, got %d", total)
	}
}

func TestIndexTemplate(t *testing.T) {
	vfs := testFS(t)
	b, err := fs.ReadFile(vfs, "index.html")
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	hello := strings.Index(s, `href="/articles/hello"`)
	workflow := strings.Index(s, `href="/articles/workflow"`)
	if hello < 0 || workflow < 0 || workflow > hello {
		t.Errorf("Expected newest article first:\n%s", s)
	}
	if strings.Contains(s, "/articles/draft") || strings.Contains(s, "/articles/future") {
		t.Errorf("Unpublished articles listed:\n%s", s)
	}
	if strings.Contains(s, "/articles/.swp") {
		t.Errorf("Hidden article listed:\n%s", s)
	}
}

func TestSitemapFiles(t *testing.T) {
	vfs := testFS(t)
	b, err := fs.ReadFile(vfs, "sitemap.txt")
	if err != nil {
		t.Fatal(err)
	}
	expect := `https://example.com/
https://example.com/about
https://example.com/articles/draft
https://example.com/articles/future
https://example.com/articles/hello
https://example.com/articles/workflow
`
	if diff := cmp.Diff(expect, string(b)); diff != "" {
		t.Errorf("sitemap.txt mismatch (-want +got):\n%s", diff)
	}

	b, err = fs.ReadFile(vfs, "sitemap.xml")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		"<loc>https://example.com/articles/hello</loc>",
		"<lastmod>2024-01-08</lastmod>",
		"<changefreq>weekly</changefreq>",
	} {
		if !strings.Contains(string(b), s) {
			t.Errorf("sitemap.xml is missing %q:\n%s", s, b)
		}
	}

	b, err = fs.ReadFile(vfs, "robots.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt is missing the sitemap:\n%s", b)
	}
}

func TestCustomTemplates(t *testing.T) {
	inner := fstest.MapFS{
		"articles/a.md":         {Data: []byte("# A")},
		"template/default.html": {Data: []byte(`{{define "default"}}custom {{.FrontMatter.Title}}{{end}}`)},
	}
	vfs, err := New(inner, Config{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := fs.ReadFile(vfs, "articles/a")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "custom a" {
		t.Errorf("Expected custom template output, got %q", b)
	}
	if _, err = New(fstest.MapFS{"template/bad.html": {Data: []byte("{{")}}, Config{}); err == nil {
		t.Error("Expected an error for a bad template")
	}

	// edits are picked up on reload
	inner["template/default.html"] = &fstest.MapFile{Data: []byte(`{{define "default"}}edited {{.FrontMatter.Title}}{{end}}`)}
	if err = vfs.Reload(); err != nil {
		t.Fatal(err)
	}
	b, err = fs.ReadFile(vfs, "articles/a")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "edited a" {
		t.Errorf("Expected reloaded template output, got %q", b)
	}
	inner["template/default.html"] = &fstest.MapFile{Data: []byte("{{")}
	if err = vfs.Reload(); err == nil {
		t.Error("Expected an error reloading a bad template")
	}
	b, err = fs.ReadFile(vfs, "articles/a")
	if err != nil || string(b) != "edited a" {
		t.Errorf("A failed reload should keep the previous templates, got %q, %v", b, err)
	}
}

func TestHttpServe(t *testing.T) {
	vfs := testFS(t)
	srv := httptest.NewServer(http.FileServer(http.FS(vfs)))
	defer srv.Close()

	const count = 4
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			resp, err := http.Get(srv.URL + "/articles/hello")
			if err != nil {
				t.Error(err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("Unexpected status %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Unexpected content type %q", ct)
			}
		}()
	}
	wg.Wait()
}
