package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Generated is the warning placed at the top of every generated file.
const Generated = "Code generated by routegen. DO NOT EDIT."

// Format selects the kind of generated file.
type Format string

const (
	FormatGo   Format = "go"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat returns the Format with the given name; the empty string means FormatGo.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatGo:
		return FormatGo, nil
	case FormatJSON, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Module describes the generated file.
type Module struct {
	Format   Format // FormatGo if empty
	Package  string // Go package name, "site" if empty
	Variable string // Go variable name, "ArticleRoutes" if empty
	Source   string // directory the routes came from, mentioned in the Go doc comment
}

func (m Module) withDefaults() Module {
	if m.Format == "" {
		m.Format = FormatGo
	}
	if m.Package == "" {
		m.Package = "site"
	}
	if m.Variable == "" {
		m.Variable = "ArticleRoutes"
	}
	return m
}

var goModule = template.Must(template.New("go").Parse(`// {{.Generated}}

package {{.Package}}

{{if .Source}}// {{.Variable}} lists the public routes of the content files in {{.Source}}.
{{else}}// {{.Variable}} lists the public routes of the content files.
{{end}}var {{.Variable}} = []string{
{{range .Routes}}	{{printf "%q" .}},
{{end}}}
`))

// Render writes routes to w in the format described by m.
func Render(w io.Writer, routes []string, m Module) error {
	m = m.withDefaults()
	if routes == nil {
		routes = []string{}
	}
	var buf bytes.Buffer
	switch m.Format {
	case FormatGo:
		if !token.IsIdentifier(m.Package) {
			return fmt.Errorf("Render: invalid package name %q", m.Package)
		}
		if !token.IsIdentifier(m.Variable) {
			return fmt.Errorf("Render: invalid variable name %q", m.Variable)
		}
		err := goModule.Execute(&buf, struct {
			Module
			Generated string
			Routes    []string
		}{m, Generated, routes})
		if err != nil {
			return fmt.Errorf("Render: %w", err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return fmt.Errorf("Render: %w", err)
		}
		buf.Reset()
		buf.Write(src)
	case FormatJSON:
		b, err := json.MarshalIndent(struct {
			Generated string   `json:"generated"`
			Routes    []string `json:"routes"`
		}{Generated, routes}, "", "  ")
		if err != nil {
			return fmt.Errorf("Render: %w", err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	case FormatText:
		fmt.Fprintf(&buf, "# %s\n", Generated)
		for _, r := range routes {
			buf.WriteString(r)
			buf.WriteByte('\n')
		}
	default:
		return fmt.Errorf("Render: unknown format %q", m.Format)
	}
	_, err := buf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	return nil
}

// WriteFile renders routes and replaces the file name with the result.
func WriteFile(name string, routes []string, m Module) error {
	var buf bytes.Buffer
	if err := Render(&buf, routes, m); err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	if err := ReplaceFile(name, buf.Bytes()); err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	return nil
}

// ReplaceFile writes data to a temporary file in the same folder as name and
// renames it into place, so name is either fully replaced or left as it was.
func ReplaceFile(name string, data []byte) (err error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return fmt.Errorf("ReplaceFile: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("ReplaceFile: %w", err)
	}
	if err = f.Chmod(0644); err != nil {
		return fmt.Errorf("ReplaceFile: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("ReplaceFile: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("ReplaceFile: %w", err)
	}
	if err = os.Rename(f.Name(), name); err != nil {
		return fmt.Errorf("ReplaceFile: %w", err)
	}
	return nil
}
