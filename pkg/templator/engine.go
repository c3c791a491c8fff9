package templator

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/template"
)

// Engine holds named text templates. Output is rendered verbatim; no escaping
// is applied.
type Engine struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
}

func NewEngine() *Engine {
	return &Engine{
		templates: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"join": strings.Join,
		},
	}
}

func (e *Engine) LoadTemplate(name, path string) error {
	tmpl, err := template.New(baseName(path)).Funcs(e.funcs).ParseFiles(path)
	if err != nil {
		return fmt.Errorf("failed to load template %s from %s: %w", name, path, err)
	}
	e.templates[name] = tmpl
	return nil
}

// LoadTemplateFS loads a template from fsys, typically an embed.FS bundled
// with the binary.
func (e *Engine) LoadTemplateFS(name string, fsys fs.FS, path string) error {
	tmpl, err := template.New(baseName(path)).Funcs(e.funcs).ParseFS(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to load template %s from %s: %w", name, path, err)
	}
	e.templates[name] = tmpl
	return nil
}

func (e *Engine) HasTemplate(name string) bool {
	_, exists := e.templates[name]
	return exists
}

func (e *Engine) Render(w io.Writer, name string, data any) error {
	tmpl, exists := e.templates[name]
	if !exists {
		return fmt.Errorf("template %s not found", name)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return nil
}

func (e *Engine) RenderToBytes(name string, data any) ([]byte, error) {
	buf := bytes.NewBuffer([]byte{})
	if err := e.Render(buf, name, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
