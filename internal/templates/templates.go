// Package templates renders field sets into plain-text legal documents.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"text/template"
)

// ErrTemplateNotFound indicates no template is registered under the
// requested identifier.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed files/*.tmpl
var files embed.FS

// Set is a keyed collection of parsed templates. It is read-only after
// construction and safe for concurrent use.
type Set struct {
	templates map[string]*template.Template
}

// Builtin parses the embedded templates.
func Builtin() (*Set, error) {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		return nil, err
	}
	return Parse(sub)
}

// Parse loads every *.tmpl file at the root of fsys, keyed by file name.
func Parse(fsys fs.FS) (*Set, error) {
	matches, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	s := &Set{templates: make(map[string]*template.Template, len(matches))}
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		tmpl, err := template.New(path.Base(name)).
			Option("missingkey=zero").
			Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		s.templates[path.Base(name)] = tmpl
	}

	return s, nil
}

// Names returns the registered template identifiers in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a template is registered under name.
func (s *Set) Has(name string) bool {
	_, ok := s.templates[name]
	return ok
}

// Render executes the named template against fields. Keys the template does
// not reference are ignored and references to absent keys render empty.
func (s *Set) Render(name string, fields map[string]string) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, fields); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
