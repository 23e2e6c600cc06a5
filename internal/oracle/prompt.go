package oracle

import (
	"fmt"
	"strings"
	"text/template"
)

// Prompt renders the user message for one request type from a text/template.
type Prompt[Req any] struct {
	Name    string
	Version string
	System  string
	tmpl    *template.Template
}

// NewPrompt parses the user template. It panics on a malformed template, so call it
// at package initialisation.
func NewPrompt[Req any](name, version, system, user string) Prompt[Req] {
	tmpl := template.Must(template.New(name).Option("missingkey=error").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(user))

	return Prompt[Req]{
		Name:    name,
		Version: version,
		System:  system,
		tmpl:    tmpl,
	}
}

// Render executes the template against req.
func (p Prompt[Req]) Render(req Req) (string, error) {
	if p.tmpl == nil {
		return "", fmt.Errorf("prompt %s has no template", p.Name)
	}

	var b strings.Builder
	if err := p.tmpl.Execute(&b, req); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", p.Name, err)
	}
	return b.String(), nil
}
