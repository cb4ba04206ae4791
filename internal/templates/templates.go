// Package templates holds the embedded prompt templates sent to the text generator.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptTemplates embed.FS

// Prompt template names.
const (
	BuyerOpening  = "buyer_opening"
	BuyerAccept   = "buyer_accept"
	BuyerCounter  = "buyer_counter"
	SellerAccept  = "seller_accept"
	SellerCounter = "seller_counter"
	Mediator      = "mediator"
	Summary       = "summary"
	Analysis      = "analysis"
)

var (
	parseOnce sync.Once
	parsed    *template.Template
	parseErr  error
)

// GetPromptTemplate returns the raw content of a prompt template.
func GetPromptTemplate(name string) (string, error) {
	content, err := promptTemplates.ReadFile("prompts/" + name + ".tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// TemplateFuncs returns the function map available to prompt templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"join":  strings.Join,
	}
}

// Render executes the named prompt template with data.
func Render(name string, data any) (string, error) {
	parseOnce.Do(func() {
		parsed, parseErr = template.New("prompts").Funcs(TemplateFuncs()).ParseFS(promptTemplates, "prompts/*.tmpl")
	})
	if parseErr != nil {
		return "", fmt.Errorf("failed to parse prompt templates: %w", parseErr)
	}

	var buf bytes.Buffer
	if err := parsed.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
