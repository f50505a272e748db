// Package template renders conversion reports through Go text/template,
// either with the embedded Markdown layout or a user-supplied template file.
package template

import (
	_ "embed" // Required for //go:embed
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"
)

//go:embed default.md.tmpl
var defaultTemplateContent string

// TemplateMetadata holds the data passed to the template engine.
// Field names are part of the public template contract; renaming one breaks
// user templates.
type TemplateMetadata struct {
	Input        string
	InputLength  int
	InputTooLong bool
	InputError   string
	Truncated    bool
	Results      []Result
	Errors       []Failure
	Labels       Labels
	// Text is the plain-text rendering of the same report.
	Text        string
	GeneratedAt time.Time
}

// Result is one conversion result as seen by templates.
type Result struct {
	Category       string
	Label          string
	Content        string
	NeedsHighlight bool
}

// Failure is one conversion error as seen by templates.
type Failure struct {
	Category string
	Message  string
}

// Labels carries localized headings so templates need no translation logic.
type Labels struct {
	Error                 string
	NoResults             string
	SomeConversionsFailed string
}

// TemplateExecutor defines the interface for executing a report template.
//
// Stability: Public Stable API - Implementations can be provided externally.
type TemplateExecutor interface {
	// Execute renders tmpl with metadata into writer. A nil tmpl selects the
	// embedded default template. Errors writing to the writer are propagated.
	Execute(writer io.Writer, tmpl *template.Template, metadata *TemplateMetadata) error
}

// GoTemplateExecutor implements TemplateExecutor using text/template.
type GoTemplateExecutor struct{}

// NewGoTemplateExecutor creates a new GoTemplateExecutor.
func NewGoTemplateExecutor() *GoTemplateExecutor {
	return &GoTemplateExecutor{}
}

// Execute implements TemplateExecutor.
func (e *GoTemplateExecutor) Execute(writer io.Writer, tmpl *template.Template, metadata *TemplateMetadata) error {
	if tmpl == nil {
		defaultTmpl, err := LoadDefaultTemplate()
		if err != nil {
			return err
		}
		tmpl = defaultTmpl
	}
	if err := tmpl.Execute(writer, metadata); err != nil {
		return fmt.Errorf("template execution failed for %q: %w", tmpl.Name(), err)
	}
	return nil
}

// customTemplateFuncs are available to the default and custom templates.
var customTemplateFuncs = template.FuncMap{
	// formatDate formats t with a Go layout, RFC 3339 when layout is empty.
	// Example: {{ formatDate .GeneratedAt "2006-01-02" }}
	"formatDate": func(t time.Time, layout string) string {
		if layout == "" {
			layout = time.RFC3339
		}
		return t.Format(layout)
	},
	// indent prefixes every line of s with n spaces.
	"indent": func(n int, s string) string {
		pad := strings.Repeat(" ", n)
		return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
	},
	// rule returns a horizontal rule of n box-drawing characters.
	"rule": func(n int) string {
		return strings.Repeat("─", n)
	},
	// fence picks a code fence long enough not to collide with s.
	"fence": func(s string) string {
		fence := "```"
		for strings.Contains(s, fence) {
			fence += "`"
		}
		return fence
	},
	// lang returns the syntax hint for highlighted results.
	"lang": func(r Result) string {
		if r.NeedsHighlight {
			return "json"
		}
		return ""
	},
}

// LoadDefaultTemplate parses the embedded Markdown template.
func LoadDefaultTemplate() (*template.Template, error) {
	if defaultTemplateContent == "" {
		return nil, fmt.Errorf("embedded default template content is empty")
	}
	tmpl, err := template.New("default").Funcs(customTemplateFuncs).Parse(defaultTemplateContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse default template: %w", err)
	}
	return tmpl, nil
}

// LoadTemplateFile parses a user template with the custom functions registered.
func LoadTemplateFile(path string) (*template.Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %q: %w", path, err)
	}
	tmpl, err := template.New(path).Funcs(customTemplateFuncs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template file %q: %w", path, err)
	}
	return tmpl, nil
}
