package converter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/stackvity/devconv/pkg/converter/i18n"
	tpl "github.com/stackvity/devconv/pkg/converter/template"
)

// separator divides result blocks and the error summary.
var separator = "\n\n" + strings.Repeat("─", RuleWidth) + "\n\n"

// FormatOutput renders out as display text: the input error alone when the
// length guard fired, a "No results" line when nothing converted, otherwise
// one 【label】 block per result followed by an error summary. The text is
// cut at Config.MaxOutputLength characters with a truncation notice.
func (c *Converter) FormatOutput(out PipelineOutput) string {
	if out.InputTooLong || out.InputError != "" {
		msg := out.InputError
		if msg == "" {
			msg = c.inputTooLongMessage(out.InputLength)
		}
		return "❌ " + c.tr.Translate(i18n.KeyError) + "\n" + msg
	}
	if len(out.Results) == 0 {
		return c.tr.Translate(i18n.KeyNoResults)
	}

	blocks := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		blocks = append(blocks, "【"+r.Label+"】\n"+r.Content)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(blocks, separator))
	if len(out.Errors) > 0 {
		sb.WriteString(separator)
		sb.WriteString("⚠ " + c.tr.Translate(i18n.KeySomeConversionsFailed) + ":\n")
		for _, e := range out.Errors {
			sb.WriteString("• " + string(e.Category) + ": " + e.Message + "\n")
		}
	}
	return c.truncate(sb.String())
}

// truncate cuts text to MaxOutputLength characters and appends a notice.
func (c *Converter) truncate(text string) string {
	limit := c.cfg.MaxOutputLength
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := 0
	for i := range text {
		if limit == 0 {
			cut = i
			break
		}
		limit--
	}
	return text[:cut] + "\n\n... [" + c.tr.Translate(i18n.KeyOutputTruncated) + "]"
}

// Report is the structured form of one run, used for json, yaml and toml output.
type Report struct {
	SchemaVersion string             `json:"schemaVersion" yaml:"schemaVersion" toml:"schemaVersion"`
	GeneratedAt   time.Time          `json:"generatedAt" yaml:"generatedAt" toml:"generatedAt"`
	Input         string             `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty"`
	InputLength   int                `json:"inputLength" yaml:"inputLength" toml:"inputLength"`
	InputTooLong  bool               `json:"inputTooLong" yaml:"inputTooLong" toml:"inputTooLong"`
	Truncated     bool               `json:"truncated" yaml:"truncated" toml:"truncated"`
	InputError    string             `json:"inputError,omitempty" yaml:"inputError,omitempty" toml:"inputError,omitempty"`
	Results       []ConversionResult `json:"results" yaml:"results" toml:"results"`
	Errors        []ConversionError  `json:"errors" yaml:"errors" toml:"errors"`
}

// NewReport wraps a PipelineOutput and the input that produced it.
// An input rejected by the length guard is not echoed back.
func NewReport(input string, out PipelineOutput) Report {
	r := Report{
		SchemaVersion: ReportSchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		Input:         input,
		InputLength:   out.InputLength,
		InputTooLong:  out.InputTooLong,
		Truncated:     out.Truncated,
		InputError:    out.InputError,
		Results:       out.Results,
		Errors:        out.Errors,
	}
	if out.InputTooLong {
		r.Input = ""
	}
	return r
}

// PipelineOutput converts the report back to the pipeline's result type.
func (r Report) PipelineOutput() PipelineOutput {
	return PipelineOutput{
		Results:      r.Results,
		Errors:       r.Errors,
		Truncated:    r.Truncated,
		InputTooLong: r.InputTooLong,
		InputLength:  r.InputLength,
		InputError:   r.InputError,
	}
}

// TemplateMetadata builds the view handed to report templates.
func (c *Converter) TemplateMetadata(r Report) *tpl.TemplateMetadata {
	meta := &tpl.TemplateMetadata{
		Input:        r.Input,
		InputLength:  r.InputLength,
		InputTooLong: r.InputTooLong,
		InputError:   r.InputError,
		Truncated:    r.Truncated,
		Results:      make([]tpl.Result, 0, len(r.Results)),
		Errors:       make([]tpl.Failure, 0, len(r.Errors)),
		Labels: tpl.Labels{
			Error:                 c.tr.Translate(i18n.KeyError),
			NoResults:             c.tr.Translate(i18n.KeyNoResults),
			SomeConversionsFailed: c.tr.Translate(i18n.KeySomeConversionsFailed),
		},
		Text:        c.FormatOutput(r.PipelineOutput()),
		GeneratedAt: r.GeneratedAt,
	}
	for _, res := range r.Results {
		meta.Results = append(meta.Results, tpl.Result{
			Category:       string(res.Category),
			Label:          res.Label,
			Content:        res.Content,
			NeedsHighlight: res.NeedsHighlight,
		})
	}
	for _, e := range r.Errors {
		meta.Errors = append(meta.Errors, tpl.Failure{Category: string(e.Category), Message: e.Message})
	}
	return meta
}

// Render writes r to w. A non-nil custom template takes precedence over
// format; markdown uses the embedded default template. A nil executor
// selects the text/template implementation.
func (c *Converter) Render(w io.Writer, r Report, format OutputFormat, custom *template.Template, exec tpl.TemplateExecutor) error {
	if exec == nil {
		exec = tpl.NewGoTemplateExecutor()
	}
	if custom != nil || format == OutputFormatMarkdown {
		if err := exec.Execute(w, custom, c.TemplateMetadata(r)); err != nil {
			return fmt.Errorf("%w: %w", ErrTemplateExecution, err)
		}
		return nil
	}

	switch format {
	case OutputFormatText, "":
		_, err := io.WriteString(w, c.FormatOutput(r.PipelineOutput())+"\n")
		return err
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(r)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case OutputFormatTOML:
		return toml.NewEncoder(w).Encode(r)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
