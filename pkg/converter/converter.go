// Package converter inspects an arbitrary input string and, for each
// recognized format (color notation, JSON, JWT, Unix timestamp or date
// string, URL-encoded text, Base64, numeric literal), produces labeled
// conversion results.
//
// The pipeline is synchronous and stateless: every Process call returns a
// freshly allocated PipelineOutput and never blocks.
package converter

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/stackvity/devconv/pkg/converter/codec"
	"github.com/stackvity/devconv/pkg/converter/datetime"
	"github.com/stackvity/devconv/pkg/converter/i18n"
)

// Converter runs the detection and conversion pipeline with a fixed set of
// collaborators. It is safe for concurrent use.
type Converter struct {
	logger *slog.Logger
	hooks  Hooks
	tr     i18n.Translator
	dt     datetime.Collaborator
	cfg    Config
}

// New validates opts and builds a Converter. A nil Translator is derived
// from opts.Locale and a nil DateTime from opts.Timezone.
func New(opts Options) (*Converter, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation cannot be nil", ErrConfigValidation)
	}
	if opts.EventHooks == nil {
		return nil, fmt.Errorf("%w: EventHooks implementation cannot be nil (use NoOpHooks if needed)", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "converter"))

	tr := opts.Translator
	if tr == nil {
		catalogTr, err := i18n.New(opts.Locale)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrConfigValidation, err)
			logger.Error(err.Error(), slog.String("locale", opts.Locale))
			return nil, err
		}
		tr = catalogTr
	}

	dt := opts.DateTime
	if dt == nil {
		loc, err := datetime.LoadLocation(opts.Timezone)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrConfigValidation, err)
			logger.Error(err.Error(), slog.String("timezone", opts.Timezone))
			return nil, err
		}
		dt = datetime.New(loc)
	}

	return &Converter{
		logger: logger,
		hooks:  opts.EventHooks,
		tr:     tr,
		dt:     dt,
		cfg:    GetConfig(),
	}, nil
}

// defaultConverter backs the package-level Process and FormatOutput.
var defaultConverter = &Converter{
	logger: slog.New(slog.DiscardHandler),
	hooks:  &NoOpHooks{},
	tr:     i18n.NopTranslator{},
	dt:     datetime.New(time.Local),
	cfg:    GetConfig(),
}

// Process runs the pipeline with untranslated labels, local-time dates and
// no logging. A nil flags pointer enables every category.
func Process(input string, flags *FeatureFlags) PipelineOutput {
	return defaultConverter.Process(input, flags)
}

// FormatOutput renders out with untranslated labels.
func FormatOutput(out PipelineOutput) string {
	return defaultConverter.FormatOutput(out)
}

// Translate exposes the converter's translator to renderers built on top of it.
func (c *Converter) Translate(key string) string {
	return c.tr.Translate(key)
}

// Process inspects input and returns every conversion the enabled
// categories produce. A nil flags pointer enables every category.
//
// Empty or whitespace-only input yields an empty output. Input longer than
// Config.MaxInputLength characters short-circuits with InputTooLong and a
// localized InputError. No converter failure, panics included, escapes.
func (c *Converter) Process(input string, flags *FeatureFlags) PipelineOutput {
	start := time.Now()
	out := PipelineOutput{
		Results:     []ConversionResult{},
		Errors:      []ConversionError{},
		InputLength: utf8.RuneCountInString(input),
	}
	defer func() { c.complete(out, time.Since(start)) }()

	trimmed := codec.TrimWhitespace(input)
	if trimmed == "" {
		return out
	}

	enabled := DefaultFeatureFlags()
	if flags != nil {
		enabled = *flags
	}

	if out.InputLength > c.cfg.MaxInputLength {
		out.InputTooLong = true
		out.Truncated = true
		out.InputError = c.inputTooLongMessage(out.InputLength)
		err := fmt.Errorf("%w: %d characters, max %d", ErrInputTooLong, out.InputLength, c.cfg.MaxInputLength)
		c.logger.Debug("Input rejected", slog.String("error", err.Error()))
		c.notifyError("", err)
		return out
	}

	p := &pass{c: c, raw: input, text: trimmed, out: &out}
	for _, s := range pipeline {
		if enabled.Enabled(s.category) {
			p.run(s)
		}
	}
	return out
}

// inputTooLongMessage is the localized InputError for a rejected input. A
// length of zero gives the bare message.
func (c *Converter) inputTooLongMessage(length int) string {
	if length <= 0 {
		return c.tr.Translate(i18n.KeyInputTooLong)
	}
	return fmt.Sprintf("%s (%d %s). %s: %d",
		c.tr.Translate(i18n.KeyInputTooLong), length, c.tr.Translate(i18n.KeyChars),
		c.tr.Translate(i18n.KeyMax), c.cfg.MaxInputLength)
}

func (c *Converter) complete(out PipelineOutput, elapsed time.Duration) {
	c.logger.Debug("Process complete",
		slog.Int("inputLength", out.InputLength),
		slog.Int("results", len(out.Results)),
		slog.Int("errors", len(out.Errors)),
		slog.Duration("elapsed", elapsed))
	if err := c.hooks.OnComplete(out, elapsed); err != nil {
		c.logger.Warn("Error reported by OnComplete hook", slog.String("hookError", err.Error()))
	}
}

func (c *Converter) notifyError(category Category, err error) {
	if hookErr := c.hooks.OnError(category, err); hookErr != nil {
		c.logger.Warn("Error reported by OnError hook", slog.String("hookError", hookErr.Error()))
	}
}
