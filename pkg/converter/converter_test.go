package converter_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stackvity/devconv/internal/testutil"
	"github.com/stackvity/devconv/pkg/converter"
	"github.com/stackvity/devconv/pkg/converter/codec"
	"github.com/stackvity/devconv/pkg/converter/datetime"
	"github.com/stackvity/devconv/pkg/converter/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/language"
)

// The pipeline is synchronous; nothing it does may leave a goroutine behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	jwtHeader    = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"
	jwtPayload   = "eyJzdWIiOiIxMjM0NTY3ODkwIiwibmFtZSI6IkpvaG4gRG9lIiwiaWF0IjoxNTE2MjM5MDIyfQ"
	jwtSignature = "SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c"
	sampleJWT    = jwtHeader + "." + jwtPayload + "." + jwtSignature
)

// newTestConverter returns a Converter with English labels and UTC dates.
func newTestConverter(t *testing.T, configure ...func(*converter.Options)) *converter.Converter {
	t.Helper()
	opts := converter.DefaultOptions()
	opts.Translator = i18n.NopTranslator{}
	opts.DateTime = datetime.New(time.UTC)
	for _, fn := range configure {
		fn(&opts)
	}
	c, err := converter.New(opts)
	require.NoError(t, err)
	return c
}

func findResult(out converter.PipelineOutput, label string) (converter.ConversionResult, bool) {
	for _, r := range out.Results {
		if r.Label == label {
			return r, true
		}
	}
	return converter.ConversionResult{}, false
}

func requireResult(t *testing.T, out converter.PipelineOutput, label string) converter.ConversionResult {
	t.Helper()
	r, ok := findResult(out, label)
	require.True(t, ok, "missing result %q in %+v", label, out.Results)
	return r
}

func resultsIn(out converter.PipelineOutput, category converter.Category) []converter.ConversionResult {
	var matched []converter.ConversionResult
	for _, r := range out.Results {
		if r.Category == category {
			matched = append(matched, r)
		}
	}
	return matched
}

func errorsIn(out converter.PipelineOutput, category converter.Category) []converter.ConversionError {
	var matched []converter.ConversionError
	for _, e := range out.Errors {
		if e.Category == category {
			matched = append(matched, e)
		}
	}
	return matched
}

// --- Construction ---

func TestNew_Validation(t *testing.T) {
	testCases := []struct {
		name      string
		configure func(*converter.Options)
	}{
		{name: "Nil Logger", configure: func(o *converter.Options) { o.Logger = nil }},
		{name: "Nil Hooks", configure: func(o *converter.Options) { o.EventHooks = nil }},
		{name: "Bad Locale", configure: func(o *converter.Options) { o.Translator = nil; o.Locale = "!!" }},
		{name: "Bad Timezone", configure: func(o *converter.Options) { o.DateTime = nil; o.Timezone = "Nowhere/Special" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := converter.DefaultOptions()
			tc.configure(&opts)
			_, err := converter.New(opts)
			assert.ErrorIs(t, err, converter.ErrConfigValidation)
		})
	}
}

func TestNew_DerivesCollaboratorsFromOptions(t *testing.T) {
	opts := converter.DefaultOptions()
	opts.Locale = "zh-CN"
	opts.Timezone = "UTC"
	c, err := converter.New(opts)
	require.NoError(t, err)

	out := c.Process("1700000000", nil)
	r := requireResult(t, out, "时间戳(秒)转日期")
	assert.Equal(t, "2023-11-14 22:13:20", r.Content)
}

// --- Orchestration ---

func TestProcess_EmptyInput(t *testing.T) {
	c := newTestConverter(t)
	for _, input := range []string{"", "   ", "\n\t ", "　"} {
		out := c.Process(input, nil)
		assert.Empty(t, out.Results, "input %q", input)
		assert.Empty(t, out.Errors, "input %q", input)
		assert.False(t, out.Truncated)
		assert.False(t, out.InputTooLong)
	}
}

func TestProcess_LengthGuard(t *testing.T) {
	c := newTestConverter(t)
	maxLen := converter.GetConfig().MaxInputLength

	atLimit := c.Process(strings.Repeat("a", maxLen), nil)
	assert.False(t, atLimit.InputTooLong)
	assert.False(t, atLimit.Truncated)
	assert.NotEmpty(t, atLimit.Results)

	over := c.Process(strings.Repeat("a", maxLen+1), nil)
	assert.True(t, over.InputTooLong)
	assert.True(t, over.Truncated)
	assert.Empty(t, over.Results)
	assert.Empty(t, over.Errors)
	assert.Equal(t, maxLen+1, over.InputLength)
	assert.Equal(t, "Input too long (100001 chars). Max: 100000", over.InputError)
}

func TestProcess_LengthGuardCountsCharacters(t *testing.T) {
	c := newTestConverter(t)
	out := c.Process(strings.Repeat("你", converter.GetConfig().MaxInputLength), nil)
	assert.False(t, out.InputTooLong)
	assert.Equal(t, converter.GetConfig().MaxInputLength, out.InputLength)
}

func TestProcess_PackageLevelDefaults(t *testing.T) {
	out := converter.Process("255", nil)
	assert.Equal(t, "0xFF", requireResult(t, out, "Hexadecimal").Content)
}

func TestProcess_DisabledCategoriesProduceNoEntries(t *testing.T) {
	c := newTestConverter(t)
	inputs := []string{
		"#FF0000", "rgb(1, 2, 3)", `{"a":1}`, "{bad", sampleJWT, jwtHeader + ".!!!!.x",
		"1700000000", "2024-01-01", "a%20b", "100%", "aGVsbG8gd29ybGQ=", "abcd1===", "255",
		"9007199254740993", "hello world",
	}

	for _, category := range converter.Categories() {
		t.Run(string(category), func(t *testing.T) {
			seen := false
			for _, input := range inputs {
				all := c.Process(input, nil)
				seen = seen || len(resultsIn(all, category)) > 0 || len(errorsIn(all, category)) > 0

				flags := converter.DefaultFeatureFlags()
				switch category {
				case converter.CategoryColor:
					flags.EnableColor = false
				case converter.CategoryJSON:
					flags.EnableJSON = false
				case converter.CategoryJWT:
					flags.EnableJWT = false
				case converter.CategoryTimestamp:
					flags.EnableTimestamp = false
				case converter.CategoryURL:
					flags.EnableURL = false
				case converter.CategoryBase64:
					flags.EnableBase64 = false
				case converter.CategoryNumber:
					flags.EnableNumber = false
				}
				out := c.Process(input, &flags)
				assert.Empty(t, resultsIn(out, category), "input %q", input)
				assert.Empty(t, errorsIn(out, category), "input %q", input)
			}
			assert.True(t, seen, "no input exercised %s", category)
		})
	}
}

func TestProcess_AllDisabled(t *testing.T) {
	out := newTestConverter(t).Process("#FF0000", &converter.FeatureFlags{})
	assert.Empty(t, out.Results)
	assert.Empty(t, out.Errors)
}

func TestProcess_CategoriesAreIndependent(t *testing.T) {
	out := newTestConverter(t).Process("1700000000", nil)
	assert.NotEmpty(t, resultsIn(out, converter.CategoryTimestamp))
	assert.NotEmpty(t, resultsIn(out, converter.CategoryNumber))
	assert.NotEmpty(t, resultsIn(out, converter.CategoryBase64))
}

type panickingDateTime struct{ datetime.Collaborator }

func (panickingDateTime) FormatInstant(time.Time) string { panic("boom") }

func TestProcess_PanicIsolated(t *testing.T) {
	handler, logs := testutil.NewBufferLogger()
	c := newTestConverter(t, func(o *converter.Options) {
		o.DateTime = panickingDateTime{}
		o.Logger = handler
	})

	out := c.Process("1700000000", nil)
	tsErrors := errorsIn(out, converter.CategoryTimestamp)
	require.Len(t, tsErrors, 1)
	assert.Equal(t, "Error: boom", tsErrors[0].Message)
	assert.Equal(t, "0x6553F100", requireResult(t, out, "Hexadecimal").Content, "later converters still run")
	assert.Contains(t, logs.String(), "Panic recovered in converter")
}

// --- Hooks & logging ---

func TestProcess_Hooks(t *testing.T) {
	hooks := &testutil.MockHooks{}
	hooks.On("OnResult", mock.AnythingOfType("converter.ConversionResult")).Return(nil)
	hooks.On("OnError", converter.CategoryJSON, mock.MatchedBy(func(err error) bool {
		return errors.Is(err, converter.ErrJSONParse)
	})).Return(nil).Once()
	hooks.On("OnComplete", mock.MatchedBy(func(out converter.PipelineOutput) bool {
		return len(out.Errors) == 1
	}), mock.AnythingOfType("time.Duration")).Return(nil).Once()

	c := newTestConverter(t, func(o *converter.Options) { o.EventHooks = hooks })
	out := c.Process("{bad", nil)

	hooks.AssertExpectations(t)
	hooks.AssertNumberOfCalls(t, "OnResult", len(out.Results))
}

func TestProcess_InputTooLongHook(t *testing.T) {
	hooks := &testutil.MockHooks{}
	hooks.On("OnError", converter.Category(""), mock.MatchedBy(func(err error) bool {
		return errors.Is(err, converter.ErrInputTooLong)
	})).Return(nil).Once()
	hooks.On("OnComplete", mock.Anything, mock.Anything).Return(nil).Once()

	c := newTestConverter(t, func(o *converter.Options) { o.EventHooks = hooks })
	c.Process(strings.Repeat("x", converter.DefaultMaxInputLength+1), nil)
	hooks.AssertExpectations(t)
}

func TestProcess_HookErrorsAreLogged(t *testing.T) {
	handler, logs := testutil.NewBufferLogger()
	hooks := &testutil.MockHooks{}
	hooks.On("OnResult", mock.Anything).Return(errors.New("hook failed"))
	hooks.On("OnComplete", mock.Anything, mock.Anything).Return(nil)

	c := newTestConverter(t, func(o *converter.Options) {
		o.EventHooks = hooks
		o.Logger = handler
	})
	out := c.Process("255", nil)

	assert.NotEmpty(t, out.Results)
	assert.Contains(t, logs.String(), "Error reported by OnResult hook")
	assert.Contains(t, logs.String(), "component=converter")
}

// --- Localization ---

func TestProcess_LocalizedLabels(t *testing.T) {
	c := newTestConverter(t, func(o *converter.Options) {
		o.Translator = i18n.NewCatalogTranslator(language.SimplifiedChinese)
	})
	out := c.Process("#FF0000", nil)
	assert.Equal(t, "rgb(255, 0, 0)", requireResult(t, out, "HEX 转 RGB").Content)

	jwt := c.Process(sampleJWT, nil)
	content := requireResult(t, jwt, "JWT 解码").Content
	assert.True(t, strings.HasPrefix(content, "=== 头部 ===\n"))
	assert.Contains(t, content, "\n\n=== 载荷 ===\n")
}

func TestProcess_TranslatorCollaborator(t *testing.T) {
	tr := &testutil.MockTranslator{}
	tr.On("Translate", mock.AnythingOfType("string")).Return("label")

	c := newTestConverter(t, func(o *converter.Options) { o.Translator = tr })
	out := c.Process("255", nil)
	for _, r := range out.Results {
		assert.Equal(t, "label", r.Label)
	}
	tr.AssertCalled(t, "Translate", i18n.KeyBinary)
	tr.AssertNotCalled(t, "Translate", i18n.KeyDecimal)
}

// --- Round trip ---

func TestProcess_NumberResultsRoundTrip(t *testing.T) {
	c := newTestConverter(t)
	for _, input := range []string{"255", "-26", "0b101", "0o777", "0x1FFFFFFFFFFFFF", "-9007199254740991"} {
		want, _, err := codec.ParseInteger(input)
		require.NoError(t, err)

		out := c.Process(input, nil)
		numbers := resultsIn(out, converter.CategoryNumber)
		require.Len(t, numbers, 3, "input %q", input)
		for _, r := range numbers {
			got, _, err := codec.ParseInteger(r.Content)
			require.NoError(t, err, "content %q", r.Content)
			assert.Equal(t, want, got, "%s of %q", r.Label, input)
		}
	}
}
