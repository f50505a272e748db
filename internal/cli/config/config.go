package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/net/html/charset"

	"github.com/stackvity/devconv/pkg/converter"
	"github.com/stackvity/devconv/pkg/converter/datetime"
	"github.com/stackvity/devconv/pkg/converter/encoding"
	"github.com/stackvity/devconv/pkg/converter/i18n"
	tpl "github.com/stackvity/devconv/pkg/converter/template"
)

const (
	EnvPrefix         = "DEVCONV"
	DefaultConfigName = "devconv"
)

// flagBindings maps flag names to the config keys they override.
var flagBindings = map[string]string{
	"verbose":       "verbose",
	"locale":        "locale",
	"timezone":      "timezone",
	"output-format": "outputFormat",
	"template":      "templateFile",
	"interactive":   "interactive",
	"debounce":      "debounce",
	"encoding":      "defaultEncoding",
}

// featureFlags maps each --no-<category> flag to the category it disables.
var featureFlags = map[string]converter.Category{
	"no-color":     converter.CategoryColor,
	"no-json":      converter.CategoryJSON,
	"no-jwt":       converter.CategoryJWT,
	"no-timestamp": converter.CategoryTimestamp,
	"no-url":       converter.CategoryURL,
	"no-base64":    converter.CategoryBase64,
	"no-number":    converter.CategoryNumber,
}

// RegisterFlags defines the conversion flags LoadAndValidate reads. The
// persistent --config, --profile and --verbose flags are defined by the
// root command.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("file", "f", "", "Read input from a file instead of arguments or stdin")
	flags.Bool("no-color", false, "Disable color conversions")
	flags.Bool("no-json", false, "Disable JSON formatting and minifying")
	flags.Bool("no-jwt", false, "Disable JWT decoding")
	flags.Bool("no-timestamp", false, "Disable timestamp and date conversions")
	flags.Bool("no-url", false, "Disable URL encoding and decoding")
	flags.Bool("no-base64", false, "Disable Base64 encoding and decoding")
	flags.Bool("no-number", false, "Disable number base conversions")
	flags.String("locale", converter.DefaultLocale, `Language for result labels (e.g. "en", "zh-CN")`)
	flags.String("timezone", converter.DefaultTimezone, `Time zone for dates ("Local", "UTC", or an IANA name)`)
	flags.StringP("output-format", "o", string(converter.DefaultOutputFormat), `Output format ("text", "json", "yaml", "toml", "markdown")`)
	flags.String("template", "", "Path to a custom Go template for the output")
	flags.String("encoding", converter.DefaultEncoding, "Fallback charset for file and stdin input")
	flags.Bool("interactive", converter.DefaultInteractive, "Open the interactive UI when stdin is a terminal and no input is given")
	flags.Bool("no-tui", false, "Never open the interactive UI")
	flags.String("debounce", converter.DefaultDebounceString, "Delay before re-converting while typing in the interactive UI")
}

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged result, derives the parsed
// debounce, location and template, and injects the default collaborators.
func LoadAndValidate(cfgFile, profileName, appVersion string, verbose bool, flags *pflag.FlagSet) (converter.Options, *slog.Logger, error) {
	var opts converter.Options
	v := viper.New()

	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
			v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
		} else {
			tempLogger.Debug("No home directory, searching the working directory only", slog.Any("error", err))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
	}

	// --- Apply Profile ---
	opts.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("%w: profile '%s' not found in config file '%s'", converter.ErrConfigValidation, profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		if err := v.MergeConfigMap(v.Sub(profileKey).AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	for name, key := range flagBindings {
		flag := flags.Lookup(name)
		if flag == nil {
			tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", name))
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", name, err)
		}
	}

	opts.AppVersion = appVersion
	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("%w: error unmarshalling configuration: %w", converter.ErrConfigValidation, err)
	}

	// --- Explicit Flag Overrides ---
	if verbose {
		opts.Verbose = true
	}
	if flags.Changed("file") {
		opts.InputFile, _ = flags.GetString("file")
	}
	if flags.Changed("no-tui") {
		if noTUI, _ := flags.GetBool("no-tui"); noTUI {
			opts.Interactive = false
		}
	}
	for name, category := range featureFlags {
		if !flags.Changed(name) {
			continue
		}
		if disabled, _ := flags.GetBool(name); disabled {
			disableCategory(&opts.Features, category)
		}
	}

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	if err := validateAndDeriveOptions(&opts, logger, flags); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("profile", opts.ProfileName),
		slog.String("locale", opts.Locale),
		slog.String("timezone", opts.Timezone),
		slog.String("outputFormat", string(opts.OutputFormat)),
		slog.String("logLevel", logLevel.String()),
	)
	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	features := converter.DefaultFeatureFlags()
	v.SetDefault("features.color", features.EnableColor)
	v.SetDefault("features.json", features.EnableJSON)
	v.SetDefault("features.jwt", features.EnableJWT)
	v.SetDefault("features.timestamp", features.EnableTimestamp)
	v.SetDefault("features.url", features.EnableURL)
	v.SetDefault("features.base64", features.EnableBase64)
	v.SetDefault("features.number", features.EnableNumber)

	v.SetDefault("locale", converter.DefaultLocale)
	v.SetDefault("timezone", converter.DefaultTimezone)
	v.SetDefault("defaultEncoding", converter.DefaultEncoding)
	v.SetDefault("outputFormat", string(converter.DefaultOutputFormat))
	v.SetDefault("templateFile", "")
	v.SetDefault("interactive", converter.DefaultInteractive)
	v.SetDefault("debounce", converter.DefaultDebounceString)
	v.SetDefault("verbose", converter.DefaultVerbose)
}

func disableCategory(f *converter.FeatureFlags, c converter.Category) {
	switch c {
	case converter.CategoryColor:
		f.EnableColor = false
	case converter.CategoryJSON:
		f.EnableJSON = false
	case converter.CategoryJWT:
		f.EnableJWT = false
	case converter.CategoryTimestamp:
		f.EnableTimestamp = false
	case converter.CategoryURL:
		f.EnableURL = false
	case converter.CategoryBase64:
		f.EnableBase64 = false
	case converter.CategoryNumber:
		f.EnableNumber = false
	}
}

// validateAndDeriveOptions performs semantic validation on the populated
// Options, parses derived fields and injects default collaborators.
// It wraps errors with converter.ErrConfigValidation.
func validateAndDeriveOptions(opts *converter.Options, logger *slog.Logger, flags *pflag.FlagSet) error {
	// === Enum Validations ===
	if !opts.OutputFormat.Valid() {
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: %v", converter.ErrConfigValidation, opts.OutputFormat, converter.OutputFormats())
		logger.Error(err.Error(), slog.String("key", "outputFormat"), slog.String("value", string(opts.OutputFormat)))
		return err
	}

	tr, err := i18n.New(opts.Locale)
	if err != nil {
		err = fmt.Errorf("%w: invalid value '%s' for key 'locale' (flag --locale): %w", converter.ErrConfigValidation, opts.Locale, err)
		logger.Error(err.Error(), slog.String("key", "locale"), slog.String("value", opts.Locale))
		return err
	}

	loc, err := datetime.LoadLocation(opts.Timezone)
	if err != nil {
		err = fmt.Errorf("%w: invalid value '%s' for key 'timezone' (flag --timezone): %w", converter.ErrConfigValidation, opts.Timezone, err)
		logger.Error(err.Error(), slog.String("key", "timezone"), slog.String("value", opts.Timezone))
		return err
	}

	if opts.DefaultEncoding != "" {
		if enc, _ := charset.Lookup(opts.DefaultEncoding); enc == nil {
			err := fmt.Errorf("%w: unknown charset '%s' for key 'defaultEncoding' (flag --encoding)", converter.ErrConfigValidation, opts.DefaultEncoding)
			logger.Error(err.Error(), slog.String("key", "defaultEncoding"), slog.String("value", opts.DefaultEncoding))
			return err
		}
	}

	// === Debounce ===
	debounce, err := time.ParseDuration(opts.DebounceString)
	if err != nil {
		if flags.Changed("debounce") {
			err = fmt.Errorf("%w: invalid debounce duration '%s' specified via flag or config: %w", converter.ErrConfigValidation, opts.DebounceString, err)
			logger.Error(err.Error(), slog.String("key", "debounce"), slog.String("value", opts.DebounceString))
			return err
		}
		logger.Warn("Could not parse debounce string, using default",
			slog.String("value", opts.DebounceString),
			slog.Duration("default", converter.DefaultDebounceInterval),
			slog.String("error", err.Error()))
		debounce = converter.DefaultDebounceInterval
	}
	if debounce < 0 {
		err = fmt.Errorf("%w: invalid negative debounce duration '%s' for key 'debounce'", converter.ErrConfigValidation, opts.DebounceString)
		logger.Error(err.Error(), slog.String("key", "debounce"), slog.String("value", opts.DebounceString))
		return err
	}
	opts.Debounce = debounce

	// === Input File ===
	if opts.InputFile != "" {
		info, statErr := os.Stat(opts.InputFile)
		if statErr != nil {
			err := fmt.Errorf("%w: input file '%s' cannot be accessed: %w", converter.ErrConfigValidation, opts.InputFile, statErr)
			logger.Error(err.Error(), slog.String("key", "file"))
			return err
		}
		if info.IsDir() {
			err := fmt.Errorf("%w: input file '%s' is a directory", converter.ErrConfigValidation, opts.InputFile)
			logger.Error(err.Error(), slog.String("key", "file"))
			return err
		}
	}

	// === Custom Template ===
	if opts.TemplatePath != "" {
		absTplPath, pathErr := filepath.Abs(opts.TemplatePath)
		if pathErr != nil {
			return fmt.Errorf("%w: cannot resolve absolute path for template file '%s': %w", converter.ErrConfigValidation, opts.TemplatePath, pathErr)
		}
		opts.TemplatePath = absTplPath

		tplInfo, statErr := os.Stat(opts.TemplatePath)
		if statErr != nil {
			err := fmt.Errorf("%w: template file '%s' does not exist or cannot be accessed: %w", converter.ErrConfigValidation, opts.TemplatePath, statErr)
			logger.Error(err.Error(), slog.String("key", "templateFile"))
			return err
		}
		if tplInfo.IsDir() {
			err := fmt.Errorf("%w: template path '%s' is a directory, not a file", converter.ErrConfigValidation, opts.TemplatePath)
			logger.Error(err.Error(), slog.String("key", "templateFile"))
			return err
		}
		customTmpl, loadErr := tpl.LoadTemplateFile(opts.TemplatePath)
		if loadErr != nil {
			err := fmt.Errorf("%w: failed to load template '%s': %w", converter.ErrConfigValidation, opts.TemplatePath, loadErr)
			logger.Error(err.Error(), slog.String("key", "templateFile"))
			return err
		}
		opts.Template = customTmpl
		logger.Debug("Loaded custom template", slog.String("path", opts.TemplatePath))
	}

	// === Inject Default Dependencies (if nil) ===
	if opts.EventHooks == nil {
		opts.EventHooks = &converter.NoOpHooks{}
	}
	if opts.Translator == nil {
		opts.Translator = tr
	}
	if opts.DateTime == nil {
		opts.DateTime = datetime.New(loc)
	}
	if opts.EncodingHandler == nil {
		opts.EncodingHandler = encoding.NewGoCharsetEncodingHandler(opts.DefaultEncoding)
	}
	if opts.TemplateExecutor == nil {
		opts.TemplateExecutor = tpl.NewGoTemplateExecutor()
	}
	return nil
}
