package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term" // For reliable TTY detection

	"github.com/stackvity/devconv/internal/cli"
	"github.com/stackvity/devconv/internal/cli/config"
)

var (
	// These are set during build time using -ldflags
	version = "dev"     // Default version
	commit  = "none"    // Default commit hash
	date    = "unknown" // Default build date
)

// newRootCmd builds the devconv command. Flag values live in the closure so
// every instance starts from a clean state.
func newRootCmd() *cobra.Command {
	var (
		cfgFile     string // Path to config file
		profileName string // Name of profile to use
		verbose     bool   // Verbose logging flag
	)

	rootCmd := &cobra.Command{
		Use:   "devconv [text...]",
		Short: "Recognizes developer data formats and converts them to related representations.",
		Long: `devconv inspects a piece of text, detects what it looks like, and prints
every conversion that applies:

  - Colors: HEX, RGB(A) and HSL(A) in both directions.
  - JSON: pretty-printed and minified forms.
  - JWT: decoded header and payload.
  - Timestamps and dates: Unix seconds and milliseconds to local dates and back.
  - URL and Base64: encoding and decoding.
  - Numbers: binary, octal, decimal and hexadecimal.

Input is taken from the arguments, --file, or stdin. Run without input in a
terminal to open an interactive UI that converts as you type.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Create a context that listens for interrupt signals
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, verbose, cmd.Flags())
			if err != nil {
				return err
			}

			stdin := cmd.InOrStdin()
			isTerminal := false
			if f, ok := stdin.(*os.File); ok {
				isTerminal = term.IsTerminal(int(f.Fd()))
			}

			return cli.Run(ctx, opts, logger, args, cli.Streams{
				Stdin:           stdin,
				Stdout:          cmd.OutOrStdout(),
				StdinIsTerminal: isTerminal,
			})
		},
	}

	rootCmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search standard locations like ., $HOME/.config/devconv/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output")

	// Conversion, input, output and interactive flags
	config.RegisterFlags(rootCmd.Flags())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure. Cobra has
// already printed the error by then.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
