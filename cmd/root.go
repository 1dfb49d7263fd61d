package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nikogura/cvanon/pkg/config"
	"github.com/nikogura/cvanon/pkg/jobtitle"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var dictionaryFile string

//nolint:gochecknoglobals // Cobra boilerplate
var logFormat string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "cvanon",
	Short: "Anonymise candidate CVs",
	Long: `cvanon turns candidate records into anonymised profiles for unbiased review.

First names and gendered pronouns are rewritten, gendered job titles are
neutralised, and free-text work history is split into paragraphs and bullet
lists. Residual gender cues the rewriting cannot handle are flagged for review.

Profiles can be built from local JSON records, fetched from Smart Recruiters,
or served over HTTP for the browser bookmarklet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		err = setupLogging(logFormat)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.cvanon/config.json)")
	rootCmd.PersistentFlags().StringVar(&dictionaryFile, "dictionary", "", "job title dictionary, YAML or JSON (default is the built-in dictionary)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// verbosef prints progress to stderr in verbose mode, keeping stdout for
// command output.
func verbosef(format string, args ...any) {
	if getVerbose() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// setupLogging installs the default slog logger. Debug records are only
// written in verbose mode.
func setupLogging(format string) (err error) {
	level := slog.LevelInfo
	if getVerbose() {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		err = errors.Errorf("invalid log format %q (must be text or json)", format)
		return err
	}

	slog.SetDefault(slog.New(handler))
	return err
}

// loadDictionary returns the dictionary named by --dictionary, then by the
// config file, falling back to the built-in one.
func loadDictionary(cfg config.Config) (dict jobtitle.Dictionary, err error) {
	path := dictionaryFile
	if path == "" {
		path = cfg.JobTitleDictionary
	}
	if path == "" {
		dict = jobtitle.DefaultDictionary()
		return dict, err
	}

	verbosef("Loading job title dictionary from: %s\n", path)

	dict, err = jobtitle.LoadDictionary(path)
	return dict, err
}
