package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Options holds the embedded-mode command-line input. It is built once
// per invocation and never mutated afterwards.
type Options struct {
	Jars            []string
	LibraryDirs     []string
	EnvironmentFile string
	SessionID       string
	HistoryFile     string
	ScriptFile      string
	UpdateStatement string
	Overrides       map[string]string
	Help            bool
}

// newEmbeddedFlagSet registers the embedded-mode flags on a fresh flag
// set bound to opts.
func newEmbeddedFlagSet(opts *Options) *pflag.FlagSet {
	fs := pflag.NewFlagSet(modeEmbedded, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringArrayVarP(&opts.Jars, "jar", "j", nil, "Extension to load into the executor (repeatable)")
	fs.StringArrayVarP(&opts.LibraryDirs, "library", "l", nil, "Directory scanned for loadable extensions (repeatable)")
	fs.StringVarP(&opts.EnvironmentFile, "environment", "e", "", "Session environment YAML file")
	fs.StringVarP(&opts.SessionID, "session", "s", "", "Session identifier (default: \"default\")")
	fs.StringVar(&opts.HistoryFile, "history", "", "Statement history file")
	fs.StringVarP(&opts.ScriptFile, "file", "f", "", "Script file to execute and exit")
	fs.StringVarP(&opts.UpdateStatement, "update", "u", "", "Single update statement to submit and exit (deprecated, use --file)")
	fs.StringToStringVar(&opts.Overrides, "set", nil, "Environment override key=value (repeatable, wins over the file)")
	fs.BoolVarP(&opts.Help, "help", "h", false, "Show embedded mode usage")

	return fs
}

// parseEmbeddedOptions parses embedded-mode arguments. The mode token
// has already been stripped by the dispatcher.
func parseEmbeddedOptions(args []string) (*Options, error) {
	opts := &Options{}
	fs := newEmbeddedFlagSet(opts)
	if err := fs.Parse(args); err != nil {
		return nil, wrapClientError("Invalid embedded mode options.", err)
	}
	return opts, nil
}

// Validate checks the mutually exclusive mode-selection options. It
// runs before any side-effecting call in the run path.
func (o *Options) Validate() error {
	if o.ScriptFile != "" && o.UpdateStatement != "" {
		return newClientError(fmt.Sprintf(
			"Please use either option %s or %s. The option %s is deprecated and it's suggested to use %s instead.",
			"--file", "--update", "--update", "--file"))
	}
	return nil
}
