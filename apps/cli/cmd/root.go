package cmd

import (
	"errors"
	"fmt"
	"os"

	hithttp "github.com/abdul-hamid-achik/hitverb/packages/http"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// rootOptions holds the persistent flags shared by every verb.
type rootOptions struct {
	configPath string
	envFile    string
	output     string
	verbose    bool
	noColor    bool
}

// NewRootCmd builds the hitverb command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "hitverb",
		Short: "Send one HTTP request and print the response.",
		Long: `hitverb issues a single HTTP request and prints the response body,
decoded by its content type.

Examples:
  hitverb get https://api.example.com/users/1
  hitverb patch https://api.example.com/users/1 '{"name":"new"}' -j
  hitverb post https://api.example.com/upload @payload.bin -t application/octet-stream
  hitverb get https://api.example.com/items --full --allow-errors -o yaml`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: .hitverb.yaml in . or $HOME)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to .env file for template variables")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "Output format: console, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output and debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	for _, method := range hithttp.Methods {
		rootCmd.AddCommand(newVerbCmd(method, opts))
	}
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func Execute(v, bt string) {
	version = v
	buildTime = bt

	err := NewRootCmd().Execute()
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
