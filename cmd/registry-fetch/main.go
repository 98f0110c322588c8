package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xlts-tools/registry-fetch/internal/catalog"
	"github.com/xlts-tools/registry-fetch/internal/fetcher"
	"github.com/xlts-tools/registry-fetch/internal/logger"
	"github.com/xlts-tools/registry-fetch/internal/registry"
	"github.com/xlts-tools/registry-fetch/internal/workspace"
)

var version = "dev"

var logLevel string

func main() {
	if err := createRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func createRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry-fetch <token>",
		Short: "Download and extract the AngularJS package set from the registry",
		Long: `registry-fetch resolves the latest published version of the AngularJS
package set, downloads every tarball from the registry and extracts each
one into a per-package directory next to the binary.

The single argument is the registry bearer token. The tarballs/ and
packages/ directories are wiped and rebuilt on every run.`,
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tok := args[0]
			if tok == "" {
				return fmt.Errorf("authentication token must not be empty")
			}

			root, err := workspace.DefaultRoot()
			if err != nil {
				return err
			}

			return fetcher.Run(cmd.Context(), fetcher.Options{
				Token:    tok,
				Registry: catalog.Registry,
				Client:   registry.NewClient(catalog.Registry, tok),
				Root:     root,
				Stdin:    cmd.InOrStdin(),
				Stdout:   cmd.OutOrStdout(),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")

	return cmd
}

// resolveRequestedLogLevel prefers an explicit --log-level over the
// --verbose shorthand.
func resolveRequestedLogLevel(cmd *cobra.Command) string {
	if logLevel != "" {
		return logLevel
	}
	if cmd == nil {
		return ""
	}
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		return "debug"
	}
	return ""
}

func initLogging(cmd *cobra.Command) error {
	level, err := logger.ParseLevel(resolveRequestedLogLevel(cmd))
	if err != nil {
		return err
	}
	z, err := logger.New(level)
	if err != nil {
		return err
	}
	logger.Init(z)
	return nil
}
