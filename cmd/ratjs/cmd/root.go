package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ratjs",
	Short: "Embeddable ECMAScript execution core",
	Long: `ratjs hosts the object model, garbage collector, and job queue an
ECMAScript engine runs on: value representation, environment records,
realms, the ten-operation object protocol, and the promise job queue.

It does not parse source or decode bytecode itself — that is supplied by
an external front end through a Script artifact (internal/script) and a
Dispatch callback (internal/runtime). This binary drives that artifact
through the runtime for inspection and scripted testing.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
