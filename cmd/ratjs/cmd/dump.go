package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ratjs/internal/script"
)

var dumpYAML bool

var dumpCmd = &cobra.Command{
	Use:   "dump <script-file>",
	Short: "Dump a compiled Script artifact as JSON or YAML",
	Long: `Deserialize a Script artifact (the binary format internal/script.Serializer
produces) and print its constant table, binding declarations, function
records, and import/export tables in a human-readable form.

Examples:
  ratjs dump program.rjsc
  ratjs dump --yaml program.rjsc`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpYAML, "yaml", false, "dump as YAML instead of JSON")
}

func runDump(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	s, err := script.NewSerializer().Deserialize(data)
	if err != nil {
		return fmt.Errorf("deserializing %s: %w", args[0], err)
	}

	var out string
	if dumpYAML {
		out, err = s.DumpYAML()
	} else {
		out, err = s.DumpJSON()
	}
	if err != nil {
		return fmt.Errorf("dumping %s: %w", args[0], err)
	}

	fmt.Println(out)
	return nil
}
