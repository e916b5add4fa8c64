package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ratjs/internal/runtime"
	"github.com/cwbudde/ratjs/internal/script"
)

// Loader resolves a path to a compiled Script artifact. Real module
// resolution -- specifier rewriting, node_modules-style lookup -- is an
// explicit Non-goal; Loader is the seam an embedding host plugs a real
// resolver into. fileLoader below only ever reads the single entry-point
// file run is given directly.
type Loader interface {
	Load(path string) (*script.Script, error)
}

type fileLoader struct{}

func (fileLoader) Load(path string) (*script.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return script.NewSerializer().Deserialize(data)
}

var runCmd = &cobra.Command{
	Use:   "run <script-file>",
	Short: "Load a compiled Script and drive it through the runtime",
	Long: `Deserializes a Script artifact, installs a fresh realm, and runs the
script's top-level declaration instantiation and job-queue draining
through internal/runtime.

No bytecode interpreter is built into this binary: decoding and
executing Bytecode is the job of an external Dispatch callback
(internal/runtime.Dispatch) an embedding host supplies. Without one,
run only performs declaration instantiation and microtask draining,
which is enough to validate a Script's binding tables and surface
Validate() errors without a front end attached.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(_ *cobra.Command, args []string) error {
	s, err := (fileLoader{}).Load(args[0])
	if err != nil {
		return err
	}

	rt, err := runtime.New(runtime.WithOutput(os.Stdout))
	if err != nil {
		return fmt.Errorf("initializing runtime: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "loaded %q: %d constants, %d functions\n", s.Name, len(s.Constants), len(s.Functions))
	}

	if err := rt.Eval(rt.Current(), s, nil); err != nil {
		return fmt.Errorf("evaluating %s: %w", args[0], err)
	}
	return nil
}
