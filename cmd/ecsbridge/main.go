package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/ecs-bridge/examples/rotate"
	"github.com/wippyai/ecs-bridge/generator"
	"github.com/wippyai/ecs-bridge/schema"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg     Config
		verbose bool
	)

	root := &cobra.Command{
		Use:           "ecsbridge",
		Short:         "Schema tooling for the embedded ECS bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				generator.SetLogger(l)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log what the tools do")

	root.AddCommand(
		newGenerateCmd(&cfg),
		newInspectCmd(&cfg),
		newRunCmd(&verbose),
	)
	return root
}

// loadModel reads a schema file, or the example project's schema when path
// is empty.
func loadModel(path string) (*schema.Model, error) {
	if path == "" {
		return rotate.Model()
	}
	return schema.Load(path)
}
