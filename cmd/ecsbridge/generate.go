package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/ecs-bridge/generator"
)

func newGenerateCmd(cfg *Config) *cobra.Command {
	var (
		namespace        string
		runtimeNamespace string
		force            bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the C# mirror of a schema",
		Long: `Renders one <Name>Authoring.cs per project component, state and prefab
plus BridgeGenerated.cs into --out, replacing every *.cs file there.
With --builtins-out the builtin mirror InbuiltGenerated.cs is written too.

Generation only runs when ECSBRIDGE_GENERATE=true or --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			override(flags, "schema", &cfg.Schema)
			override(flags, "out", &cfg.Out)
			override(flags, "builtins-out", &cfg.BuiltinsOut)

			if !cfg.Generate && !force {
				fmt.Fprintln(cmd.OutOrStdout(), "generation disabled: set ECSBRIDGE_GENERATE=true or pass --force")
				return nil
			}
			if cfg.Out == "" && cfg.BuiltinsOut == "" {
				return fmt.Errorf("no output directory: set --out or ECSBRIDGE_OUT")
			}

			m, err := loadModel(cfg.Schema)
			if err != nil {
				return err
			}
			opts := []generator.Option{
				generator.WithNamespace(namespace),
				generator.WithRuntimeNamespace(runtimeNamespace),
			}

			if cfg.Out != "" {
				res, err := generator.Generate(m, cfg.Out, opts...)
				if err != nil {
					return err
				}
				printResult(cmd, res)
			}
			if cfg.BuiltinsOut != "" {
				res, err := generator.GenerateBuiltins(m, cfg.BuiltinsOut, opts...)
				if err != nil {
					return err
				}
				printResult(cmd, res)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("schema", "", "Schema YAML file (default: the example project)")
	flags.String("out", "", "Directory for the project mirror files")
	flags.String("builtins-out", "", "Directory for InbuiltGenerated.cs")
	flags.StringVar(&namespace, "namespace", generator.DefaultNamespace, "Namespace of the project mirror")
	flags.StringVar(&runtimeNamespace, "runtime-namespace", generator.DefaultRuntimeNamespace, "Namespace of the host runtime types")
	flags.BoolVar(&force, "force", false, "Generate even when ECSBRIDGE_GENERATE is not set")
	return cmd
}

func printResult(cmd *cobra.Command, res *generator.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (schema %s)\n", res.Dir, shortFingerprint(res.Fingerprint))
	for _, name := range res.Written {
		fmt.Fprintf(out, "  wrote   %s\n", name)
	}
	for _, name := range res.Removed {
		fmt.Fprintf(out, "  removed %s\n", name)
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
