package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"irremote/internal/config"
	"irremote/internal/flipper"
	"irremote/internal/remote"
)

var codesConfigPath string

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Inspect and import command codes",
}

var codesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active command table",
	Long:  `List the command table from the configuration file, or the compiled-in Samsung codes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := remote.DefaultTable()
		if cmd.Flags().Changed("config") {
			cfg, err := config.LoadConfig(codesConfigPath)
			if err != nil {
				return err
			}
			if table, err = cfg.Table(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "T  LABEL     ADDR    COMMAND")
		for _, c := range table.Codes() {
			fmt.Fprintln(out, c.String())
		}
		return nil
	},
}

var codesImportCmd = &cobra.Command{
	Use:   "import [file.ir]",
	Short: "Convert a Flipper Zero .ir file into a codes block",
	Long: `Parse a Flipper Zero infrared file and print a YAML "codes" block for the
buttons that map onto the bridge tokens. Only parsed Samsung32 signals are used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signals, err := flipper.ParseFile(args[0])
		if err != nil {
			return err
		}

		codes, skipped := flipper.TableFromSignals(signals)
		if len(codes) == 0 {
			return fmt.Errorf("no usable Samsung32 buttons in %s", args[0])
		}

		log.Info().
			Str("file", args[0]).
			Int("signals", len(signals)).
			Int("imported", len(codes)).
			Strs("skipped", skipped).
			Msg("Flipper file imported")

		out, err := yaml.Marshal(struct {
			Codes []config.CodeConfig `yaml:"codes"`
		}{config.CodesFrom(codes)})
		if err != nil {
			return fmt.Errorf("failed to marshal codes: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	codesListCmd.Flags().StringVarP(&codesConfigPath, "config", "c", "irremote.yml", "Configuration file holding a custom code table")

	codesCmd.AddCommand(codesListCmd)
	codesCmd.AddCommand(codesImportCmd)
}
