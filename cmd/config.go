package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"irremote/internal/config"
	"irremote/internal/remote"
)

var configPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bridge configuration",
	Long:  `Generate or validate bridge configuration files.`,
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a configuration file holding the compiled-in defaults and code table.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) > 0 {
			path = args[0]
		}

		cfg := config.NewDefaultConfig()
		cfg.Codes = config.CodesFrom(remote.DefaultCodes())
		if err := config.SaveConfig(cfg, path); err != nil {
			return fmt.Errorf("failed to save default config: %w", err)
		}

		cmd.Printf("Default configuration saved to: %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax, required fields and duplicate tokens.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) > 0 {
			path = args[0]
		}

		cfg, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		table, err := cfg.Table()
		if err != nil {
			return err
		}

		cmd.Printf("Configuration file is valid: %s\n", path)
		cmd.Printf("Serial port: %s @ %d\n", cfg.Serial.Port, cfg.Serial.Baud)
		cmd.Printf("Transmitter: %s\n", cfg.Transmitter.Kind)
		cmd.Printf("Command codes: %d\n", table.Len())
		return nil
	},
}

func init() {
	configCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "irremote.yml", "Path to configuration file")

	configCmd.AddCommand(configGenerateCmd)
	configCmd.AddCommand(configValidateCmd)
}
