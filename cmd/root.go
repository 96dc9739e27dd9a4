package cmd

import (
	"github.com/spf13/cobra"
	"irremote/internal/logger"
)

var (
	verbose bool
	log     = logger.New()
)

var rootCmd = &cobra.Command{
	Use:   "irremote",
	Short: "irremote - serial to infrared TV remote bridge",
	Long: `irremote reads single-character commands from a serial link and transmits
the matching infrared codes to a television. It also ships the host side:
a sender for scripted tokens and an interactive terminal remote.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetSilentMode(false)
			logger.SetLevel("debug")
		}
		log = logger.New()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(cliCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(codesCmd)
	rootCmd.AddCommand(configCmd)
}
