package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"irremote/cmd/cli"
	"irremote/internal/link"
	"irremote/internal/logger"
	"irremote/internal/remote"
	"irremote/internal/serial"
)

var (
	cliPort   string
	cliBaud   int
	debugFlag bool
	testFlag  bool
)

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Start the interactive remote",
	Long: `Launch the interactive Terminal User Interface (TUI) remote.
Each key press sends one command token to the bridge on the serial port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Set up logging based on debug or test flag
		if debugFlag || testFlag {
			logger.SetSilentMode(false) // Enable logging output
			if debugFlag {
				logger.SetLevel("debug")
			}
		} else {
			logger.SetSilentMode(true) // Keep logging silent
		}

		log := logger.New()
		log.Info().
			Str("port", cliPort).
			Bool("debug", debugFlag).
			Bool("test", testFlag).
			Msg("Starting irremote CLI interface")

		var (
			sender link.Sender
			target = cliPort
			err    error
		)
		if testFlag {
			sender, err = link.NewLoopbackSender(remote.DefaultConfig(), io.Discard)
			target = "loopback"
		} else {
			sender, err = link.DialSerial(serial.Config{Name: cliPort, Baud: cliBaud})
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to open link")
			return err
		}
		defer sender.Close()

		if err := cli.StartTUI(sender, target, debugFlag, testFlag); err != nil {
			log.Error().Err(err).Msg("Failed to start TUI")
			return err
		}

		return nil
	},
}

func init() {
	cliCmd.Flags().StringVarP(&cliPort, "port", "p", "/dev/ttyUSB0", "Serial device connected to the bridge")
	cliCmd.Flags().IntVarP(&cliBaud, "baud", "b", serial.DefaultBaud, "Serial baud rate")
	cliCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	cliCmd.Flags().BoolVar(&testFlag, "test", false, "Enable test mode (dispatch locally with a dry-run transmitter)")
}
