package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"irremote/internal/link"
	"irremote/internal/logger"
	"irremote/internal/remote"
	"irremote/internal/serial"
)

var (
	sendPort     string
	sendBaud     int
	sendInterval time.Duration
	sendTest     bool
)

var sendCmd = &cobra.Command{
	Use:   "send [tokens...]",
	Short: "Send command tokens to a bridge",
	Long: `Send command tokens down a serial link, one byte each, waiting between tokens.
Tokens: P power, M mute, U/D volume, N/L channel, S source.
Example: irremote send P U U --port /dev/ttyUSB0`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens := []byte(strings.Join(args, ""))

		var (
			sender link.Sender
			err    error
		)
		if sendTest {
			sender, err = link.NewLoopbackSender(remote.DefaultConfig(), cmd.OutOrStdout())
		} else {
			sender, err = link.DialSerial(serial.Config{Name: sendPort, Baud: sendBaud})
		}
		if err != nil {
			return err
		}
		defer sender.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.New()
		log.Info().
			Str("port", sendPort).
			Str("tokens", string(tokens)).
			Dur("interval", sendInterval).
			Msg("Sending command tokens")

		if err := link.SendAll(ctx, sender, tokens, sendInterval); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendPort, "port", "p", "/dev/ttyUSB0", "Serial device connected to the bridge")
	sendCmd.Flags().IntVarP(&sendBaud, "baud", "b", serial.DefaultBaud, "Serial baud rate")
	sendCmd.Flags().DurationVarP(&sendInterval, "interval", "i", link.DefaultCooldown, "Pause between tokens")
	sendCmd.Flags().BoolVar(&sendTest, "test", false, "Dispatch locally with a dry-run transmitter instead of using the serial port")
}
