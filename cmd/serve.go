package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"irremote/internal/bridge"
	"irremote/internal/config"
	"irremote/internal/logger"
	"irremote/internal/serial"
)

var (
	serveConfigPath string
	servePort       string
	serveStdin      bool
	serveDryRun     bool
	serveDebug      bool
	serveLED        string
	serveHold       time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the serial to infrared bridge",
	Long: `Run the bridge daemon. Every byte received on the serial link is treated as
a command token; known tokens are transmitted as Samsung infrared codes and every
token is acknowledged with "Received command", "Sent" or "Unknown command" lines.
Without a configuration file the compiled-in defaults are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetSilentMode(false)
		logger.SetLevel(serveLogLevel())
		log := logger.New()

		cfg, err := loadServeConfig(cmd)
		if err != nil {
			return err
		}

		log.Info().
			Str("config_path", serveConfigPath).
			Str("port", cfg.Serial.Port).
			Bool("stdin", serveStdin).
			Str("transmitter", cfg.Transmitter.Kind).
			Msg("Starting irremote bridge")

		var opts []bridge.Option
		if serveStdin {
			opts = append(opts, bridge.WithSource(serial.NewReaderSource(os.Stdin)))
		}

		daemon, err := bridge.NewDaemon(cfg, opts...)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create bridge")
			return fmt.Errorf("failed to create bridge: %w", err)
		}

		if err := daemon.Start(); err != nil {
			log.Error().Err(err).Msg("Bridge stopped with error")
			return fmt.Errorf("bridge error: %w", err)
		}
		return nil
	},
}

// serveLogLevel keeps debug output when either --debug or the root --verbose is set
func serveLogLevel() string {
	if serveDebug || verbose {
		return logger.LOG_DEBUG
	}
	return logger.LOG_INFO
}

// loadServeConfig reads the config file when present and applies flag overrides
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if _, err := os.Stat(serveConfigPath); err == nil {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if cmd.Flags().Changed("port") {
		cfg.Serial.Port = servePort
	}
	if serveDryRun {
		cfg.Transmitter.Kind = config.TransmitterDryRun
	}
	if cmd.Flags().Changed("led") {
		cfg.Indicator.Kind = config.IndicatorSysfs
		cfg.Indicator.LED = serveLED
	}
	if cmd.Flags().Changed("hold") {
		cfg.Dispatch.Hold = serveHold
	}
	if serveStdin && cfg.Dispatch.Echo != config.EchoStdout {
		cfg.Dispatch.Echo = config.EchoStdout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "irremote.yml", "Path to configuration file")
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "/dev/ttyUSB0", "Serial device to read tokens from")
	serveCmd.Flags().BoolVar(&serveStdin, "stdin", false, "Read tokens from standard input instead of the serial port")
	serveCmd.Flags().BoolVar(&serveDryRun, "dry-run", false, "Log transmissions instead of driving the IR LED")
	serveCmd.Flags().BoolVarP(&serveDebug, "debug", "d", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveLED, "led", "", "Kernel LED name used as status indicator")
	serveCmd.Flags().DurationVar(&serveHold, "hold", 100*time.Millisecond, "How long the status indicator stays on per command")
}
