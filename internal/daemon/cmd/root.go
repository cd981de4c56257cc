// Package cmd implements the kruzicd command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/config"
	"github.com/kruzic-io/kruzic/internal/logging"
	"github.com/kruzic-io/kruzic/internal/models"
)

var (
	foregroundFlag bool
	verboseFlag    bool
	portFlag       int
	httpPortFlag   int
	storeFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "kruzicd",
	Short: "Local emulator of the Kružić game platform",
	Long: `kruzicd emulates the Kružić platform on this machine: player
identity and per-player key-value storage over gRPC, plus grpc-web,
metrics and an admin API over HTTP.

Settings come from ~/.kruzic/settings.yaml; flags override them.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDaemon,
}

// Execute runs the daemon command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&foregroundFlag, "foreground", false, "Run without the system tray")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log at debug level")
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "gRPC port (0 for dynamic allocation)")
	rootCmd.Flags().IntVar(&httpPortFlag, "http-port", 0, "HTTP port for grpc-web, metrics and admin (0 for dynamic, -1 to disable)")
	rootCmd.Flags().StringVar(&storeFlag, "store", "", "Storage backend: memory, sqlite or redis")
}

// loadSettings reads settings.yaml and applies the flags that were set.
func loadSettings(cmd *cobra.Command) (*models.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		settings.Daemon.Port = portFlag
	}
	if flags.Changed("http-port") {
		settings.Daemon.HTTPPort = httpPortFlag
	}
	if flags.Changed("store") {
		settings.Daemon.Store.Backend = storeFlag
	}
	if settings.Daemon.Store.Backend == models.BackendSQLite && settings.Daemon.Store.SQLitePath == "" {
		if settings.Daemon.Store.SQLitePath, err = config.DefaultSQLitePath(); err != nil {
			return nil, err
		}
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// newLogger builds the daemon's stderr logger.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:   level,
		Verbose: verbose,
		Console: true,
		Name:    "kruzicd",
	})
	if err != nil {
		return nil, err
	}
	return logger.With(zap.Int("pid", os.Getpid())), nil
}
