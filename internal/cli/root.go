// Package cli implements the kruzic CLI commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/config"
	"github.com/kruzic-io/kruzic/internal/models"
)

// errReported is returned by commands whose failure was already printed.
var errReported = errors.New("failed")

var (
	verboseFlag bool
	addressFlag string
)

var rootCmd = &cobra.Command{
	Use:   "kruzic",
	Short: "Demo client for the Kružić game platform SDK",
	Long: `Kružić is a demo page for the Kružić game platform SDK.

Without a subcommand it opens the interactive demo. The headless
subcommands drive the same actions and print the log to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := models.NewSettings().Logging.Level
		if settings, err := config.LoadSettings(); err == nil {
			level = settings.Logging.Level
		}
		return setupLogging(verboseFlag, level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runDemo,
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), styleError.Render("Error:")+" "+err.Error())
	}
	if err != nil {
		logger.Debug("command failed", zap.Error(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Write debug output to the diagnostic log")
	rootCmd.PersistentFlags().StringVar(&addressFlag, "address", "", "Platform address (host:port); defaults to the local daemon")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(whoamiCmd)
}
