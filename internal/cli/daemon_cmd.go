package cli

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kruzic-io/kruzic/internal/config"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the platform daemon",
	Long:  `Manage kruzicd, the local emulator of the Kružić platform.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

var trayFlag bool

func init() {
	daemonStartCmd.Flags().BoolVar(&trayFlag, "tray", false, "Show the system tray icon")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running && info != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Daemon is already running (PID %d, port %d).\n", info.PID, info.Port)
		return nil
	}

	// Clean up stale daemon info if it exists
	if info != nil {
		_ = config.RemoveDaemonInfo()
	}

	fmt.Fprint(cmd.OutOrStdout(), "Starting daemon...")
	if startErr := startDaemon(trayFlag); startErr != nil {
		fmt.Fprintln(cmd.OutOrStdout())
		return startErr
	}

	// Fetch fresh status to display
	_, freshInfo, err := GetDaemonStatus()
	if err != nil || freshInfo == nil {
		fmt.Fprintln(cmd.OutOrStdout(), " started.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), " started (PID %d, port %d, %s storage).\n", freshInfo.PID, freshInfo.Port, freshInfo.Backend)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	running, info, err := GetDaemonStatus()
	if err != nil {
		return err
	}

	if !running || info == nil {
		fmt.Fprintln(cmd.OutOrStdout(), styleWarning.Render("Daemon is not running.")+" "+
			styleHint.Render("Start it with ")+styleCommand.Render("kruzic daemon start"))
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, styleSuccess.Render("Daemon is running."))
	f := newFieldWriter(out, "Storage", "Uptime")
	f.row("Host", info.Host)
	f.row("Port", strconv.Itoa(info.Port))
	if url := info.AdminURL(); url != "" {
		f.row("HTTP", url)
	}
	f.row("Storage", info.Backend)
	f.row("PID", strconv.Itoa(info.PID))
	f.row("Uptime", uptime.String())
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running || info == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running.")
		return nil
	}

	// Send SIGTERM to the daemon process
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find daemon process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		stillRunning, _, err := config.IsDaemonRunning()
		if err == nil && !stillRunning {
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped.")
			return nil
		}
	}

	return fmt.Errorf("daemon did not stop within timeout")
}
