package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kruzic-io/kruzic/internal/config"
	"github.com/kruzic-io/kruzic/internal/models"
)

var configureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config"},
	Short:   "Configure global settings",
	Long: `Configure ~/.kruzic/settings.yaml interactively.

This allows you to modify:
  - Platform address used by the demo
  - Daemon storage backend and its location
  - Daemon ports
  - Diagnostic logging level

Press Enter to keep the current value for any setting. Daemon changes
take effect on the next daemon start.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	changed := false
	set := func(dst *string, v string) {
		if v != *dst {
			*dst = v
			changed = true
		}
	}

	// Demo
	set(&settings.Platform.Address, p.text("Platform address (empty = local daemon)", settings.Platform.Address, true))

	// Storage
	fmt.Fprintln(p.out, "\nDaemon settings:")
	store := &settings.Daemon.Store
	backend := p.text("  Storage backend (memory, sqlite, redis)", store.Backend, false)
	set(&store.Backend, strings.ToLower(backend))
	switch store.Backend {
	case models.BackendSQLite:
		set(&store.SQLitePath, p.text("  SQLite path (empty = default)", store.SQLitePath, true))
	case models.BackendRedis:
		set(&store.RedisAddr, p.text("  Redis address", store.RedisAddr, false))
	}

	port, err := p.number("  gRPC port (0 = dynamic)", settings.Daemon.Port)
	if err != nil {
		return err
	}
	httpPort, err := p.number("  HTTP port (0 = dynamic, -1 = disabled)", settings.Daemon.HTTPPort)
	if err != nil {
		return err
	}
	if port != settings.Daemon.Port || httpPort != settings.Daemon.HTTPPort {
		settings.Daemon.Port = port
		settings.Daemon.HTTPPort = httpPort
		changed = true
	}

	// Logging
	set(&settings.Logging.Level, p.text("\nLogging level (debug, info, warn, error)", settings.Logging.Level, false))

	if !changed {
		fmt.Fprintln(p.out, "\nNo changes made.")
		return nil
	}

	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Fprintln(p.out, "\nSettings updated.")
	return nil
}

// prompter reads answers line by line, showing the current value.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// text prompts for a string. With clearable, "-" empties the value.
func (p *prompter) text(prompt, current string, clearable bool) string {
	fmt.Fprintf(p.out, "%s [%s]: ", prompt, current)
	response, _ := p.in.ReadString('\n')
	response = strings.TrimSpace(response)

	switch {
	case response == "":
		return current
	case clearable && response == "-":
		return ""
	}
	return response
}

func (p *prompter) number(prompt string, current int) (int, error) {
	response := p.text(prompt, strconv.Itoa(current), false)
	n, err := strconv.Atoi(response)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", response)
	}
	return n, nil
}
