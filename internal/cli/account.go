package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kruzic-io/kruzic/internal/config"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current player",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in as a player",
	Long: `Sign in as a player known to the platform. The token is stored in
~/.kruzic/session.yaml and sent with every later call.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and fall back to device storage",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	headless(conn, p).RefreshUser(cmd.Context())
	if err := p.result(); err != nil {
		return err
	}
	p.printUser(conn.session.DeviceID)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	username := args[0]
	token, err := conn.client.SignIn(ctx, username)
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}
	if err := config.SignInSession(conn.session, username, token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("Signed in as "+username+"."))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	session, err := config.LoadSession()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !session.SignedIn() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}
	if err := config.SignOutSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out. Data is now saved for this device.")
	return nil
}
