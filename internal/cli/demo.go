package cli

import (
	"github.com/spf13/cobra"

	"github.com/kruzic-io/kruzic/internal/tui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open the interactive demo",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	return tui.Run(cmd.Context(), conn.client, tui.Info{
		Address:  conn.address,
		DeviceID: conn.session.DeviceID,
		Username: conn.session.Username,
	}, logger)
}
