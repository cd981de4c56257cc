package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the SDK self-test",
	Long: `Run the SDK self-test: write a fresh key, read it back, find it in
the listing, delete it and confirm it is gone.

Exits non-zero when a check fails or a call errors.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	report := headless(conn, p).RunTests(cmd.Context())

	summary := fmt.Sprintf("%d passed, %d failed", report.Passed, report.Failed)
	fmt.Fprintln(cmd.OutOrStdout(), outcome(report.OK(), summary))
	if !report.OK() {
		return errReported
	}
	return nil
}
