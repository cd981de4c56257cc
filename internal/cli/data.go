package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Read and write saved data",
	Long: `Read and write the key-value data of the current player, or of this
device when nobody is signed in.`,
}

var dataListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved keys and values",
	Args:    cobra.NoArgs,
	RunE:    runDataList,
}

var dataGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value of a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataGet,
}

var dataSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a value under a key",
	Long: `Save a value under a key. A value that parses as JSON is stored as
JSON; anything else is stored as a string. Extra arguments are joined
with spaces.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDataSet,
}

var dataDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a key",
	Args:    cobra.ExactArgs(1),
	RunE:    runDataDelete,
}

func init() {
	dataCmd.AddCommand(dataDeleteCmd)
	dataCmd.AddCommand(dataGetCmd)
	dataCmd.AddCommand(dataListCmd)
	dataCmd.AddCommand(dataSetCmd)
}

func runDataList(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	headless(conn, p).RefreshData(cmd.Context())
	if err := p.result(); err != nil {
		return err
	}
	p.printData()
	return nil
}

func runDataGet(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	headless(conn, p).GetData(cmd.Context(), args[0])
	if err := p.result(); err != nil {
		return err
	}
	p.printValue()
	return nil
}

func runDataSet(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	headless(conn, p).SetData(cmd.Context(), args[0], strings.Join(args[1:], " "))
	return p.result()
}

func runDataDelete(cmd *cobra.Command, args []string) error {
	conn, err := connectPlatform()
	if err != nil {
		return err
	}
	defer conn.Close()

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	headless(conn, p).DeleteData(cmd.Context(), args[0])
	return p.result()
}
