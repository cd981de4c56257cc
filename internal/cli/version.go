package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kruzic-io/kruzic/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", styleBrand.Render("Kružić"), styleVersion.Render(buildinfo.Summary()))
		f := newFieldWriter(out, "OS/Arch")
		f.row("Commit", buildinfo.CommitHash)
		f.row("Built", buildinfo.BuildDate)
		f.row("OS/Arch", runtime.GOOS+"/"+runtime.GOARCH)
		f.row("Go", runtime.Version())
	},
}
