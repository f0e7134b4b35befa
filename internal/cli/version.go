package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/ariel-frischer/codex-notify/internal/build"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information",
		Long:    "Display version, commit, build date, and Go version information for codex-notify",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// printVersion prints a simple version output for scripting
func printVersion(w io.Writer) {
	if build.IsDevBuild() {
		fmt.Fprintf(w, "codex-notify %s (development build)\n", build.Version)
	} else {
		fmt.Fprintf(w, "codex-notify %s\n", build.Version)
	}
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
