package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set with the -ldflags option at build time.
var version = "devel"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the driver version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jitmem %s %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
