package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/eh-steve/jitmem/procmaps"
	"github.com/spf13/cobra"
)

var allMaps bool

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "list this process's executable mappings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		maps, err := procmaps.Self()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "START\tEND\tPERMS\tPATH")
		for _, m := range maps {
			if !m.Exec && !allMaps {
				continue
			}
			fmt.Fprintf(w, "%#x\t%#x\t%s\t%s\n", m.Start, m.End, m.Perms(), m.Path)
		}
		return w.Flush()
	},
}

func init() {
	mapsCmd.Flags().BoolVar(&allMaps, "all", false, "include non-executable mappings")
	rootCmd.AddCommand(mapsCmd)
}
