package main

import (
	"fmt"

	"github.com/eh-steve/jitmem/hexfile"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <image|pattern>...",
	Short: "parse code images and report every problem found",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expand(args)
		if err != nil {
			return err
		}
		return checkImages(paths)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkImages parses every path and keeps going on failure, so one bad
// image does not hide problems in the rest.
func checkImages(paths []string) error {
	var result *multierror.Error
	names := map[string]string{}
	for _, path := range paths {
		img, err := hexfile.ParseFile(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if prev, ok := names[img.Name]; ok {
			result = multierror.Append(result,
				errors.Errorf("%s: name %q already used by %s", path, img.Name, prev))
			continue
		}
		names[img.Name] = path
		arch := img.Arch
		if arch == "" {
			arch = "any"
		}
		fmt.Printf("%s: ok name=%s arch=%s bytes=%d\n", path, img.Name, arch, len(img.Code))
	}
	return result.ErrorOrNil()
}
